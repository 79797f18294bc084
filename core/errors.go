package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden caller is not the owner nor a permitted runner
	ErrOperationForbidden ErrorCode = 100001
	// ErrPaused the protocol is paused
	ErrPaused ErrorCode = 100002
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100003

	// ErrPoolNotFound no pool for the requested underlying asset
	ErrPoolNotFound ErrorCode = 100100
	// ErrInsufficientLiquidity borrow amount exceeds pool cash
	ErrInsufficientLiquidity ErrorCode = 100101
	// ErrAmountTooHigh repay amount exceeds the outstanding loan
	ErrAmountTooHigh ErrorCode = 100102
	// ErrInsufficientShares burn amount exceeds the share balance
	ErrInsufficientShares ErrorCode = 100103

	// ErrPositionNotFound no position with the given id
	ErrPositionNotFound ErrorCode = 100200
	// ErrNotSafe operation would push the position above its safety LTV
	ErrNotSafe ErrorCode = 100201
	// ErrTooMuchCollateral collateral cap of the asset exceeded
	ErrTooMuchCollateral ErrorCode = 100202
	// ErrBadBlock conflicting operation on the position in the same block
	ErrBadBlock ErrorCode = 100203
	// ErrNotLiquidatable position LTV at or below the liquidation LTV
	ErrNotLiquidatable ErrorCode = 100204
	// ErrTooMuchLiquidation repay amount exceeds half the outstanding debt
	ErrTooMuchLiquidation ErrorCode = 100205
	// ErrPositiveCollateral selfless liquidation on a position with collateral left
	ErrPositiveCollateral ErrorCode = 100206
	// ErrInsufficientCollateral take amount exceeds the position collateral
	ErrInsufficientCollateral ErrorCode = 100207

	// ErrNoRiskConfig risk tier unset or asset blacklisted
	ErrNoRiskConfig ErrorCode = 100300
	// ErrNoCollateralFactor collateral factor unset for the asset
	ErrNoCollateralFactor ErrorCode = 100301

	// ErrNoPrice oracle cannot value the asset
	ErrNoPrice ErrorCode = 100400
	// ErrPriceNotReady first averaging window has not elapsed yet
	ErrPriceNotReady ErrorCode = 100401
	// ErrPriceUninitialized accumulator was never seeded for the asset
	ErrPriceUninitialized ErrorCode = 100402
	// ErrPriceInitialized accumulator already seeded for the asset
	ErrPriceInitialized ErrorCode = 100403
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
