package lever

import (
	"github.com/shopspring/decimal"
)

// LTV loan to value of a position, reference denominated.
// ltv = debt_value / (collateral_value * factor)
//
// Zero without debt; one when debt is outstanding against a worthless
// borrowing base.
func LTV(debtValue, collateralValue, factor decimal.Decimal) decimal.Decimal {
	if !debtValue.IsPositive() {
		return decimal.Zero
	}

	base := collateralValue.Mul(factor)
	if !base.IsPositive() {
		return decimal.New(1, 0)
	}

	return floorAt(debtValue, base, MaxPricision)
}

// SeizedCollateral collateral units surrendered to a liquidator for a
// repayment, rounded down and capped by what the position holds.
// seized = repay_value * (1 + bounty) / collateral_price
func SeizedCollateral(repayValue, collateralPrice, bountyRate, collateralAmount decimal.Decimal) decimal.Decimal {
	if !collateralPrice.IsPositive() {
		return collateralAmount
	}

	seized := floorAt(repayValue.Mul(decimal.New(1, 0).Add(bountyRate)), collateralPrice, MaxPricision)
	return decimal.Min(seized, collateralAmount)
}
