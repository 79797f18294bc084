package pool

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/internal/lever"
)

// BootstrapAccount reserved account holding the bootstrap shares
const BootstrapAccount = "00000000-0000-0000-0000-000000000001"

type service struct {
	db       *db.DB
	pools    core.IPoolStore
	supplies core.ISupplyStore
	gate     core.IGateService
	model    lever.InterestModel
}

// New new pool service
func New(
	cfg *core.Config,
	database *db.DB,
	pools core.IPoolStore,
	supplies core.ISupplyStore,
	gate core.IGateService,
) core.IPoolService {
	return &service{
		db:       database,
		pools:    pools,
		supplies: supplies,
		gate:     gate,
		model: lever.InterestModel{
			MinRate:    cfg.Rate.MinRate,
			MaxRate:    cfg.Rate.MaxRate,
			AdjustRate: cfg.Rate.AdjustRate,
		},
	}
}

// Accrue folds elapsed interest into the loan book, skims the reserve
// slice to the beneficiary as freshly minted shares and moves the rate
// along the model curve.
func (s *service) Accrue(ctx context.Context, tx *db.DB, pool *core.Pool, now time.Time) error {
	elapsed := int64(now.Sub(pool.LastAccruedAt).Seconds())
	if elapsed <= 0 {
		return nil
	}

	nextRate := s.model.NextInterestRate(pool.InterestRate, pool.TotalAvailable, pool.TotalLoan, elapsed)
	interest := lever.Interest(pool.TotalLoan, pool.InterestRate, elapsed)

	pool.TotalLoan = pool.TotalLoan.Add(interest)

	skim := interest.Mul(pool.ReserveRate).Truncate(lever.MaxPricision)
	if skim.IsPositive() && pool.Beneficiary != "" {
		shares := lever.ReserveShares(skim, pool.SupplyValue(), pool.TotalSupplyShares)
		if shares.IsPositive() {
			if err := s.addShares(ctx, tx, pool.Beneficiary, pool.AssetID, shares); err != nil {
				return err
			}
			pool.TotalSupplyShares = pool.TotalSupplyShares.Add(shares)
		}
	}

	pool.InterestRate = nextRate
	pool.LastAccruedAt = now

	return s.pools.Update(ctx, tx, pool)
}

func (s *service) Deposit(ctx context.Context, tx *db.DB, pool *core.Pool, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := s.checkGate(ctx); err != nil {
		return decimal.Zero, err
	}

	if !amount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	// first deposit seeds the bootstrap balances so the share price
	// cannot be reset by draining the pool
	if pool.TotalSupplyShares.LessThanOrEqual(decimal.Zero) {
		seed := lever.BootstrapShares
		if amount.LessThanOrEqual(seed) {
			return decimal.Zero, core.ErrInvalidAmount
		}

		shares := amount.Sub(seed)

		if err := s.addShares(ctx, tx, BootstrapAccount, pool.AssetID, seed); err != nil {
			return decimal.Zero, err
		}
		if err := s.addShares(ctx, tx, userID, pool.AssetID, shares); err != nil {
			return decimal.Zero, err
		}

		pool.TotalAvailable = pool.TotalAvailable.Add(shares)
		pool.TotalLoan = pool.TotalLoan.Add(seed)
		pool.TotalDebtShares = pool.TotalDebtShares.Add(seed)
		pool.TotalSupplyShares = pool.TotalSupplyShares.Add(amount)

		if err := s.pools.Update(ctx, tx, pool); err != nil {
			return decimal.Zero, err
		}

		return shares, nil
	}

	shares := lever.AmountToSupplyShares(amount, pool.TotalAvailable, pool.TotalLoan, pool.TotalSupplyShares)
	if !shares.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	if err := s.addShares(ctx, tx, userID, pool.AssetID, shares); err != nil {
		return decimal.Zero, err
	}

	pool.TotalAvailable = pool.TotalAvailable.Add(amount)
	pool.TotalSupplyShares = pool.TotalSupplyShares.Add(shares)

	if err := s.pools.Update(ctx, tx, pool); err != nil {
		return decimal.Zero, err
	}

	return shares, nil
}

func (s *service) Withdraw(ctx context.Context, tx *db.DB, pool *core.Pool, userID string, shares decimal.Decimal) (decimal.Decimal, error) {
	if err := s.checkGate(ctx); err != nil {
		return decimal.Zero, err
	}

	if !shares.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	supply, err := s.supplies.Find(ctx, userID, pool.AssetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, core.ErrInsufficientShares
		}
		return decimal.Zero, err
	}

	if shares.GreaterThan(supply.Shares) {
		return decimal.Zero, core.ErrInsufficientShares
	}

	amount := lever.SupplySharesToAmount(shares, pool.TotalAvailable, pool.TotalLoan, pool.TotalSupplyShares)
	if amount.GreaterThan(pool.TotalAvailable) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	supply.Shares = supply.Shares.Sub(shares)
	if err := s.supplies.Update(ctx, tx, supply); err != nil {
		return decimal.Zero, err
	}

	pool.TotalAvailable = pool.TotalAvailable.Sub(amount)
	pool.TotalSupplyShares = pool.TotalSupplyShares.Sub(shares)

	if err := s.pools.Update(ctx, tx, pool); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

func (s *service) Borrow(ctx context.Context, tx *db.DB, pool *core.Pool, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	if amount.GreaterThan(pool.TotalAvailable) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	shares := lever.AmountToDebtShares(amount, pool.TotalLoan, pool.TotalDebtShares)

	pool.TotalAvailable = pool.TotalAvailable.Sub(amount)
	pool.TotalLoan = pool.TotalLoan.Add(amount)
	pool.TotalDebtShares = pool.TotalDebtShares.Add(shares)

	if err := s.pools.Update(ctx, tx, pool); err != nil {
		return decimal.Zero, err
	}

	return shares, nil
}

func (s *service) Repay(ctx context.Context, tx *db.DB, pool *core.Pool, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	if amount.GreaterThan(pool.TotalLoan) {
		return decimal.Zero, core.ErrAmountTooHigh
	}

	var shares decimal.Decimal
	if amount.Equal(pool.TotalLoan) {
		shares = pool.TotalDebtShares
	} else {
		shares = lever.AmountToRepaidShares(amount, pool.TotalLoan, pool.TotalDebtShares)
		if shares.GreaterThan(pool.TotalDebtShares) {
			shares = pool.TotalDebtShares
		}
	}

	pool.TotalAvailable = pool.TotalAvailable.Add(amount)
	pool.TotalLoan = pool.TotalLoan.Sub(amount)
	pool.TotalDebtShares = pool.TotalDebtShares.Sub(shares)

	if err := s.pools.Update(ctx, tx, pool); err != nil {
		return decimal.Zero, err
	}

	return shares, nil
}

// DebtShareValue underlying owed for the given debt shares at the
// pool's current share price
func (s *service) DebtShareValue(pool *core.Pool, shares decimal.Decimal) decimal.Decimal {
	return lever.DebtShareValue(shares, pool.TotalLoan, pool.TotalDebtShares)
}

func (s *service) SetReserveInfo(ctx context.Context, assetID string, reserveRate decimal.Decimal, beneficiary string) error {
	if reserveRate.IsNegative() || reserveRate.GreaterThanOrEqual(decimal.New(1, 0)) {
		return core.ErrInvalidAmount
	}

	if beneficiary == "" {
		return core.ErrOperationForbidden
	}

	pool, err := s.pools.Find(ctx, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.ErrPoolNotFound
		}
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		pool.ReserveRate = reserveRate
		pool.Beneficiary = beneficiary
		return s.pools.Update(ctx, tx, pool)
	})
}

func (s *service) checkGate(ctx context.Context) error {
	paused, err := s.gate.Paused(ctx)
	if err != nil {
		return err
	}

	if paused {
		return core.ErrPaused
	}

	return nil
}

func (s *service) addShares(ctx context.Context, tx *db.DB, userID, assetID string, delta decimal.Decimal) error {
	supply, err := s.supplies.Find(ctx, userID, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return s.supplies.Save(ctx, tx, &core.Supply{
				UserID:  userID,
				AssetID: assetID,
				Shares:  delta,
			})
		}
		return err
	}

	supply.Shares = supply.Shares.Add(delta)
	return s.supplies.Update(ctx, tx, supply)
}
