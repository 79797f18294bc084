package position

import (
	"context"
	"sync"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/internal/lever"
	"lever/pkg/id"
)

type service struct {
	db        *db.DB
	pools     core.IPoolStore
	positions core.IPositionStore
	risks     core.IRiskStore
	poolz     core.IPoolService
	riskz     core.IRiskService
	oracle    core.IOracleService
	blocks    core.IBlockService
	gate      core.IGateService
	transfers core.ITransferService

	// serializes every mutating ledger operation
	mux sync.Mutex
}

// New new position service
func New(
	database *db.DB,
	pools core.IPoolStore,
	positions core.IPositionStore,
	risks core.IRiskStore,
	poolz core.IPoolService,
	riskz core.IRiskService,
	oracle core.IOracleService,
	blocks core.IBlockService,
	gate core.IGateService,
	transfers core.ITransferService,
) core.IPositionService {
	return &service{
		db:        database,
		pools:     pools,
		positions: positions,
		risks:     risks,
		poolz:     poolz,
		riskz:     riskz,
		oracle:    oracle,
		blocks:    blocks,
		gate:      gate,
		transfers: transfers,
	}
}

// Open creates an empty position once the pool, the collateral config
// and both prices check out. Ids are sequential per owner.
func (s *service) Open(ctx context.Context, caller, owner, underlying, collateral string) (int64, error) {
	if err := s.checkCaller(ctx, caller, owner); err != nil {
		return 0, err
	}

	pool, err := s.findPool(ctx, underlying)
	if err != nil {
		return 0, err
	}

	if _, err := s.riskz.CollateralFactor(ctx, collateral); err != nil {
		return 0, err
	}

	for _, asset := range []string{underlying, collateral} {
		price, err := s.oracle.GetPrice(ctx, asset)
		if err != nil {
			return 0, err
		}
		if !price.IsPositive() {
			return 0, core.ErrNoPrice
		}
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return 0, err
	}

	var positionID int64
	err = s.db.Tx(func(tx *db.DB) error {
		positionID, err = s.positions.NextPositionID(ctx, owner)
		if err != nil {
			return err
		}

		// opening counts as a borrow-family mutation so nothing can
		// be taken out of the position in the very same block
		return s.positions.Create(ctx, tx, &core.Position{
			Owner:             owner,
			PositionID:        positionID,
			PoolAssetID:       pool.AssetID,
			CollateralAssetID: collateral,
			BlockBorrowPut:    block,
		})
	})
	if err != nil {
		return 0, err
	}

	return positionID, nil
}

func (s *service) Put(ctx context.Context, caller, owner string, positionID int64, amount decimal.Decimal) error {
	if err := s.checkCaller(ctx, caller, owner); err != nil {
		return err
	}

	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		position, err := s.findPosition(ctx, owner, positionID)
		if err != nil {
			return err
		}

		if !position.AllowBorrowPut(block) {
			return core.ErrBadBlock
		}

		collateral, err := s.risks.FindCollateral(ctx, position.CollateralAssetID)
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return core.ErrNoCollateralFactor
			}
			return err
		}

		if collateral.TotalLocked.Add(amount).GreaterThan(collateral.Cap) {
			return core.ErrTooMuchCollateral
		}

		position.CollateralAmount = position.CollateralAmount.Add(amount)
		position.BlockBorrowPut = block
		if err := s.positions.Update(ctx, tx, position); err != nil {
			return err
		}

		collateral.TotalLocked = collateral.TotalLocked.Add(amount)
		if err := s.risks.UpdateCollateral(ctx, tx, collateral); err != nil {
			return err
		}

		return s.transfers.TransferIn(ctx, tx, owner, position.CollateralAssetID, amount, &core.TransferAction{
			FollowID: id.GenTraceID(),
			Source:   "put",
			Owner:    owner,
			Position: positionID,
		})
	})
}

func (s *service) Take(ctx context.Context, caller, owner string, positionID int64, amount decimal.Decimal) error {
	if err := s.checkCaller(ctx, caller, owner); err != nil {
		return err
	}

	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		position, err := s.findPosition(ctx, owner, positionID)
		if err != nil {
			return err
		}

		if !position.AllowRepayTake(block) {
			return core.ErrBadBlock
		}

		if amount.GreaterThan(position.CollateralAmount) {
			return core.ErrInsufficientCollateral
		}

		pool, err := s.findPool(ctx, position.PoolAssetID)
		if err != nil {
			return err
		}

		if err := s.poolz.Accrue(ctx, tx, pool, time.Now()); err != nil {
			return err
		}

		position.CollateralAmount = position.CollateralAmount.Sub(amount)

		if position.DebtShares.IsPositive() {
			safety, err := s.riskz.SafetyLTV(ctx, position.CollateralAssetID)
			if err != nil {
				return err
			}

			ltv, err := s.ltv(ctx, pool, position)
			if err != nil {
				return err
			}

			if ltv.GreaterThan(safety) {
				return core.ErrNotSafe
			}
		}

		position.BlockRepayTake = block
		if err := s.positions.Update(ctx, tx, position); err != nil {
			return err
		}

		if err := s.unlockCollateral(ctx, tx, position.CollateralAssetID, amount); err != nil {
			return err
		}

		return s.transfers.TransferOut(ctx, tx, owner, position.CollateralAssetID, amount, &core.TransferAction{
			FollowID: id.GenTraceID(),
			Source:   "take",
			Owner:    owner,
			Position: positionID,
		})
	})
}

func (s *service) Borrow(ctx context.Context, caller, owner string, positionID int64, amount decimal.Decimal) error {
	if err := s.checkCaller(ctx, caller, owner); err != nil {
		return err
	}

	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		position, err := s.findPosition(ctx, owner, positionID)
		if err != nil {
			return err
		}

		if !position.AllowBorrowPut(block) {
			return core.ErrBadBlock
		}

		pool, err := s.findPool(ctx, position.PoolAssetID)
		if err != nil {
			return err
		}

		if err := s.poolz.Accrue(ctx, tx, pool, time.Now()); err != nil {
			return err
		}

		shares, err := s.poolz.Borrow(ctx, tx, pool, amount)
		if err != nil {
			return err
		}

		position.DebtShares = position.DebtShares.Add(shares)

		safety, err := s.riskz.SafetyLTV(ctx, position.CollateralAssetID)
		if err != nil {
			return err
		}

		ltv, err := s.ltv(ctx, pool, position)
		if err != nil {
			return err
		}

		if ltv.GreaterThan(safety) {
			return core.ErrNotSafe
		}

		position.BlockBorrowPut = block
		if err := s.positions.Update(ctx, tx, position); err != nil {
			return err
		}

		return s.transfers.TransferOut(ctx, tx, owner, pool.AssetID, amount, &core.TransferAction{
			FollowID: id.GenTraceID(),
			Source:   "borrow",
			Owner:    owner,
			Position: positionID,
		})
	})
}

func (s *service) Repay(ctx context.Context, caller, owner string, positionID int64, amount decimal.Decimal) error {
	if err := s.checkCaller(ctx, caller, owner); err != nil {
		return err
	}

	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		position, err := s.findPosition(ctx, owner, positionID)
		if err != nil {
			return err
		}

		if !position.AllowRepayTake(block) {
			return core.ErrBadBlock
		}

		pool, err := s.findPool(ctx, position.PoolAssetID)
		if err != nil {
			return err
		}

		if err := s.poolz.Accrue(ctx, tx, pool, time.Now()); err != nil {
			return err
		}

		pay, err := s.repayDebt(ctx, tx, pool, position, amount)
		if err != nil {
			return err
		}

		position.BlockRepayTake = block
		if err := s.positions.Update(ctx, tx, position); err != nil {
			return err
		}

		return s.transfers.TransferIn(ctx, tx, owner, pool.AssetID, pay, &core.TransferAction{
			FollowID: id.GenTraceID(),
			Source:   "repay",
			Owner:    owner,
			Position: positionID,
		})
	})
}

// Liquidate lets anyone repay up to half of an unhealthy position's
// debt and seize collateral worth the repayment plus the bounty.
func (s *service) Liquidate(ctx context.Context, liquidator, owner string, positionID int64, repayAmount decimal.Decimal) (decimal.Decimal, error) {
	if err := s.checkGate(ctx); err != nil {
		return decimal.Zero, err
	}

	if !repayAmount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	var seized decimal.Decimal
	err := s.db.Tx(func(tx *db.DB) error {
		position, err := s.findPosition(ctx, owner, positionID)
		if err != nil {
			return err
		}

		pool, err := s.findPool(ctx, position.PoolAssetID)
		if err != nil {
			return err
		}

		if err := s.poolz.Accrue(ctx, tx, pool, time.Now()); err != nil {
			return err
		}

		liquidation, err := s.riskz.LiquidationLTV(ctx, position.CollateralAssetID)
		if err != nil {
			return err
		}

		ltv, err := s.ltv(ctx, pool, position)
		if err != nil {
			return err
		}

		if ltv.LessThanOrEqual(liquidation) {
			return core.ErrNotLiquidatable
		}

		owed := s.poolz.DebtShareValue(pool, position.DebtShares)
		if repayAmount.Mul(decimal.New(2, 0)).GreaterThan(owed) {
			return core.ErrTooMuchLiquidation
		}

		cleared, err := s.poolz.Repay(ctx, tx, pool, repayAmount)
		if err != nil {
			return err
		}

		position.DebtShares = position.DebtShares.Sub(decimal.Min(cleared, position.DebtShares))

		bounty, err := s.riskz.KillBountyRate(ctx, position.CollateralAssetID)
		if err != nil {
			return err
		}

		repayValue, err := s.oracle.GetValue(ctx, pool.AssetID, repayAmount)
		if err != nil {
			return err
		}

		collPrice, err := s.oracle.GetPrice(ctx, position.CollateralAssetID)
		if err != nil {
			return err
		}

		seized = lever.SeizedCollateral(repayValue, collPrice, bounty, position.CollateralAmount)

		position.CollateralAmount = position.CollateralAmount.Sub(seized)
		if err := s.positions.Update(ctx, tx, position); err != nil {
			return err
		}

		if err := s.unlockCollateral(ctx, tx, position.CollateralAssetID, seized); err != nil {
			return err
		}

		followID := id.GenTraceID()
		if err := s.transfers.TransferIn(ctx, tx, liquidator, pool.AssetID, repayAmount, &core.TransferAction{
			FollowID: followID,
			Source:   "liquidate",
			Owner:    owner,
			Position: positionID,
		}); err != nil {
			return err
		}

		return s.transfers.TransferOut(ctx, tx, liquidator, position.CollateralAssetID, seized, &core.TransferAction{
			FollowID: followID,
			Source:   "liquidate",
			Owner:    owner,
			Position: positionID,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}

	return seized, nil
}

// SelflessLiquidate clears bad debt from a position whose collateral
// is exhausted. Nothing is seized in return.
func (s *service) SelflessLiquidate(ctx context.Context, liquidator, owner string, positionID int64, repayAmount decimal.Decimal) error {
	if err := s.checkGate(ctx); err != nil {
		return err
	}

	if !repayAmount.IsPositive() {
		return core.ErrInvalidAmount
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	return s.db.Tx(func(tx *db.DB) error {
		position, err := s.findPosition(ctx, owner, positionID)
		if err != nil {
			return err
		}

		if position.CollateralAmount.IsPositive() {
			return core.ErrPositiveCollateral
		}

		pool, err := s.findPool(ctx, position.PoolAssetID)
		if err != nil {
			return err
		}

		if err := s.poolz.Accrue(ctx, tx, pool, time.Now()); err != nil {
			return err
		}

		pay, err := s.repayDebt(ctx, tx, pool, position, repayAmount)
		if err != nil {
			return err
		}

		if err := s.positions.Update(ctx, tx, position); err != nil {
			return err
		}

		return s.transfers.TransferIn(ctx, tx, liquidator, pool.AssetID, pay, &core.TransferAction{
			FollowID: id.GenTraceID(),
			Source:   "selfless_liquidate",
			Owner:    owner,
			Position: positionID,
		})
	})
}

// LTV current loan to value of the position. Zero without debt, one
// when debt is outstanding against worthless collateral.
func (s *service) LTV(ctx context.Context, owner string, positionID int64) (decimal.Decimal, error) {
	position, err := s.findPosition(ctx, owner, positionID)
	if err != nil {
		return decimal.Zero, err
	}

	pool, err := s.findPool(ctx, position.PoolAssetID)
	if err != nil {
		return decimal.Zero, err
	}

	return s.ltv(ctx, pool, position)
}

func (s *service) ltv(ctx context.Context, pool *core.Pool, position *core.Position) (decimal.Decimal, error) {
	if !position.DebtShares.IsPositive() {
		return decimal.Zero, nil
	}

	owed := s.poolz.DebtShareValue(pool, position.DebtShares)

	debtValue, err := s.oracle.GetValue(ctx, pool.AssetID, owed)
	if err != nil {
		return decimal.Zero, err
	}

	collValue, err := s.oracle.GetValue(ctx, position.CollateralAssetID, position.CollateralAmount)
	if err != nil {
		return decimal.Zero, err
	}

	factor, err := s.riskz.CollateralFactor(ctx, position.CollateralAssetID)
	if err != nil {
		return decimal.Zero, err
	}

	return lever.LTV(debtValue, collValue, factor), nil
}

// repayDebt pays min(amount, owed) into the pool and clears the
// position's shares, exactly when the debt is settled in full.
func (s *service) repayDebt(ctx context.Context, tx *db.DB, pool *core.Pool, position *core.Position, amount decimal.Decimal) (decimal.Decimal, error) {
	owed := s.poolz.DebtShareValue(pool, position.DebtShares)
	if !owed.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	pay := decimal.Min(amount, owed)

	cleared, err := s.poolz.Repay(ctx, tx, pool, pay)
	if err != nil {
		return decimal.Zero, err
	}

	if pay.Equal(owed) {
		position.DebtShares = decimal.Zero
	} else {
		position.DebtShares = position.DebtShares.Sub(decimal.Min(cleared, position.DebtShares))
	}

	return pay, nil
}

func (s *service) unlockCollateral(ctx context.Context, tx *db.DB, assetID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	collateral, err := s.risks.FindCollateral(ctx, assetID)
	if err != nil {
		return err
	}

	collateral.TotalLocked = decimal.Max(collateral.TotalLocked.Sub(amount), decimal.Zero)
	return s.risks.UpdateCollateral(ctx, tx, collateral)
}

func (s *service) findPool(ctx context.Context, assetID string) (*core.Pool, error) {
	pool, err := s.pools.Find(ctx, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrPoolNotFound
		}
		return nil, err
	}

	return pool, nil
}

func (s *service) findPosition(ctx context.Context, owner string, positionID int64) (*core.Position, error) {
	position, err := s.positions.Find(ctx, owner, positionID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrPositionNotFound
		}
		return nil, err
	}

	return position, nil
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

func (s *service) checkCaller(ctx context.Context, caller, owner string) error {
	if err := s.checkGate(ctx); err != nil {
		return err
	}

	if caller == owner {
		return nil
	}

	permitted, err := s.gate.IsRunner(ctx, caller)
	if err != nil {
		return err
	}

	if !permitted {
		return core.ErrOperationForbidden
	}

	return nil
}
