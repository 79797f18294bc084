package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Position a collateralized borrow position.
//
// Positions are keyed by (owner, position_id); ids are assigned
// sequentially per owner starting at 0 and are never reused. A fully
// repaid or liquidated position keeps its row with zero balances.
//
// BlockBorrowPut and BlockRepayTake record the logical block of the
// last mutation of each family; the ledger rejects a take/repay in the
// block of the last borrow/put and vice versa.
type Position struct {
	ID                uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Owner             string          `sql:"size:36;unique_index:position_idx" json:"owner"`
	PositionID        int64           `sql:"unique_index:position_idx" json:"position_id"`
	PoolAssetID       string          `sql:"size:36;index:position_pool_idx" json:"pool_asset_id"`
	CollateralAssetID string          `sql:"size:36;index:position_coll_idx" json:"collateral_asset_id"`
	CollateralAmount  decimal.Decimal `sql:"type:decimal(32,16)" json:"collateral_amount"`
	DebtShares        decimal.Decimal `sql:"type:decimal(32,16)" json:"debt_shares"`
	BlockBorrowPut    int64           `sql:"default:0" json:"block_borrow_put"`
	BlockRepayTake    int64           `sql:"default:0" json:"block_repay_take"`
	Version           int64           `sql:"default:0" json:"version"`
	CreatedAt         time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AllowBorrowPut reports whether a borrow or put may run at block.
// Only the opposite family blocks it; two mutations of the same
// family may share a block.
func (p *Position) AllowBorrowPut(block int64) bool {
	return p.BlockRepayTake != block
}

// AllowRepayTake reports whether a repay or take may run at block.
func (p *Position) AllowRepayTake(block int64) bool {
	return p.BlockBorrowPut != block
}

// IPositionStore position store interface
type IPositionStore interface {
	Create(ctx context.Context, tx *db.DB, position *Position) error
	Find(ctx context.Context, owner string, positionID int64) (*Position, error)
	FindByOwner(ctx context.Context, owner string) ([]*Position, error)
	FindByCollateral(ctx context.Context, assetID string) ([]*Position, error)
	NextPositionID(ctx context.Context, owner string) (int64, error)
	Update(ctx context.Context, tx *db.DB, position *Position) error
}

// IPositionService the position ledger.
//
// All mutating operations are atomic and serialized: they either apply
// fully or fail with no partial effect, and no two of them interleave
// on the same ledger.
type IPositionService interface {
	Open(ctx context.Context, caller, owner, underlying, collateral string) (int64, error)
	Put(ctx context.Context, caller, owner string, positionID int64, amount decimal.Decimal) error
	Take(ctx context.Context, caller, owner string, positionID int64, amount decimal.Decimal) error
	Borrow(ctx context.Context, caller, owner string, positionID int64, amount decimal.Decimal) error
	Repay(ctx context.Context, caller, owner string, positionID int64, amount decimal.Decimal) error
	Liquidate(ctx context.Context, liquidator, owner string, positionID int64, repayAmount decimal.Decimal) (decimal.Decimal, error)
	SelflessLiquidate(ctx context.Context, liquidator, owner string, positionID int64, repayAmount decimal.Decimal) error
	LTV(ctx context.Context, owner string, positionID int64) (decimal.Decimal, error)
}
