package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Pool per-underlying-asset lending pool.
//
// TotalAvailable is the cash on hand, TotalLoan the absolute underlying
// owed including accrued interest. Debt and supply shares are claims on
// TotalLoan and on TotalAvailable+TotalLoan respectively; their prices
// only move through Accrue while debt is outstanding.
type Pool struct {
	ID        uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID   string `sql:"size:36;unique_index:pool_asset_idx" json:"asset_id"`
	Symbol    string `sql:"size:20;unique_index:pool_symbol_idx" json:"symbol"`
	// 现金量：池内持有的标的资产减去未偿贷款
	TotalAvailable    decimal.Decimal `sql:"type:decimal(32,16)" json:"total_available"`
	TotalLoan         decimal.Decimal `sql:"type:decimal(32,16)" json:"total_loan"`
	TotalDebtShares   decimal.Decimal `sql:"type:decimal(32,16)" json:"total_debt_shares"`
	TotalSupplyShares decimal.Decimal `sql:"type:decimal(32,16)" json:"total_supply_shares"`
	// 年化利率，协议小数表示 (0.20 = 20%)
	InterestRate decimal.Decimal `sql:"type:decimal(32,18)" json:"interest_rate"`
	// 平台保留金率 [0, 1)
	ReserveRate decimal.Decimal `sql:"type:decimal(20,8)" json:"reserve_rate"`
	// 保留金受益人
	Beneficiary   string    `sql:"size:36" json:"beneficiary"`
	LastAccruedAt time.Time `json:"last_accrued_at"`
	Version       int64     `sql:"default:0" json:"version"`
	CreatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SupplyValue total value backing the supply shares
func (p *Pool) SupplyValue() decimal.Decimal {
	return p.TotalAvailable.Add(p.TotalLoan)
}

// Supply a lender's (or the reserve beneficiary's) supply-share balance
type Supply struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string          `sql:"size:36;unique_index:supply_idx" json:"user_id"`
	AssetID   string          `sql:"size:36;unique_index:supply_idx" json:"asset_id"`
	Shares    decimal.Decimal `sql:"type:decimal(32,16)" json:"shares"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPoolStore pool store interface
type IPoolStore interface {
	Save(ctx context.Context, tx *db.DB, pool *Pool) error
	Find(ctx context.Context, assetID string) (*Pool, error)
	FindBySymbol(ctx context.Context, symbol string) (*Pool, error)
	All(ctx context.Context) ([]*Pool, error)
	AllAsMap(ctx context.Context) (map[string]*Pool, error)
	Update(ctx context.Context, tx *db.DB, pool *Pool) error
}

// ISupplyStore supply-share balance store interface
type ISupplyStore interface {
	Find(ctx context.Context, userID, assetID string) (*Supply, error)
	FindByUser(ctx context.Context, userID string) ([]*Supply, error)
	Save(ctx context.Context, tx *db.DB, supply *Supply) error
	Update(ctx context.Context, tx *db.DB, supply *Supply) error
}

// IPoolService shares-based pool operations.
//
// Every method that touches the share price requires the caller to have
// accrued the pool in the same transaction first; Accrue itself is a
// no-op when no time has passed.
type IPoolService interface {
	Accrue(ctx context.Context, tx *db.DB, pool *Pool, now time.Time) error
	Deposit(ctx context.Context, tx *db.DB, pool *Pool, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, tx *db.DB, pool *Pool, userID string, shares decimal.Decimal) (decimal.Decimal, error)
	Borrow(ctx context.Context, tx *db.DB, pool *Pool, amount decimal.Decimal) (decimal.Decimal, error)
	Repay(ctx context.Context, tx *db.DB, pool *Pool, amount decimal.Decimal) (decimal.Decimal, error)
	DebtShareValue(pool *Pool, shares decimal.Decimal) decimal.Decimal
	SetReserveInfo(ctx context.Context, assetID string, reserveRate decimal.Decimal, beneficiary string) error
}
