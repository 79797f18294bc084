package views

import (
	"time"

	"github.com/shopspring/decimal"

	"lever/core"
	"lever/internal/lever"
)

// Pool pool view
type Pool struct {
	AssetID           string          `json:"asset_id"`
	Symbol            string          `json:"symbol"`
	TotalAvailable    decimal.Decimal `json:"total_available"`
	TotalLoan         decimal.Decimal `json:"total_loan"`
	TotalDebtShares   decimal.Decimal `json:"total_debt_shares"`
	TotalSupplyShares decimal.Decimal `json:"total_supply_shares"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	Utilization       decimal.Decimal `json:"utilization"`
	SupplySharePrice  decimal.Decimal `json:"supply_share_price"`
	ReserveRate       decimal.Decimal `json:"reserve_rate"`
	LastAccruedAt     time.Time       `json:"last_accrued_at"`
}

// NewPool pool view from the model
func NewPool(pool *core.Pool) Pool {
	return Pool{
		AssetID:           pool.AssetID,
		Symbol:            pool.Symbol,
		TotalAvailable:    pool.TotalAvailable,
		TotalLoan:         pool.TotalLoan,
		TotalDebtShares:   pool.TotalDebtShares,
		TotalSupplyShares: pool.TotalSupplyShares,
		InterestRate:      pool.InterestRate,
		Utilization:       lever.UtilizationWad(pool.TotalAvailable, pool.TotalLoan).Shift(-18),
		SupplySharePrice:  lever.SupplySharePrice(pool.TotalAvailable, pool.TotalLoan, pool.TotalSupplyShares),
		ReserveRate:       pool.ReserveRate,
		LastAccruedAt:     pool.LastAccruedAt,
	}
}
