package views

import (
	"time"

	"github.com/shopspring/decimal"

	"lever/core"
)

// Position position view
type Position struct {
	Owner             string          `json:"owner"`
	PositionID        int64           `json:"position_id"`
	PoolAssetID       string          `json:"pool_asset_id"`
	CollateralAssetID string          `json:"collateral_asset_id"`
	CollateralAmount  decimal.Decimal `json:"collateral_amount"`
	DebtShares        decimal.Decimal `json:"debt_shares"`
	LTV               decimal.Decimal `json:"ltv,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewPosition position view from the model
func NewPosition(position *core.Position) Position {
	return Position{
		Owner:             position.Owner,
		PositionID:        position.PositionID,
		PoolAssetID:       position.PoolAssetID,
		CollateralAssetID: position.CollateralAssetID,
		CollateralAmount:  position.CollateralAmount,
		DebtShares:        position.DebtShares,
		UpdatedAt:         position.UpdatedAt,
	}
}
