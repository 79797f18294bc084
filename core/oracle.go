package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// OraclePrice per-asset time-weighted price accumulator.
//
// PriceCumulative integrates price over seconds since the baseline at
// LastObservedAt; Price caches the average over the prior full window.
// External assets bypass the accumulator and are priced by the spot
// feed directly.
type OraclePrice struct {
	ID              uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID         string          `sql:"size:36;unique_index:oracle_asset_idx" json:"asset_id"`
	External        bool            `sql:"default:false" json:"external"`
	PriceCumulative decimal.Decimal `sql:"type:decimal(40,16)" json:"price_cumulative"`
	Price           decimal.Decimal `sql:"type:decimal(32,16)" json:"price"`
	LastObservedAt  time.Time       `json:"last_observed_at"`
	Version         int64           `sql:"default:0" json:"version"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IOracleStore oracle accumulator store interface
type IOracleStore interface {
	Save(ctx context.Context, tx *db.DB, price *OraclePrice) error
	Find(ctx context.Context, assetID string) (*OraclePrice, error)
	All(ctx context.Context) ([]*OraclePrice, error)
	AllAveraged(ctx context.Context) ([]*OraclePrice, error)
	Update(ctx context.Context, tx *db.DB, price *OraclePrice) error
}

// IPriceFeed external spot-price source; returns zero when the feed
// has no quote for the asset.
type IPriceFeed interface {
	SpotPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
}

// ILiquiditySource AMM cumulative-price source for assets without an
// external feed. CumulativePrice returns the integral of the reference
// denominated price over time, together with its timestamp.
type ILiquiditySource interface {
	CumulativePrice(ctx context.Context, assetID string) (decimal.Decimal, time.Time, error)
}

// IOracleService reference-denominated asset pricing
type IOracleService interface {
	InitPrice(ctx context.Context, assetID string) error
	UpdateAndGetPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
	GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
	GetValue(ctx context.Context, assetID string, amount decimal.Decimal) (decimal.Decimal, error)
}
