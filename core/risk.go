package core

import (
	"context"
	"math"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// RiskLevelBlacklisted sentinel level disqualifying an asset entirely
const RiskLevelBlacklisted int64 = math.MaxInt64

// RiskTier risk parameters shared by all assets of one risk level
type RiskTier struct {
	ID    uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Level int64  `sql:"unique_index:risk_level_idx" json:"level"`
	// 最高安全借贷率，超过则禁止主动借款/提取抵押
	SafetyLTV decimal.Decimal `sql:"type:decimal(20,16)" json:"safety_ltv"`
	// 清算阈值
	LiquidationLTV decimal.Decimal `sql:"type:decimal(20,16)" json:"liquidation_ltv"`
	// 清算奖励率
	KillBountyRate decimal.Decimal `sql:"type:decimal(20,16)" json:"kill_bounty_rate"`
	Version        int64           `sql:"default:0" json:"version"`
	CreatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Collateral per-asset collateral configuration and ledger-wide total.
//
// TotalLocked is the sum of CollateralAmount over every position using
// the asset; put keeps it at or below Cap.
type Collateral struct {
	ID          uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID     string          `sql:"size:36;unique_index:collateral_asset_idx" json:"asset_id"`
	RiskLevel   int64           `sql:"default:0" json:"risk_level"`
	Factor      decimal.Decimal `sql:"type:decimal(20,16)" json:"factor"`
	Cap         decimal.Decimal `sql:"type:decimal(32,16)" json:"cap"`
	TotalLocked decimal.Decimal `sql:"type:decimal(32,16)" json:"total_locked"`
	Version     int64           `sql:"default:0" json:"version"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IRiskStore risk tier and collateral store interface
type IRiskStore interface {
	SaveTier(ctx context.Context, tx *db.DB, tier *RiskTier) error
	FindTier(ctx context.Context, level int64) (*RiskTier, error)
	AllTiers(ctx context.Context) ([]*RiskTier, error)
	SaveCollateral(ctx context.Context, tx *db.DB, collateral *Collateral) error
	FindCollateral(ctx context.Context, assetID string) (*Collateral, error)
	AllCollaterals(ctx context.Context) ([]*Collateral, error)
	UpdateCollateral(ctx context.Context, tx *db.DB, collateral *Collateral) error
}

// IRiskService risk configuration lookups plus the validated setters.
//
// The read methods fail with ErrNoRiskConfig / ErrNoCollateralFactor
// when the asset has no usable configuration; consumers never observe a
// tier violating 0 <= safety <= liquidation <= 1.
type IRiskService interface {
	SafetyLTV(ctx context.Context, assetID string) (decimal.Decimal, error)
	LiquidationLTV(ctx context.Context, assetID string) (decimal.Decimal, error)
	KillBountyRate(ctx context.Context, assetID string) (decimal.Decimal, error)
	CollateralFactor(ctx context.Context, assetID string) (decimal.Decimal, error)
	CollateralCap(ctx context.Context, assetID string) (decimal.Decimal, error)

	SetRiskTier(ctx context.Context, level int64, safetyLTV, liquidationLTV, killBountyRate decimal.Decimal) error
	SetRiskLevel(ctx context.Context, assetID string, level int64) error
	SetCollateralInfo(ctx context.Context, assetID string, factor, cap decimal.Decimal) error
}
