package risk

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"lever/core"
)

type service struct {
	db    *db.DB
	risks core.IRiskStore
}

// New new risk service
func New(database *db.DB, risks core.IRiskStore) core.IRiskService {
	return &service{
		db:    database,
		risks: risks,
	}
}

func (s *service) SafetyLTV(ctx context.Context, assetID string) (decimal.Decimal, error) {
	tier, err := s.tierOf(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	return tier.SafetyLTV, nil
}

func (s *service) LiquidationLTV(ctx context.Context, assetID string) (decimal.Decimal, error) {
	tier, err := s.tierOf(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	return tier.LiquidationLTV, nil
}

func (s *service) KillBountyRate(ctx context.Context, assetID string) (decimal.Decimal, error) {
	tier, err := s.tierOf(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	return tier.KillBountyRate, nil
}

func (s *service) CollateralFactor(ctx context.Context, assetID string) (decimal.Decimal, error) {
	collateral, err := s.risks.FindCollateral(ctx, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, core.ErrNoCollateralFactor
		}
		return decimal.Zero, err
	}

	if !collateral.Factor.IsPositive() {
		return decimal.Zero, core.ErrNoCollateralFactor
	}

	return collateral.Factor, nil
}

func (s *service) CollateralCap(ctx context.Context, assetID string) (decimal.Decimal, error) {
	collateral, err := s.risks.FindCollateral(ctx, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, core.ErrNoCollateralFactor
		}
		return decimal.Zero, err
	}

	return collateral.Cap, nil
}

func (s *service) SetRiskTier(ctx context.Context, level int64, safetyLTV, liquidationLTV, killBountyRate decimal.Decimal) error {
	one := decimal.New(1, 0)
	if safetyLTV.IsNegative() ||
		safetyLTV.GreaterThan(liquidationLTV) ||
		liquidationLTV.GreaterThan(one) {
		return core.ErrNoRiskConfig
	}

	if killBountyRate.IsNegative() || killBountyRate.GreaterThan(one) {
		return core.ErrNoRiskConfig
	}

	return s.db.Tx(func(tx *db.DB) error {
		return s.risks.SaveTier(ctx, tx, &core.RiskTier{
			Level:          level,
			SafetyLTV:      safetyLTV,
			LiquidationLTV: liquidationLTV,
			KillBountyRate: killBountyRate,
		})
	})
}

func (s *service) SetRiskLevel(ctx context.Context, assetID string, level int64) error {
	return s.db.Tx(func(tx *db.DB) error {
		collateral, err := s.risks.FindCollateral(ctx, assetID)
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return s.risks.SaveCollateral(ctx, tx, &core.Collateral{
					AssetID:   assetID,
					RiskLevel: level,
				})
			}
			return err
		}

		collateral.RiskLevel = level
		return s.risks.UpdateCollateral(ctx, tx, collateral)
	})
}

func (s *service) SetCollateralInfo(ctx context.Context, assetID string, factor, cap decimal.Decimal) error {
	if factor.IsNegative() || factor.GreaterThan(decimal.New(1, 0)) || cap.IsNegative() {
		return core.ErrNoCollateralFactor
	}

	return s.db.Tx(func(tx *db.DB) error {
		collateral, err := s.risks.FindCollateral(ctx, assetID)
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return s.risks.SaveCollateral(ctx, tx, &core.Collateral{
					AssetID: assetID,
					Factor:  factor,
					Cap:     cap,
				})
			}
			return err
		}

		collateral.Factor = factor
		collateral.Cap = cap
		return s.risks.UpdateCollateral(ctx, tx, collateral)
	})
}

// tierOf resolves the asset's risk level to its tier; a missing
// collateral record means the default level 0.
func (s *service) tierOf(ctx context.Context, assetID string) (*core.RiskTier, error) {
	var level int64

	collateral, err := s.risks.FindCollateral(ctx, assetID)
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return nil, err
		}
	} else {
		level = collateral.RiskLevel
	}

	if level == core.RiskLevelBlacklisted {
		return nil, core.ErrNoRiskConfig
	}

	tier, err := s.risks.FindTier(ctx, level)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrNoRiskConfig
		}
		return nil, err
	}

	return tier, nil
}
