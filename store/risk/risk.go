package risk

import (
	"context"
	"errors"

	"github.com/fox-one/pkg/store/db"

	"lever/core"
)

type riskStore struct {
	db *db.DB
}

// New new risk store
func New(db *db.DB) core.IRiskStore {
	return &riskStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.RiskTier{}).AutoMigrate(core.RiskTier{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.Collateral{}).AutoMigrate(core.Collateral{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *riskStore) SaveTier(ctx context.Context, tx *db.DB, tier *core.RiskTier) error {
	if err := tx.Update().Where("level=?", tier.Level).Assign(map[string]interface{}{
		"safety_ltv":       tier.SafetyLTV,
		"liquidation_ltv":  tier.LiquidationLTV,
		"kill_bounty_rate": tier.KillBountyRate,
	}).FirstOrCreate(tier).Error; err != nil {
		return err
	}

	return nil
}

func (s *riskStore) FindTier(ctx context.Context, level int64) (*core.RiskTier, error) {
	var tier core.RiskTier
	if err := s.db.View().Where("level=?", level).First(&tier).Error; err != nil {
		return nil, err
	}

	return &tier, nil
}

func (s *riskStore) AllTiers(ctx context.Context) ([]*core.RiskTier, error) {
	var tiers []*core.RiskTier
	if err := s.db.View().Order("level").Find(&tiers).Error; err != nil {
		return nil, err
	}

	return tiers, nil
}

func (s *riskStore) SaveCollateral(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	if collateral.AssetID == "" {
		return errors.New("invalid asset_id")
	}

	if err := tx.Update().Where("asset_id=?", collateral.AssetID).FirstOrCreate(collateral).Error; err != nil {
		return err
	}

	return nil
}

func (s *riskStore) FindCollateral(ctx context.Context, assetID string) (*core.Collateral, error) {
	if assetID == "" {
		return nil, errors.New("invalid asset_id")
	}

	var collateral core.Collateral
	if err := s.db.View().Where("asset_id=?", assetID).First(&collateral).Error; err != nil {
		return nil, err
	}

	return &collateral, nil
}

func (s *riskStore) AllCollaterals(ctx context.Context) ([]*core.Collateral, error) {
	var collaterals []*core.Collateral
	if err := s.db.View().Find(&collaterals).Error; err != nil {
		return nil, err
	}

	return collaterals, nil
}

func (s *riskStore) UpdateCollateral(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	version := collateral.Version
	collateral.Version++
	if err := tx.Update().Model(core.Collateral{}).Where("asset_id=? and version=?", collateral.AssetID, version).Update(collateral).Error; err != nil {
		return err
	}

	return nil
}
