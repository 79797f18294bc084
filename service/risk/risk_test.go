package risk

import (
	"context"
	"testing"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lever/core"
)

type fakeRisks struct {
	tiers       map[int64]*core.RiskTier
	collaterals map[string]*core.Collateral
}

func newFakeRisks() *fakeRisks {
	return &fakeRisks{
		tiers:       map[int64]*core.RiskTier{},
		collaterals: map[string]*core.Collateral{},
	}
}

func (s *fakeRisks) SaveTier(ctx context.Context, tx *db.DB, tier *core.RiskTier) error {
	s.tiers[tier.Level] = tier
	return nil
}

func (s *fakeRisks) FindTier(ctx context.Context, level int64) (*core.RiskTier, error) {
	tier, ok := s.tiers[level]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tier, nil
}

func (s *fakeRisks) AllTiers(ctx context.Context) ([]*core.RiskTier, error) {
	return nil, nil
}

func (s *fakeRisks) SaveCollateral(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	s.collaterals[collateral.AssetID] = collateral
	return nil
}

func (s *fakeRisks) FindCollateral(ctx context.Context, assetID string) (*core.Collateral, error) {
	collateral, ok := s.collaterals[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return collateral, nil
}

func (s *fakeRisks) AllCollaterals(ctx context.Context) ([]*core.Collateral, error) {
	return nil, nil
}

func (s *fakeRisks) UpdateCollateral(ctx context.Context, tx *db.DB, collateral *core.Collateral) error {
	s.collaterals[collateral.AssetID] = collateral
	return nil
}

func TestTierLookups(t *testing.T) {
	ctx := context.Background()
	risks := newFakeRisks()
	s := New(nil, risks)

	// no tier configured at all
	_, err := s.SafetyLTV(ctx, "btc")
	assert.Equal(t, core.ErrNoRiskConfig, err)

	require.Nil(t, risks.SaveTier(ctx, nil, &core.RiskTier{
		Level:          0,
		SafetyLTV:      decimal.NewFromFloat(0.4),
		LiquidationLTV: decimal.NewFromFloat(0.5),
		KillBountyRate: decimal.NewFromFloat(0.05),
	}))

	// an asset with no collateral record falls to the default level
	safety, err := s.SafetyLTV(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "0.4", safety.String())

	liquidation, err := s.LiquidationLTV(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "0.5", liquidation.String())

	bounty, err := s.KillBountyRate(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "0.05", bounty.String())

	// an asset mapped to a level nobody configured
	risks.collaterals["doge"] = &core.Collateral{AssetID: "doge", RiskLevel: 3}
	_, err = s.SafetyLTV(ctx, "doge")
	assert.Equal(t, core.ErrNoRiskConfig, err)

	// blacklisted assets never resolve
	risks.collaterals["scam"] = &core.Collateral{AssetID: "scam", RiskLevel: core.RiskLevelBlacklisted}
	_, err = s.LiquidationLTV(ctx, "scam")
	assert.Equal(t, core.ErrNoRiskConfig, err)
}

func TestCollateralLookups(t *testing.T) {
	ctx := context.Background()
	risks := newFakeRisks()
	s := New(nil, risks)

	_, err := s.CollateralFactor(ctx, "btc")
	assert.Equal(t, core.ErrNoCollateralFactor, err)

	// a record without a positive factor is as good as none
	risks.collaterals["btc"] = &core.Collateral{AssetID: "btc"}
	_, err = s.CollateralFactor(ctx, "btc")
	assert.Equal(t, core.ErrNoCollateralFactor, err)

	risks.collaterals["btc"].Factor = decimal.NewFromFloat(0.8)
	risks.collaterals["btc"].Cap = decimal.NewFromInt(1000)

	factor, err := s.CollateralFactor(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "0.8", factor.String())

	capAmount, err := s.CollateralCap(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "1000", capAmount.String())
}

func TestSetterValidation(t *testing.T) {
	ctx := context.Background()
	s := New(nil, newFakeRisks())

	// safety above liquidation
	err := s.SetRiskTier(ctx, 0, decimal.NewFromFloat(0.6), decimal.NewFromFloat(0.5), decimal.Zero)
	assert.Equal(t, core.ErrNoRiskConfig, err)

	// liquidation above one
	err = s.SetRiskTier(ctx, 0, decimal.NewFromFloat(0.4), decimal.NewFromFloat(1.5), decimal.Zero)
	assert.Equal(t, core.ErrNoRiskConfig, err)

	// negative bounty
	err = s.SetRiskTier(ctx, 0, decimal.NewFromFloat(0.4), decimal.NewFromFloat(0.5), decimal.NewFromFloat(-0.1))
	assert.Equal(t, core.ErrNoRiskConfig, err)

	err = s.SetCollateralInfo(ctx, "btc", decimal.NewFromFloat(1.2), decimal.NewFromInt(1000))
	assert.Equal(t, core.ErrNoCollateralFactor, err)

	err = s.SetCollateralInfo(ctx, "btc", decimal.NewFromFloat(0.8), decimal.NewFromInt(-1))
	assert.Equal(t, core.ErrNoCollateralFactor, err)
}
