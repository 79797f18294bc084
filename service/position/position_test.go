package position

import (
	"context"
	"testing"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lever/core"
	"lever/service/oracle"
	"lever/service/pool"
	"lever/service/risk"
)

type fakePools struct {
	pools map[string]*core.Pool
}

func (s *fakePools) Save(ctx context.Context, tx *db.DB, p *core.Pool) error {
	cp := *p
	s.pools[p.AssetID] = &cp
	return nil
}

// Find hands out a copy, like a store reloading the row would
func (s *fakePools) Find(ctx context.Context, assetID string) (*core.Pool, error) {
	p, ok := s.pools[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePools) FindBySymbol(ctx context.Context, symbol string) (*core.Pool, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *fakePools) All(ctx context.Context) ([]*core.Pool, error) { return nil, nil }

func (s *fakePools) AllAsMap(ctx context.Context) (map[string]*core.Pool, error) {
	return s.pools, nil
}

func (s *fakePools) Update(ctx context.Context, tx *db.DB, p *core.Pool) error {
	cp := *p
	s.pools[p.AssetID] = &cp
	return nil
}

type fakePositions struct {
	positions map[string]*core.Position
}

func key(owner string, positionID int64) string {
	return owner + "#" + decimal.NewFromInt(positionID).String()
}

func (s *fakePositions) Create(ctx context.Context, tx *db.DB, p *core.Position) error {
	cp := *p
	s.positions[key(p.Owner, p.PositionID)] = &cp
	return nil
}

func (s *fakePositions) Find(ctx context.Context, owner string, positionID int64) (*core.Position, error) {
	p, ok := s.positions[key(owner, positionID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePositions) FindByOwner(ctx context.Context, owner string) ([]*core.Position, error) {
	return nil, nil
}

func (s *fakePositions) FindByCollateral(ctx context.Context, assetID string) ([]*core.Position, error) {
	return nil, nil
}

func (s *fakePositions) NextPositionID(ctx context.Context, owner string) (int64, error) {
	return int64(len(s.positions)), nil
}

func (s *fakePositions) Update(ctx context.Context, tx *db.DB, p *core.Position) error {
	cp := *p
	s.positions[key(p.Owner, p.PositionID)] = &cp
	return nil
}

type fakeRisks struct {
	tiers       map[int64]*core.RiskTier
	collaterals map[string]*core.Collateral
}

func (s *fakeRisks) SaveTier(ctx context.Context, tx *db.DB, tier *core.RiskTier) error {
	cp := *tier
	s.tiers[tier.Level] = &cp
	return nil
}

func (s *fakeRisks) FindTier(ctx context.Context, level int64) (*core.RiskTier, error) {
	tier, ok := s.tiers[level]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *tier
	return &cp, nil
}

func (s *fakeRisks) AllTiers(ctx context.Context) ([]*core.RiskTier, error) { return nil, nil }

func (s *fakeRisks) SaveCollateral(ctx context.Context, tx *db.DB, c *core.Collateral) error {
	cp := *c
	s.collaterals[c.AssetID] = &cp
	return nil
}

func (s *fakeRisks) FindCollateral(ctx context.Context, assetID string) (*core.Collateral, error) {
	c, ok := s.collaterals[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeRisks) AllCollaterals(ctx context.Context) ([]*core.Collateral, error) {
	return nil, nil
}

func (s *fakeRisks) UpdateCollateral(ctx context.Context, tx *db.DB, c *core.Collateral) error {
	cp := *c
	s.collaterals[c.AssetID] = &cp
	return nil
}

type fakeOracles struct {
	prices map[string]*core.OraclePrice
}

func (s *fakeOracles) Save(ctx context.Context, tx *db.DB, p *core.OraclePrice) error {
	cp := *p
	s.prices[p.AssetID] = &cp
	return nil
}

func (s *fakeOracles) Find(ctx context.Context, assetID string) (*core.OraclePrice, error) {
	p, ok := s.prices[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeOracles) All(ctx context.Context) ([]*core.OraclePrice, error) { return nil, nil }

func (s *fakeOracles) AllAveraged(ctx context.Context) ([]*core.OraclePrice, error) {
	return nil, nil
}

func (s *fakeOracles) Update(ctx context.Context, tx *db.DB, p *core.OraclePrice) error {
	cp := *p
	s.prices[p.AssetID] = &cp
	return nil
}

type fakeSupplies struct{}

func (s *fakeSupplies) Find(ctx context.Context, userID, assetID string) (*core.Supply, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeSupplies) FindByUser(ctx context.Context, userID string) ([]*core.Supply, error) {
	return nil, nil
}

func (s *fakeSupplies) Save(ctx context.Context, tx *db.DB, supply *core.Supply) error { return nil }

func (s *fakeSupplies) Update(ctx context.Context, tx *db.DB, supply *core.Supply) error { return nil }

type fakeFeed struct{}

func (f *fakeFeed) SpotPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeFeed) CumulativePrice(ctx context.Context, assetID string) (decimal.Decimal, time.Time, error) {
	return decimal.Zero, time.Time{}, nil
}

type fakeGate struct {
	paused  bool
	runners map[string]bool
}

func (g *fakeGate) Paused(ctx context.Context) (bool, error) { return g.paused, nil }

func (g *fakeGate) SetPaused(ctx context.Context, paused bool) error {
	g.paused = paused
	return nil
}

func (g *fakeGate) IsOwner(ctx context.Context, userID string) (bool, error) { return false, nil }

func (g *fakeGate) IsRunner(ctx context.Context, userID string) (bool, error) {
	return g.runners[userID], nil
}

func (g *fakeGate) AddRunner(ctx context.Context, userID string) error { return nil }

func (g *fakeGate) RemoveRunner(ctx context.Context, userID string) error { return nil }

type fakeBlocks struct {
	block int64
}

func (b *fakeBlocks) CurrentBlock(ctx context.Context) (int64, error) { return b.block, nil }

type fakeTransfers struct{}

func (s *fakeTransfers) TransferIn(ctx context.Context, tx *db.DB, opponent, assetID string, amount decimal.Decimal, action *core.TransferAction) error {
	return nil
}

func (s *fakeTransfers) TransferOut(ctx context.Context, tx *db.DB, opponent, assetID string, amount decimal.Decimal, action *core.TransferAction) error {
	return nil
}

func (s *fakeTransfers) Settle(ctx context.Context, transfer *core.Transfer) error { return nil }

type ledger struct {
	svc       core.IPositionService
	pools     *fakePools
	positions *fakePositions
	risks     *fakeRisks
	oracles   *fakeOracles
	gate      *fakeGate
	blocks    *fakeBlocks
}

func newTestLedger() *ledger {
	cfg := &core.Config{}
	cfg.App.ReferenceAssetID = "usd"
	cfg.App.OracleWindow = 3600
	cfg.Rate.MinRate = decimal.Zero
	cfg.Rate.MaxRate = decimal.NewFromInt(1)
	cfg.Rate.AdjustRate = decimal.Zero

	l := &ledger{
		pools:     &fakePools{pools: map[string]*core.Pool{}},
		positions: &fakePositions{positions: map[string]*core.Position{}},
		risks:     &fakeRisks{tiers: map[int64]*core.RiskTier{}, collaterals: map[string]*core.Collateral{}},
		oracles:   &fakeOracles{prices: map[string]*core.OraclePrice{}},
		gate:      &fakeGate{runners: map[string]bool{}},
		blocks:    &fakeBlocks{},
	}

	database := db.MustOpen(db.SqliteInMemory())

	feed := &fakeFeed{}
	poolz := pool.New(cfg, database, l.pools, &fakeSupplies{}, l.gate)
	riskz := risk.New(database, l.risks)
	oraclez := oracle.New(database, cfg, l.oracles, feed, feed)

	l.svc = New(database, l.pools, l.positions, l.risks, poolz, riskz, oraclez, l.blocks, l.gate, &fakeTransfers{})
	return l
}

func (l *ledger) seedMarket() {
	// zero rate and a fresh accrual stamp keep the share price at one
	// for the whole test
	l.pools.pools["eth"] = &core.Pool{
		AssetID:         "eth",
		TotalAvailable:  decimal.NewFromInt(100),
		TotalLoan:       decimal.NewFromInt(20),
		TotalDebtShares: decimal.NewFromInt(20),
		LastAccruedAt:   time.Now(),
	}
	l.risks.tiers[0] = &core.RiskTier{
		SafetyLTV:      decimal.NewFromFloat(0.4),
		LiquidationLTV: decimal.NewFromFloat(0.5),
		KillBountyRate: decimal.NewFromFloat(0.05),
	}
	l.risks.collaterals["cny"] = &core.Collateral{
		AssetID: "cny",
		Factor:  decimal.NewFromFloat(0.8),
		Cap:     decimal.NewFromInt(10000),
	}
	l.oracles.prices["eth"] = &core.OraclePrice{AssetID: "eth", Price: decimal.NewFromInt(3)}
	l.oracles.prices["cny"] = &core.OraclePrice{AssetID: "cny", Price: decimal.New(1, 0)}
}

func TestOpenChecks(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()

	_, err := l.svc.Open(ctx, "alice", "alice", "eth", "cny")
	assert.Equal(t, core.ErrPoolNotFound, err)

	l.seedMarket()

	_, err = l.svc.Open(ctx, "alice", "alice", "eth", "doge")
	assert.Equal(t, core.ErrNoCollateralFactor, err)

	delete(l.oracles.prices, "cny")
	_, err = l.svc.Open(ctx, "alice", "alice", "eth", "cny")
	assert.Equal(t, core.ErrNoPrice, err)
}

func TestCallerChecks(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()

	// nobody moves a stranger's position
	err := l.svc.Put(ctx, "mallory", "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrOperationForbidden, err)

	// a permitted runner may act for any owner; the missing pool
	// fails only after the caller check passed
	l.gate.runners["keeper"] = true
	_, err = l.svc.Open(ctx, "keeper", "alice", "doge", "cny")
	assert.Equal(t, core.ErrPoolNotFound, err)

	l.gate.paused = true
	err = l.svc.Borrow(ctx, "alice", "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrPaused, err)

	_, err = l.svc.Liquidate(ctx, "bob", "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrPaused, err)
}

func TestAmountChecks(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()

	assert.Equal(t, core.ErrInvalidAmount, l.svc.Put(ctx, "alice", "alice", 0, decimal.Zero))
	assert.Equal(t, core.ErrInvalidAmount, l.svc.Take(ctx, "alice", "alice", 0, decimal.NewFromInt(-1)))
	assert.Equal(t, core.ErrInvalidAmount, l.svc.Borrow(ctx, "alice", "alice", 0, decimal.Zero))
	assert.Equal(t, core.ErrInvalidAmount, l.svc.Repay(ctx, "alice", "alice", 0, decimal.Zero))
	assert.Equal(t, core.ErrInvalidAmount, l.svc.SelflessLiquidate(ctx, "bob", "alice", 0, decimal.Zero))

	_, err := l.svc.Liquidate(ctx, "bob", "alice", 0, decimal.Zero)
	assert.Equal(t, core.ErrInvalidAmount, err)
}

func TestLTV(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()

	_, err := l.svc.LTV(ctx, "alice", 0)
	assert.Equal(t, core.ErrPositionNotFound, err)

	// 20 eth owed at 3 against 500 cny at factor 0.8
	l.positions.positions[key("alice", 0)] = &core.Position{
		Owner:             "alice",
		PoolAssetID:       "eth",
		CollateralAssetID: "cny",
		CollateralAmount:  decimal.NewFromInt(500),
		DebtShares:        decimal.NewFromInt(20),
	}

	ltv, err := l.svc.LTV(ctx, "alice", 0)
	require.Nil(t, err)
	assert.Equal(t, "0.15", ltv.String())

	// debt free
	l.positions.positions[key("alice", 0)].DebtShares = decimal.Zero
	ltv, err = l.svc.LTV(ctx, "alice", 0)
	require.Nil(t, err)
	assert.True(t, ltv.IsZero())
}

func TestUnlockCollateral(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()

	svc := l.svc.(*service)
	l.risks.collaterals["cny"].TotalLocked = decimal.NewFromInt(500)

	require.Nil(t, svc.unlockCollateral(ctx, nil, "cny", decimal.NewFromInt(300)))
	assert.Equal(t, "200", l.risks.collaterals["cny"].TotalLocked.String())

	// unlocking more than is tracked floors at zero
	require.Nil(t, svc.unlockCollateral(ctx, nil, "cny", decimal.NewFromInt(999)))
	assert.True(t, l.risks.collaterals["cny"].TotalLocked.IsZero())

	// non positive amounts are a no-op
	require.Nil(t, svc.unlockCollateral(ctx, nil, "cny", decimal.Zero))
	assert.True(t, l.risks.collaterals["cny"].TotalLocked.IsZero())
}

func TestLedgerFlow(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()

	l.blocks.block = 1
	positionID, err := l.svc.Open(ctx, "alice", "alice", "eth", "cny")
	require.Nil(t, err)
	assert.Equal(t, int64(0), positionID)

	// opening counts as a borrow-family mutation
	err = l.svc.Take(ctx, "alice", "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrBadBlock, err)
	err = l.svc.Repay(ctx, "alice", "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrBadBlock, err)

	// put and borrow share a family, so both pass in the same block
	require.Nil(t, l.svc.Put(ctx, "alice", "alice", 0, decimal.NewFromInt(500)))
	assert.Equal(t, "500", l.risks.collaterals["cny"].TotalLocked.String())

	require.Nil(t, l.svc.Borrow(ctx, "alice", "alice", 0, decimal.NewFromInt(30)))

	stored := l.positions.positions[key("alice", 0)]
	assert.Equal(t, "500", stored.CollateralAmount.String())
	assert.Equal(t, "30", stored.DebtShares.String())

	pool := l.pools.pools["eth"]
	assert.Equal(t, "70", pool.TotalAvailable.String())
	assert.Equal(t, "50", pool.TotalLoan.String())
	assert.Equal(t, "50", pool.TotalDebtShares.String())

	err = l.svc.Repay(ctx, "alice", "alice", 0, decimal.NewFromInt(10))
	assert.Equal(t, core.ErrBadBlock, err)

	l.blocks.block = 2
	require.Nil(t, l.svc.Repay(ctx, "alice", "alice", 0, decimal.NewFromInt(10)))
	assert.Equal(t, "20", l.positions.positions[key("alice", 0)].DebtShares.String())
	assert.Equal(t, "40", l.pools.pools["eth"].TotalLoan.String())

	// repaying blocks the borrow family for the rest of the block
	err = l.svc.Borrow(ctx, "alice", "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrBadBlock, err)
	err = l.svc.Put(ctx, "alice", "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrBadBlock, err)

	// but a take in the same block is fine
	require.Nil(t, l.svc.Take(ctx, "alice", "alice", 0, decimal.NewFromInt(100)))
	assert.Equal(t, "400", l.positions.positions[key("alice", 0)].CollateralAmount.String())
	assert.Equal(t, "400", l.risks.collaterals["cny"].TotalLocked.String())

	// overpaying settles the debt in full and clears the shares exactly
	l.blocks.block = 3
	require.Nil(t, l.svc.Repay(ctx, "alice", "alice", 0, decimal.NewFromInt(999)))
	stored = l.positions.positions[key("alice", 0)]
	assert.True(t, stored.DebtShares.IsZero())
	assert.Equal(t, "20", l.pools.pools["eth"].TotalLoan.String())
	assert.Equal(t, "100", l.pools.pools["eth"].TotalAvailable.String())

	// debt free, all collateral comes back without a safety check
	require.Nil(t, l.svc.Take(ctx, "alice", "alice", 0, decimal.NewFromInt(400)))
	assert.True(t, l.positions.positions[key("alice", 0)].CollateralAmount.IsZero())
	assert.True(t, l.risks.collaterals["cny"].TotalLocked.IsZero())
}

func TestPutCap(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()
	l.blocks.block = 5

	l.positions.positions[key("alice", 0)] = &core.Position{
		Owner:             "alice",
		PoolAssetID:       "eth",
		CollateralAssetID: "cny",
	}
	l.risks.collaterals["cny"].TotalLocked = decimal.NewFromInt(9800)

	err := l.svc.Put(ctx, "alice", "alice", 0, decimal.NewFromInt(300))
	assert.Equal(t, core.ErrTooMuchCollateral, err)
	assert.True(t, l.positions.positions[key("alice", 0)].CollateralAmount.IsZero())
	assert.Equal(t, "9800", l.risks.collaterals["cny"].TotalLocked.String())

	require.Nil(t, l.svc.Put(ctx, "alice", "alice", 0, decimal.NewFromInt(200)))
	assert.Equal(t, "10000", l.risks.collaterals["cny"].TotalLocked.String())
}

func TestBorrowSafety(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()
	l.blocks.block = 5

	l.positions.positions[key("alice", 0)] = &core.Position{
		Owner:             "alice",
		PoolAssetID:       "eth",
		CollateralAssetID: "cny",
		CollateralAmount:  decimal.NewFromInt(100),
	}

	// 30 eth at 3 against 100 cny at factor 0.8 is deep past safety
	err := l.svc.Borrow(ctx, "alice", "alice", 0, decimal.NewFromInt(30))
	assert.Equal(t, core.ErrNotSafe, err)
	assert.True(t, l.positions.positions[key("alice", 0)].DebtShares.IsZero())

	err = l.svc.Borrow(ctx, "alice", "alice", 0, decimal.NewFromInt(1000))
	assert.Equal(t, core.ErrInsufficientLiquidity, err)
}

func TestTakeSafety(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()
	l.blocks.block = 5

	l.positions.positions[key("alice", 0)] = &core.Position{
		Owner:             "alice",
		PoolAssetID:       "eth",
		CollateralAssetID: "cny",
		CollateralAmount:  decimal.NewFromInt(500),
		DebtShares:        decimal.NewFromInt(20),
	}

	err := l.svc.Take(ctx, "alice", "alice", 0, decimal.NewFromInt(600))
	assert.Equal(t, core.ErrInsufficientCollateral, err)

	// 60 owed against 100 remaining would breach safety; the position
	// must come back untouched
	err = l.svc.Take(ctx, "alice", "alice", 0, decimal.NewFromInt(400))
	assert.Equal(t, core.ErrNotSafe, err)
	assert.Equal(t, "500", l.positions.positions[key("alice", 0)].CollateralAmount.String())

	require.Nil(t, l.svc.Take(ctx, "alice", "alice", 0, decimal.NewFromInt(100)))
	assert.Equal(t, "400", l.positions.positions[key("alice", 0)].CollateralAmount.String())
}

func TestLiquidate(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()

	// healthy positions are off limits
	l.positions.positions[key("alice", 0)] = &core.Position{
		Owner:             "alice",
		PoolAssetID:       "eth",
		CollateralAssetID: "cny",
		CollateralAmount:  decimal.NewFromInt(500),
		DebtShares:        decimal.NewFromInt(20),
	}
	_, err := l.svc.Liquidate(ctx, "bob", "alice", 0, decimal.NewFromInt(1))
	assert.Equal(t, core.ErrNotLiquidatable, err)

	// 60 eth owed at 3 against 200 cny at factor 0.8 is under water
	l.pools.pools["eth"].TotalAvailable = decimal.NewFromInt(100)
	l.pools.pools["eth"].TotalLoan = decimal.NewFromInt(80)
	l.pools.pools["eth"].TotalDebtShares = decimal.NewFromInt(80)
	l.positions.positions[key("alice", 0)] = &core.Position{
		Owner:             "alice",
		PoolAssetID:       "eth",
		CollateralAssetID: "cny",
		CollateralAmount:  decimal.NewFromInt(200),
		DebtShares:        decimal.NewFromInt(60),
	}
	l.risks.collaterals["cny"].TotalLocked = decimal.NewFromInt(200)

	// repaying more than half the debt at once is rejected
	_, err = l.svc.Liquidate(ctx, "bob", "alice", 0, decimal.NewFromInt(31))
	assert.Equal(t, core.ErrTooMuchLiquidation, err)

	// exactly half passes; 90 repaid value plus the 5% bounty seizes
	// 94.5 cny
	seized, err := l.svc.Liquidate(ctx, "bob", "alice", 0, decimal.NewFromInt(30))
	require.Nil(t, err)
	assert.Equal(t, "94.5", seized.String())

	stored := l.positions.positions[key("alice", 0)]
	assert.Equal(t, "105.5", stored.CollateralAmount.String())
	assert.Equal(t, "30", stored.DebtShares.String())
	assert.Equal(t, "105.5", l.risks.collaterals["cny"].TotalLocked.String())
	assert.Equal(t, "50", l.pools.pools["eth"].TotalLoan.String())
	assert.Equal(t, "130", l.pools.pools["eth"].TotalAvailable.String())
}

func TestSelflessLiquidate(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger()
	l.seedMarket()

	l.positions.positions[key("alice", 0)] = &core.Position{
		Owner:             "alice",
		PoolAssetID:       "eth",
		CollateralAssetID: "cny",
		CollateralAmount:  decimal.NewFromFloat(0.5),
		DebtShares:        decimal.NewFromInt(20),
	}

	err := l.svc.SelflessLiquidate(ctx, "bob", "alice", 0, decimal.NewFromInt(50))
	assert.Equal(t, core.ErrPositiveCollateral, err)

	// once the collateral is gone anyone may eat the bad debt
	l.positions.positions[key("alice", 0)].CollateralAmount = decimal.Zero
	require.Nil(t, l.svc.SelflessLiquidate(ctx, "bob", "alice", 0, decimal.NewFromInt(50)))
	assert.True(t, l.positions.positions[key("alice", 0)].DebtShares.IsZero())
	assert.Equal(t, "0", l.pools.pools["eth"].TotalLoan.String())
}
