package oracle

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
)

type fakePrices struct {
	prices map[string]*core.OraclePrice
}

func (s *fakePrices) Save(ctx context.Context, tx *db.DB, price *core.OraclePrice) error {
	s.prices[price.AssetID] = price
	return nil
}

func (s *fakePrices) Find(ctx context.Context, assetID string) (*core.OraclePrice, error) {
	price, ok := s.prices[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return price, nil
}

func (s *fakePrices) All(ctx context.Context) ([]*core.OraclePrice, error) {
	return nil, nil
}

func (s *fakePrices) AllAveraged(ctx context.Context) ([]*core.OraclePrice, error) {
	return nil, nil
}

func (s *fakePrices) Update(ctx context.Context, tx *db.DB, price *core.OraclePrice) error {
	s.prices[price.AssetID] = price
	return nil
}

type fakeFeed struct {
	spots map[string]decimal.Decimal
}

func (f *fakeFeed) SpotPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	return f.spots[assetID], nil
}

type fakeSource struct {
	cumulative decimal.Decimal
	observedAt time.Time
}

func (f *fakeSource) CumulativePrice(ctx context.Context, assetID string) (decimal.Decimal, time.Time, error) {
	return f.cumulative, f.observedAt, nil
}

func newTestService(source *fakeSource) (core.IOracleService, *fakePrices, *fakeFeed) {
	prices := &fakePrices{prices: map[string]*core.OraclePrice{}}
	feed := &fakeFeed{spots: map[string]decimal.Decimal{}}

	cfg := &core.Config{}
	cfg.App.ReferenceAssetID = "usd"
	cfg.App.OracleWindow = 3600

	return New(nil, cfg, prices, feed, source), prices, feed
}

func TestGetPrice(t *testing.T) {
	ctx := context.Background()
	s, prices, feed := newTestService(&fakeSource{})

	// the reference asset prices itself
	price, err := s.GetPrice(ctx, "usd")
	require.Nil(t, err)
	assert.Equal(t, "1", price.String())

	// the external feed wins when it has a quote
	feed.spots["btc"] = decimal.NewFromInt(60000)
	price, err = s.GetPrice(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "60000", price.String())

	_, err = s.GetPrice(ctx, "eth")
	assert.Equal(t, core.ErrNoPrice, err)

	// an accumulator that never closed a window has nothing to vouch for
	prices.prices["eth"] = &core.OraclePrice{AssetID: "eth"}
	_, err = s.GetPrice(ctx, "eth")
	assert.Equal(t, core.ErrNoPrice, err)

	prices.prices["eth"].Price = decimal.NewFromFloat(0.6875)
	price, err = s.GetPrice(ctx, "eth")
	require.Nil(t, err)
	assert.Equal(t, "0.6875", price.String())
}

func TestGetValue(t *testing.T) {
	ctx := context.Background()
	s, prices, _ := newTestService(&fakeSource{})

	prices.prices["eth"] = &core.OraclePrice{
		AssetID: "eth",
		Price:   decimal.NewFromInt(3),
	}

	value, err := s.GetValue(ctx, "eth", decimal.NewFromInt(20))
	require.Nil(t, err)
	assert.Equal(t, "60", value.String())

	_, err = s.GetValue(ctx, "doge", decimal.NewFromInt(20))
	assert.Equal(t, core.ErrNoPrice, err)
}

func TestUpdateAndGetPrice(t *testing.T) {
	ctx := context.Background()

	now := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{
		cumulative: decimal.NewFromInt(100),
		observedAt: now,
	}
	s, prices, _ := newTestService(source)

	price, err := s.UpdateAndGetPrice(ctx, "usd")
	require.Nil(t, err)
	assert.Equal(t, "1", price.String())

	_, err = s.UpdateAndGetPrice(ctx, "eth")
	assert.Equal(t, core.ErrPriceUninitialized, err)

	// mid window with nothing from a prior window
	prices.prices["eth"] = &core.OraclePrice{
		AssetID:        "eth",
		LastObservedAt: now.Add(-time.Minute),
	}
	_, err = s.UpdateAndGetPrice(ctx, "eth")
	assert.Equal(t, core.ErrPriceNotReady, err)

	// mid window the previous average holds
	prices.prices["eth"].Price = decimal.NewFromFloat(0.6875)
	price, err = s.UpdateAndGetPrice(ctx, "eth")
	require.Nil(t, err)
	assert.Equal(t, "0.6875", price.String())
}

func TestInitPrice(t *testing.T) {
	ctx := context.Background()
	s, prices, _ := newTestService(&fakeSource{})

	prices.prices["eth"] = &core.OraclePrice{AssetID: "eth"}
	assert.Equal(t, core.ErrPriceInitialized, s.InitPrice(ctx, "eth"))
}
