package oracle

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/internal/lever"
)

type service struct {
	db     *db.DB
	config *core.Config
	prices core.IOracleStore
	feed   core.IPriceFeed
	source core.ILiquiditySource
}

// New new oracle service
func New(
	database *db.DB,
	config *core.Config,
	prices core.IOracleStore,
	feed core.IPriceFeed,
	source core.ILiquiditySource,
) core.IOracleService {
	return &service{
		db:     database,
		config: config,
		prices: prices,
		feed:   feed,
		source: source,
	}
}

// InitPrice seeds the accumulator baseline for an AMM-paired asset
func (s *service) InitPrice(ctx context.Context, assetID string) error {
	if _, err := s.prices.Find(ctx, assetID); err == nil {
		return core.ErrPriceInitialized
	} else if !gorm.IsRecordNotFoundError(err) {
		return err
	}

	cumulative, observedAt, err := s.source.CumulativePrice(ctx, assetID)
	if err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		return s.prices.Save(ctx, tx, &core.OraclePrice{
			AssetID:         assetID,
			PriceCumulative: cumulative,
			LastObservedAt:  observedAt,
		})
	})
}

// UpdateAndGetPrice rolls the accumulator forward and returns the
// freshest price the oracle can vouch for. External assets return the
// spot quote directly; AMM assets return the time weighted average
// over the last full window and keep the previous average until a new
// window completes.
func (s *service) UpdateAndGetPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	if assetID == s.config.App.ReferenceAssetID {
		return decimal.New(1, 0), nil
	}

	spot, err := s.feed.SpotPrice(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	if spot.IsPositive() {
		if err := s.cacheExternal(ctx, assetID, spot); err != nil {
			return decimal.Zero, err
		}
		return spot, nil
	}

	price, err := s.prices.Find(ctx, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, core.ErrPriceUninitialized
		}
		return decimal.Zero, err
	}

	cumulative, observedAt, err := s.source.CumulativePrice(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	elapsed := observedAt.Sub(price.LastObservedAt)
	if elapsed < time.Duration(s.config.App.OracleWindow)*time.Second {
		if price.Price.IsPositive() {
			return price.Price, nil
		}
		return decimal.Zero, core.ErrPriceNotReady
	}

	average := lever.TimeWeightedAverage(cumulative, price.PriceCumulative, int64(elapsed.Seconds()))

	price.Price = average
	price.PriceCumulative = cumulative
	price.LastObservedAt = observedAt

	if err := s.db.Tx(func(tx *db.DB) error {
		return s.prices.Update(ctx, tx, price)
	}); err != nil {
		return decimal.Zero, err
	}

	return average, nil
}

// GetPrice last known price without advancing the accumulator
func (s *service) GetPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	if assetID == s.config.App.ReferenceAssetID {
		return decimal.New(1, 0), nil
	}

	spot, err := s.feed.SpotPrice(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	if spot.IsPositive() {
		return spot, nil
	}

	price, err := s.prices.Find(ctx, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return decimal.Zero, core.ErrNoPrice
		}
		return decimal.Zero, err
	}

	if !price.Price.IsPositive() {
		return decimal.Zero, core.ErrNoPrice
	}

	return price.Price, nil
}

// GetValue amount of the asset valued in the reference asset
func (s *service) GetValue(ctx context.Context, assetID string, amount decimal.Decimal) (decimal.Decimal, error) {
	price, err := s.GetPrice(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Mul(price).Truncate(lever.MaxPricision), nil
}

func (s *service) cacheExternal(ctx context.Context, assetID string, spot decimal.Decimal) error {
	price, err := s.prices.Find(ctx, assetID)
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		return s.db.Tx(func(tx *db.DB) error {
			return s.prices.Save(ctx, tx, &core.OraclePrice{
				AssetID:        assetID,
				External:       true,
				Price:          spot,
				LastObservedAt: time.Now(),
			})
		})
	}

	price.External = true
	price.Price = spot
	price.LastObservedAt = time.Now()

	return s.db.Tx(func(tx *db.DB) error {
		return s.prices.Update(ctx, tx, price)
	})
}
