package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/pkg/resthttp"
)

const spotCacheTTL = 10 * time.Second

// Service external price source: spot quotes for feed-listed assets
// and cumulative observations for AMM-paired assets. Implements both
// core.IPriceFeed and core.ILiquiditySource.
type Service struct {
	config *core.Config
	cache  gcache.Cache
}

// New new feed service
func New(config *core.Config) *Service {
	return &Service{
		config: config,
		cache:  gcache.New(128).LRU().Build(),
	}
}

type ticker struct {
	AssetID string          `json:"asset_id"`
	Price   decimal.Decimal `json:"price"`
}

type observation struct {
	AssetID         string          `json:"asset_id"`
	PriceCumulative decimal.Decimal `json:"price_cumulative"`
	Timestamp       int64           `json:"timestamp"`
}

// SpotPrice spot quote for the asset, zero when the feed does not
// list it. Quotes are cached for a few seconds.
func (s *Service) SpotPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	if cached, err := s.cache.Get(assetID); err == nil {
		return cached.(decimal.Decimal), nil
	}

	url := fmt.Sprintf("%s/api/tickers/%s", s.config.Feed.EndPoint, assetID)
	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return decimal.Zero, err
	}

	if resp.StatusCode() == 404 {
		return decimal.Zero, nil
	}

	var t ticker
	if err := resthttp.ParseResponse(resp, &t); err != nil {
		return decimal.Zero, err
	}

	if err := s.cache.SetWithExpire(assetID, t.Price, spotCacheTTL); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("cache spot price failed")
	}

	return t.Price, nil
}

// CumulativePrice the pair's price integral and its timestamp
func (s *Service) CumulativePrice(ctx context.Context, assetID string) (decimal.Decimal, time.Time, error) {
	url := fmt.Sprintf("%s/api/pairs/%s/cumulative", s.config.Feed.EndPoint, assetID)
	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}

	if resp.StatusCode() == 404 {
		return decimal.Zero, time.Time{}, core.ErrNoPrice
	}

	var ob observation
	if err := resthttp.ParseResponse(resp, &ob); err != nil {
		return decimal.Zero, time.Time{}, err
	}

	return ob.PriceCumulative, time.Unix(ob.Timestamp, 0), nil
}
