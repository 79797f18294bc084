package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lever/core"
)

func newFeedServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tickers/btc", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"asset_id":"btc","price":"60000"}`))
	})
	mux.HandleFunc("/api/pairs/eth/cumulative", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"asset_id":"eth","price_cumulative":"100.5","timestamp":1672574400}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestService(endpoint string) *Service {
	cfg := &core.Config{}
	cfg.Feed.EndPoint = endpoint
	return New(cfg)
}

func TestSpotPrice(t *testing.T) {
	ctx := context.Background()
	server := newFeedServer(t)
	s := newTestService(server.URL)

	price, err := s.SpotPrice(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "60000", price.String())

	// unlisted assets quote zero
	price, err = s.SpotPrice(ctx, "doge")
	require.Nil(t, err)
	assert.True(t, price.IsZero())

	// quotes are served from cache while the ttl lasts
	server.Close()
	price, err = s.SpotPrice(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, "60000", price.String())
}

func TestCumulativePrice(t *testing.T) {
	ctx := context.Background()
	server := newFeedServer(t)
	s := newTestService(server.URL)

	cumulative, observedAt, err := s.CumulativePrice(ctx, "eth")
	require.Nil(t, err)
	assert.Equal(t, "100.5", cumulative.String())
	assert.Equal(t, time.Unix(1672574400, 0), observedAt)

	_, _, err = s.CumulativePrice(ctx, "doge")
	assert.Equal(t, core.ErrNoPrice, err)
}
