package lever

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNextInterestRate(t *testing.T) {
	model := InterestModel{
		MinRate:    decimal.NewFromFloat(0.05),
		MaxRate:    decimal.NewFromInt(100),
		AdjustRate: decimal.NewFromFloat(0.5),
	}

	steep := InterestModel{
		MinRate:    decimal.NewFromFloat(0.05),
		MaxRate:    decimal.NewFromInt(100),
		AdjustRate: decimal.NewFromFloat(0.7),
	}

	cases := []struct {
		name    string
		model   InterestModel
		prev    float64
		cash    int64
		debt    int64
		elapsed int64
		want    string
	}{
		{"idle decays", model, 0.30, 100, 0, 1000, "0.298263888888888888"},
		{"sixty pct decays slower", model, 0.30, 40, 60, 1000, "0.299131944444444444"},
		{"sixty five pct decays slower", model, 0.30, 35, 65, 1000, "0.299565972222222222"},
		{"seventy pct holds", model, 0.30, 30, 70, 1000, "0.3"},
		{"eighty pct holds", model, 0.30, 20, 80, 1000, "0.3"},
		{"eighty five pct climbs", model, 0.30, 15, 85, 1000, "0.300868055555555555"},
		{"ninety pct climbs", model, 0.30, 10, 90, 1000, "0.301736111111111111"},
		{"full utilization climbs", model, 0.30, 0, 100, 1000, "0.303472222222222222"},
		{"drift capped at one day", steep, 0.30, 15, 85, 100000, "0.474999999999999999"},
		{"drift capped at one day ninety", steep, 0.30, 10, 90, 100000, "0.649999999999999999"},
		{"drift capped at one day full", steep, 0.30, 0, 100, 100000, "0.999999999999999999"},
		{"clamped to min", model, 0.01, 100, 0, 1000, "0.05"},
		{"clamped to max", model, 1000, 100, 0, 1000, "100"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.model.NextInterestRate(
				decimal.NewFromFloat(c.prev),
				decimal.NewFromInt(c.cash),
				decimal.NewFromInt(c.debt),
				c.elapsed,
			)
			assert.Equal(t, c.want, got.String())
		})
	}
}

func TestUtilizationWad(t *testing.T) {
	assert.True(t, UtilizationWad(decimal.Zero, decimal.Zero).IsZero())
	assert.True(t, UtilizationWad(decimal.NewFromInt(100), decimal.Zero).IsZero())

	u := UtilizationWad(decimal.NewFromInt(40), decimal.NewFromInt(60))
	assert.Equal(t, "600000000000000000", u.String())

	// floor of 1/3
	u = UtilizationWad(decimal.NewFromInt(2), decimal.NewFromInt(1))
	assert.Equal(t, "333333333333333333", u.String())
}
