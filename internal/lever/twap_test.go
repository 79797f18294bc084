package lever

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTimeWeightedAverage(t *testing.T) {
	// one second at 0.5 then three seconds at 0.75
	cumulative := decimal.RequireFromString("0.5").
		Add(decimal.RequireFromString("0.75").Mul(decimal.NewFromInt(3)))

	avg := TimeWeightedAverage(cumulative, decimal.Zero, 4)
	assert.Equal(t, "0.6875", avg.String())

	// window baseline subtracted out
	avg = TimeWeightedAverage(cumulative.Add(decimal.NewFromInt(10)), decimal.NewFromInt(10), 4)
	assert.Equal(t, "0.6875", avg.String())

	assert.True(t, TimeWeightedAverage(cumulative, decimal.Zero, 0).IsZero())
}
