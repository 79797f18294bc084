package lever

import (
	"github.com/shopspring/decimal"
)

// TimeWeightedAverage average price over a closed observation window.
// average = (cumulative_now - cumulative_last) / elapsed
func TimeWeightedAverage(cumulativeNow, cumulativeLast decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 {
		return decimal.Zero
	}

	return floorAt(cumulativeNow.Sub(cumulativeLast), decimal.NewFromInt(elapsed), MaxPricision)
}
