package lever

import (
	"github.com/shopspring/decimal"
)

var (
	// SecondsPerBlock seconds per block
	SecondsPerBlock int64 = 15
	// SecondsPerDay rate drift accrues over at most one day per update
	SecondsPerDay int64 = 86400
	// SecondsPerYear interest accrues per second against this year length
	SecondsPerYear = decimal.NewFromInt(365 * 86400)
	// MaxPricision max pricision
	MaxPricision int32 = 16
)

var (
	wad = decimal.New(1, 18)

	// utilization breakpoints, wad scaled
	utilLowWad  = decimal.New(5, 17)
	utilMidWad  = decimal.New(7, 17)
	utilHighWad = decimal.New(8, 17)
	utilSpanWad = decimal.New(2, 17)
)

// InterestModel drifting borrow-rate curve.
//
// The rate decays while utilization stays below 50%, decays slower up
// to 70%, holds between 70% and 80%, and climbs above 80%. Drift is
// proportional to elapsed time capped at one day, and the result is
// clamped to [MinRate, MaxRate]. All intermediate math runs on wad
// integers with floor division so repeated updates are reproducible to
// the last digit.
type InterestModel struct {
	MinRate    decimal.Decimal
	MaxRate    decimal.Decimal
	AdjustRate decimal.Decimal
}

// UtilizationWad borrow utilization in wad scale
// utilization = debt / (cash + debt)
func UtilizationWad(cash, debt decimal.Decimal) decimal.Decimal {
	total := cash.Add(debt)
	if total.LessThanOrEqual(decimal.Zero) || debt.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return floorDiv(debt.Mul(wad), total)
}

// NextInterestRate the borrow rate after elapsed seconds at the given
// pool balances
func (m InterestModel) NextInterestRate(prev, cash, debt decimal.Decimal, elapsed int64) decimal.Decimal {
	prevWad := toWad(prev)
	if elapsed <= 0 {
		return fromWad(m.clampWad(prevWad))
	}

	if elapsed > SecondsPerDay {
		elapsed = SecondsPerDay
	}

	var (
		t      = decimal.NewFromInt(elapsed)
		day    = decimal.NewFromInt(SecondsPerDay)
		u      = UtilizationWad(cash, debt)
		adjWad = toWad(m.AdjustRate)
		next   decimal.Decimal
	)

	switch {
	case u.LessThan(utilLowWad):
		sub := floorDiv(adjWad.Mul(t), day)
		next = floorDiv(prevWad.Mul(wad.Sub(sub)), wad)
	case u.LessThan(utilMidWad):
		sub := floorDiv(adjWad.Mul(t).Mul(utilMidWad.Sub(u)), day.Mul(utilSpanWad))
		next = floorDiv(prevWad.Mul(wad.Sub(sub)), wad)
	case u.LessThanOrEqual(utilHighWad):
		next = prevWad
	default:
		ratio := floorDiv(adjWad.Mul(wad), wad.Sub(adjWad))
		add := floorDiv(ratio.Mul(u.Sub(utilHighWad)).Mul(t), utilSpanWad.Mul(day))
		next = floorDiv(prevWad.Mul(wad.Add(add)), wad)
	}

	return fromWad(m.clampWad(next))
}

func (m InterestModel) clampWad(rate decimal.Decimal) decimal.Decimal {
	if min := toWad(m.MinRate); rate.LessThan(min) {
		return min
	}
	if max := toWad(m.MaxRate); rate.GreaterThan(max) {
		return max
	}
	return rate
}

func toWad(d decimal.Decimal) decimal.Decimal {
	return d.Mul(wad).Floor()
}

func fromWad(d decimal.Decimal) decimal.Decimal {
	return d.Shift(-18)
}

// floorDiv integer floor division, exact regardless of the package
// division precision
func floorDiv(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, 0)
	return q
}
