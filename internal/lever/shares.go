package lever

import (
	"github.com/shopspring/decimal"
)

// BootstrapShares shares burned into the reserve on the first deposit
// so the share price can never be reset by emptying the pool
var BootstrapShares = decimal.New(1, -6)

// SupplySharePrice value of one supply share
// price = (total_available + total_loan) / total_supply_shares
func SupplySharePrice(totalAvailable, totalLoan, totalSupplyShares decimal.Decimal) decimal.Decimal {
	if totalSupplyShares.LessThanOrEqual(decimal.Zero) {
		return decimal.New(1, 0)
	}

	return floorAt(totalAvailable.Add(totalLoan), totalSupplyShares, MaxPricision)
}

// AmountToSupplyShares shares minted for a deposit, rounded down so
// the pool keeps the dust
func AmountToSupplyShares(amount, totalAvailable, totalLoan, totalSupplyShares decimal.Decimal) decimal.Decimal {
	if totalSupplyShares.LessThanOrEqual(decimal.Zero) {
		return amount
	}

	return floorAt(amount.Mul(totalSupplyShares), totalAvailable.Add(totalLoan), MaxPricision)
}

// SupplySharesToAmount underlying paid out for burned supply shares,
// rounded down
func SupplySharesToAmount(shares, totalAvailable, totalLoan, totalSupplyShares decimal.Decimal) decimal.Decimal {
	if totalSupplyShares.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return floorAt(shares.Mul(totalAvailable.Add(totalLoan)), totalSupplyShares, MaxPricision)
}

// AmountToDebtShares debt shares minted for a borrow, rounded up so
// borrowers never owe less than they took
func AmountToDebtShares(amount, totalLoan, totalDebtShares decimal.Decimal) decimal.Decimal {
	if totalDebtShares.LessThanOrEqual(decimal.Zero) {
		return amount
	}

	return ceilAt(amount.Mul(totalDebtShares), totalLoan, MaxPricision)
}

// AmountToRepaidShares debt shares cleared by a repayment, rounded
// down so a borrower cannot clear more than they paid for
func AmountToRepaidShares(amount, totalLoan, totalDebtShares decimal.Decimal) decimal.Decimal {
	if totalLoan.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return floorAt(amount.Mul(totalDebtShares), totalLoan, MaxPricision)
}

// DebtShareValue underlying owed for debt shares, rounded down
func DebtShareValue(shares, totalLoan, totalDebtShares decimal.Decimal) decimal.Decimal {
	if totalDebtShares.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return floorAt(shares.Mul(totalLoan), totalDebtShares, MaxPricision)
}

// Interest simple interest accrued on the loan book
// interest = total_loan * rate * elapsed / seconds_per_year
func Interest(totalLoan, rate decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 || totalLoan.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return floorAt(totalLoan.Mul(rate).Mul(decimal.NewFromInt(elapsed)), SecondsPerYear, MaxPricision)
}

// ReserveShares supply shares minted to the beneficiary so the
// reserve's slice of freshly accrued interest is held as shares
// shares = total_supply_shares * skim / (pool_value - skim)
func ReserveShares(skim, poolValue, totalSupplyShares decimal.Decimal) decimal.Decimal {
	if skim.LessThanOrEqual(decimal.Zero) || totalSupplyShares.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	base := poolValue.Sub(skim)
	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	return floorAt(totalSupplyShares.Mul(skim), base, MaxPricision)
}

// floorAt a / b rounded down at precision, exact regardless of the
// package division precision
func floorAt(a, b decimal.Decimal, precision int32) decimal.Decimal {
	return floorDiv(a.Shift(precision), b).Shift(-precision)
}

// ceilAt a / b rounded up at precision
func ceilAt(a, b decimal.Decimal, precision int32) decimal.Decimal {
	q, r := a.Shift(precision).QuoRem(b, 0)
	if !r.IsZero() {
		q = q.Add(decimal.New(1, 0))
	}

	return q.Shift(-precision)
}
