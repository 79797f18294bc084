package number

import (
	"github.com/shopspring/decimal"
)

// Decimal parse a decimal, zero when the text is not one
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}
