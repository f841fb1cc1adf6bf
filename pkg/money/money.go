package money

import (
	"github.com/shopspring/decimal"

	"github.com/verdemart/verdemart-backend/pkg/enums"
)

var centsPerUnit = decimal.NewFromInt(100)

// FromCents converts minor currency units into a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(centsPerUnit)
}

// Display renders minor units as the storefront price string, e.g. "$50.00 MXN".
func Display(cents int64, currency enums.Currency) string {
	return "$" + FromCents(cents).StringFixed(2) + " " + currency.String()
}
