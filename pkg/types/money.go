package types

import "github.com/shopspring/decimal"

// CentsToDollars renders an integer cent amount as a two-decimal dollar
// string. All arithmetic stays in cents; this is display-only.
func CentsToDollars(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
