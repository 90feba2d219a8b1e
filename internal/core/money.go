// Package core holds the domain model for the finance tracker: money,
// civil dates, cadences, the period resolver and the billing calendar.
//
// Monetary amounts are exact decimals. All arithmetic stays in decimal
// form; rounding to display precision happens only at the boundary via
// DisplayAmount and Percentage.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a money amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative amounts are rejected; zero is allowed (a free trial is a valid
// subscription price).
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// DisplayAmount rounds to two fractional digits, half-up. This is the only
// place amounts are rounded; intermediate computation keeps full precision.
func DisplayAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percentage returns part/whole*100 rounded to one decimal, as a float for
// presentation. A zero or negative whole yields 0, never a division error.
func Percentage(part, whole decimal.Decimal) float64 {
	if whole.Sign() <= 0 {
		return 0
	}
	pct := part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1)
	f, _ := pct.Float64()
	return f
}

// ClampPercent limits a percentage to the [0, 100] range.
func ClampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
