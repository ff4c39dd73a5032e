// Package types provides common type aliases and utilities.
package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Quantity is a stock quantity. Source columns are NUMERIC(14,4) at most.
type Quantity = decimal.Decimal

const (
	// MoneyPlaces is the number of fractional digits rendered for money.
	MoneyPlaces int32 = 2
	// QuantityPlaces is the number of fractional digits rendered for quantities.
	QuantityPlaces int32 = 4
)

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDecimal parses a numeric text value.
// Blank input is zero. A single comma without a dot is read as the decimal
// separator ("12,5"), which is how numbers arrive from spreadsheet-fed columns.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// MoneyFloat renders money for JSON.
func MoneyFloat(m Money) float64 {
	return m.Round(MoneyPlaces).InexactFloat64()
}

// QuantityFloat renders a quantity for JSON.
func QuantityFloat(q Quantity) float64 {
	return q.Round(QuantityPlaces).InexactFloat64()
}

// Share returns part/total*100, zero when total is not positive.
func Share(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(total)
}
