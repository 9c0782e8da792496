// Package core holds the domain entities and the validation rules of the
// ledger engine. Monetary values are decimal, never floats; currency is a
// label on the wallet and is never converted.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a positive monetary amount from user input. It accepts
// both dot (12.34) and comma (12,34) decimal separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ValidateAmount checks that d is a positive amount.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
