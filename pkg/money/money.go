// Package money wraps the shopspring decimal type for the monetary values
// carried on records, so amounts survive transport and summation exactly.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Parse converts the wire representation of an amount into a decimal.
// Anything decimal cannot parse (empty, NaN-ish, stray text) is rejected.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d, nil
}

// Format renders an amount for the wire. Decimal's canonical string form
// round-trips exactly through Parse.
func Format(d decimal.Decimal) string {
	return d.String()
}

// Sum adds amounts without floating-point drift. The result is the same
// for any permutation of the inputs.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
