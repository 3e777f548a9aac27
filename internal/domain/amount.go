package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Accepted magnitude of budgets, prices and returns
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 8
)

// maxExponent bounds the raw exponent before any digit counting;
// "1e-20000000" parses cheaply but rescaling it does not
const maxExponent = 64

const reasonOutOfRange = "out of range"

// InRange reports whether d has at most MaxIntegerDigits digits before the point
// and MaxFractionDigits significant digits after it
func InRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxExponent || exp < -maxExponent {
		return false
	}
	if !d.IsZero() && d.NumDigits()+int(exp) > MaxIntegerDigits {
		return false
	}
	return DecimalPlaces(d) <= MaxFractionDigits
}

// DecimalPlaces returns the number of digits after the point, ignoring trailing zeros
// d must be InRange or at least have an exponent within ±64
func DecimalPlaces(d decimal.Decimal) int32 {
	exp := d.Exponent()
	if exp >= 0 {
		return 0
	}
	for p := int32(0); p < -exp; p++ {
		if d.Equal(d.Truncate(p)) {
			return p
		}
	}
	return -exp
}

// ParseBudget reads a budget from text; the sign is checked by ValidateBudget
func ParseBudget(text string) (decimal.Decimal, error) {
	if text == "" {
		return decimal.Zero, &InvalidBudgetError{Reason: "missing"}
	}
	budget, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, &InvalidBudgetError{Value: text, Reason: "not a number"}
	}
	if !InRange(budget) {
		return decimal.Zero, &InvalidBudgetError{Value: text, Reason: reasonOutOfRange}
	}
	return budget, nil
}

// ValidateBudget rejects negative and out of range budgets
func ValidateBudget(budget decimal.Decimal) error {
	if !InRange(budget) {
		return &InvalidBudgetError{Value: scientific(budget), Reason: reasonOutOfRange}
	}
	if budget.IsNegative() {
		return &InvalidBudgetError{Value: budget.String(), Reason: "must be non-negative"}
	}
	return nil
}

// scientific formats d without expanding its exponent; String() on 1e20000000 allocates every digit
func scientific(d decimal.Decimal) string {
	return fmt.Sprintf("%se%d", d.Coefficient().String(), d.Exponent())
}
