package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by every input validation error
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAssetNotFound is returned when an asset id is unknown to the catalogue
	ErrAssetNotFound = errors.New("asset not found")
)

// Asset fields reported by InvalidAssetError
const (
	FieldPrice          = "price"
	FieldExpectedReturn = "expected_return"
	FieldSymbol         = "symbol"
)

// InvalidBudgetError reports a budget that is negative, non-numeric, out of range or above the configured ceiling
type InvalidBudgetError struct {
	Value  string
	Reason string
}

func (e *InvalidBudgetError) Error() string {
	return fmt.Sprintf("invalid budget %q: %s", e.Value, e.Reason)
}

func (e *InvalidBudgetError) Unwrap() error { return ErrInvalidArgument }

// InvalidAssetError reports the offending asset and field
type InvalidAssetError struct {
	Index  int // position in the submitted list, -1 for a single asset
	Symbol string
	Field  string
	Value  string
	Reason string
}

func (e *InvalidAssetError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid asset %q: %s %q %s", e.Symbol, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid asset #%d (%q): %s %q %s", e.Index, e.Symbol, e.Field, e.Value, e.Reason)
}

func (e *InvalidAssetError) Unwrap() error { return ErrInvalidArgument }
