package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asset represents a candidate asset the allocator may buy shares of
// Symbol is an opaque identifier; uniqueness is not enforced
type Asset struct {
	ID             uuid.UUID
	Symbol         string
	Price          decimal.Decimal // Price of one share, must be positive
	ExpectedReturn decimal.Decimal // Percentage points (12 = 12%), must be non-negative
}

// Validate ensures the asset adheres to domain rules
// Returns an error if validation fails
func (a *Asset) Validate() error {
	if a.Symbol == "" {
		return &InvalidAssetError{Index: -1, Field: FieldSymbol, Reason: "cannot be empty"}
	}

	return ValidateAssetValues(-1, *a)
}

// ValidateAssetValues checks only the numeric fields of an asset
// index identifies the asset in its list, -1 when it is not part of one
func ValidateAssetValues(index int, a Asset) error {
	if !InRange(a.Price) {
		return &InvalidAssetError{Index: index, Symbol: a.Symbol, Field: FieldPrice, Value: scientific(a.Price), Reason: reasonOutOfRange}
	}
	if !InRange(a.ExpectedReturn) {
		return &InvalidAssetError{Index: index, Symbol: a.Symbol, Field: FieldExpectedReturn, Value: scientific(a.ExpectedReturn), Reason: reasonOutOfRange}
	}

	if !a.Price.IsPositive() {
		return &InvalidAssetError{
			Index:  index,
			Symbol: a.Symbol,
			Field:  FieldPrice,
			Value:  a.Price.String(),
			Reason: "must be positive",
		}
	}

	if a.ExpectedReturn.IsNegative() {
		return &InvalidAssetError{
			Index:  index,
			Symbol: a.Symbol,
			Field:  FieldExpectedReturn,
			Value:  a.ExpectedReturn.String(),
			Reason: "must be non-negative",
		}
	}

	return nil
}

// ParseAsset builds an asset from raw text fields, as received from a form, CSV row or API payload
// Non-numeric or out of range price and return values are reported as InvalidAssetError
func ParseAsset(index int, symbol, price, expectedReturn string) (Asset, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return Asset{}, &InvalidAssetError{Index: index, Symbol: symbol, Field: FieldPrice, Value: price, Reason: "not a number"}
	}

	r, err := decimal.NewFromString(expectedReturn)
	if err != nil {
		return Asset{}, &InvalidAssetError{Index: index, Symbol: symbol, Field: FieldExpectedReturn, Value: expectedReturn, Reason: "not a number"}
	}

	if !InRange(p) {
		return Asset{}, &InvalidAssetError{Index: index, Symbol: symbol, Field: FieldPrice, Value: price, Reason: reasonOutOfRange}
	}
	if !InRange(r) {
		return Asset{}, &InvalidAssetError{Index: index, Symbol: symbol, Field: FieldExpectedReturn, Value: expectedReturn, Reason: reasonOutOfRange}
	}

	return Asset{Symbol: symbol, Price: p, ExpectedReturn: r}, nil
}

// ReturnValuePerShare is the monetary return of holding one share: price * expectedReturn / 100
func (a Asset) ReturnValuePerShare() decimal.Decimal {
	return a.Price.Mul(a.ExpectedReturn).Div(hundred)
}

var hundred = decimal.NewFromInt(100)
