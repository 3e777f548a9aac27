package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		asset   Asset
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid asset",
			asset: Asset{
				ID:             uuid.New(),
				Symbol:         "AAPL",
				Price:          decimal.NewFromInt(175),
				ExpectedReturn: decimal.NewFromInt(12),
			},
			wantErr: false,
		},
		{
			name: "zero expected return is allowed",
			asset: Asset{
				Symbol:         "CASH",
				Price:          decimal.NewFromInt(1),
				ExpectedReturn: decimal.Zero,
			},
			wantErr: false,
		},
		{
			name: "empty symbol should fail",
			asset: Asset{
				Symbol:         "",
				Price:          decimal.NewFromInt(10),
				ExpectedReturn: decimal.NewFromInt(5),
			},
			wantErr: true,
			errMsg:  `symbol "" cannot be empty`,
		},
		{
			name: "zero price should fail",
			asset: Asset{
				Symbol:         "FREE",
				Price:          decimal.Zero,
				ExpectedReturn: decimal.NewFromInt(5),
			},
			wantErr: true,
			errMsg:  "price \"0\" must be positive",
		},
		{
			name: "negative price should fail",
			asset: Asset{
				Symbol:         "NEG",
				Price:          decimal.NewFromInt(-3),
				ExpectedReturn: decimal.NewFromInt(5),
			},
			wantErr: true,
			errMsg:  "must be positive",
		},
		{
			name: "negative return should fail",
			asset: Asset{
				Symbol:         "LOSS",
				Price:          decimal.NewFromInt(10),
				ExpectedReturn: decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "expected_return \"-1\" must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAssetValues_IdentifiesOffendingAsset(t *testing.T) {
	err := ValidateAssetValues(3, Asset{Symbol: "BAD", Price: decimal.NewFromInt(-1), ExpectedReturn: decimal.NewFromInt(2)})
	require.Error(t, err)

	var assetErr *InvalidAssetError
	require.True(t, errors.As(err, &assetErr))
	assert.Equal(t, 3, assetErr.Index)
	assert.Equal(t, "BAD", assetErr.Symbol)
	assert.Equal(t, FieldPrice, assetErr.Field)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Contains(t, err.Error(), "#3")
}

func TestParseAsset(t *testing.T) {
	asset, err := ParseAsset(0, "MSFT", "380.25", "18.5")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", asset.Symbol)
	assert.True(t, asset.Price.Equal(decimal.RequireFromString("380.25")))
	assert.True(t, asset.ExpectedReturn.Equal(decimal.RequireFromString("18.5")))

	_, err = ParseAsset(2, "X", "abc", "1")
	var assetErr *InvalidAssetError
	require.True(t, errors.As(err, &assetErr))
	assert.Equal(t, FieldPrice, assetErr.Field)
	assert.Equal(t, "not a number", assetErr.Reason)

	_, err = ParseAsset(4, "Y", "1", "")
	require.True(t, errors.As(err, &assetErr))
	assert.Equal(t, FieldExpectedReturn, assetErr.Field)
	assert.Equal(t, 4, assetErr.Index)
}

func TestAsset_ReturnValuePerShare(t *testing.T) {
	asset := Asset{Symbol: "B", Price: decimal.NewFromInt(15), ExpectedReturn: decimal.NewFromInt(20)}
	assert.True(t, asset.ReturnValuePerShare().Equal(decimal.NewFromInt(3)))
}

func TestInvalidBudgetError(t *testing.T) {
	err := error(&InvalidBudgetError{Value: "-5", Reason: "must be non-negative"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, `invalid budget "-5": must be non-negative`, err.Error())
}

func TestAllocationResult_Quantity(t *testing.T) {
	result := &AllocationResult{Lines: []AllocationLine{{Symbol: "B", Quantity: 2}}}
	assert.Equal(t, int64(2), result.Quantity("B"))
	assert.Equal(t, int64(0), result.Quantity("A"))

	empty := EmptyAllocation(decimal.NewFromInt(7))
	assert.Empty(t, empty.Lines)
	assert.True(t, empty.RemainingBudget.Equal(decimal.NewFromInt(7)))
}
