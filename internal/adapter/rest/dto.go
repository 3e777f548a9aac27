package rest

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stockpicker-backend/internal/domain"
)

// numeric holds the raw text of a JSON string or number so parse errors can name the field
type numeric string

func (n *numeric) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		*n = numeric(text)
		return nil
	}
	*n = numeric(b)
	return nil
}

type assetRequest struct {
	Symbol         string  `json:"symbol"`
	Price          numeric `json:"price"`
	ExpectedReturn numeric `json:"expected_return"`
}

type updateAssetRequest struct {
	Symbol         *string  `json:"symbol"`
	Price          *numeric `json:"price"`
	ExpectedReturn *numeric `json:"expected_return"`
}

type optimizeRequest struct {
	Budget numeric `json:"budget"`
	// nil means the stored catalogue is used
	Assets *[]assetRequest `json:"assets"`
}

type assetResponse struct {
	ID             uuid.UUID       `json:"id"`
	Symbol         string          `json:"symbol"`
	Price          decimal.Decimal `json:"price"`
	ExpectedReturn decimal.Decimal `json:"expected_return"`
}

type lineResponse struct {
	Symbol            string          `json:"symbol"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Quantity          int64           `json:"quantity"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	ExpectedReturnPct decimal.Decimal `json:"expected_return_pct"`
	TotalReturnValue  decimal.Decimal `json:"total_return_value"`
}

type allocationResponse struct {
	Lines                    []lineResponse  `json:"lines"`
	TotalInvestment          decimal.Decimal `json:"total_investment"`
	TotalExpectedReturnValue decimal.Decimal `json:"total_expected_return_value"`
	RemainingBudget          decimal.Decimal `json:"remaining_budget"`
	ObjectiveValue           decimal.Decimal `json:"objective_value"`
	Method                   string          `json:"method"`
}

func (r optimizeRequest) budget() (decimal.Decimal, error) {
	return domain.ParseBudget(string(r.Budget))
}

func (r optimizeRequest) assets() ([]domain.Asset, error) {
	assets := make([]domain.Asset, 0, len(*r.Assets))
	for i, a := range *r.Assets {
		asset, err := domain.ParseAsset(i, a.Symbol, string(a.Price), string(a.ExpectedReturn))
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func optionalDecimal(field string, n *numeric) (*decimal.Decimal, error) {
	if n == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(string(*n))
	if err != nil {
		return nil, &domain.InvalidAssetError{Index: -1, Field: field, Value: string(*n), Reason: "not a number"}
	}
	return &d, nil
}

func toAssetResponse(a domain.Asset) assetResponse {
	return assetResponse{
		ID:             a.ID,
		Symbol:         a.Symbol,
		Price:          a.Price,
		ExpectedReturn: a.ExpectedReturn,
	}
}

func toAllocationResponse(r *domain.AllocationResult) allocationResponse {
	lines := make([]lineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, lineResponse{
			Symbol:            l.Symbol,
			UnitPrice:         l.UnitPrice,
			Quantity:          l.Quantity,
			TotalCost:         l.TotalCost,
			ExpectedReturnPct: l.ExpectedReturnPct,
			TotalReturnValue:  l.TotalReturnValue,
		})
	}

	return allocationResponse{
		Lines:                    lines,
		TotalInvestment:          r.TotalInvestment,
		TotalExpectedReturnValue: r.TotalExpectedReturnValue,
		RemainingBudget:          r.RemainingBudget,
		ObjectiveValue:           r.ObjectiveValue,
		Method:                   string(r.Method),
	}
}
