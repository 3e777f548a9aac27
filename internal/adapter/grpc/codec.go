package grpc

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/stockpicker-backend/internal/domain"
)

// numericText returns the textual form of a string or number value
func numericText(v *structpb.Value) (string, bool) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, true
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64), true
	default:
		return "", false
	}
}

func parseBudget(req *structpb.Struct) (decimal.Decimal, error) {
	v, ok := req.GetFields()["budget"]
	if !ok {
		return decimal.Zero, &domain.InvalidBudgetError{Reason: "missing"}
	}
	text, ok := numericText(v)
	if !ok {
		return decimal.Zero, &domain.InvalidBudgetError{Reason: "not a number"}
	}
	return domain.ParseBudget(text)
}

// parseAssets reads the "assets" list; ok is false when the field is absent
func parseAssets(req *structpb.Struct) (assets []domain.Asset, ok bool, err error) {
	v, ok := req.GetFields()["assets"]
	if !ok {
		return nil, false, nil
	}

	list := v.GetListValue()
	if list == nil {
		return nil, true, status.Error(codes.InvalidArgument, "assets must be a list")
	}

	assets = make([]domain.Asset, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		fields := item.GetStructValue().GetFields()
		symbol := fields["symbol"].GetStringValue()
		price, _ := numericText(fields["price"])
		expectedReturn, _ := numericText(fields["expected_return"])

		asset, err := domain.ParseAsset(i, symbol, price, expectedReturn)
		if err != nil {
			return nil, true, err
		}
		assets = append(assets, asset)
	}
	return assets, true, nil
}

func parseID(req *structpb.Struct) (uuid.UUID, error) {
	id, err := uuid.Parse(req.GetFields()["id"].GetStringValue())
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}
	return id, nil
}

// optionalDecimal reads an optional numeric field for partial updates
func optionalDecimal(req *structpb.Struct, field string) (*decimal.Decimal, error) {
	v, ok := req.GetFields()[field]
	if !ok {
		return nil, nil
	}
	text, _ := numericText(v)
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, &domain.InvalidAssetError{Index: -1, Field: field, Value: text, Reason: "not a number"}
	}
	return &d, nil
}

func assetToValue(asset domain.Asset) map[string]interface{} {
	return map[string]interface{}{
		"id":              asset.ID.String(),
		"symbol":          asset.Symbol,
		"price":           asset.Price.String(),
		"expected_return": asset.ExpectedReturn.String(),
	}
}

func assetToStruct(asset domain.Asset) (*structpb.Struct, error) {
	return newStruct(assetToValue(asset))
}

func resultToStruct(result *domain.AllocationResult) (*structpb.Struct, error) {
	lines := make([]interface{}, 0, len(result.Lines))
	for _, line := range result.Lines {
		lines = append(lines, map[string]interface{}{
			"symbol":              line.Symbol,
			"unit_price":          line.UnitPrice.String(),
			"quantity":            line.Quantity,
			"total_cost":          line.TotalCost.String(),
			"expected_return_pct": line.ExpectedReturnPct.String(),
			"total_return_value":  line.TotalReturnValue.String(),
		})
	}

	return newStruct(map[string]interface{}{
		"lines":                       lines,
		"total_investment":            result.TotalInvestment.String(),
		"total_expected_return_value": result.TotalExpectedReturnValue.String(),
		"remaining_budget":            result.RemainingBudget.String(),
		"objective_value":             result.ObjectiveValue.String(),
		"method":                      string(result.Method),
	})
}

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}
