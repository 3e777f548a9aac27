package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/stockpicker-backend/internal/domain"
	"github.com/simaogato/stockpicker-backend/internal/usecase/portfolio"
)

// Server implements the PortfolioService gRPC server
type Server struct {
	PortfolioService *portfolio.PortfolioService
}

// NewServer creates a new gRPC server instance
func NewServer(portfolioService *portfolio.PortfolioService) *Server {
	return &Server{
		PortfolioService: portfolioService,
	}
}

// Optimize handles the Optimize RPC
// Without an "assets" field the stored catalogue is used
func (s *Server) Optimize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	budget, err := parseBudget(req)
	if err != nil {
		return nil, mapError(err)
	}

	assets, provided, err := parseAssets(req)
	if err != nil {
		return nil, mapError(err)
	}

	var result *domain.AllocationResult
	if provided {
		result, err = s.PortfolioService.Optimize(ctx, budget, assets)
	} else {
		result, err = s.PortfolioService.OptimizeStored(ctx, budget)
	}
	if err != nil {
		return nil, mapError(err)
	}

	return resultToStruct(result)
}

// ListAssets handles the ListAssets RPC
func (s *Server) ListAssets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	assets, err := s.PortfolioService.ListAssets(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	values := make([]interface{}, 0, len(assets))
	for _, asset := range assets {
		values = append(values, assetToValue(asset))
	}

	return newStruct(map[string]interface{}{"assets": values})
}

// AddAsset handles the AddAsset RPC
func (s *Server) AddAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	price, _ := numericText(fields["price"])
	expectedReturn, _ := numericText(fields["expected_return"])

	parsed, err := domain.ParseAsset(-1, fields["symbol"].GetStringValue(), price, expectedReturn)
	if err != nil {
		return nil, mapError(err)
	}

	asset, err := s.PortfolioService.AddAsset(ctx, portfolio.AddAssetInput{
		Symbol:         parsed.Symbol,
		Price:          parsed.Price,
		ExpectedReturn: parsed.ExpectedReturn,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return assetToStruct(*asset)
}

// UpdateAsset handles the UpdateAsset RPC
// Only the fields present in the request are changed
func (s *Server) UpdateAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := parseID(req)
	if err != nil {
		return nil, err
	}

	var input portfolio.UpdateAssetInput
	if v, ok := req.GetFields()["symbol"]; ok {
		symbol := v.GetStringValue()
		input.Symbol = &symbol
	}
	if input.Price, err = optionalDecimal(req, domain.FieldPrice); err != nil {
		return nil, mapError(err)
	}
	if input.ExpectedReturn, err = optionalDecimal(req, domain.FieldExpectedReturn); err != nil {
		return nil, mapError(err)
	}

	asset, err := s.PortfolioService.UpdateAsset(ctx, id, input)
	if err != nil {
		return nil, mapError(err)
	}

	return assetToStruct(*asset)
}

// RemoveAsset handles the RemoveAsset RPC
func (s *Server) RemoveAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := parseID(req)
	if err != nil {
		return nil, err
	}

	if err := s.PortfolioService.RemoveAsset(ctx, id); err != nil {
		return nil, mapError(err)
	}

	return &structpb.Struct{}, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAssetNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
