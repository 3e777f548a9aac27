package portfolio

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/stockpicker-backend/internal/domain"
	"github.com/simaogato/stockpicker-backend/internal/logger"
	"github.com/simaogato/stockpicker-backend/internal/usecase/allocator"
)

// AddAssetInput represents the input for adding an asset to the catalogue
type AddAssetInput struct {
	Symbol         string
	Price          decimal.Decimal
	ExpectedReturn decimal.Decimal
}

// UpdateAssetInput represents a partial update; nil fields are left unchanged
type UpdateAssetInput struct {
	Symbol         *string
	Price          *decimal.Decimal
	ExpectedReturn *decimal.Decimal
}

// PortfolioService manages the asset catalogue and runs allocations over it
type PortfolioService struct {
	AssetRepo domain.AssetRepository
	Allocator *allocator.Allocator
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(assetRepo domain.AssetRepository, alloc *allocator.Allocator) *PortfolioService {
	return &PortfolioService{
		AssetRepo: assetRepo,
		Allocator: alloc,
	}
}

// ListAssets returns the catalogue in insertion order
func (s *PortfolioService) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	stored, err := s.AssetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	assets := make([]domain.Asset, 0, len(stored))
	for _, asset := range stored {
		assets = append(assets, *asset)
	}
	return assets, nil
}

// AddAsset validates and appends a new asset to the catalogue
func (s *PortfolioService) AddAsset(ctx context.Context, input AddAssetInput) (*domain.Asset, error) {
	asset := &domain.Asset{
		ID:             uuid.New(),
		Symbol:         input.Symbol,
		Price:          input.Price,
		ExpectedReturn: input.ExpectedReturn,
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.AssetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("asset added", "id", asset.ID, "symbol", asset.Symbol)
	return asset, nil
}

// UpdateAsset applies a partial update to an existing asset
func (s *PortfolioService) UpdateAsset(ctx context.Context, id uuid.UUID, input UpdateAssetInput) (*domain.Asset, error) {
	asset, err := s.AssetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Symbol != nil {
		asset.Symbol = *input.Symbol
	}
	if input.Price != nil {
		asset.Price = *input.Price
	}
	if input.ExpectedReturn != nil {
		asset.ExpectedReturn = *input.ExpectedReturn
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.AssetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infow("asset updated", "id", asset.ID, "symbol", asset.Symbol)
	return asset, nil
}

// RemoveAsset deletes an asset from the catalogue
func (s *PortfolioService) RemoveAsset(ctx context.Context, id uuid.UUID) error {
	if err := s.AssetRepo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Infow("asset removed", "id", id)
	return nil
}

// Optimize allocates budget across the given assets; the catalogue is not touched
func (s *PortfolioService) Optimize(ctx context.Context, budget decimal.Decimal, assets []domain.Asset) (*domain.AllocationResult, error) {
	log := logger.FromContext(ctx)

	result, err := s.Allocator.Optimize(ctx, budget, assets)
	if err != nil {
		log.Warnw("optimization rejected", "assets", len(assets), zap.Error(err))
		return nil, err
	}

	if dups := duplicateSymbols(assets); len(dups) > 0 {
		log.Warnw("duplicate symbols ignored, first occurrence kept", "symbols", dups)
	}

	log.Infow("optimization finished",
		"budget", budget.String(),
		"assets", len(assets),
		"method", result.Method,
		"lines", len(result.Lines),
		"total_investment", result.TotalInvestment.String(),
		"objective", result.ObjectiveValue.String(),
	)
	return result, nil
}

// OptimizeStored allocates budget across the stored catalogue
func (s *PortfolioService) OptimizeStored(ctx context.Context, budget decimal.Decimal) (*domain.AllocationResult, error) {
	assets, err := s.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	return s.Optimize(ctx, budget, assets)
}

// duplicateSymbols lists every symbol that occurs more than once, in order of its second occurrence
func duplicateSymbols(assets []domain.Asset) []string {
	count := make(map[string]int, len(assets))
	var dups []string
	for _, asset := range assets {
		count[asset.Symbol]++
		if count[asset.Symbol] == 2 {
			dups = append(dups, asset.Symbol)
		}
	}
	return dups
}
