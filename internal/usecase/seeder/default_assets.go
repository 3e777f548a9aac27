package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockpicker-backend/internal/domain"
)

// Fixed UUIDs for the default assets so reseeding is recognisable
var (
	DEFAULT_AAPL  = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	DEFAULT_GOOGL = uuid.MustParse("00000000-0000-0000-0000-000000000102")
	DEFAULT_MSFT  = uuid.MustParse("00000000-0000-0000-0000-000000000103")
	DEFAULT_AMZN  = uuid.MustParse("00000000-0000-0000-0000-000000000104")
	DEFAULT_TSLA  = uuid.MustParse("00000000-0000-0000-0000-000000000105")
)

// DefaultAssets returns the starter catalogue
func DefaultAssets() []domain.Asset {
	return []domain.Asset{
		{ID: DEFAULT_AAPL, Symbol: "AAPL", Price: decimal.NewFromInt(175), ExpectedReturn: decimal.NewFromInt(12)},
		{ID: DEFAULT_GOOGL, Symbol: "GOOGL", Price: decimal.NewFromInt(140), ExpectedReturn: decimal.NewFromInt(15)},
		{ID: DEFAULT_MSFT, Symbol: "MSFT", Price: decimal.NewFromInt(380), ExpectedReturn: decimal.NewFromInt(18)},
		{ID: DEFAULT_AMZN, Symbol: "AMZN", Price: decimal.NewFromInt(145), ExpectedReturn: decimal.NewFromInt(14)},
		{ID: DEFAULT_TSLA, Symbol: "TSLA", Price: decimal.NewFromInt(240), ExpectedReturn: decimal.NewFromInt(20)},
	}
}

// DefaultAssetSeeder fills an empty catalogue with the starter assets
type DefaultAssetSeeder struct {
	repo domain.AssetRepository
}

// NewDefaultAssetSeeder creates a new DefaultAssetSeeder instance
func NewDefaultAssetSeeder(repo domain.AssetRepository) *DefaultAssetSeeder {
	return &DefaultAssetSeeder{
		repo: repo,
	}
}

// Seed inserts the default assets when the catalogue is empty
// A catalogue the user already edited is left alone
// Returns the number of assets inserted
func (s *DefaultAssetSeeder) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list assets: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	seeded := 0
	for _, asset := range DefaultAssets() {
		asset := asset

		if err := asset.Validate(); err != nil {
			return seeded, err
		}

		if err := s.repo.Create(ctx, &asset); err != nil {
			return seeded, fmt.Errorf("failed to seed %s: %w", asset.Symbol, err)
		}
		seeded++
	}

	return seeded, nil
}
