package domain

import (
	"context"

	"github.com/google/uuid"
)

// AssetRepository defines the interface for asset catalogue persistence operations
type AssetRepository interface {
	// List returns all assets in insertion order
	List(ctx context.Context) ([]*Asset, error)

	// GetByID retrieves an asset by its ID
	// Returns an error wrapping ErrAssetNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// Create stores a new asset at the end of the list
	Create(ctx context.Context, asset *Asset) error

	// Update replaces symbol, price and expected return of an existing asset
	Update(ctx context.Context, asset *Asset) error

	// Delete removes an asset
	Delete(ctx context.Context, id uuid.UUID) error
}
