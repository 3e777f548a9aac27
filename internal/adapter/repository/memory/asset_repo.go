package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/stockpicker-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository in process memory
type assetRepository struct {
	mu     sync.RWMutex
	order  []uuid.UUID
	assets map[uuid.UUID]domain.Asset
}

// NewAssetRepository creates an empty in-memory asset repository
func NewAssetRepository() domain.AssetRepository {
	return &assetRepository{assets: make(map[uuid.UUID]domain.Asset)}
}

// List returns copies of all assets in insertion order
func (r *assetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := make([]*domain.Asset, 0, len(r.order))
	for _, id := range r.order {
		asset := r.assets[id]
		assets = append(assets, &asset)
	}
	return assets, nil
}

// GetByID retrieves a copy of the asset
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, ok := r.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %s: %w", id, domain.ErrAssetNotFound)
	}
	return &asset, nil
}

// Create stores a copy of the asset at the end of the list
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[asset.ID]; ok {
		return fmt.Errorf("failed to create asset: id %s already exists", asset.ID)
	}
	r.assets[asset.ID] = *asset
	r.order = append(r.order, asset.ID)
	return nil
}

// Update replaces the stored asset, keeping its position
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[asset.ID]; !ok {
		return fmt.Errorf("asset %s: %w", asset.ID, domain.ErrAssetNotFound)
	}
	r.assets[asset.ID] = *asset
	return nil
}

// Delete removes the asset
func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[id]; !ok {
		return fmt.Errorf("asset %s: %w", id, domain.ErrAssetNotFound)
	}
	delete(r.assets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
