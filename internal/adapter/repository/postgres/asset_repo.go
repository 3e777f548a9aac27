package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockpicker-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAsset reads one assets row; NUMERIC columns arrive as strings
func scanAsset(row rowScanner) (*domain.Asset, error) {
	var asset domain.Asset
	var priceStr, returnStr string

	if err := row.Scan(&asset.ID, &asset.Symbol, &priceStr, &returnStr); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	asset.Price = price

	expectedReturn, err := decimal.NewFromString(returnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expected_return: %w", err)
	}
	asset.ExpectedReturn = expectedReturn

	return &asset, nil
}

// List returns all assets in insertion order
func (r *assetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	query := `
		SELECT id, symbol, price, expected_return
		FROM assets
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := make([]*domain.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}

	return assets, nil
}

// GetByID retrieves an asset by its ID
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `
		SELECT id, symbol, price, expected_return
		FROM assets
		WHERE id = $1
	`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to get asset by ID: %w", err)
	}

	return asset, nil
}

// Create inserts a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, symbol, price, expected_return)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Symbol,
		asset.Price.String(),
		asset.ExpectedReturn.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// Update replaces symbol, price and expected return of an existing asset
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET symbol = $2, price = $3, expected_return = $4
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Symbol,
		asset.Price.String(),
		asset.ExpectedReturn.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	return expectOneRow(res, asset.ID)
}

// Delete removes an asset
func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id uuid.UUID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("asset %s: %w", id, domain.ErrAssetNotFound)
	}
	return nil
}
