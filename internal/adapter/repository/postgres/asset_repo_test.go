//go:build integration

package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockpicker-backend/internal/domain"
)

// openTestDB connects to DB_CONN_STR; run with: go test -tags integration ./...
func openTestDB(t *testing.T) *DB {
	connStr := os.Getenv("DB_CONN_STR")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=stockpicker sslmode=disable"
	}

	db, err := NewDB(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	_, err = db.Exec(`TRUNCATE assets`)
	require.NoError(t, err)

	return db
}

func TestAssetRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewAssetRepository(openTestDB(t))

	first := &domain.Asset{ID: uuid.New(), Symbol: "AAPL", Price: decimal.RequireFromString("175.25"), ExpectedReturn: decimal.RequireFromString("12.5")}
	second := &domain.Asset{ID: uuid.New(), Symbol: "TSLA", Price: decimal.NewFromInt(240), ExpectedReturn: decimal.NewFromInt(20)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.True(t, got.Price.Equal(first.Price))
	assert.True(t, got.ExpectedReturn.Equal(first.ExpectedReturn))

	first.Price = decimal.NewFromInt(180)
	require.NoError(t, repo.Update(ctx, first))

	assets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "AAPL", assets[0].Symbol)
	assert.True(t, assets[0].Price.Equal(decimal.NewFromInt(180)))
	assert.Equal(t, "TSLA", assets[1].Symbol)

	require.NoError(t, repo.Delete(ctx, second.ID))
	_, err = repo.GetByID(ctx, second.ID)
	assert.True(t, errors.Is(err, domain.ErrAssetNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, second.ID), domain.ErrAssetNotFound))
}
