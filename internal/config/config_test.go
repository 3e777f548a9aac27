package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockpicker-backend/internal/usecase/allocator"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.GRPCPort)
	assert.Equal(t, 8081, cfg.HTTPPort)
	assert.Equal(t, "dev-token", cfg.APIToken)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.True(t, cfg.SeedDefaultAssets)
	assert.Equal(t, allocator.DefaultUnitScale, cfg.Allocator.UnitScale)
	assert.Equal(t, allocator.DefaultMaxTableUnits, cfg.Allocator.MaxTableUnits)
	assert.Equal(t, allocator.RepetitionUnbounded, cfg.Allocator.Repetition)
	assert.True(t, cfg.Allocator.MaxBudget.IsZero())
	assert.Contains(t, cfg.DBConnStr, "dbname=stockpicker")
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GRPC_PORT", "9090")
	t.Setenv("STORAGE", "Postgres")
	t.Setenv("DB_CONN_STR", "postgres://u:p@db/stocks")
	t.Setenv("SEED_DEFAULT_ASSETS", "false")
	t.Setenv("ALLOCATOR_MAX_BUDGET", "1000000")
	t.Setenv("ALLOCATOR_REPETITION", "single_share")
	t.Setenv("ALLOCATOR_OBJECTIVE", "return_rate")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "postgres://u:p@db/stocks", cfg.DBConnStr)
	assert.False(t, cfg.SeedDefaultAssets)
	assert.True(t, cfg.Allocator.MaxBudget.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, allocator.RepetitionSingleShare, cfg.Allocator.Repetition)
	assert.Equal(t, allocator.ObjectiveReturnRate, cfg.Allocator.Objective)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		errMsg string
	}{
		{name: "unknown storage", key: "STORAGE", value: "redis", errMsg: "STORAGE must be"},
		{name: "bad max budget", key: "ALLOCATOR_MAX_BUDGET", value: "lots", errMsg: "invalid ALLOCATOR_MAX_BUDGET"},
		{name: "negative max budget", key: "ALLOCATOR_MAX_BUDGET", value: "-1", errMsg: "must be non-negative"},
		{name: "unit scale out of range", key: "ALLOCATOR_UNIT_SCALE", value: "9", errMsg: "ALLOCATOR_UNIT_SCALE"},
		{name: "unknown objective", key: "ALLOCATOR_OBJECTIVE", value: "sharpe", errMsg: "unknown ALLOCATOR_OBJECTIVE"},
		{name: "same ports", key: "HTTP_PORT", value: "8080", errMsg: "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
