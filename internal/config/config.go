// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stockpicker-backend/internal/usecase/allocator"
)

// Storage backends for the asset catalogue
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	GRPCPort          int
	HTTPPort          int
	APIToken          string
	Storage           string // "memory" or "postgres"
	DBConnStr         string
	Env               string
	LogLevel          string
	SeedDefaultAssets bool
	Allocator         allocator.Config
}

// Load reads configuration from environment variables
// A .env file in the working directory is loaded first if present
func Load() (*Config, error) {
	_ = godotenv.Load()

	maxBudget, err := decimal.NewFromString(getEnv("ALLOCATOR_MAX_BUDGET", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOCATOR_MAX_BUDGET: %w", err)
	}

	cfg := &Config{
		GRPCPort:          getEnvAsInt("GRPC_PORT", 8080),
		HTTPPort:          getEnvAsInt("HTTP_PORT", 8081),
		APIToken:          getEnv("API_TOKEN", "dev-token"),
		Storage:           strings.ToLower(getEnv("STORAGE", StorageMemory)),
		DBConnStr:         dbConnString(),
		Env:               getEnv("APP_ENV", "dev"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		SeedDefaultAssets: getEnvAsBool("SEED_DEFAULT_ASSETS", true),
		Allocator: allocator.Config{
			UnitScale:     int32(getEnvAsInt("ALLOCATOR_UNIT_SCALE", int(allocator.DefaultUnitScale))),
			ReturnScale:   int32(getEnvAsInt("ALLOCATOR_RETURN_SCALE", int(allocator.DefaultReturnScale))),
			MaxTableUnits: int64(getEnvAsInt("ALLOCATOR_MAX_TABLE_UNITS", int(allocator.DefaultMaxTableUnits))),
			MaxBudget:     maxBudget,
			Repetition:    allocator.Repetition(getEnv("ALLOCATOR_REPETITION", string(allocator.RepetitionUnbounded))),
			Objective:     allocator.Objective(getEnv("ALLOCATOR_OBJECTIVE", string(allocator.ObjectiveMonetaryReturn))),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid GRPC_PORT %d", c.GRPCPort)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTPPort)
	}
	if c.GRPCPort == c.HTTPPort {
		return errors.New("GRPC_PORT and HTTP_PORT must differ")
	}
	if c.Storage != StorageMemory && c.Storage != StoragePostgres {
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage)
	}
	if c.Allocator.UnitScale < 0 || c.Allocator.UnitScale > 6 {
		return fmt.Errorf("ALLOCATOR_UNIT_SCALE must be between 0 and 6, got %d", c.Allocator.UnitScale)
	}
	if c.Allocator.ReturnScale < 0 || c.Allocator.ReturnScale > 8 {
		return fmt.Errorf("ALLOCATOR_RETURN_SCALE must be between 0 and 8, got %d", c.Allocator.ReturnScale)
	}
	if c.Allocator.MaxTableUnits <= 0 {
		return errors.New("ALLOCATOR_MAX_TABLE_UNITS must be positive")
	}
	if c.Allocator.MaxBudget.IsNegative() {
		return errors.New("ALLOCATOR_MAX_BUDGET must be non-negative")
	}
	switch c.Allocator.Repetition {
	case allocator.RepetitionUnbounded, allocator.RepetitionSingleShare:
	default:
		return fmt.Errorf("unknown ALLOCATOR_REPETITION %q", c.Allocator.Repetition)
	}
	switch c.Allocator.Objective {
	case allocator.ObjectiveMonetaryReturn, allocator.ObjectiveReturnRate:
	default:
		return fmt.Errorf("unknown ALLOCATOR_OBJECTIVE %q", c.Allocator.Objective)
	}
	return nil
}

// dbConnString uses DB_CONN_STR, or builds it from individual vars (Docker friendly)
func dbConnString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "stockpicker"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
