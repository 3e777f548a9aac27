package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/stockpicker-backend/internal/adapter/grpc"
	"github.com/simaogato/stockpicker-backend/internal/adapter/repository/memory"
	"github.com/simaogato/stockpicker-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/stockpicker-backend/internal/adapter/rest"
	"github.com/simaogato/stockpicker-backend/internal/config"
	"github.com/simaogato/stockpicker-backend/internal/domain"
	"github.com/simaogato/stockpicker-backend/internal/logger"
	"github.com/simaogato/stockpicker-backend/internal/usecase/allocator"
	"github.com/simaogato/stockpicker-backend/internal/usecase/portfolio"
	"github.com/simaogato/stockpicker-backend/internal/usecase/seeder"
)

const (
	dbConnectAttempts = 5
	dbRetryInterval   = 2 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log.Desugar())

	ctx := context.Background()

	// 1. Setup storage
	assetRepo, closeStore, err := openAssetRepository(ctx, cfg, log)
	if err != nil {
		log.Fatalw("Failed to open asset storage", "storage", cfg.Storage, zap.Error(err))
	}
	defer closeStore()

	// 2. Seed the default asset list into an empty catalogue
	if cfg.SeedDefaultAssets {
		n, err := seeder.NewDefaultAssetSeeder(assetRepo).Seed(ctx)
		if err != nil {
			log.Fatalw("Failed to seed default assets", zap.Error(err))
		}
		log.Infow("Default assets seeded", "inserted", n)
	}

	// 3. Initialize services
	alloc := allocator.New(cfg.Allocator)
	portfolioService := portfolio.NewPortfolioService(assetRepo, alloc)
	log.Infow("Allocator configured",
		"unit_scale", alloc.Config().UnitScale,
		"repetition", alloc.Config().Repetition,
		"objective", alloc.Config().Objective,
		"max_table_units", alloc.Config().MaxTableUnits,
	)

	// 4. Start gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterPortfolioServiceServer(grpcServer, grpcadapter.NewServer(portfolioService))
	reflection.Register(grpcServer)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalw("Failed to listen", "addr", grpcAddr, zap.Error(err))
	}

	go func() {
		log.Infow("gRPC server listening", "addr", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalw("Failed to serve gRPC server", zap.Error(err))
		}
	}()

	// 5. Start HTTP server
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           rest.NewHandler(portfolioService, log).Router(cfg.APIToken),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infow("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("Failed to serve HTTP server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	waitForShutdown(log, grpcServer, httpServer)
}

// openAssetRepository returns the configured catalogue store and a function releasing it
func openAssetRepository(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (domain.AssetRepository, func(), error) {
	if cfg.Storage == config.StorageMemory {
		return memory.NewAssetRepository(), func() {}, nil
	}

	var db *postgres.DB
	var err error
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		db, err = postgres.NewDB(cfg.DBConnStr)
		if err == nil {
			break
		}
		log.Warnw("Database not ready", "attempt", attempt, zap.Error(err))
		time.Sleep(dbRetryInterval)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Warnw("Failed to close database", zap.Error(err))
		}
	}
	return postgres.NewAssetRepository(db), closeDB, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(log *zap.SugaredLogger, grpcServer *grpclib.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Infow("Shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warnw("HTTP server shutdown", zap.Error(err))
	}
	log.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")
}
