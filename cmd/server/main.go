package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/seltzer/splitledger/internal/adapter/http"
	"github.com/seltzer/splitledger/internal/adapter/http/handler"
	apimiddleware "github.com/seltzer/splitledger/internal/adapter/http/middleware"
	postgresRepo "github.com/seltzer/splitledger/internal/adapter/repository/postgres"
	redisRepo "github.com/seltzer/splitledger/internal/adapter/repository/redis"
	"github.com/seltzer/splitledger/internal/infrastructure/config"
	"github.com/seltzer/splitledger/internal/infrastructure/logger"
	"github.com/seltzer/splitledger/internal/infrastructure/metrics"
	"github.com/seltzer/splitledger/internal/infrastructure/postgres"
	"github.com/seltzer/splitledger/internal/infrastructure/redis"
	"github.com/seltzer/splitledger/internal/infrastructure/salt"
	"github.com/seltzer/splitledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	snapshotRepo := postgresRepo.NewSnapshotRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	cachedSnapshots := redisRepo.NewSnapshotCache(snapshotRepo, redisClient, cfg.SnapshotCacheTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	salts := salt.NewULIDSource()

	// Initialize use case and handlers
	appMetrics := metrics.New()
	ledgerUC := usecase.NewLedgerUseCase(cachedSnapshots, txnRepo, salts)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, appMetrics)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      apimiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:           appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
