package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"till-reconciliation-engine/config"
	httpHandler "till-reconciliation-engine/internal/adapter/http/handler"
	pgStorage "till-reconciliation-engine/internal/adapter/storage/postgres"
	redisStorage "till-reconciliation-engine/internal/adapter/storage/redis"
	"till-reconciliation-engine/internal/core/ports"
	"till-reconciliation-engine/internal/core/reconcile"
	"till-reconciliation-engine/internal/service"
	"till-reconciliation-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("profit_strategy", cfg.Profit.Strategy).
		Msg("Starting Till Reconciliation Engine")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	shiftRepo := pgStorage.NewShiftRepo(pool)
	movementRepo := pgStorage.NewMovementRepo(pool)
	prizeRepo := pgStorage.NewPrizeRepo(pool)
	employeeRepo := pgStorage.NewEmployeeRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	summaryCache := redisStorage.NewSummaryCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(employeeRepo, hashSvc, tokenSvc)
	shiftSvc := service.NewShiftService(shiftRepo, movementRepo, transactor, summaryCache, log)
	ledgerSvc := service.NewLedgerService(shiftRepo, movementRepo, prizeRepo, walletRepo, transactor, log)
	reconSvc := service.NewReconciliationService(
		shiftRepo,
		movementRepo,
		prizeRepo,
		reconcile.ParseStrategy(cfg.Profit.Strategy),
		log,
	)
	analyticsSvc := service.NewAnalyticsService(shiftRepo, employeeRepo, summaryCache, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		ShiftSvc:       shiftSvc,
		LedgerSvc:      ledgerSvc,
		ReconSvc:       reconSvc,
		AnalyticsSvc:   analyticsSvc,
		WalletRepo:     walletRepo,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
