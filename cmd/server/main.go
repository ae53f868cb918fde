// Package main is the entry point for the cuentas API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cuentas/internal/domain/auth"
	"cuentas/internal/domain/catalogs/counterparty"
	"cuentas/internal/domain/catalogs/currency"
	"cuentas/internal/domain/catalogs/payment_method"
	"cuentas/internal/domain/documents/ledger_entry"
	"cuentas/internal/domain/reports"
	"cuentas/internal/infrastructure/cache"
	v1 "cuentas/internal/infrastructure/http/v1"
	"cuentas/internal/infrastructure/numerator"
	"cuentas/internal/infrastructure/storage/postgres"
	"cuentas/internal/infrastructure/storage/postgres/auth_repo"
	"cuentas/internal/infrastructure/storage/postgres/catalog_repo"
	"cuentas/internal/infrastructure/storage/postgres/document_repo"
	"cuentas/internal/infrastructure/storage/postgres/report_repo"
	"cuentas/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting cuentas server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	currencyRepo := catalog_repo.NewCurrencyRepo(txManager)
	counterpartyRepo := catalog_repo.NewCounterpartyRepo(txManager)
	paymentMethodRepo := catalog_repo.NewPaymentMethodRepo(txManager)
	entryRepo := document_repo.NewLedgerEntryRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)

	// --- Shared infrastructure ---
	numeratorService := numerator.New(pool)

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	publisher := postgres.NewOutboxPublisher(txManager)

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, tokenRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Domain services ---
	currencyService := currency.NewService(currencyRepo, txManager, numeratorService)
	counterpartyService := counterparty.NewService(counterpartyRepo, txManager, numeratorService)
	paymentMethodService := payment_method.NewService(paymentMethodRepo, txManager, numeratorService)
	ledgerService := ledger_entry.NewService(
		entryRepo,
		currencyService,
		numeratorService,
		txManager,
		auditService,
		publisher,
	)
	reportService := reports.NewService(reportRepo, currencyService)

	// --- Exchange rate cache ---
	// Conversions read rates through a registry snapshot kept warm by
	// LISTEN/NOTIFY. If the cache is down, services fall back to direct
	// table reads.
	rateCache := cache.NewRateCache(pool.Unwrap(), currencyRepo)
	if err := rateCache.Start(ctx); err != nil {
		log.Warnw("rate cache failed to start, using direct reads", "error", err)
	} else {
		currencyService.SetRegistrySource(rateCache.Registry)
		defer rateCache.Stop()
	}

	// --- Router ---
	routerCfg := v1.RouterConfig{
		Logger:         log,
		Pool:           pool,
		AuthService:    authService,
		JWTValidator:   jwtService,
		Currencies:     currencyService,
		Counterparties: counterpartyService,
		PaymentMethods: paymentMethodService,
		LedgerEntries:  ledgerService,
		Reports:        reportService,
		Audit:          auditService,
	}
	if getEnv("IDEMPOTENCY_ENABLED", "false") == "true" {
		ttl := getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour)
		routerCfg.Idempotency = postgres.NewIdempotencyStore(pool, txManager, ttl)
	}
	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
