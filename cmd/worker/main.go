// Package main is the entry point for the cuentas background worker.
// It relays outbox events and runs periodic housekeeping.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cuentas/internal/infrastructure/storage/postgres"
	"cuentas/internal/infrastructure/storage/postgres/auth_repo"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting cuentas worker")

	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	poolCfg.MaxConns = 5
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	worker := NewWorker(pool, txManager, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// Worker drains the outbox and cleans up expired rows.
type Worker struct {
	pool        *postgres.Pool
	relay       *postgres.OutboxRelay
	tokenRepo   *auth_repo.TokenRepo
	idempotency *postgres.IdempotencyStore
	log         *logger.Logger
}

func NewWorker(pool *postgres.Pool, txManager *postgres.TxManager, log *logger.Logger) *Worker {
	handler := &loggingHandler{log: log.WithComponent("outbox")}
	return &Worker{
		pool:        pool,
		relay:       postgres.NewOutboxRelay(pool.Unwrap(), 100, handler),
		tokenRepo:   auth_repo.NewTokenRepo(txManager),
		idempotency: postgres.NewIdempotencyStore(pool, txManager, 24*time.Hour),
		log:         log.WithComponent("worker"),
	}
}

// Run processes the outbox until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	pollInterval := 500 * time.Millisecond
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(1 * time.Hour)
	defer cleanupTicker.Stop()

	statsTicker := time.NewTicker(5 * time.Minute)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processOutbox(ctx)
		case <-statsTicker.C:
			postgres.LogPoolStats(ctx, w.pool.Unwrap())
		case <-cleanupTicker.C:
			w.cleanupTokens(ctx)
			w.cleanupIdempotency(ctx)
			w.moveDeadLetters(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	count, err := w.relay.ProcessBatch(ctx)
	if err != nil {
		w.log.Errorw("outbox batch failed", "error", err)
		return
	}
	if count > 0 {
		w.log.Debugw("processed outbox batch", "count", count)
	}
}

func (w *Worker) cleanupTokens(ctx context.Context) {
	count, err := w.tokenRepo.CleanupExpiredTokens(ctx)
	if err != nil {
		w.log.Errorw("token cleanup failed", "error", err)
		return
	}
	if count > 0 {
		w.log.Infow("cleaned up expired refresh tokens", "count", count)
	}
}

func (w *Worker) cleanupIdempotency(ctx context.Context) {
	count, err := w.idempotency.CleanupExpired(ctx)
	if err != nil {
		w.log.Errorw("idempotency cleanup failed", "error", err)
		return
	}
	if count > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", count)
	}
}

func (w *Worker) moveDeadLetters(ctx context.Context) {
	count, err := w.relay.MoveToDLQ(ctx)
	if err != nil {
		w.log.Errorw("dead letter move failed", "error", err)
		return
	}
	if count > 0 {
		w.log.Warnw("moved exhausted outbox messages to DLQ", "count", count)
	}
}

// loggingHandler is the default delivery sink. Downstream consumers
// (webhooks, a broker) plug in here when they exist.
type loggingHandler struct {
	log *logger.Logger
}

func (h *loggingHandler) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	h.log.Infow("event delivered",
		"event_type", msg.EventType,
		"aggregate_type", msg.AggregateType,
		"aggregate_id", msg.AggregateID,
	)
	return nil
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
