// Package cache provides caching infrastructure with PostgreSQL LISTEN/NOTIFY support.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cuentas/internal/domain/catalogs/currency"
	"cuentas/pkg/logger"
)

// currencySource loads the active currency set for registry rebuilds.
type currencySource interface {
	ListActive(ctx context.Context) ([]*currency.Currency, error)
}

// InvalidationListener is called when the cached registry is rebuilt.
type InvalidationListener func(payload string)

// RateCache keeps a conversion Registry in memory and rebuilds it when
// PostgreSQL sends a NOTIFY on the currency_changed channel. This avoids
// re-reading the currency table on every conversion while keeping rate
// updates visible within one notification round-trip.
type RateCache struct {
	pool   *pgxpool.Pool
	source currencySource

	mu       sync.RWMutex
	registry *currency.Registry

	listeners   []InvalidationListener
	listenersMu sync.RWMutex

	// Lifecycle
	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewRateCache creates a new rate cache.
func NewRateCache(pool *pgxpool.Pool, source currencySource) *RateCache {
	return &RateCache{
		pool:   pool,
		source: source,
	}
}

// Start loads the initial registry and begins listening for NOTIFY events.
func (c *RateCache) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.lifecycleMu.Lock()
	if c.started {
		c.lifecycleMu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true
	c.lifecycleMu.Unlock()

	if err := c.reload(c.ctx); err != nil {
		c.Stop()
		return fmt.Errorf("load currency registry: %w", err)
	}

	c.wg.Add(1)
	go c.listenLoop()
	logger.Info(c.ctx, "rate cache started")
	return nil
}

// Stop gracefully stops the cache listener.
func (c *RateCache) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	logger.Info(context.Background(), "rate cache stopped")
}

// Registry returns the cached registry, loading it on first use.
// The returned registry is a snapshot and safe for concurrent reads.
func (c *RateCache) Registry(ctx context.Context) (*currency.Registry, error) {
	c.mu.RLock()
	reg := c.registry
	c.mu.RUnlock()

	if reg != nil {
		return reg, nil
	}

	if err := c.reload(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry, nil
}

// OnInvalidate registers a listener called after each registry rebuild.
func (c *RateCache) OnInvalidate(listener InvalidationListener) {
	c.listenersMu.Lock()
	c.listeners = append(c.listeners, listener)
	c.listenersMu.Unlock()
}

// reload rebuilds the registry from the currency table.
func (c *RateCache) reload(ctx context.Context) error {
	currencies, err := c.source.ListActive(ctx)
	if err != nil {
		return err
	}

	reg, err := currency.NewRegistry(currencies)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.registry = reg
	c.mu.Unlock()
	return nil
}

// listenLoop listens for PostgreSQL NOTIFY events.
func (c *RateCache) listenLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		// Acquire dedicated connection for LISTEN
		conn, err := c.pool.Acquire(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			time.Sleep(time.Second)
			continue
		}

		_, err = conn.Exec(c.ctx, "LISTEN currency_changed;")
		if err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "error", err)
			conn.Release()
			time.Sleep(time.Second)
			continue
		}

		logger.Info(c.ctx, "listening for currency_changed notifications")

		c.waitForNotifications(conn)
		conn.Release()
	}
}

// waitForNotifications blocks waiting for NOTIFY events.
func (c *RateCache) waitForNotifications(conn *pgxpool.Conn) {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		// Wait for notification with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if c.ctx.Err() != nil {
				return // Shutting down
			}
			// Timeout is expected, continue listening
			continue
		}

		logger.Debug(c.ctx, "received notification",
			"channel", notification.Channel,
			"payload", notification.Payload)

		c.handleNotification(notification.Payload)
	}
}

// handleNotification rebuilds the registry and fans out to listeners.
func (c *RateCache) handleNotification(payload string) {
	if err := c.reload(c.ctx); err != nil {
		logger.Error(c.ctx, "failed to reload currency registry", "error", err)
		// Drop the stale snapshot so readers fall back to the database.
		c.mu.Lock()
		c.registry = nil
		c.mu.Unlock()
	}

	// Notify registered listeners with panic recovery (no goroutine fan-out).
	c.listenersMu.RLock()
	for _, listener := range c.listeners {
		func(l InvalidationListener) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error(c.ctx, "listener panic recovered", "panic", r)
				}
			}()
			l(payload)
		}(listener)
	}
	c.listenersMu.RUnlock()
}
