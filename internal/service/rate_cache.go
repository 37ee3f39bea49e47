// internal/service/rate_cache.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"unit-converter/internal/models"
)

const (
	DefaultStaleAfter     = 24 * time.Hour
	DefaultRefreshTimeout = 10 * time.Second
)

// RateRepository persists the exchange rate table.
type RateRepository interface {
	LoadTable(ctx context.Context) (*models.ExchangeRateTable, error)
	SaveTable(ctx context.Context, table models.ExchangeRateTable) error
}

type RateCacheConfig struct {
	Base       string
	StaleAfter time.Duration
	Timeout    time.Duration
	Now        func() time.Time
}

// RateCache owns the currency rate table. Readers always see a complete
// table: refreshes build a new one and swap the pointer.
type RateCache struct {
	fetcher    RateFetcher
	repo       RateRepository
	logger     *zap.Logger
	base       string
	staleAfter time.Duration
	timeout    time.Duration
	now        func() time.Time

	table atomic.Pointer[models.ExchangeRateTable]

	// persistMu keeps swap and save together so the stored table is the
	// one readers see once concurrent refreshes settle.
	persistMu sync.Mutex

	mu        sync.RWMutex
	inFlight  int
	lastErr   error
	lastErrAt time.Time

	listeners listeners
}

// NewRateCache builds the cache and synchronously loads the last persisted
// table, so conversions work offline before any refresh. A failed load is
// logged and leaves the cache empty.
func NewRateCache(ctx context.Context, fetcher RateFetcher, repo RateRepository, cfg RateCacheConfig, logger *zap.Logger) *RateCache {
	if cfg.Base == "" {
		cfg.Base = models.DefaultBaseCurrency
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRefreshTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	c := &RateCache{
		fetcher:    fetcher,
		repo:       repo,
		logger:     logger,
		base:       models.NormalizeCurrency(cfg.Base),
		staleAfter: cfg.StaleAfter,
		timeout:    cfg.Timeout,
		now:        cfg.Now,
	}

	empty := models.EmptyExchangeRateTable(c.base)
	c.table.Store(&empty)
	c.load(ctx)

	return c
}

func (c *RateCache) load(ctx context.Context) {
	if c.repo == nil {
		return
	}

	table, err := c.repo.LoadTable(ctx)
	if err != nil {
		c.logger.Warn("failed to load cached exchange rates", zap.Error(err))
		c.recordError(fmt.Errorf("%w: loading cached rates: %w", models.ErrPersistence, err))
		return
	}
	if table == nil {
		c.logger.Info("no cached exchange rates")
		return
	}
	if table.Base != c.base {
		c.logger.Warn("ignoring cached exchange rates with a different base",
			zap.String("cached_base", table.Base),
			zap.String("base", c.base))
		return
	}

	c.table.Store(table)
	if table.LastRefreshed != nil {
		ratesLastRefresh.Set(float64(table.LastRefreshed.Unix()))
	}
	c.logger.Info("loaded cached exchange rates",
		zap.Int("currencies", len(table.Rates)),
		zap.Bool("stale", c.Stale()))
}

// CurrentTable returns a copy of the best-known table. Before any load or
// refresh it only contains the base currency.
func (c *RateCache) CurrentTable() models.ExchangeRateTable {
	return c.table.Load().Clone()
}

// Base returns the pivot currency of every table the cache publishes.
func (c *RateCache) Base() string {
	return c.base
}

// LastRefreshed is nil until a refresh has succeeded (now or in a previous run).
func (c *RateCache) LastRefreshed() *time.Time {
	lr := c.table.Load().LastRefreshed
	if lr == nil {
		return nil
	}
	ts := *lr
	return &ts
}

// IsStale reports whether the rates should be refreshed. It never blocks
// conversions.
func (c *RateCache) IsStale(now time.Time) bool {
	return c.isStale(c.table.Load(), now)
}

func (c *RateCache) isStale(table *models.ExchangeRateTable, now time.Time) bool {
	if table.LastRefreshed == nil {
		return true
	}
	return now.Sub(*table.LastRefreshed) > c.staleAfter
}

// Stale is IsStale at the current time.
func (c *RateCache) Stale() bool {
	return c.IsStale(c.now())
}

// Status describes one table snapshot together with the refresh state.
func (c *RateCache) Status() models.RateStatus {
	table := c.table.Load()

	status := models.RateStatus{
		Base:       table.Base,
		Currencies: len(table.Rates),
		Stale:      c.isStale(table, c.now()),
	}
	if table.LastRefreshed != nil {
		ts := *table.LastRefreshed
		status.LastRefreshed = &ts
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	status.Refreshing = c.inFlight > 0
	if c.lastErr != nil {
		at := c.lastErrAt
		status.LastError = c.lastErr.Error()
		status.LastErrorAt = &at
		status.Offline = errors.Is(c.lastErr, models.ErrRefresh)
	}
	return status
}

// Subscribe registers fn to run after every refresh attempt.
func (c *RateCache) Subscribe(fn func()) (unsubscribe func()) {
	return c.listeners.add(fn)
}

// Refresh fetches a new table and swaps it in. On failure the current table
// is kept and the error, wrapping models.ErrRefresh, is also recorded in the
// status. If the fetch succeeded but saving failed, the new table is in use
// and the error wraps models.ErrPersistence.
func (c *RateCache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()

	start := time.Now()
	err := c.refresh(ctx)
	rateRefreshDuration.Observe(time.Since(start).Seconds())

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
	c.recordError(err)

	c.listeners.notify()
	return err
}

// RefreshAsync runs Refresh in the background. The refresh is detached from
// ctx cancellation, so a caller may drop the channel and the result still
// lands in the cache.
func (c *RateCache) RefreshAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	detached := context.WithoutCancel(ctx)

	go func() {
		defer close(done)
		done <- c.Refresh(detached)
	}()

	return done
}

// Run refreshes stale rates every interval until ctx is done.
func (c *RateCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("exchange rate refresher stopped")
			return
		case <-ticker.C:
			if !c.Stale() {
				continue
			}
			if err := c.Refresh(ctx); err != nil {
				c.logger.Warn("scheduled exchange rate refresh failed", zap.Error(err))
			}
		}
	}
}

func (c *RateCache) refresh(ctx context.Context) error {
	if c.fetcher == nil {
		return fmt.Errorf("%w: no rate source configured", models.ErrRefresh)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	doc, err := c.fetcher.FetchRates(fetchCtx, c.base)
	if err == nil {
		var table models.ExchangeRateTable
		table, err = c.buildTable(doc)
		if err == nil {
			return c.publish(ctx, table)
		}
	}

	rateRefreshTotal.WithLabelValues("error").Inc()
	c.logger.Warn("exchange rate refresh failed, keeping cached rates",
		zap.String("base", c.base),
		zap.Error(err))
	return fmt.Errorf("%w: %w", models.ErrRefresh, err)
}

func (c *RateCache) buildTable(doc *models.RatesDocument) (models.ExchangeRateTable, error) {
	if got := models.NormalizeCurrency(doc.Base); got != c.base {
		return models.ExchangeRateTable{}, fmt.Errorf("rates are based on %s, expected %s", got, c.base)
	}
	for code, rate := range doc.Rates {
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return models.ExchangeRateTable{}, fmt.Errorf("invalid rate %v for %s", rate, code)
		}
	}

	refreshed := c.now()
	table := models.NewExchangeRateTable(c.base, doc.Rates, &refreshed)
	table.SourceDate = doc.Date
	return table, nil
}

func (c *RateCache) publish(ctx context.Context, table models.ExchangeRateTable) error {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.table.Store(&table)
	ratesLastRefresh.Set(float64(table.LastRefreshed.Unix()))
	rateRefreshTotal.WithLabelValues("success").Inc()
	c.logger.Info("exchange rates refreshed",
		zap.String("base", c.base),
		zap.String("date", table.SourceDate),
		zap.Int("currencies", len(table.Rates)))

	if c.repo == nil {
		return nil
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	if err := c.repo.SaveTable(saveCtx, table); err != nil {
		c.logger.Error("failed to persist exchange rates", zap.Error(err))
		return fmt.Errorf("%w: exchange rates: %w", models.ErrPersistence, err)
	}
	return nil
}

func (c *RateCache) recordError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastErr = err
	if err != nil {
		c.lastErrAt = c.now()
	}
}
