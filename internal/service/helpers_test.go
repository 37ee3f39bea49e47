package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"unit-converter/internal/models"
	"unit-converter/internal/storage"
)

type staticRates struct {
	table models.ExchangeRateTable
}

func (s staticRates) CurrentTable() models.ExchangeRateTable { return s.table }

// fakeFetcher returns whatever fn returns and counts calls.
type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, base string) (*models.RatesDocument, error)
}

func (f *fakeFetcher) FetchRates(ctx context.Context, base string) (*models.RatesDocument, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(ctx, base)
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fetchOK(rates map[string]float64) *fakeFetcher {
	return &fakeFetcher{fn: func(_ context.Context, base string) (*models.RatesDocument, error) {
		return &models.RatesDocument{Base: base, Date: "2025-07-21", Rates: rates}, nil
	}}
}

func fetchErr(err error) *fakeFetcher {
	return &fakeFetcher{fn: func(context.Context, string) (*models.RatesDocument, error) {
		return nil, err
	}}
}

var errBoom = errors.New("boom")

// flakyStore wraps a MemoryStore and fails writes while failing is set.
type flakyStore struct {
	*storage.MemoryStore
	mu      sync.Mutex
	failing bool
	writes  int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: storage.NewMemoryStore()}
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	failing := f.failing
	f.writes++
	f.mu.Unlock()
	if failing {
		return errBoom
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyStore) setFailing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = v
}

func (f *flakyStore) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *clock { return &clock{now: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
