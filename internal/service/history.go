// internal/service/history.go
package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"unit-converter/internal/models"
)

type HistoryRepository interface {
	LoadHistory(ctx context.Context) ([]models.HistoryEntry, error)
	SaveHistory(ctx context.Context, entries []models.HistoryEntry) error
}

// HistoryStore keeps the most recent conversions, newest first. The cap is
// applied on insert, so memory and storage never hold more than limit
// entries.
type HistoryStore struct {
	repo   HistoryRepository
	logger *zap.Logger
	limit  int
	now    func() time.Time

	writeMu sync.Mutex
	mu      sync.RWMutex
	entries []models.HistoryEntry

	loadErr error

	listeners listeners
}

// NewHistoryStore creates the store and loads the persisted entries. An
// unreadable value is logged and the store starts empty; LoadError reports
// it and the next mutation overwrites it.
func NewHistoryStore(ctx context.Context, repo HistoryRepository, limit int, logger *zap.Logger) *HistoryStore {
	if limit <= 0 {
		limit = models.DefaultHistoryLimit
	}

	var loadErr error
	entries, err := repo.LoadHistory(ctx)
	if err != nil {
		logger.Error("failed to load history, starting empty", zap.Error(err))
		loadErr = fmt.Errorf("%w: loading history: %w", models.ErrPersistence, err)
		entries = nil
	}
	if len(entries) > limit {
		logger.Info("trimming persisted history",
			zap.Int("count", len(entries)),
			zap.Int("limit", limit))
		entries = entries[:limit:limit]
	}

	return &HistoryStore{
		repo:    repo,
		logger:  logger,
		limit:   limit,
		now:     time.Now,
		entries: entries,
		loadErr: loadErr,
	}
}

// LoadError is the error hit while loading persisted entries, if any.
func (s *HistoryStore) LoadError() error {
	return s.loadErr
}

// Limit returns the maximum number of entries kept.
func (s *HistoryStore) Limit() int {
	return s.limit
}

// List returns the entries, newest first.
func (s *HistoryStore) List() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Add records a conversion at the head of the history, evicting the oldest
// entries beyond the limit. Non-finite numbers are rejected with
// models.ErrInvalidValue and leave the history untouched.
func (s *HistoryStore) Add(ctx context.Context, value, result float64, fromUnit, toUnit string, category models.UnitCategory) (models.HistoryEntry, error) {
	if err := category.ValidatePair(fromUnit, toUnit); err != nil {
		return models.HistoryEntry{}, err
	}
	for _, v := range []float64{value, result} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.HistoryEntry{}, fmt.Errorf("%w: got %v", models.ErrInvalidValue, v)
		}
	}

	entry := models.HistoryEntry{
		ID:        uuid.New().String(),
		Value:     value,
		Result:    result,
		FromUnit:  fromUnit,
		ToUnit:    toUnit,
		Category:  category,
		Timestamp: s.now().UTC(),
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.List()
	next := make([]models.HistoryEntry, 0, min(len(current)+1, s.limit))
	next = append(next, entry)
	for _, e := range current {
		if len(next) == s.limit {
			break
		}
		next = append(next, e)
	}

	return entry, s.commit(ctx, next)
}

// Remove deletes one entry. Unknown ids are ignored.
func (s *HistoryStore) Remove(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.List()
	for i, e := range current {
		if e.ID == id {
			return s.commit(ctx, append(current[:i:i], current[i+1:]...))
		}
	}
	return nil
}

// Clear removes every entry.
func (s *HistoryStore) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.logger.Info("clearing history")
	return s.commit(ctx, []models.HistoryEntry{})
}

// GroupedByDay partitions entries by calendar day in loc (UTC when nil).
// Groups are ordered newest day first; entries keep their newest-first order.
func (s *HistoryStore) GroupedByDay(loc *time.Location) []models.HistoryGroup {
	if loc == nil {
		loc = time.UTC
	}

	groups := []models.HistoryGroup{}
	index := map[string]int{}
	for _, e := range s.List() {
		t := e.Timestamp.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

		key := day.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.HistoryGroup{Day: day})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Day.After(groups[j].Day)
	})
	return groups
}

// Subscribe registers fn to run after every mutation.
func (s *HistoryStore) Subscribe(fn func()) (unsubscribe func()) {
	return s.listeners.add(fn)
}

func (s *HistoryStore) commit(ctx context.Context, next []models.HistoryEntry) error {
	s.mu.Lock()
	s.entries = next
	s.mu.Unlock()

	defer s.listeners.notify()

	if err := s.repo.SaveHistory(ctx, next); err != nil {
		s.logger.Error("failed to persist history", zap.Error(err))
		return fmt.Errorf("%w: history: %w", models.ErrPersistence, err)
	}
	return nil
}
