// internal/service/favorites.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"unit-converter/internal/models"
)

type FavoriteRepository interface {
	LoadFavorites(ctx context.Context) ([]models.Favorite, error)
	SaveFavorites(ctx context.Context, favorites []models.Favorite) error
}

// FavoritesStore owns the saved (category, from, to) pairs. The triple is
// the identity; IDs only address a favorite for removal.
type FavoritesStore struct {
	repo   FavoriteRepository
	logger *zap.Logger
	now    func() time.Time

	// writeMu serializes mutations including their persist; mu only guards
	// the slice header so readers never wait on storage.
	writeMu sync.Mutex
	mu      sync.RWMutex
	items   []models.Favorite

	loadErr error

	listeners listeners
}

// NewFavoritesStore creates the store and loads the persisted favorites. An
// unreadable value is logged and the store starts empty; LoadError reports
// it and the next mutation overwrites it.
func NewFavoritesStore(ctx context.Context, repo FavoriteRepository, logger *zap.Logger) *FavoritesStore {
	var loadErr error
	items, err := repo.LoadFavorites(ctx)
	if err != nil {
		logger.Error("failed to load favorites, starting empty", zap.Error(err))
		loadErr = fmt.Errorf("%w: loading favorites: %w", models.ErrPersistence, err)
		items = nil
	} else {
		logger.Debug("favorites loaded", zap.Int("count", len(items)))
	}

	return &FavoritesStore{
		repo:    repo,
		logger:  logger,
		now:     time.Now,
		items:   items,
		loadErr: loadErr,
	}
}

// LoadError is the error hit while loading persisted favorites, if any.
func (s *FavoritesStore) LoadError() error {
	return s.loadErr
}

// List returns favorites in insertion order, oldest first.
func (s *FavoritesStore) List() []models.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Favorite, len(s.items))
	copy(out, s.items)
	return out
}

// IsFavorite reports whether the exact (category, from, to) triple is saved.
func (s *FavoritesStore) IsFavorite(category models.UnitCategory, fromUnit, toUnit string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return indexOfFavorite(s.items, category, fromUnit, toUnit) >= 0
}

// Toggle removes the favorite for the triple if present, otherwise appends a
// new one. It reports whether the triple is a favorite afterwards. A
// persistence error leaves the in-memory change in place.
func (s *FavoritesStore) Toggle(ctx context.Context, category models.UnitCategory, fromUnit, toUnit, name string) (bool, error) {
	if err := category.ValidatePair(fromUnit, toUnit); err != nil {
		return false, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.List()
	var next []models.Favorite
	added := false

	if i := indexOfFavorite(current, category, fromUnit, toUnit); i >= 0 {
		next = append(current[:i:i], current[i+1:]...)
	} else {
		if name == "" {
			name = models.DefaultFavoriteName(fromUnit, toUnit)
		}
		next = append(current, models.Favorite{
			ID:        uuid.New().String(),
			Category:  category,
			FromUnit:  fromUnit,
			ToUnit:    toUnit,
			Name:      name,
			CreatedAt: s.now().UTC(),
		})
		added = true
	}

	err := s.commit(ctx, next)
	s.logger.Info("favorite toggled",
		zap.String("category", string(category)),
		zap.String("from", fromUnit),
		zap.String("to", toUnit),
		zap.Bool("favorite", added))
	return added, err
}

// Remove deletes the favorite with id. Unknown ids are ignored.
func (s *FavoritesStore) Remove(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.List()
	for i, f := range current {
		if f.ID == id {
			return s.commit(ctx, append(current[:i:i], current[i+1:]...))
		}
	}
	return nil
}

// Subscribe registers fn to run after every mutation.
func (s *FavoritesStore) Subscribe(fn func()) (unsubscribe func()) {
	return s.listeners.add(fn)
}

// commit publishes next and writes it through. Callers hold writeMu.
func (s *FavoritesStore) commit(ctx context.Context, next []models.Favorite) error {
	s.mu.Lock()
	s.items = next
	s.mu.Unlock()

	defer s.listeners.notify()

	if err := s.repo.SaveFavorites(ctx, next); err != nil {
		s.logger.Error("failed to persist favorites", zap.Error(err))
		return fmt.Errorf("%w: favorites: %w", models.ErrPersistence, err)
	}
	return nil
}

func indexOfFavorite(items []models.Favorite, category models.UnitCategory, fromUnit, toUnit string) int {
	for i, f := range items {
		if f.Matches(category, fromUnit, toUnit) {
			return i
		}
	}
	return -1
}
