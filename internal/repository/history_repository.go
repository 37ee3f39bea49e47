package repository

import (
	"context"

	"unit-converter/internal/models"
	"unit-converter/internal/storage"
)

type HistoryRepository struct {
	store storage.Store
	key   string
}

func NewHistoryRepository(store storage.Store, namespace string) *HistoryRepository {
	return &HistoryRepository{store: store, key: namespaced(namespace, keyHistory)}
}

// LoadHistory returns the persisted entries, newest first.
func (r *HistoryRepository) LoadHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if _, err := loadJSON(ctx, r.store, r.key, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *HistoryRepository) SaveHistory(ctx context.Context, entries []models.HistoryEntry) error {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return saveJSON(ctx, r.store, r.key, entries)
}
