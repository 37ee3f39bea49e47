package repository

import (
	"context"

	"unit-converter/internal/models"
	"unit-converter/internal/storage"
)

type RateRepository struct {
	store storage.Store
	key   string
}

func NewRateRepository(store storage.Store, namespace string) *RateRepository {
	return &RateRepository{store: store, key: namespaced(namespace, keyRates)}
}

// LoadTable returns the persisted table, or nil if none was saved yet.
func (r *RateRepository) LoadTable(ctx context.Context) (*models.ExchangeRateTable, error) {
	var table models.ExchangeRateTable
	found, err := loadJSON(ctx, r.store, r.key, &table)
	if err != nil || !found {
		return nil, err
	}
	normalized := models.NewExchangeRateTable(table.Base, table.Rates, table.LastRefreshed)
	normalized.SourceDate = table.SourceDate
	return &normalized, nil
}

func (r *RateRepository) SaveTable(ctx context.Context, table models.ExchangeRateTable) error {
	return saveJSON(ctx, r.store, r.key, table)
}
