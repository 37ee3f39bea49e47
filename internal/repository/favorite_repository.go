package repository

import (
	"context"

	"unit-converter/internal/models"
	"unit-converter/internal/storage"
)

type FavoriteRepository struct {
	store storage.Store
	key   string
}

func NewFavoriteRepository(store storage.Store, namespace string) *FavoriteRepository {
	return &FavoriteRepository{store: store, key: namespaced(namespace, keyFavorites)}
}

func (r *FavoriteRepository) LoadFavorites(ctx context.Context) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if _, err := loadJSON(ctx, r.store, r.key, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

func (r *FavoriteRepository) SaveFavorites(ctx context.Context, favorites []models.Favorite) error {
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return saveJSON(ctx, r.store, r.key, favorites)
}
