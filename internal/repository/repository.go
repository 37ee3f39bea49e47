// internal/repository/repository.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"unit-converter/internal/storage"
)

// Logical keys, prefixed with the configured namespace.
const (
	keyRates     = "rates"
	keyFavorites = "favorites"
	keyHistory   = "history"
)

func namespaced(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}

// loadJSON decodes key into v. It reports false when the key does not exist.
func loadJSON(ctx context.Context, store storage.Store, key string, v interface{}) (bool, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, store storage.Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Set(ctx, key, data)
}
