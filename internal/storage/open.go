package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"unit-converter/pkg/database"
	"unit-converter/pkg/redis"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	Path        string // sqlite file
	DatabaseURL string // postgres
	RedisURL    string // redis addr
}

// Open connects the configured backend.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		logger.Warn("using in-memory storage, state will not survive a restart")
		return NewMemoryStore(), nil

	case DriverSQLite:
		if dir := filepath.Dir(opts.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err := database.NewSQLiteDB(opts.Path)
		if err != nil {
			return nil, err
		}
		store, err := NewSQLStore(ctx, db, DriverSQLite)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("opened sqlite storage", zap.String("path", opts.Path))
		return store, nil

	case DriverPostgres:
		db, err := database.NewPostgresDB(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store, err := NewSQLStore(ctx, db, DriverPostgres)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("opened postgres storage")
		return store, nil

	case DriverRedis:
		client, err := redis.NewRedisClient(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info("opened redis storage", zap.String("addr", opts.RedisURL))
		return NewRedisStore(client), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}
