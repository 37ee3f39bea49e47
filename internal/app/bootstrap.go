package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"unit-converter/internal/config"
	"unit-converter/internal/repository"
	"unit-converter/internal/service"
	"unit-converter/internal/storage"
)

// App holds the wired core shared by the server and the CLI.
type App struct {
	Config    *config.Config
	Store     storage.Store
	Rates     *service.RateCache
	Favorites *service.FavoritesStore
	History   *service.HistoryStore
	Service   *service.ConversionService

	logger *zap.Logger
}

// Options overrides collaborators, mostly for tests.
type Options struct {
	Store   storage.Store
	Fetcher service.RateFetcher
}

// Bootstrap opens storage, loads persisted state and wires the services.
// It does not contact the rate provider.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	store := opts.Store
	if store == nil {
		var err error
		store, err = storage.Open(ctx, storage.Options{
			Driver:      cfg.Storage.Driver,
			Path:        cfg.Storage.Path,
			DatabaseURL: cfg.Storage.DatabaseURL,
			RedisURL:    cfg.Storage.RedisURL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = service.NewHTTPRateFetcher(service.RateClientConfig{
			URL:          cfg.Rates.URL,
			MaxAttempts:  cfg.Rates.MaxAttempts,
			RetryBackoff: cfg.Rates.RetryBackoff,
		}, &http.Client{Timeout: cfg.Rates.Timeout}, logger.Named("rates"))
	}

	ns := cfg.Storage.Namespace
	rates := service.NewRateCache(ctx, fetcher, repository.NewRateRepository(store, ns), service.RateCacheConfig{
		Base:       cfg.Rates.Base,
		StaleAfter: cfg.Rates.StaleAfter,
		Timeout:    cfg.Rates.Timeout,
	}, logger.Named("rates"))

	favorites := service.NewFavoritesStore(ctx, repository.NewFavoriteRepository(store, ns), logger.Named("favorites"))
	history := service.NewHistoryStore(ctx, repository.NewHistoryRepository(store, ns), cfg.History.MaxEntries, logger.Named("history"))

	svc := service.NewConversionService(service.NewConverter(rates), rates, favorites, history, logger)

	logger.Info("core initialized",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("base", rates.Base()),
		zap.Int("favorites", len(favorites.List())),
		zap.Int("history", len(history.List())),
		zap.Bool("rates_stale", rates.Stale()))

	return &App{
		Config:    cfg,
		Store:     store,
		Rates:     rates,
		Favorites: favorites,
		History:   history,
		Service:   svc,
		logger:    logger,
	}, nil
}

// LoadErrors joins the errors hit while loading persisted favorites and
// history. Those stores started empty and are repaired by their next write.
func (a *App) LoadErrors() error {
	return errors.Join(a.Favorites.LoadError(), a.History.LoadError())
}

func (a *App) Close() error {
	if err := a.Store.Close(); err != nil {
		a.logger.Error("failed to close storage", zap.Error(err))
		return err
	}
	return nil
}
