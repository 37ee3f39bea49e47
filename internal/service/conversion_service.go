// internal/service/conversion_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"unit-converter/internal/models"
)

// ConversionService is the caller-facing API over the engine, the rate
// cache and the two stores.
type ConversionService struct {
	converter *Converter
	rates     *RateCache
	favorites *FavoritesStore
	history   *HistoryStore
	logger    *zap.Logger
}

// NewConversionService wires the converter, rate cache and both stores together.
func NewConversionService(converter *Converter, rates *RateCache, favorites *FavoritesStore, history *HistoryStore, logger *zap.Logger) *ConversionService {
	return &ConversionService{
		converter: converter,
		rates:     rates,
		favorites: favorites,
		history:   history,
		logger:    logger,
	}
}

// Convert converts a quantity and, when req.Record is set, records the
// conversion in the history. A history persistence failure does not fail
// the conversion: the result carries Persisted=false and the error is
// returned alongside it.
func (s *ConversionService) Convert(ctx context.Context, req *models.ConversionRequest) (*models.ConversionResult, error) {
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		conversionsTotal.WithLabelValues("unknown", "error").Inc()
		return nil, err
	}

	result, err := s.converter.Convert(req.Value, req.FromUnit, req.ToUnit, category)
	if err != nil {
		conversionsTotal.WithLabelValues(string(category), "error").Inc()
		s.logger.Debug("conversion rejected",
			zap.String("category", string(category)),
			zap.String("from", req.FromUnit),
			zap.String("to", req.ToUnit),
			zap.Error(err))
		return nil, fmt.Errorf("failed to convert: %w", err)
	}
	conversionsTotal.WithLabelValues(string(category), "success").Inc()

	response := &models.ConversionResult{
		Value:    req.Value,
		Result:   result,
		FromUnit: req.FromUnit,
		ToUnit:   req.ToUnit,
		Category: category,
	}
	response.Summary = models.HistoryEntry{
		Value:    req.Value,
		Result:   result,
		FromUnit: req.FromUnit,
		ToUnit:   req.ToUnit,
		Category: category,
	}.Summary()

	if category == models.CategoryCurrency && s.rates != nil {
		response.RatesStale = s.rates.Stale()
	}

	if !req.Record {
		return response, nil
	}

	entry, err := s.history.Add(ctx, req.Value, result, req.FromUnit, req.ToUnit, category)
	persisted := err == nil
	response.Persisted = &persisted
	if err != nil && !errors.Is(err, models.ErrPersistence) {
		return nil, err
	}
	response.HistoryID = entry.ID
	return response, err
}

// Categories describes every category with its units and default selection.
func (s *ConversionService) Categories() []models.CategoryInfo {
	categories := models.Categories()
	out := make([]models.CategoryInfo, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Info())
	}
	return out
}

// RefreshRates fetches new exchange rates and blocks until done.
func (s *ConversionService) RefreshRates(ctx context.Context) error {
	return s.rates.Refresh(ctx)
}

// RefreshRatesAsync starts a refresh and returns a channel that receives its result.
func (s *ConversionService) RefreshRatesAsync(ctx context.Context) <-chan error {
	return s.rates.RefreshAsync(ctx)
}

// Rates returns a copy of the current exchange rate table.
func (s *ConversionService) Rates() models.ExchangeRateTable {
	return s.rates.CurrentTable()
}

// RateStatus summarizes the age and health of the exchange rates.
func (s *ConversionService) RateStatus() models.RateStatus {
	return s.rates.Status()
}

// LastRatesRefreshTime is nil until rates have been refreshed once.
func (s *ConversionService) LastRatesRefreshTime() *time.Time {
	return s.rates.LastRefreshed()
}

// RatesAreStale reports whether the rates are older than the configured max age.
func (s *ConversionService) RatesAreStale() bool {
	return s.rates.Stale()
}

// Favorites returns the favorites store.
func (s *ConversionService) Favorites() *FavoritesStore {
	return s.favorites
}

// History returns the history store.
func (s *ConversionService) History() *HistoryStore {
	return s.history
}
