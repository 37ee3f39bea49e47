// internal/service/rate_client.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"unit-converter/internal/models"
)

const (
	DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest"
	userAgent       = "unit-converter/1.0"
	maxPayloadBytes = 1 << 20
)

// RateFetcher retrieves the latest rates for a base currency.
type RateFetcher interface {
	FetchRates(ctx context.Context, base string) (*models.RatesDocument, error)
}

type RateClientConfig struct {
	URL          string
	MaxAttempts  int
	RetryBackoff time.Duration
}

// HTTPRateFetcher queries GET {URL}/{BASE}.
type HTTPRateFetcher struct {
	url         string
	maxAttempts int
	backoff     time.Duration
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewHTTPRateFetcher(cfg RateClientConfig, httpClient *http.Client, logger *zap.Logger) *HTTPRateFetcher {
	if cfg.URL == "" {
		cfg.URL = DefaultRatesURL
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPRateFetcher{
		url:         strings.TrimRight(cfg.URL, "/"),
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.RetryBackoff,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// statusError is a non-2xx answer from the provider.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API returned status %d", e.code)
}

// FetchRates retries transport failures and 5xx answers with exponential
// backoff; anything else fails immediately.
func (f *HTTPRateFetcher) FetchRates(ctx context.Context, base string) (*models.RatesDocument, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := f.backoff * time.Duration(1<<uint(attempt-1))
			f.logger.Info("retrying exchange rate fetch",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		doc, err := f.fetchOnce(ctx, base)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
		f.logger.Warn("exchange rate fetch attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, lastErr
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	var de *decodeError
	return !errors.As(err, &de)
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "malformed rates payload: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (f *HTTPRateFetcher) fetchOnce(ctx context.Context, base string) (*models.RatesDocument, error) {
	url := fmt.Sprintf("%s/%s", f.url, models.NormalizeCurrency(base))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return decodeRatesDocument(body)
}

// decodeRatesDocument requires base, date and rates to be present.
func decodeRatesDocument(body []byte) (*models.RatesDocument, error) {
	var raw struct {
		Base  *string             `json:"base"`
		Date  *string             `json:"date"`
		Rates *map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &decodeError{err: err}
	}

	switch {
	case raw.Base == nil || *raw.Base == "":
		return nil, &decodeError{err: errors.New("missing base")}
	case raw.Date == nil:
		return nil, &decodeError{err: errors.New("missing date")}
	case raw.Rates == nil || len(*raw.Rates) == 0:
		return nil, &decodeError{err: errors.New("missing rates")}
	}

	return &models.RatesDocument{
		Base:  *raw.Base,
		Date:  *raw.Date,
		Rates: *raw.Rates,
	}, nil
}
