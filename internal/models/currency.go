package models

import (
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultBaseCurrency is the pivot currency of the rate table.
const DefaultBaseCurrency = "EUR"

// RatesDocument is the payload returned by the remote rate provider.
type RatesDocument struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// ExchangeRateTable maps currency codes to their rate relative to Base.
// A published table is never modified; refreshes replace it.
type ExchangeRateTable struct {
	Base          string             `json:"base"`
	Rates         map[string]float64 `json:"rates"`
	SourceDate    string             `json:"source_date,omitempty"`
	LastRefreshed *time.Time         `json:"last_refreshed,omitempty"`
}

// NewExchangeRateTable copies rates, upper-cases codes and pins the base to 1.0.
func NewExchangeRateTable(base string, rates map[string]float64, refreshed *time.Time) ExchangeRateTable {
	base = NormalizeCurrency(base)
	t := ExchangeRateTable{
		Base:  base,
		Rates: make(map[string]float64, len(rates)+1),
	}
	for code, rate := range rates {
		t.Rates[NormalizeCurrency(code)] = rate
	}
	t.Rates[base] = 1.0
	if refreshed != nil {
		ts := *refreshed
		t.LastRefreshed = &ts
	}
	return t
}

// EmptyExchangeRateTable holds only the base currency.
func EmptyExchangeRateTable(base string) ExchangeRateTable {
	return NewExchangeRateTable(base, nil, nil)
}

func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Rate returns the rate for code relative to the base.
func (t ExchangeRateTable) Rate(code string) (float64, bool) {
	rate, ok := t.Rates[NormalizeCurrency(code)]
	if !ok || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, false
	}
	return rate, true
}

// IsEmpty is true when the table carries nothing besides the base currency.
func (t ExchangeRateTable) IsEmpty() bool {
	for code := range t.Rates {
		if code != t.Base {
			return false
		}
	}
	return true
}

func (t ExchangeRateTable) Clone() ExchangeRateTable {
	c := NewExchangeRateTable(t.Base, t.Rates, t.LastRefreshed)
	c.SourceDate = t.SourceDate
	return c
}

// Codes returns the currency codes sorted alphabetically.
func (t ExchangeRateTable) Codes() []string {
	codes := make([]string, 0, len(t.Rates))
	for code := range t.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// RateStatus is the observable state of the rate cache. Offline is the
// "using cached data" state: the last fetch failed and conversions run on
// whatever is cached. A failed save after a good fetch sets LastError only.
type RateStatus struct {
	Base          string     `json:"base"`
	Currencies    int        `json:"currencies"`
	LastRefreshed *time.Time `json:"last_refreshed,omitempty"`
	Stale         bool       `json:"stale"`
	Refreshing    bool       `json:"refreshing"`
	Offline       bool       `json:"offline"`
	LastError     string     `json:"last_error,omitempty"`
	LastErrorAt   *time.Time `json:"last_error_at,omitempty"`
}
