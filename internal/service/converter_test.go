package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unit-converter/internal/models"
)

func testRates() staticRates {
	return staticRates{table: models.NewExchangeRateTable("EUR", map[string]float64{
		"USD": 1.08,
		"GBP": 0.86,
		"CHF": 0.94,
		"JPY": 161.2,
	}, nil)}
}

func TestConvertIdentity(t *testing.T) {
	c := NewConverter(staticRates{table: models.EmptyExchangeRateTable("EUR")})

	for _, category := range models.Categories() {
		for _, unit := range category.Units() {
			for _, v := range []float64{0, 1, -40, 0.1, 1234.5678} {
				got, err := c.Convert(v, unit, unit, category)
				require.NoError(t, err, "%s/%s", category, unit)
				assert.Equal(t, v, got, "%s/%s", category, unit)
			}
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	c := NewConverter(nil)

	for _, category := range []models.UnitCategory{models.CategoryLength, models.CategoryWeight, models.CategoryTemperature} {
		units := category.Units()
		for _, from := range units {
			for _, to := range units {
				for _, v := range []float64{0, 1, 12.5, -3, 1e6} {
					there, err := c.Convert(v, from, to, category)
					require.NoError(t, err)
					back, err := c.Convert(there, to, from, category)
					require.NoError(t, err)
					assert.InDelta(t, v, back, 1e-9*math.Max(1, math.Abs(v)), "%s %s→%s", category, from, to)
				}
			}
		}
	}
}

func TestConvertKnownValues(t *testing.T) {
	c := NewConverter(nil)

	tests := []struct {
		name     string
		value    float64
		from, to string
		category models.UnitCategory
		want     float64
		delta    float64
	}{
		{"celsius to fahrenheit", 0, models.UnitCelsius, models.UnitFahrenheit, models.CategoryTemperature, 32, 0},
		{"celsius to kelvin", 100, models.UnitCelsius, models.UnitKelvin, models.CategoryTemperature, 373.15, 1e-9},
		{"fahrenheit to celsius", 32, models.UnitFahrenheit, models.UnitCelsius, models.CategoryTemperature, 0, 0},
		{"kelvin to fahrenheit", 0, models.UnitKelvin, models.UnitFahrenheit, models.CategoryTemperature, -459.67, 1e-9},
		{"kilometer to meter", 1, models.UnitKilometer, models.UnitMeter, models.CategoryLength, 1000, 0},
		{"meter to mile", 1609.34, models.UnitMeter, models.UnitMile, models.CategoryLength, 1, 1e-12},
		{"meter to inch", 1, models.UnitMeter, models.UnitInch, models.CategoryLength, 39.3701, 1e-4},
		{"meter to centimeter", 1, models.UnitMeter, models.UnitCentimeter, models.CategoryLength, 100, 1e-9},
		{"foot to inch", 1, models.UnitFoot, models.UnitInch, models.CategoryLength, 12, 1e-9},
		{"ton to kilogram", 2, models.UnitTon, models.UnitKilogram, models.CategoryWeight, 2000, 0},
		{"pound to ounce", 1, models.UnitPound, models.UnitOunce, models.CategoryWeight, 16, 1e-3},
		{"gram to kilogram", 500, models.UnitGram, models.UnitKilogram, models.CategoryWeight, 0.5, 1e-12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.value, tt.from, tt.to, tt.category)
			require.NoError(t, err)
			if tt.delta == 0 {
				assert.Equal(t, tt.want, got)
			} else {
				assert.InDelta(t, tt.want, got, tt.delta)
			}
		})
	}
}

func TestConvertCurrency(t *testing.T) {
	c := NewConverter(testRates())

	got, err := c.Convert(10, "EUR", "USD", models.CategoryCurrency)
	require.NoError(t, err)
	assert.InDelta(t, 10.8, got, 1e-9)

	got, err = c.Convert(108, "USD", "GBP", models.CategoryCurrency)
	require.NoError(t, err)
	assert.InDelta(t, 86, got, 1e-9)

	back, err := c.Convert(got, "GBP", "USD", models.CategoryCurrency)
	require.NoError(t, err)
	assert.InDelta(t, 108, back, 1e-9)
}

func TestConvertCurrencyWithoutRates(t *testing.T) {
	_, err := NewConverter(staticRates{table: models.EmptyExchangeRateTable("EUR")}).
		Convert(1, "EUR", "USD", models.CategoryCurrency)
	assert.ErrorIs(t, err, models.ErrRatesUnavailable)

	_, err = NewConverter(nil).Convert(1, "USD", "GBP", models.CategoryCurrency)
	assert.ErrorIs(t, err, models.ErrRatesUnavailable)

	// rates missing is not a unit problem
	assert.False(t, models.IsConversionError(err))
}

func TestConvertUnknownUnit(t *testing.T) {
	c := NewConverter(testRates())

	for _, category := range models.Categories() {
		from, _ := category.DefaultUnits()

		_, err := c.Convert(1, "Lightyear", from, category)
		assert.ErrorIs(t, err, models.ErrUnknownUnit, category)

		_, err = c.Convert(1, from, "Lightyear", category)
		assert.ErrorIs(t, err, models.ErrUnknownUnit, category)

		_, err = c.Convert(1, "Lightyear", "Lightyear", category)
		assert.ErrorIs(t, err, models.ErrUnknownUnit, "identity must not bypass validation")
	}
}

func TestConvertCategoryMismatch(t *testing.T) {
	c := NewConverter(testRates())

	_, err := c.Convert(1, models.UnitMeter, models.UnitKilogram, models.CategoryLength)
	assert.ErrorIs(t, err, models.ErrUnknownCategoryPair)

	_, err = c.Convert(1, "EUR", "USD", models.CategoryWeight)
	assert.ErrorIs(t, err, models.ErrUnknownCategoryPair)

	_, err = c.Convert(1, models.UnitMeter, models.UnitMeter, models.UnitCategory("volume"))
	assert.ErrorIs(t, err, models.ErrUnknownCategory)
}

func TestConvertRejectsNonFinite(t *testing.T) {
	c := NewConverter(nil)

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := c.Convert(v, models.UnitMeter, models.UnitFoot, models.CategoryLength)
		assert.ErrorIs(t, err, models.ErrInvalidValue)
	}
}

func TestConvertRejectsOverflow(t *testing.T) {
	c := NewConverter(testRates())

	tests := []struct {
		name     string
		value    float64
		from, to string
		category models.UnitCategory
	}{
		{"length", 1e308, models.UnitKilometer, models.UnitMeter, models.CategoryLength},
		{"weight", 1e307, models.UnitTon, models.UnitGram, models.CategoryWeight},
		{"temperature", -1.7e308, models.UnitFahrenheit, models.UnitCelsius, models.CategoryTemperature},
		{"currency", 1e308, "EUR", "JPY", models.CategoryCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.value, tt.from, tt.to, tt.category)
			assert.ErrorIs(t, err, models.ErrInvalidValue)
			assert.Zero(t, got)
		})
	}

	// the largest finite values that still fit are fine
	got, err := c.Convert(1e305, models.UnitKilometer, models.UnitMeter, models.CategoryLength)
	require.NoError(t, err)
	assert.InEpsilon(t, 1e308, got, 1e-12)
}
