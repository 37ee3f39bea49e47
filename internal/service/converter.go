// internal/service/converter.go
package service

import (
	"fmt"
	"math"

	"unit-converter/internal/models"
)

// Factors relative to the category's base unit (meter, kilogram).
var linearFactors = map[models.UnitCategory]map[string]float64{
	models.CategoryLength: {
		models.UnitMeter:      1,
		models.UnitKilometer:  1000,
		models.UnitCentimeter: 0.01,
		models.UnitFoot:       0.3048,
		models.UnitInch:       0.0254,
		models.UnitMile:       1609.34,
	},
	models.CategoryWeight: {
		models.UnitKilogram: 1,
		models.UnitGram:     0.001,
		models.UnitPound:    0.453592,
		models.UnitOunce:    0.0283495,
		models.UnitTon:      1000,
	},
}

// RateProvider supplies the exchange rate snapshot used for currency.
type RateProvider interface {
	CurrentTable() models.ExchangeRateTable
}

// Converter is the quantity conversion engine. It has no side effects and
// returns full precision; rounding is left to display code.
type Converter struct {
	rates RateProvider
}

// NewConverter creates a converter reading currency rates from rates.
func NewConverter(rates RateProvider) *Converter {
	return &Converter{rates: rates}
}

// Convert maps value from one unit to another within category. A result
// that overflows float64 fails with models.ErrInvalidValue.
func (c *Converter) Convert(value float64, fromUnit, toUnit string, category models.UnitCategory) (float64, error) {
	result, err := c.convert(value, fromUnit, toUnit, category)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: %v %s is out of range in %s", models.ErrInvalidValue, value, fromUnit, toUnit)
	}
	return result, nil
}

func (c *Converter) convert(value float64, fromUnit, toUnit string, category models.UnitCategory) (float64, error) {
	if !category.Valid() {
		return 0, fmt.Errorf("%w: %q", models.ErrUnknownCategory, string(category))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: got %v", models.ErrInvalidValue, value)
	}
	if err := category.ValidatePair(fromUnit, toUnit); err != nil {
		return 0, err
	}

	if fromUnit == toUnit {
		return value, nil
	}

	switch category {
	case models.CategoryTemperature:
		return fromCelsius(toCelsius(value, fromUnit), toUnit), nil
	case models.CategoryCurrency:
		return c.convertCurrency(value, fromUnit, toUnit)
	default:
		factors := linearFactors[category]
		base := value * factors[fromUnit]
		return base / factors[toUnit], nil
	}
}

func toCelsius(value float64, unit string) float64 {
	switch unit {
	case models.UnitFahrenheit:
		return (value - 32) * 5 / 9
	case models.UnitKelvin:
		return value - 273.15
	}
	return value
}

func fromCelsius(celsius float64, unit string) float64 {
	switch unit {
	case models.UnitFahrenheit:
		return celsius*9/5 + 32
	case models.UnitKelvin:
		return celsius + 273.15
	}
	return celsius
}

func (c *Converter) convertCurrency(value float64, fromUnit, toUnit string) (float64, error) {
	if c.rates == nil {
		return 0, models.ErrRatesUnavailable
	}
	table := c.rates.CurrentTable()

	fromRate, ok := table.Rate(fromUnit)
	if !ok {
		return 0, fmt.Errorf("%w: no rate for %s", models.ErrRatesUnavailable, fromUnit)
	}
	toRate, ok := table.Rate(toUnit)
	if !ok {
		return 0, fmt.Errorf("%w: no rate for %s", models.ErrRatesUnavailable, toUnit)
	}

	return value / fromRate * toRate, nil
}
