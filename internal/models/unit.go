// internal/models/unit.go
package models

import (
	"fmt"
	"strings"
)

type UnitCategory string

const (
	CategoryLength      UnitCategory = "length"
	CategoryWeight      UnitCategory = "weight"
	CategoryTemperature UnitCategory = "temperature"
	CategoryCurrency    UnitCategory = "currency"
)

// Length units, pivot is Meter
const (
	UnitMeter      = "Meter"
	UnitKilometer  = "Kilometer"
	UnitCentimeter = "Zentimeter"
	UnitFoot       = "Fuß"
	UnitInch       = "Zoll"
	UnitMile       = "Meilen"
)

// Weight units, pivot is Kilogramm
const (
	UnitKilogram = "Kilogramm"
	UnitGram     = "Gramm"
	UnitPound    = "Pfund"
	UnitOunce    = "Unzen"
	UnitTon      = "Tonnen"
)

// Temperature units, pivot is Celsius
const (
	UnitCelsius    = "Celsius"
	UnitFahrenheit = "Fahrenheit"
	UnitKelvin     = "Kelvin"
)

var categoryOrder = []UnitCategory{
	CategoryLength,
	CategoryWeight,
	CategoryTemperature,
	CategoryCurrency,
}

var categoryLabels = map[UnitCategory]string{
	CategoryLength:      "Länge",
	CategoryWeight:      "Gewicht",
	CategoryTemperature: "Temperatur",
	CategoryCurrency:    "Währung",
}

// Order matters: first unit is the default source, last is the default target.
var categoryUnits = map[UnitCategory][]string{
	CategoryLength:      {UnitMeter, UnitKilometer, UnitCentimeter, UnitFoot, UnitInch, UnitMile},
	CategoryWeight:      {UnitKilogram, UnitGram, UnitPound, UnitOunce, UnitTon},
	CategoryTemperature: {UnitCelsius, UnitFahrenheit, UnitKelvin},
	CategoryCurrency:    {"EUR", "USD", "GBP", "CHF", "JPY"},
}

// Categories returns every category in display order.
func Categories() []UnitCategory {
	out := make([]UnitCategory, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ParseCategory accepts a category key ("length") or its label ("Länge"),
// ignoring case.
func ParseCategory(s string) (UnitCategory, error) {
	s = strings.TrimSpace(s)
	for _, c := range categoryOrder {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, categoryLabels[c]) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// CategoryOf reports which category owns unit.
func CategoryOf(unit string) (UnitCategory, bool) {
	for _, c := range categoryOrder {
		if c.HasUnit(unit) {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is one of the known categories.
func (c UnitCategory) Valid() bool {
	_, ok := categoryUnits[c]
	return ok
}

// Label returns the German display name, or "" for an unknown category.
func (c UnitCategory) Label() string {
	return categoryLabels[c]
}

// Units returns a copy of the category's ordered unit list.
func (c UnitCategory) Units() []string {
	units := categoryUnits[c]
	out := make([]string, len(units))
	copy(out, units)
	return out
}

// HasUnit reports whether unit belongs to c. Matching is case-sensitive.
func (c UnitCategory) HasUnit(unit string) bool {
	for _, u := range categoryUnits[c] {
		if u == unit {
			return true
		}
	}
	return false
}

// DefaultUnits returns the default from/to selection for the category.
func (c UnitCategory) DefaultUnits() (from, to string) {
	units := categoryUnits[c]
	if len(units) == 0 {
		return "", ""
	}
	return units[0], units[len(units)-1]
}

// ValidatePair checks that both units belong to the category. A unit that
// exists in another category is reported as ErrUnknownCategoryPair, anything
// else as ErrUnknownUnit.
func (c UnitCategory) ValidatePair(from, to string) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
	for _, u := range []string{from, to} {
		if c.HasUnit(u) {
			continue
		}
		if other, ok := CategoryOf(u); ok {
			return fmt.Errorf("%w: %q is a %s unit, not %s", ErrUnknownCategoryPair, u, other, c)
		}
		return fmt.Errorf("%w: %q in %s", ErrUnknownUnit, u, c)
	}
	return nil
}

// CategoryInfo is the descriptor served to presentation layers.
type CategoryInfo struct {
	Key         UnitCategory `json:"key"`
	Label       string       `json:"label"`
	Units       []string     `json:"units"`
	DefaultFrom string       `json:"default_from"`
	DefaultTo   string       `json:"default_to"`
}

func (c UnitCategory) Info() CategoryInfo {
	from, to := c.DefaultUnits()
	return CategoryInfo{
		Key:         c,
		Label:       c.Label(),
		Units:       c.Units(),
		DefaultFrom: from,
		DefaultTo:   to,
	}
}
