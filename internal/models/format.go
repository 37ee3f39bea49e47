package models

import (
	"math"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatQuantity renders a value for display: two decimals followed by the
// unit, or the currency's own symbol and fraction digits for money.
// Conversions themselves always keep full precision.
func FormatQuantity(value float64, unit string, category UnitCategory) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', -1, 64) + " " + unit
	}

	d := decimal.NewFromFloat(value)
	if category == CategoryCurrency {
		if cur := money.GetCurrency(unit); cur != nil {
			minor := d.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
			return cur.Formatter().Format(minor.IntPart())
		}
	}
	return d.StringFixed(2) + " " + unit
}
