package models

import "errors"

// Conversion errors
var (
	ErrUnknownUnit         = errors.New("unknown unit")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrUnknownCategoryPair = errors.New("unit belongs to another category")
	ErrInvalidValue        = errors.New("value must be a finite number")
	ErrRatesUnavailable    = errors.New("exchange rates unavailable")
)

// Infrastructure errors
var (
	ErrRefresh     = errors.New("exchange rate refresh failed")
	ErrPersistence = errors.New("persistence failed")
)

// IsConversionError reports whether err is caused by a bad conversion request.
func IsConversionError(err error) bool {
	return errors.Is(err, ErrUnknownUnit) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrUnknownCategoryPair) ||
		errors.Is(err, ErrInvalidValue)
}
