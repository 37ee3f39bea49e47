package models

import "time"

type Favorite struct {
	ID        string       `json:"id"`
	Category  UnitCategory `json:"category"`
	FromUnit  string       `json:"from_unit"`
	ToUnit    string       `json:"to_unit"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
}

// Matches compares the identity triple; the ID is not part of it.
func (f Favorite) Matches(category UnitCategory, fromUnit, toUnit string) bool {
	return f.Category == category && f.FromUnit == fromUnit && f.ToUnit == toUnit
}

// DefaultFavoriteName is used when a favorite is toggled without a name.
func DefaultFavoriteName(fromUnit, toUnit string) string {
	return fromUnit + " → " + toUnit
}

type FavoriteRequest struct {
	Category string `json:"category" binding:"required"`
	FromUnit string `json:"from_unit" binding:"required"`
	ToUnit   string `json:"to_unit" binding:"required"`
	Name     string `json:"name"`
}

type FavoriteToggleResponse struct {
	Favorite  bool       `json:"favorite"`
	Favorites []Favorite `json:"favorites"`
	Persisted bool       `json:"persisted"`
}
