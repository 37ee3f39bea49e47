package models

type ConversionRequest struct {
	Value    float64 `json:"value"`
	FromUnit string  `json:"from_unit" binding:"required"`
	ToUnit   string  `json:"to_unit" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Record   bool    `json:"record"`
}

type ConversionResult struct {
	Value      float64      `json:"value"`
	Result     float64      `json:"result"`
	FromUnit   string       `json:"from_unit"`
	ToUnit     string       `json:"to_unit"`
	Category   UnitCategory `json:"category"`
	Summary    string       `json:"summary"`
	RatesStale bool         `json:"rates_stale,omitempty"`
	HistoryID  string       `json:"history_id,omitempty"`
	Persisted  *bool        `json:"persisted,omitempty"`
}
