package models

import "time"

// DefaultHistoryLimit is the number of entries the history keeps.
const DefaultHistoryLimit = 50

type HistoryEntry struct {
	ID        string       `json:"id"`
	Value     float64      `json:"value"`
	Result    float64      `json:"result"`
	FromUnit  string       `json:"from_unit"`
	ToUnit    string       `json:"to_unit"`
	Category  UnitCategory `json:"category"`
	Timestamp time.Time    `json:"timestamp"`
}

// Summary renders "<value> <from> = <result> <to>".
func (e HistoryEntry) Summary() string {
	return FormatQuantity(e.Value, e.FromUnit, e.Category) + " = " + FormatQuantity(e.Result, e.ToUnit, e.Category)
}

// HistoryGroup holds the entries of one calendar day, newest first.
type HistoryGroup struct {
	Day     time.Time      `json:"day"`
	Entries []HistoryEntry `json:"entries"`
}

func (g HistoryGroup) Label() string {
	return g.Day.Format("2006-01-02")
}

type HistoryRequest struct {
	Value    float64 `json:"value"`
	Result   float64 `json:"result"`
	FromUnit string  `json:"from_unit" binding:"required"`
	ToUnit   string  `json:"to_unit" binding:"required"`
	Category string  `json:"category" binding:"required"`
}
