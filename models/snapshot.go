package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trend is a coarse directional classification of price versus the 50-day MA
type Trend string

const (
	TrendUpward   Trend = "UPWARD"
	TrendDownward Trend = "DOWNWARD"
)

// MarketSnapshot holds the computed metrics for one ticker at one point in
// time. All decimal fields are rounded to 2 decimal places; a snapshot is
// never partially populated.
type MarketSnapshot struct {
	Ticker           string          `json:"ticker"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	PreviousClose    decimal.Decimal `json:"previous_close"`
	DayChangePercent decimal.Decimal `json:"day_change_percent"`
	MovingAverage50  decimal.Decimal `json:"moving_average_50"`
	Trend            Trend           `json:"trend"`
	Volume           int64           `json:"volume"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// DisplayName is the result of a best-effort name lookup. Resolved is false
// when the lookup failed and Name is just the ticker echoed back.
type DisplayName struct {
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}

// Narrative holds the free-text output of the two generation calls. The
// text is opaque: it is never parsed or validated.
type Narrative struct {
	Analysis       string `json:"analysis"`
	Recommendation string `json:"recommendation"`
}

// Report describes a written report artifact
type Report struct {
	ID          uuid.UUID `json:"id"`
	Ticker      string    `json:"ticker"`
	DisplayName string    `json:"display_name"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewReport creates a Report descriptor for a file written at path
func NewReport(ticker, displayName, path string) *Report {
	return &Report{
		ID:          uuid.New(),
		Ticker:      ticker,
		DisplayName: displayName,
		Path:        path,
		CreatedAt:   time.Now(),
	}
}
