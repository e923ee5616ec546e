package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockQuote is the cached last-known market data for one ticker.
// Monetary columns are stored in integer minor units (price x 100) so that
// repeated refreshes never accumulate floating-point drift. At most one row
// exists per ticker; rows are updated in place and never deleted.
type StockQuote struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	Ticker           string  `gorm:"uniqueIndex;size:20;not null" json:"ticker"`
	NormalizedTicker string  `gorm:"size:24" json:"normalized_ticker"`
	Name             string  `gorm:"size:200" json:"name"`
	CurrentPrice     *int64  `json:"current_price"`
	PreviousClose    *int64  `json:"previous_close"`
	Change           *int64  `json:"change"`
	ChangePercent    *int64  `json:"change_percent"`
	DayHigh          *int64  `json:"day_high"`
	DayLow           *int64  `json:"day_low"`
	Volume           *int64  `json:"volume"`
	Currency         string  `gorm:"size:8;default:BRL" json:"currency"`
	Market           string  `gorm:"size:32" json:"market"`
	Sector           string  `gorm:"size:100" json:"sector"`
	Industry         string  `gorm:"size:100" json:"industry"`
	MarketCap        string  `gorm:"size:40" json:"market_cap"`
	HistoryData      *string `gorm:"type:text" json:"-"`

	LastUpdated time.Time `gorm:"not null" json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}

func (StockQuote) TableName() string {
	return "stock_quotes"
}

// IsStale reports whether the snapshot is older than maxAge.
func (q *StockQuote) IsStale(maxAge time.Duration, now time.Time) bool {
	return now.Sub(q.LastUpdated) > maxAge
}

// ToMinorUnits converts a major-unit value (e.g. 25.50) to minor units (2550),
// rounding half away from zero. Nil stays nil so absent inputs persist as NULL.
func ToMinorUnits(v *float64) *int64 {
	if v == nil {
		return nil
	}
	cents := decimal.NewFromFloat(*v).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return &cents
}

// FromMinorUnits converts stored minor units back to major units.
func FromMinorUnits(v *int64) *float64 {
	if v == nil {
		return nil
	}
	major, _ := decimal.NewFromInt(*v).Div(decimal.NewFromInt(100)).Float64()
	return &major
}
