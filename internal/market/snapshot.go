package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is a single point-in-time reading of the asset price and its
// 24h statistics. Treat values as read-only once constructed.
type PriceSnapshot struct {
	Price           decimal.Decimal     `json:"price" yaml:"price"`
	High24h         decimal.NullDecimal `json:"high_24h" yaml:"high_24h"`
	Low24h          decimal.NullDecimal `json:"low_24h" yaml:"low_24h"`
	Change24hPct    decimal.NullDecimal `json:"change_24h_pct" yaml:"change_24h_pct"`
	AllTimeHigh     decimal.NullDecimal `json:"ath" yaml:"ath"`
	AllTimeHighDate *time.Time          `json:"ath_date,omitempty" yaml:"ath_date,omitempty"`
	ObservedAt      time.Time           `json:"observed_at" yaml:"observed_at"`
}

// HasRange reports whether both 24h bounds are known.
func (s *PriceSnapshot) HasRange() bool {
	return s != nil && s.High24h.Valid && s.Low24h.Valid
}

// PriceChanged reports whether next carries a different price than s.
// A nil receiver or argument never counts as a change.
func (s *PriceSnapshot) PriceChanged(next *PriceSnapshot) bool {
	if s == nil || next == nil {
		return false
	}
	return !s.Price.Equal(next.Price)
}

// Direction returns -1, 0 or 1 comparing next against s.
func (s *PriceSnapshot) Direction(next *PriceSnapshot) int {
	if s == nil || next == nil {
		return 0
	}
	return next.Price.Cmp(s.Price)
}
