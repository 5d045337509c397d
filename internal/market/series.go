package market

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SeriesPoint is one historical sample.
type SeriesPoint struct {
	Timestamp int64           `json:"timestamp" yaml:"timestamp"` // epoch milliseconds
	Price     decimal.Decimal `json:"price" yaml:"price"`
}

// Time returns the sample time in UTC.
func (p SeriesPoint) Time() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}

// PriceSeries is ordered ascending by Timestamp.
type PriceSeries []SeriesPoint

// NewPriceSeries builds a series from raw [timestamp, price] pairs. Pairs that
// are short, carry a negative price or a non-positive timestamp are dropped.
// The result is sorted ascending.
func NewPriceSeries(pairs [][]decimal.Decimal) PriceSeries {
	if len(pairs) == 0 {
		return nil
	}
	out := make(PriceSeries, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 {
			continue
		}
		ts := pair[0].IntPart()
		if ts <= 0 || pair[1].IsNegative() {
			continue
		}
		out = append(out, SeriesPoint{Timestamp: ts, Price: pair[1]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// Clone returns an independent copy.
func (s PriceSeries) Clone() PriceSeries {
	if len(s) == 0 {
		return nil
	}
	dup := make(PriceSeries, len(s))
	copy(dup, s)
	return dup
}

// Bounds returns the lowest and highest price in the series. ok is false for
// an empty series.
func (s PriceSeries) Bounds() (low, high decimal.Decimal, ok bool) {
	if len(s) == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	low, high = s[0].Price, s[0].Price
	for _, p := range s[1:] {
		if p.Price.LessThan(low) {
			low = p.Price
		}
		if p.Price.GreaterThan(high) {
			high = p.Price
		}
	}
	return low, high, true
}

// Span returns the time covered by the series.
func (s PriceSeries) Span() time.Duration {
	if len(s) < 2 {
		return 0
	}
	return time.Duration(s[len(s)-1].Timestamp-s[0].Timestamp) * time.Millisecond
}
