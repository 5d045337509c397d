package market

import (
	"fmt"
	"strconv"
	"strings"
)

// Timeframe is the lookback window of a price series, in days.
type Timeframe int

const (
	Timeframe1D   Timeframe = 1
	Timeframe7D   Timeframe = 7
	Timeframe14D  Timeframe = 14
	Timeframe30D  Timeframe = 30
	Timeframe180D Timeframe = 180
	Timeframe365D Timeframe = 365

	DefaultTimeframe = Timeframe7D
)

// Timeframes lists the selectable windows in display order.
var Timeframes = []Timeframe{
	Timeframe1D,
	Timeframe7D,
	Timeframe14D,
	Timeframe30D,
	Timeframe180D,
	Timeframe365D,
}

var timeframeLabels = map[Timeframe]string{
	Timeframe1D:   "1d",
	Timeframe7D:   "7d",
	Timeframe14D:  "14d",
	Timeframe30D:  "30d",
	Timeframe180D: "6mo",
	Timeframe365D: "1yr",
}

// Days returns the lookback in days, as sent to the market_chart endpoint.
func (t Timeframe) Days() int { return int(t) }

// Valid reports whether t is one of the selectable windows.
func (t Timeframe) Valid() bool {
	_, ok := timeframeLabels[t]
	return ok
}

// String returns the display label.
func (t Timeframe) String() string {
	if label, ok := timeframeLabels[t]; ok {
		return label
	}
	return fmt.Sprintf("%dd", int(t))
}

// Index returns the position of t in Timeframes, or -1.
func (t Timeframe) Index() int {
	for i, tf := range Timeframes {
		if tf == t {
			return i
		}
	}
	return -1
}

// Next returns the following timeframe, wrapping around. delta may be negative.
func (t Timeframe) Next(delta int) Timeframe {
	idx := t.Index()
	if idx < 0 {
		return DefaultTimeframe
	}
	n := len(Timeframes)
	return Timeframes[((idx+delta)%n+n)%n]
}

// ParseTimeframe accepts a display label ("6mo") or a day count ("180d", "180").
func ParseTimeframe(value string) (Timeframe, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return 0, fmt.Errorf("timeframe is empty")
	}
	for tf, label := range timeframeLabels {
		if label == trimmed {
			return tf, nil
		}
	}
	days, err := strconv.Atoi(strings.TrimSuffix(trimmed, "d"))
	if err != nil {
		return 0, fmt.Errorf("parse timeframe %q: %w", value, err)
	}
	tf := Timeframe(days)
	if !tf.Valid() {
		return 0, fmt.Errorf("unsupported timeframe %q", value)
	}
	return tf, nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Timeframe) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timeframe) UnmarshalText(text []byte) error {
	tf, err := ParseTimeframe(string(text))
	if err != nil {
		return err
	}
	*t = tf
	return nil
}
