package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// formatUSD renders a dollar amount with thousands separators. Sub-dollar
// prices keep four decimals.
func formatUSD(v decimal.Decimal) string {
	places := int32(2)
	if v.Abs().LessThan(decimal.NewFromInt(1)) {
		places = 4
	}
	fixed := v.Abs().StringFixed(places)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if v.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// formatNullUSD renders an optional amount, or placeholder when unknown.
func formatNullUSD(v decimal.NullDecimal, placeholder string) string {
	if !v.Valid {
		return placeholder
	}
	return formatUSD(v.Decimal)
}

// formatPct renders a signed percentage with two decimals.
func formatPct(v decimal.Decimal) string {
	sign := ""
	if v.IsPositive() {
		sign = "+"
	}
	return sign + v.StringFixed(2) + "%"
}

// formatAgo renders t as a clock time with a relative hint.
func formatAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := now.Sub(t)
	stamp := t.Local().Format("15:04:05")
	switch {
	case since < time.Minute:
		return stamp + " (now)"
	case since < time.Hour:
		return stamp + fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		return stamp + fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	default:
		return t.Local().Format("Jan 2 15:04")
	}
}
