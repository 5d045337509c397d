package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// flashDuration is how long a changed price stays highlighted.
const flashDuration = 1500 * time.Millisecond

// flashing reports whether the price highlight is still showing.
func (m Model) flashing() bool {
	return m.flashDir != 0 && m.now().Before(m.flashUntil)
}

// renderPrice renders the price panel body.
func (m Model) renderPrice(width int) string {
	styles := m.theme.Styles()
	snap := m.vm.Snapshot

	if snap == nil {
		if m.vm.ErrorMessage != "" && !m.vm.SnapshotLoading {
			return styles.DangerText.Render("—") + "\n" +
				styles.MutedText.Render("No price yet: "+classifyFetchError(m.vm.ErrorMessage))
		}
		return m.spinner.View() + " " + styles.MutedText.Render("Loading price...") + "\n" +
			styles.FaintText.Render("24h range loading...")
	}

	priceStyle := styles.Text.Bold(true)
	if m.flashing() {
		priceStyle = styles.DirectionStyle(m.flashDir).
			Bold(true).
			Background(lipgloss.Color(m.theme.Flash))
	}
	if m.vm.IsStale() {
		priceStyle = priceStyle.Faint(true)
	}

	var line strings.Builder
	line.WriteString(priceStyle.Render(" " + formatUSD(snap.Price) + " "))
	if m.flashing() {
		arrow := "▲"
		if m.flashDir < 0 {
			arrow = "▼"
		}
		line.WriteString(" " + styles.DirectionStyle(m.flashDir).Render(arrow))
	}
	if snap.Change24hPct.Valid {
		pct := snap.Change24hPct.Decimal
		line.WriteString("  ")
		line.WriteString(styles.DirectionStyle(pct.Sign()).Render(formatPct(pct)))
		line.WriteString(" " + styles.FaintText.Render("24h"))
	}

	lines := []string{line.String()}

	switch {
	case snap.High24h.Valid || snap.Low24h.Valid:
		lines = append(lines,
			styles.MutedText.Render("24h Low ")+styles.Text.Render(formatNullUSD(snap.Low24h, "—"))+
				styles.FaintText.Render("  •  ")+
				styles.MutedText.Render("24h High ")+styles.Text.Render(formatNullUSD(snap.High24h, "—")))
	case m.vm.SnapshotLoading:
		lines = append(lines, styles.FaintText.Render("24h range loading..."))
	default:
		lines = append(lines, styles.FaintText.Render("24h range unavailable"))
	}

	if snap.AllTimeHigh.Valid {
		ath := styles.MutedText.Render("ATH ") + styles.AccentText.Render(formatUSD(snap.AllTimeHigh.Decimal))
		if snap.AllTimeHighDate != nil {
			ath += styles.FaintText.Render(" (" + snap.AllTimeHighDate.Local().Format("Jan 2, 2006") + ")")
		}
		lines = append(lines, ath)
	}

	for i, l := range lines {
		if lipgloss.Width(l) > width {
			lines[i] = lipgloss.NewStyle().MaxWidth(width).Render(l)
		}
	}
	return strings.Join(lines, "\n")
}
