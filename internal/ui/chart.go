package ui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pricewatch/internal/market"
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// plotSeries renders series as a filled area chart of width columns and
// height rows, top row first. Each cell resolves to one of eight sub-cell
// levels. Series longer than width are sampled; shorter ones are stretched.
func plotSeries(series market.PriceSeries, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	rows := make([][]rune, height)
	for r := range rows {
		rows[r] = []rune(strings.Repeat(" ", width))
	}
	low, high, ok := series.Bounds()
	if !ok {
		return joinRows(rows)
	}

	levels := height * len(blocks)
	span := high.Sub(low)
	for c := 0; c < width; c++ {
		idx := 0
		if width > 1 {
			idx = int(math.Round(float64(c) * float64(len(series)-1) / float64(width-1)))
		}
		level := levels / 2
		if span.IsPositive() {
			ratio := series[idx].Price.Sub(low).Div(span).InexactFloat64()
			level = 1 + int(math.Round(ratio*float64(levels-1)))
		}
		for r := 0; r < height; r++ {
			fromBottom := height - 1 - r
			cell := level - fromBottom*len(blocks)
			switch {
			case cell >= len(blocks):
				rows[r][c] = blocks[len(blocks)-1]
			case cell > 0:
				rows[r][c] = blocks[cell-1]
			}
		}
	}
	return joinRows(rows)
}

func joinRows(rows [][]rune) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = string(r)
	}
	return out
}

// seriesDirection compares the last sample against the first.
func seriesDirection(series market.PriceSeries) int {
	if len(series) < 2 {
		return 0
	}
	return series[len(series)-1].Price.Cmp(series[0].Price)
}

// axisLabel formats a sample time for the x axis. Intraday windows show the
// clock, longer ones the month and day.
func axisLabel(t time.Time, tf market.Timeframe) string {
	if tf == market.Timeframe1D {
		return t.Local().Format("15:04")
	}
	return t.Local().Format("1/2")
}

// renderChart renders the chart panel body for the given inner size.
func (m Model) renderChart(width, height int) string {
	styles := m.theme.Styles()
	series := m.vm.Series

	if len(series) == 0 {
		switch {
		case m.vm.SeriesLoading:
			return m.spinner.View() + " " + styles.MutedText.Render("Loading chart...")
		case m.vm.SeriesError != "":
			return styles.DangerText.Render("Chart unavailable: "+classifyFetchError(m.vm.SeriesError)) +
				"\n" + styles.FaintText.Render(truncate(m.vm.SeriesError, width))
		default:
			return styles.FaintText.Render("No data for this timeframe")
		}
	}

	low, high, _ := series.Bounds()
	highLabel, lowLabel := formatUSD(high), formatUSD(low)
	labelWidth := max(lipgloss.Width(highLabel), lipgloss.Width(lowLabel)) + 1

	plotWidth := width - labelWidth
	plotHeight := height - 1
	if plotWidth < 4 || plotHeight < 1 {
		return styles.FaintText.Render("Window too small")
	}

	lineStyle := styles.DirectionStyle(seriesDirection(series))
	rows := plotSeries(series, plotWidth, plotHeight)

	var b strings.Builder
	for i, row := range rows {
		label := ""
		switch i {
		case 0:
			label = highLabel
		case len(rows) - 1:
			label = lowLabel
		}
		b.WriteString(styles.MutedText.Render(padRight(label, labelWidth)))
		b.WriteString(lineStyle.Render(row))
		b.WriteString("\n")
	}

	start := axisLabel(series[0].Time(), m.vm.SelectedTimeframe)
	end := axisLabel(series[len(series)-1].Time(), m.vm.SelectedTimeframe)
	gap := plotWidth - len(start) - len(end)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(strings.Repeat(" ", labelWidth))
	b.WriteString(styles.FaintText.Render(start + strings.Repeat(" ", gap) + end))
	return b.String()
}

// chartTitle names the chart panel, including the change across the window.
func (m Model) chartTitle() string {
	title := m.symbol + "/USD · " + m.vm.SelectedTimeframe.String()
	series := m.vm.Series
	if len(series) >= 2 && series[0].Price.IsPositive() {
		first, last := series[0].Price, series[len(series)-1].Price
		pct := last.Sub(first).Div(first).Shift(2)
		title += " · " + formatPct(pct)
	}
	switch {
	case m.vm.SeriesLoading && len(series) > 0:
		title += " · " + m.spinner.View()
	case m.vm.SeriesError != "" && len(series) > 0:
		title += " · stale"
	}
	return title
}
