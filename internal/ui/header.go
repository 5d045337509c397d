package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pricewatch/internal/state"
)

// feedStatus is the one-word summary of the data feed shown in the header.
type feedStatus int

const (
	feedConnecting feedStatus = iota
	feedLive
	feedPaused
	feedStale
	feedOffline
)

func (s feedStatus) String() string {
	switch s {
	case feedLive:
		return "LIVE"
	case feedPaused:
		return "PAUSED"
	case feedStale:
		return "STALE"
	case feedOffline:
		return "OFFLINE"
	default:
		return "CONNECTING"
	}
}

// statusOf derives the feed status. Offline wins over stale, and both win
// over paused so a failing feed is never hidden by a blurred terminal.
func statusOf(vm state.ViewModel, visible bool) feedStatus {
	switch {
	case vm.IsOffline():
		return feedOffline
	case vm.ErrorMessage != "":
		return feedStale
	case !visible:
		return feedPaused
	case !vm.HasSnapshot():
		return feedConnecting
	default:
		return feedLive
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 80

	status := statusOf(m.vm, m.visible)
	var badge string
	switch status {
	case feedLive:
		badge = bg.Render("● "+status.String(), styles.SuccessText)
	case feedPaused, feedConnecting:
		badge = bg.Render("● "+status.String(), styles.WarningText.Bold(true))
	default:
		badge = bg.Render("● "+status.String(), styles.DangerText)
	}

	parts := []string{
		bg.Render("pricewatch", styles.Logo),
		bg.Render("$"+m.symbol, styles.Text.Bold(true)),
		badge,
	}

	if status == feedConnecting && m.vm.SnapshotLoading {
		parts = append(parts, bg.Render(m.spinner.View(), styles.WarningText))
	}

	if ts := formatAgo(m.vm.LastUpdated, m.now()); ts != "" {
		parts = append(parts,
			bg.Render("Updated:", styles.MutedText)+bg.Space()+bg.Render(ts, styles.MutedText))
	}

	if m.vm.ErrorMessage != "" {
		label := classifyFetchError(m.vm.ErrorMessage)
		if status == feedStale || status == feedOffline {
			parts = append(parts, bg.Render(label, styles.DangerText.Bold(true)))
			if !compact {
				parts = append(parts, bg.Render("Retrying...", styles.WarningText.Bold(true)))
			}
		}
	}

	if m.notice != "" {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.notice, 40), styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	bindings := m.keys.ShortHelp()
	segments := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments,
			bg.Render(h.Key, styles.AccentText)+colon+bg.Render(shortDesc(h.Desc), styles.MutedText))
	}

	segments = append(segments,
		bg.Render("1-6", styles.AccentText)+colon+bg.Render(m.vm.SelectedTimeframe.String(), styles.Text))
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// shortDesc keeps the first word of a help description for the command bar.
func shortDesc(desc string) string {
	word, _, _ := strings.Cut(desc, " ")
	return word
}

// renderBanner renders the error banner shown over stale data, or "" when
// the last snapshot fetch succeeded.
func (m Model) renderBanner() string {
	text := bannerText(m.vm)
	if text == "" {
		return ""
	}
	styles := m.theme.Styles()
	style := styles.WarningText
	if m.vm.IsOffline() {
		style = styles.DangerText
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(style.Render(truncate(text, m.width-2)))
}
