package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pricewatch/internal/logtail"
)

const (
	logTailLines    = 500
	logRefreshEvery = 2 * time.Second
)

// logState holds the log pane state.
type logState struct {
	path    string
	entries []logtail.Entry
	err     string
	follow  bool
}

type logsLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

type logRefreshMsg struct{}

// loadLogsCmd tails the log file off the update loop.
func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logsLoadedMsg{err: err}
		}
		return logsLoadedMsg{entries: logtail.ParseAll(lines)}
	}
}

func logRefreshCmd() tea.Cmd {
	return tea.Tick(logRefreshEvery, func(time.Time) tea.Msg {
		return logRefreshMsg{}
	})
}

// handleLogsLoaded stores a fresh tail and re-renders the viewport.
func (m *Model) handleLogsLoaded(msg logsLoadedMsg) {
	if msg.err != nil {
		m.logs.err = msg.err.Error()
		return
	}
	m.logs.err = ""
	m.logs.entries = msg.entries
	m.updateLogViewport()
}

// updateLogViewport sizes the viewport and sets its content.
func (m *Model) updateLogViewport() {
	width, height := m.width-4, m.logPaneHeight()-2
	if width < 1 || height < 1 {
		return
	}
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.SetContent(m.renderLogContent())
	if m.logs.follow {
		m.logViewport.GotoBottom()
	}
}

// logPaneHeight is the height of the log box when it is shown.
func (m Model) logPaneHeight() int {
	return max(m.height/3, 6)
}

// renderLogContent renders every tailed entry as one line.
func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if len(m.logs.entries) == 0 {
		return styles.FaintText.Render("No log entries in " + m.logs.path)
	}
	lines := make([]string, 0, len(m.logs.entries))
	for _, e := range m.logs.entries {
		lines = append(lines, m.renderLogEntry(e, styles))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLogEntry(e logtail.Entry, styles Styles) string {
	if e.Level == "" {
		return styles.Text.Render(e.Raw)
	}
	var b strings.Builder
	if ts := shortTimestamp(e.Time); ts != "" {
		b.WriteString(styles.FaintText.Render(ts) + " ")
	}
	level := strings.ToUpper(e.Level)
	b.WriteString(levelStyle(level, styles).Render(padRight(level, 5)) + " ")
	if e.Logger != "" {
		b.WriteString(styles.AccentText.Render("["+e.Logger+"]") + " ")
	}
	b.WriteString(styles.Text.Render(e.Message))
	for _, f := range e.Fields {
		b.WriteString(" " + styles.MutedText.Render(f.Key+"=") + styles.Text.Render(f.Value))
	}
	return b.String()
}

// shortTimestamp trims an ISO8601 timestamp to the clock time.
func shortTimestamp(ts string) string {
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t.Local().Format("15:04:05")
	}
	if t, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
		return t.Local().Format("15:04:05")
	}
	return ts
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// renderLogs renders the log pane.
func (m Model) renderLogs() string {
	title := "Logs"
	if m.logs.follow {
		title += " · following"
	}
	if m.logs.err != "" {
		title += " · " + truncate(m.logs.err, 40)
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.logPaneHeight(), true)
}

// handleLogsKey scrolls the log pane.
func (m Model) handleLogsKey(msg tea.KeyMsg) (Model, bool) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logs.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logs.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logs.follow = m.logViewport.AtBottom()
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logs.follow = false
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
		m.logs.follow = m.logViewport.AtBottom()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
		m.logs.follow = false
	default:
		return m, false
	}
	return m, true
}
