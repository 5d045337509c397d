package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the dashboard.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	ToggleLogs key.Binding

	// Chart
	Timeframe1D   key.Binding
	Timeframe7D   key.Binding
	Timeframe14D  key.Binding
	Timeframe30D  key.Binding
	Timeframe180D key.Binding
	Timeframe365D key.Binding
	NextTimeframe key.Binding
	PrevTimeframe key.Binding
	Reload        key.Binding

	// Log pane
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close overlay"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle logs"),
		),

		// Chart
		Timeframe1D: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "1 day"),
		),
		Timeframe7D: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "7 days"),
		),
		Timeframe14D: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "14 days"),
		),
		Timeframe30D: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "30 days"),
		),
		Timeframe180D: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "6 months"),
		),
		Timeframe365D: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "1 year"),
		),
		NextTimeframe: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→", "Next timeframe"),
		),
		PrevTimeframe: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←", "Previous timeframe"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload chart"),
		),

		// Log pane
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "Page down"),
		),
	}
}

// timeframeBindings pairs each direct-select key with its timeframe index.
func (k keyMap) timeframeBindings() []key.Binding {
	return []key.Binding{
		k.Timeframe1D,
		k.Timeframe7D,
		k.Timeframe14D,
		k.Timeframe30D,
		k.Timeframe180D,
		k.Timeframe365D,
	}
}

// ShortHelp returns bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevTimeframe, k.NextTimeframe, k.Reload, k.ToggleLogs, k.Help, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.timeframeBindings(),
		{k.PrevTimeframe, k.NextTimeframe, k.Reload},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.ToggleLogs, k.CycleTheme, k.Help, k.Escape, k.Quit},
	}
}
