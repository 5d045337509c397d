// Package ui provides the terminal dashboard for pricewatch.
//
// # Architecture Overview
//
// The dashboard is a Bubble Tea program. It never fetches anything itself:
// it renders the state.ViewModel published by the sync engine and turns key
// presses and terminal focus changes into engine calls.
//
//	engine.Subscribe ──► waitForUpdate ──► viewModelMsg ──► Model.vm ──► View
//	key 1-6 / ←→     ──► engine.SelectTimeframe
//	focus / blur     ──► engine.SetVisible
//
// # Package Structure
//
//   - app.go: Model, Update loop, commands and Run
//   - header.go: status bar (LIVE/PAUSED/STALE/OFFLINE), command bar, error banner
//   - price.go: price panel with the change highlight and 24h/ATH figures
//   - chart.go: block-character area chart for the selected timeframe
//   - logs.go: optional pane tailing the pricewatch log file
//   - errors.go: short labels for fetch failures
//   - theme.go, style_helpers.go, box.go: palettes and rendering helpers
//
// # Key Bindings
//
//   - 1-6: Select 1d/7d/14d/30d/6mo/1yr
//   - ←/→: Previous/next timeframe
//   - r: Reload the chart
//   - l: Toggle the log pane (j/k, g/G, pgup/pgdn scroll it)
//   - T: Cycle theme
//   - h or ?: Help
//   - q or Ctrl+C: Exit
//
// Theme and timeframe choices are written to the prefs file as they change.
package ui
