package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/pricewatch/internal/market"
	"github.com/five82/pricewatch/internal/prefs"
	"github.com/five82/pricewatch/internal/state"
)

// Engine is the part of the sync engine the dashboard drives.
type Engine interface {
	ViewModel() state.ViewModel
	Subscribe() (<-chan state.ViewModel, func())
	SelectTimeframe(tf market.Timeframe) error
	ReloadSeries() error
	SetVisible(visible bool)
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Engine      Engine
	AssetSymbol string
	Prefs       prefs.Prefs
	PrefsPath   string
	LogPath     string
	Logger      *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	engine    Engine
	updates   <-chan state.ViewModel
	unsub     func()
	symbol    string
	prefs     prefs.Prefs
	prefsPath string
	log       *zap.Logger
	now       func() time.Time

	// UI state
	keys     keyMap
	theme    Theme
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
	visible  bool
	showHelp bool
	showLogs bool
	notice   string

	// Data state
	vm         state.ViewModel
	flashUntil time.Time
	flashDir   int

	// Log state
	logViewport viewport.Model
	logs        logState
}

// New creates the dashboard model and subscribes to engine updates.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	symbol := strings.ToUpper(strings.TrimSpace(opts.AssetSymbol))
	if symbol == "" {
		symbol = "TAO"
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		engine:    opts.Engine,
		symbol:    symbol,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		log:       logger.With(zap.String("component", "ui")),
		now:       time.Now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		spinner:   sp,
		visible:   true,
		logs:      logState{path: opts.LogPath, follow: true},
	}
	if m.engine != nil {
		m.vm = m.engine.ViewModel()
		m.updates, m.unsub = m.engine.Subscribe()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, clockCmd()}
	if m.updates != nil {
		cmds = append(cmds, waitForUpdate(m.updates))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.showLogs {
			m.updateLogViewport()
		}
		return m, nil

	case tea.FocusMsg:
		m.setVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.setVisible(false)
		return m, nil

	case viewModelMsg:
		m.applyViewModel(state.ViewModel(msg))
		return m, waitForUpdate(m.updates)

	case updatesClosedMsg:
		m.updates = nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clockMsg:
		return m, clockCmd()

	case logRefreshMsg:
		if !m.showLogs {
			return m, nil
		}
		return m, tea.Batch(loadLogsCmd(m.logs.path), logRefreshCmd())

	case logsLoadedMsg:
		m.handleLogsLoaded(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.unsub != nil {
			m.unsub()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		if m.showLogs {
			m.updateLogViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		if !m.showLogs {
			return m, nil
		}
		m.logs.follow = true
		m.updateLogViewport()
		return m, tea.Batch(loadLogsCmd(m.logs.path), logRefreshCmd())

	case key.Matches(msg, m.keys.Escape):
		m.showLogs = false
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.NextTimeframe):
		return m.selectTimeframe(m.vm.SelectedTimeframe.Next(1))

	case key.Matches(msg, m.keys.PrevTimeframe):
		return m.selectTimeframe(m.vm.SelectedTimeframe.Next(-1))

	case key.Matches(msg, m.keys.Reload):
		if m.engine != nil {
			m.reportErr(m.engine.ReloadSeries())
		}
		return m, nil
	}

	for i, b := range m.keys.timeframeBindings() {
		if key.Matches(msg, b) {
			return m.selectTimeframe(market.Timeframes[i])
		}
	}

	if m.showLogs {
		m, _ = m.handleLogsKey(msg)
	}
	return m, nil
}

// selectTimeframe asks the engine to switch the chart and remembers the
// choice. Re-selecting the current timeframe is a no-op.
func (m Model) selectTimeframe(tf market.Timeframe) (tea.Model, tea.Cmd) {
	if m.engine == nil || tf == m.vm.SelectedTimeframe {
		return m, nil
	}
	if err := m.engine.SelectTimeframe(tf); err != nil {
		m.reportErr(err)
		return m, nil
	}
	m.vm.SelectedTimeframe = tf
	m.prefs = m.prefs.WithTimeframe(tf)
	m.savePrefs()
	return m, nil
}

func (m *Model) reportErr(err error) {
	if err == nil {
		return
	}
	m.notice = err.Error()
	m.log.Warn("dashboard action failed", zap.Error(err))
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save preferences failed", zap.Error(err))
	}
}

// setVisible forwards terminal focus changes to the engine.
func (m *Model) setVisible(visible bool) {
	if m.visible == visible {
		return
	}
	m.visible = visible
	if m.engine != nil {
		m.engine.SetVisible(visible)
	}
}

// applyViewModel takes a published view model and starts the price
// highlight when the snapshot moved the price.
func (m *Model) applyViewModel(vm state.ViewModel) {
	if vm.Snapshot != m.vm.Snapshot && vm.PriceChanged() {
		m.flashDir = vm.PreviousSnapshot.Direction(vm.Snapshot)
		m.flashUntil = m.now().Add(flashDuration)
	}
	m.vm = vm
}

// renderMain renders the full dashboard.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	used := 2
	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
		used++
	}

	const priceHeight = 5
	b.WriteString(m.renderTitledBox(m.symbol+" Price", m.renderPrice(m.width-4), m.width, priceHeight, m.flashing()))
	b.WriteString("\n")
	used += priceHeight

	logHeight := 0
	if m.showLogs {
		logHeight = m.logPaneHeight()
	}
	chartHeight := m.height - used - logHeight
	if chartHeight >= 4 {
		b.WriteString(m.renderTitledBox(m.chartTitle(), m.renderChart(m.width-2, chartHeight-2), m.width, chartHeight, false))
	}
	if m.showLogs {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Render(b.String())
}

// Messages

type viewModelMsg state.ViewModel

type updatesClosedMsg struct{}

type clockMsg time.Time

// Commands

// waitForUpdate blocks on the next published view model.
func waitForUpdate(ch <-chan state.ViewModel) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		vm, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return viewModelMsg(vm)
	}
}

// clockCmd redraws once a second so relative times and the price highlight
// age without engine traffic.
func clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is done.
func Run(opts Options) error {
	m := New(opts)
	defer func() {
		if m.unsub != nil {
			m.unsub()
		}
	}()
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(m.ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
