package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/pricewatch/internal/market"
	"github.com/five82/pricewatch/internal/state"
)

// DefaultPollInterval is used when Options.PollInterval is not positive.
const DefaultPollInterval = 30 * time.Second

var (
	// ErrDisposed is returned by operations on a disposed engine.
	ErrDisposed = errors.New("engine disposed")
	// ErrInvalidTimeframe is returned for timeframes outside the supported set.
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

// Options configure an Engine.
type Options struct {
	Source           market.Source
	PollInterval     time.Duration
	DefaultTimeframe market.Timeframe
	Logger           *zap.Logger
}

// Engine keeps the dashboard's view model in sync with a price source.
type Engine struct {
	store   *state.Store
	poller  *poller
	history *historyLoader
	vis     *visibilityScheduler
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	started  bool
	disposed bool
}

// New creates an idle engine. Nothing is fetched until Start.
func New(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("engine: price source is required")
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	tf := opts.DefaultTimeframe
	if !tf.Valid() {
		tf = market.DefaultTimeframe
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "engine"))

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		store:  state.NewStore(tf),
		log:    logger,
		ctx:    ctx,
		cancel: cancel,
	}
	e.poller = &poller{
		ctx:      ctx,
		source:   opts.Source,
		store:    e.store,
		wg:       &e.wg,
		log:      logger.Named("poller"),
		interval: interval,
	}
	e.history = &historyLoader{
		ctx:    ctx,
		source: opts.Source,
		store:  e.store,
		wg:     &e.wg,
		log:    logger.Named("history"),
		// Nothing is loaded yet; Start issues the first fetch explicitly.
		selected: tf,
	}
	e.vis = &visibilityScheduler{poller: e.poller, log: logger.Named("visibility")}
	return e, nil
}

// Start loads the series for the selected timeframe and begins polling as if
// the surface were visible. Calling Start again does nothing.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return ErrDisposed
	}
	if e.started {
		return nil
	}
	e.started = true
	e.log.Info("engine started",
		zap.Duration("poll_interval", e.poller.interval),
		zap.Stringer("timeframe", e.store.ViewModel().SelectedTimeframe))
	e.history.reload()
	e.vis.set(true)
	return nil
}

// SetVisible feeds the surface visibility signal. Polling runs only while
// the surface is visible.
func (e *Engine) SetVisible(visible bool) {
	e.vis.set(visible)
}

// Pause stops polling until the surface becomes visible again.
func (e *Engine) Pause() {
	e.vis.set(false)
}

// Visible reports the last visibility signal applied.
func (e *Engine) Visible() bool {
	return e.vis.isVisible()
}

// SelectTimeframe switches the series to tf. Selecting the current timeframe
// is a no-op.
func (e *Engine) SelectTimeframe(tf market.Timeframe) error {
	if !tf.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidTimeframe, int(tf))
	}
	if e.isDisposed() {
		return ErrDisposed
	}
	if e.history.selectTimeframe(tf) {
		e.log.Debug("timeframe selected", zap.Stringer("timeframe", tf))
	}
	return nil
}

// ReloadSeries refetches the series for the selected timeframe.
func (e *Engine) ReloadSeries() error {
	if e.isDisposed() {
		return ErrDisposed
	}
	e.history.reload()
	return nil
}

// ViewModel returns a copy of the current view model.
func (e *Engine) ViewModel() state.ViewModel {
	return e.store.ViewModel()
}

// Subscribe returns a channel carrying the latest view model after every
// change. The channel closes when cancel is called or the engine is disposed.
func (e *Engine) Subscribe() (<-chan state.ViewModel, func()) {
	return e.store.Subscribe()
}

// PollerStats returns the poller's state and activity counters.
func (e *Engine) PollerStats() (PollerState, PollerStats) {
	return e.poller.current()
}

// Dispose stops polling, cancels outstanding fetches and waits for their
// goroutines to exit. The engine cannot be restarted.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	e.mu.Unlock()

	e.vis.dispose()
	e.history.dispose()
	e.cancel()
	e.wg.Wait()
	e.store.Close()
	e.log.Info("engine disposed")
}

func (e *Engine) isDisposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}
