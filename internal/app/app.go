package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/five82/pricewatch/internal/config"
	"github.com/five82/pricewatch/internal/engine"
	"github.com/five82/pricewatch/internal/logging"
	"github.com/five82/pricewatch/internal/market"
	"github.com/five82/pricewatch/internal/prefs"
	"github.com/five82/pricewatch/internal/ui"
	"github.com/five82/pricewatch/pkg/tracing"
)

// Options configure the pricewatch application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pricewatch/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	Timeframe  string // overrides the stored and configured timeframe
	Version    string
}

// runtime holds everything built from configuration, torn down by close.
type runtime struct {
	cfg     config.Config
	prefs   prefs.Prefs
	log     *zap.Logger
	tracer  trace.Tracer
	source  market.Source
	engine  *engine.Engine
	closers []func()
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// Run boots the dashboard until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := bootstrap(ctx, opts, false)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.engine.Start(); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	rt.log.Info("dashboard started",
		zap.String("asset", rt.cfg.AssetID),
		zap.Duration("poll_interval", rt.pollInterval(opts)),
		zap.Stringer("timeframe", rt.engine.ViewModel().SelectedTimeframe),
	)

	return ui.Run(ui.Options{
		Context:     ctx,
		Engine:      rt.engine,
		AssetSymbol: rt.cfg.AssetSymbol,
		Prefs:       rt.prefs,
		PrefsPath:   opts.PrefsPath,
		LogPath:     rt.cfg.Log.File,
		Logger:      rt.log,
	})
}

// bootstrap loads configuration and wires logging, tracing, the price source
// and the engine. console mirrors logs to stderr for headless runs.
func bootstrap(ctx context.Context, opts Options, console bool) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}

	rt := &runtime{cfg: cfg, prefs: userPrefs}
	ok := false
	defer func() {
		if !ok {
			rt.close()
		}
	}()

	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Console: console,
		Stderr:  os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	rt.log = logger
	rt.closers = append(rt.closers, func() { _ = closeLog() })
	if cfg.Path != "" {
		logger.Debug("config loaded", zap.String("path", cfg.Path))
	}

	tp, tracer, err := tracing.Init(ctx, tracing.Options{
		Enabled:  cfg.Tracing.Enabled,
		Endpoint: cfg.Tracing.Endpoint,
		Version:  opts.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	rt.tracer = tracer
	rt.closers = append(rt.closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	})

	source, closeSource, err := buildSource(ctx, cfg, tracer, logger)
	if err != nil {
		return nil, err
	}
	rt.source = source
	rt.closers = append(rt.closers, closeSource)

	tf, err := rt.timeframe(opts)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(engine.Options{
		Source:           source,
		PollInterval:     rt.pollInterval(opts),
		DefaultTimeframe: tf,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init engine: %w", err)
	}
	rt.engine = eng
	rt.closers = append(rt.closers, eng.Dispose)

	ok = true
	return rt, nil
}

// timeframe resolves the initial chart window: flag, then stored
// preference, then config.
func (rt *runtime) timeframe(opts Options) (market.Timeframe, error) {
	if opts.Timeframe != "" {
		tf, err := market.ParseTimeframe(opts.Timeframe)
		if err != nil {
			return 0, fmt.Errorf("invalid timeframe flag: %w", err)
		}
		return tf, nil
	}
	if tf, ok := rt.prefs.SelectedTimeframe(); ok {
		return tf, nil
	}
	return rt.cfg.Timeframe(), nil
}

func (rt *runtime) pollInterval(opts Options) time.Duration {
	if opts.PollEvery > 0 {
		return time.Duration(opts.PollEvery) * time.Second
	}
	return rt.cfg.PollInterval()
}
