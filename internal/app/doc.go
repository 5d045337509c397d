// Package app is the composition root for pricewatch.
//
// # Overview
//
// Run and RunOnce load configuration, then wire logging, tracing, the price
// source and the sync engine. Run hands the engine to the terminal dashboard
// and blocks until the user quits. RunOnce waits for the first snapshot and
// series, prints them as YAML and returns.
//
// # Data Flow
//
//	┌──────────────┐
//	│  bootstrap() │
//	└──────┬───────┘
//	       ├─────> config.Load()        config.toml + PRICEWATCH_* env
//	       ├─────> prefs.Load()         theme and last timeframe
//	       ├─────> logging.New()        zap, rotated file
//	       ├─────> tracing.Init()       OTLP when enabled
//	       ├─────> buildSource()        CoinGecko, optionally behind Redis
//	       └─────> engine.New()
//
//	Run:     engine.Start() ──> ui.Run() (blocks) ──> engine.Dispose()
//	RunOnce: engine.Start() ──> wait until settled ──> YAML ──> engine.Dispose()
//
// # Error Handling
//
// Fatal errors (returned):
//   - Invalid configuration or timeframe flag
//   - Unusable log path or tracing exporter
//   - RunOnce: no snapshot could be fetched (ErrNoSnapshot)
//
// Recoverable errors (logged, the dashboard keeps running):
//   - Redis unreachable at startup; the source runs uncached
//   - Individual fetch failures, which surface in the view model
//
// The initial timeframe comes from the -timeframe flag, then the stored
// preference, then default_timeframe in the config.
package app
