// Package engine drives the market data sync for the dashboard.
//
// An Engine owns three cooperating parts, all writing through one
// state.Store:
//
//   - the poller refreshes the price snapshot on a fixed interval using a
//     robfig/cron scheduler, skipping ticks while a fetch is in flight;
//   - the history loader fetches the price series for the selected
//     timeframe and supersedes older loads when the selection changes;
//   - the visibility scheduler is the only caller of poller start and stop,
//     turning focus changes of the hosting surface into polling on or off.
//
// Lifecycle:
//
//	e, _ := engine.New(engine.Options{Source: client})
//	e.Start()            // initial series load, polling on
//	e.SetVisible(false)  // polling off, in-flight snapshot cancelled
//	e.SetVisible(true)   // one immediate fetch, timer re-armed
//	e.Dispose()          // teardown, waits for fetch goroutines
//
// Fetch failures never stop the engine. They surface in the view model and
// the poller retries on its normal schedule.
package engine
