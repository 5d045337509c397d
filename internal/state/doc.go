// Package state reconciles fetch results into the dashboard's view model.
//
// # Overview
//
// Snapshot polls and history loads run concurrently and can complete in any
// order. This package is the single place where their results meet: every
// completion becomes an Event, and Reduce folds events into a ViewModel one
// at a time.
//
//	Poller / HistoryLoader           UI
//	┌──────────────────┐            ┌──────────────────┐
//	│ fetch.Task done  │            │                  │
//	│       ↓          │            │                  │
//	│ store.Dispatch() │───────────→│ <-Subscribe()    │
//	│       ↓          │  (mutex)   │       ↓          │
//	│  Reduce(vm, ev)  │            │  render view     │
//	└──────────────────┘            └──────────────────┘
//
// # Supersession
//
// Each stream (snapshot, series) has at most one active task. A Started event
// records its id; a completion is applied only when it carries that id, and a
// series completion additionally only when its timeframe is still selected.
// Because the check and the apply happen under the same lock, a stale result
// can never overwrite newer state.
//
// # Failure Handling
//
// A failed snapshot fetch keeps the last-known-good snapshot and sets
// ErrorMessage. The next success clears it. ConsecutiveFailures counts
// failures since the last success; IsOffline trips at two.
//
// A failed series fetch sets SeriesError and leaves the previous series in
// place. Switching timeframes clears SeriesError.
//
// # Subscriptions
//
// Subscribe hands out buffered channels with latest-wins semantics. A slow
// reader sees the newest view model and skips intermediate ones, so the
// store never blocks on a consumer.
package state
