package state

import (
	"github.com/five82/pricewatch/internal/market"
)

// Event is an input to Reduce.
type Event interface {
	event()
}

// SnapshotStarted marks a new snapshot fetch as the active one.
type SnapshotStarted struct {
	Task string
}

// SnapshotSucceeded carries a fresh snapshot.
type SnapshotSucceeded struct {
	Task     string
	Snapshot *market.PriceSnapshot
}

// SnapshotFailed reports a failed snapshot fetch.
type SnapshotFailed struct {
	Task   string
	Kind   market.ErrorKind
	Reason string
}

// SnapshotCanceled clears the active snapshot fetch without a result.
type SnapshotCanceled struct {
	Task string
}

// SeriesStarted selects Timeframe and marks a new series fetch as active.
type SeriesStarted struct {
	Task      string
	Timeframe market.Timeframe
}

// SeriesSucceeded carries the series for Timeframe.
type SeriesSucceeded struct {
	Task      string
	Timeframe market.Timeframe
	Series    market.PriceSeries
}

// SeriesFailed reports a failed series fetch for Timeframe.
type SeriesFailed struct {
	Task      string
	Timeframe market.Timeframe
	Reason    string
}

// SeriesCanceled clears the active series fetch without a result.
type SeriesCanceled struct {
	Task string
}

func (SnapshotStarted) event()   {}
func (SnapshotSucceeded) event() {}
func (SnapshotFailed) event()    {}
func (SnapshotCanceled) event()  {}
func (SeriesStarted) event()     {}
func (SeriesSucceeded) event()   {}
func (SeriesFailed) event()      {}
func (SeriesCanceled) event()    {}
