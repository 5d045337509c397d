package state

import (
	"time"

	"github.com/five82/pricewatch/internal/market"
)

// FetchState tracks one logical fetch stream.
type FetchState int

const (
	Idle FetchState = iota
	InFlight
	Succeeded
	Failed
)

func (s FetchState) String() string {
	switch s {
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// ViewModel is the UI-facing state of the dashboard. Values handed out by the
// Store are copies; snapshots are shared but never mutated.
type ViewModel struct {
	Snapshot          *market.PriceSnapshot
	PreviousSnapshot  *market.PriceSnapshot
	Series            market.PriceSeries
	SelectedTimeframe market.Timeframe

	SnapshotLoading bool
	SeriesLoading   bool
	SnapshotState   FetchState
	SeriesState     FetchState

	// ErrorMessage is empty when the last snapshot fetch succeeded.
	ErrorMessage string
	ErrorKind    market.ErrorKind
	// SeriesError is empty when the last series fetch for the selected
	// timeframe succeeded.
	SeriesError string

	ConsecutiveFailures int
	LastUpdated         time.Time

	snapshotTask string
	seriesTask   string
}

// NewViewModel returns the initial state: no data, both streams loading.
func NewViewModel(tf market.Timeframe) ViewModel {
	if !tf.Valid() {
		tf = market.DefaultTimeframe
	}
	return ViewModel{
		SelectedTimeframe: tf,
		SnapshotLoading:   true,
		SeriesLoading:     true,
	}
}

// HasSnapshot reports whether a snapshot has ever been received.
func (vm ViewModel) HasSnapshot() bool { return vm.Snapshot != nil }

// IsStale reports whether the shown snapshot is last-known-good data while
// fetches are currently failing.
func (vm ViewModel) IsStale() bool {
	return vm.Snapshot != nil && vm.ErrorMessage != ""
}

// IsOffline returns true when the source has been unreachable for multiple polls.
func (vm ViewModel) IsOffline() bool {
	return vm.ConsecutiveFailures >= 2
}

// PriceChanged reports whether the latest snapshot moved the price.
func (vm ViewModel) PriceChanged() bool {
	return vm.PreviousSnapshot.PriceChanged(vm.Snapshot)
}

// Clone returns a copy that shares no mutable memory with vm.
func (vm ViewModel) Clone() ViewModel {
	dup := vm
	dup.Series = vm.Series.Clone()
	return dup
}
