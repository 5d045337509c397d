package state

import "time"

// now is replaced in tests.
var now = time.Now

// Reduce merges ev into vm and returns the new view model. It never mutates
// the snapshot or series values it is given.
//
// Completions carry the id of the task that produced them. A completion whose
// task is no longer the active one for its stream is superseded and ignored,
// as is a series completion for a timeframe that is no longer selected.
func Reduce(vm ViewModel, ev Event) ViewModel {
	switch e := ev.(type) {
	case SnapshotStarted:
		vm.snapshotTask = e.Task
		vm.SnapshotLoading = true
		vm.SnapshotState = InFlight

	case SnapshotSucceeded:
		if e.Task != vm.snapshotTask || e.Snapshot == nil {
			return vm
		}
		vm.PreviousSnapshot = vm.Snapshot
		vm.Snapshot = e.Snapshot
		vm.ErrorMessage = ""
		vm.ErrorKind = 0
		vm.ConsecutiveFailures = 0
		vm.finishSnapshot(Succeeded)

	case SnapshotFailed:
		if e.Task != vm.snapshotTask {
			return vm
		}
		// Last-known-good snapshot stays in place.
		vm.ErrorMessage = e.Reason
		vm.ErrorKind = e.Kind
		vm.ConsecutiveFailures++
		vm.finishSnapshot(Failed)

	case SnapshotCanceled:
		if e.Task != vm.snapshotTask {
			return vm
		}
		vm.snapshotTask = ""
		vm.SnapshotLoading = false
		if vm.SnapshotState == InFlight {
			vm.SnapshotState = Idle
		}

	case SeriesStarted:
		if e.Timeframe != vm.SelectedTimeframe {
			vm.SeriesError = ""
		}
		vm.SelectedTimeframe = e.Timeframe
		vm.seriesTask = e.Task
		vm.SeriesLoading = true
		vm.SeriesState = InFlight

	case SeriesSucceeded:
		if e.Timeframe != vm.SelectedTimeframe || e.Task != vm.seriesTask {
			return vm
		}
		vm.Series = e.Series.Clone()
		vm.SeriesError = ""
		vm.finishSeries(Succeeded)

	case SeriesFailed:
		if e.Timeframe != vm.SelectedTimeframe || e.Task != vm.seriesTask {
			return vm
		}
		vm.SeriesError = e.Reason
		vm.finishSeries(Failed)

	case SeriesCanceled:
		if e.Task != vm.seriesTask {
			return vm
		}
		vm.seriesTask = ""
		vm.SeriesLoading = false
		if vm.SeriesState == InFlight {
			vm.SeriesState = Idle
		}
	}
	return vm
}

func (vm *ViewModel) finishSnapshot(result FetchState) {
	vm.snapshotTask = ""
	vm.SnapshotLoading = false
	vm.SnapshotState = result
	vm.LastUpdated = now()
}

func (vm *ViewModel) finishSeries(result FetchState) {
	vm.seriesTask = ""
	vm.SeriesLoading = false
	vm.SeriesState = result
	vm.LastUpdated = now()
}
