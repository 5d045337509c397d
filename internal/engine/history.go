package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/pricewatch/internal/fetch"
	"github.com/five82/pricewatch/internal/market"
	"github.com/five82/pricewatch/internal/state"
)

// historyLoader owns the series stream: at most one series fetch is active,
// and selecting another timeframe supersedes it.
type historyLoader struct {
	ctx    context.Context
	source market.Source
	store  *state.Store
	wg     *sync.WaitGroup
	log    *zap.Logger

	mu       sync.Mutex
	selected market.Timeframe
	inflight *fetch.Task
	disposed bool
}

// selectTimeframe loads tf unless it is already selected. It reports whether
// a fetch was issued.
func (h *historyLoader) selectTimeframe(tf market.Timeframe) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.disposed || tf == h.selected {
		return false
	}
	h.loadLocked(tf)
	return true
}

// reload refetches the selected timeframe, superseding any in-flight fetch.
func (h *historyLoader) reload() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.disposed {
		return false
	}
	h.loadLocked(h.selected)
	return true
}

func (h *historyLoader) loadLocked(tf market.Timeframe) {
	if prev := h.inflight; prev != nil {
		prev.Cancel()
		h.log.Debug("series fetch superseded",
			zap.String("task", prev.ID()),
			zap.Stringer("timeframe", prev.Request().Timeframe))
	}
	h.selected = tf

	task := fetch.New(h.ctx, h.source, fetch.Request{Stream: fetch.StreamSeries, Timeframe: tf})
	h.inflight = task
	h.store.Dispatch(state.SeriesStarted{Task: task.ID(), Timeframe: tf})
	task.Go(h.wg, h.deliver)
}

func (h *historyLoader) deliver(res fetch.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.inflight != nil && h.inflight.ID() == res.TaskID {
		h.inflight = nil
	}
	tf := res.Request.Timeframe
	if res.Err != nil {
		h.log.Warn("series fetch failed",
			zap.String("task", res.TaskID),
			zap.Stringer("timeframe", tf),
			zap.Error(res.Err))
		h.store.Dispatch(state.SeriesFailed{Task: res.TaskID, Timeframe: tf, Reason: res.Err.Error()})
		return
	}
	h.log.Debug("series fetched",
		zap.String("task", res.TaskID),
		zap.Stringer("timeframe", tf),
		zap.Int("points", len(res.Payload.Series)))
	h.store.Dispatch(state.SeriesSucceeded{Task: res.TaskID, Timeframe: tf, Series: res.Payload.Series})
}

// dispose cancels the in-flight fetch and refuses further loads.
func (h *historyLoader) dispose() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.disposed = true
	if t := h.inflight; t != nil {
		h.inflight = nil
		t.Cancel()
		h.store.Dispatch(state.SeriesCanceled{Task: t.ID()})
	}
}
