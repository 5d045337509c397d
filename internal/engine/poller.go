package engine

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/five82/pricewatch/internal/fetch"
	"github.com/five82/pricewatch/internal/market"
	"github.com/five82/pricewatch/internal/state"
)

// PollerState is the poller's lifecycle state.
type PollerState int

const (
	PollerStopped PollerState = iota
	PollerRunning
)

func (s PollerState) String() string {
	if s == PollerRunning {
		return "running"
	}
	return "stopped"
}

// PollerStats counts poller activity since the engine was created.
type PollerStats struct {
	Starts  int
	Stops   int
	Ticks   int
	Skipped int // ticks dropped because a fetch was still in flight
	Issued  int
}

// poller refreshes the price snapshot on a fixed interval while running.
// Only the visibility scheduler calls start and stop.
type poller struct {
	ctx      context.Context
	source   market.Source
	store    *state.Store
	wg       *sync.WaitGroup
	log      *zap.Logger
	interval time.Duration

	mu       sync.Mutex
	state    PollerState
	gen      int
	cron     *cron.Cron
	inflight *fetch.Task
	stats    PollerStats
}

// start issues one snapshot fetch immediately and arms the repeating timer.
// Starting a running poller does nothing.
func (p *poller) start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == PollerRunning {
		return
	}
	p.state = PollerRunning
	p.gen++
	p.stats.Starts++

	p.issueLocked()

	gen := p.gen
	cl := newCronLogger(p.log)
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl)))
	c.Schedule(every(p.interval), cron.FuncJob(func() { p.tick(gen) }))
	c.Start()
	p.cron = c

	p.log.Debug("poller started", zap.Duration("interval", p.interval))
}

// stop disarms the timer and cancels any in-flight snapshot fetch. Stopping
// a stopped poller does nothing.
func (p *poller) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == PollerStopped {
		return
	}
	p.state = PollerStopped
	p.gen++
	p.stats.Stops++

	if p.cron != nil {
		p.cron.Stop()
		p.cron = nil
	}
	if t := p.inflight; t != nil {
		p.inflight = nil
		t.Cancel()
		p.store.Dispatch(state.SnapshotCanceled{Task: t.ID()})
		p.log.Debug("snapshot fetch cancelled", zap.String("task", t.ID()))
	}
	p.log.Debug("poller stopped")
}

// tick runs on the cron goroutine. Jobs from a timer that has since been
// stopped carry an old generation and are ignored.
func (p *poller) tick(gen int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != PollerRunning || gen != p.gen {
		return
	}
	p.stats.Ticks++
	if p.inflight != nil {
		p.stats.Skipped++
		p.log.Debug("poll skipped, fetch still in flight", zap.String("task", p.inflight.ID()))
		return
	}
	p.issueLocked()
}

func (p *poller) issueLocked() {
	task := fetch.New(p.ctx, p.source, fetch.Request{Stream: fetch.StreamSnapshot})
	p.inflight = task
	p.stats.Issued++
	p.store.Dispatch(state.SnapshotStarted{Task: task.ID()})
	task.Go(p.wg, p.deliver)
}

func (p *poller) deliver(res fetch.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inflight != nil && p.inflight.ID() == res.TaskID {
		p.inflight = nil
	}
	if res.Err != nil {
		p.log.Warn("snapshot fetch failed",
			zap.String("task", res.TaskID),
			zap.Stringer("kind", market.KindOf(res.Err)),
			zap.Error(res.Err))
		p.store.Dispatch(state.SnapshotFailed{
			Task:   res.TaskID,
			Kind:   market.KindOf(res.Err),
			Reason: res.Err.Error(),
		})
		return
	}
	p.log.Debug("snapshot fetched",
		zap.String("task", res.TaskID),
		zap.Stringer("price", res.Payload.Snapshot.Price))
	p.store.Dispatch(state.SnapshotSucceeded{Task: res.TaskID, Snapshot: res.Payload.Snapshot})
}

func (p *poller) current() (PollerState, PollerStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.stats
}
