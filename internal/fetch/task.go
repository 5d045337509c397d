// Package fetch implements the cancellable unit of work used by the sync
// engine: one task, one outbound call to a market.Source.
//
// A task owns its cancellation token. The token is checked before the call is
// issued, and a result that arrives after cancellation is discarded and
// reported as ErrAborted. Aborts are not failures: Go never delivers them.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/five82/pricewatch/internal/market"
)

// ErrAborted is returned by Run when the task was cancelled.
var ErrAborted = errors.New("fetch aborted")

// Stream identifies a logical fetch stream.
type Stream int

const (
	StreamSnapshot Stream = iota
	StreamSeries
)

func (s Stream) String() string {
	if s == StreamSeries {
		return "series"
	}
	return "snapshot"
}

// Request describes what a task fetches. Timeframe is only meaningful for the
// series stream.
type Request struct {
	Stream    Stream
	Timeframe market.Timeframe
}

// Payload carries the successful result of a task.
type Payload struct {
	Snapshot *market.PriceSnapshot
	Series   market.PriceSeries
}

// Result is what Go hands to its deliver callback.
type Result struct {
	TaskID  string
	Request Request
	Payload Payload
	Err     error
}

// Task is a single cancellable request/response unit.
type Task struct {
	id     string
	req    Request
	source market.Source

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	once sync.Once
}

// New prepares a task for req against source. The task's token derives from
// parent, so cancelling parent also cancels the task.
func New(parent context.Context, source market.Source, req Request) *Task {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Task{
		id:     uuid.NewString(),
		req:    req,
		source: source,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the task's unique id.
func (t *Task) ID() string { return t.id }

// Request returns what the task fetches.
func (t *Task) Request() Request { return t.req }

// Cancel aborts the task. It never blocks and is safe to call repeatedly.
func (t *Task) Cancel() { t.cancel() }

// Canceled reports whether the token has been cancelled.
func (t *Task) Canceled() bool { return t.ctx.Err() != nil }

// Done is closed once Run returns.
func (t *Task) Done() <-chan struct{} { return t.done }

// Run performs the fetch. It may only be called once; later calls return
// ErrAborted without touching the source.
func (t *Task) Run() (Payload, error) {
	ran := false
	var (
		payload Payload
		err     error
	)
	t.once.Do(func() {
		ran = true
		defer close(t.done)
		defer t.cancel()
		payload, err = t.run()
	})
	if !ran {
		return Payload{}, ErrAborted
	}
	return payload, err
}

func (t *Task) run() (Payload, error) {
	if t.Canceled() {
		return Payload{}, ErrAborted
	}
	if t.source == nil {
		return Payload{}, market.NetworkError(t.req.Stream.String(), fmt.Errorf("no price source configured"))
	}

	var (
		payload Payload
		err     error
	)
	switch t.req.Stream {
	case StreamSeries:
		payload.Series, err = t.source.FetchSeries(t.ctx, t.req.Timeframe)
	default:
		payload.Snapshot, err = t.source.FetchSnapshot(t.ctx)
		if err == nil && payload.Snapshot == nil {
			err = market.ParseError("fetch snapshot", fmt.Errorf("source returned no snapshot"))
		}
	}

	// A result that lands after cancellation is stale regardless of outcome.
	if t.Canceled() {
		return Payload{}, ErrAborted
	}
	if err != nil {
		var fe *market.FetchError
		if !errors.As(err, &fe) {
			err = market.NetworkError(t.req.Stream.String(), err)
		}
		return Payload{}, err
	}
	return payload, nil
}

// Go runs the task on a new goroutine and calls deliver with the outcome
// unless the task was aborted. wg, when non-nil, tracks the goroutine.
func (t *Task) Go(wg *sync.WaitGroup, deliver func(Result)) {
	if wg != nil {
		wg.Add(1)
	}
	go func() {
		if wg != nil {
			defer wg.Done()
		}
		payload, err := t.Run()
		if errors.Is(err, ErrAborted) {
			return
		}
		deliver(Result{TaskID: t.id, Request: t.req, Payload: payload, Err: err})
	}()
}
