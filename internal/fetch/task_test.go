package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/five82/pricewatch/internal/market"
)

type blockingSource struct {
	calls   atomic.Int32
	release chan struct{}
	snap    *market.PriceSnapshot
	err     error
}

func (s *blockingSource) FetchSnapshot(ctx context.Context) (*market.PriceSnapshot, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	return s.snap, s.err
}

func (s *blockingSource) FetchSeries(ctx context.Context, tf market.Timeframe) (market.PriceSeries, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return market.PriceSeries{{Timestamp: int64(tf), Price: decimal.NewFromInt(1)}}, nil
}

func TestTask_RunSuccess(t *testing.T) {
	src := &blockingSource{snap: &market.PriceSnapshot{Price: decimal.NewFromInt(300)}}
	task := New(context.Background(), src, Request{Stream: StreamSnapshot})

	payload, err := task.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if payload.Snapshot == nil || !payload.Snapshot.Price.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("payload = %+v, want price 300", payload)
	}
	if src.calls.Load() != 1 {
		t.Fatalf("source calls = %d, want 1", src.calls.Load())
	}
	select {
	case <-task.Done():
	default:
		t.Fatal("Done not closed after Run")
	}
	if task.ID() == "" {
		t.Fatal("task id is empty")
	}
}

func TestTask_CancelledBeforeIssueSkipsCall(t *testing.T) {
	src := &blockingSource{}
	task := New(context.Background(), src, Request{Stream: StreamSeries, Timeframe: market.Timeframe7D})
	task.Cancel()

	_, err := task.Run()
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("Run error = %v, want ErrAborted", err)
	}
	if src.calls.Load() != 0 {
		t.Fatalf("source called %d times after cancel, want 0", src.calls.Load())
	}
}

func TestTask_CancelInFlightDiscardsResult(t *testing.T) {
	src := &blockingSource{release: make(chan struct{}), snap: &market.PriceSnapshot{}}
	task := New(context.Background(), src, Request{Stream: StreamSnapshot})

	delivered := make(chan Result, 1)
	var wg sync.WaitGroup
	task.Go(&wg, func(r Result) { delivered <- r })

	deadline := time.Now().Add(time.Second)
	for src.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	task.Cancel()
	close(src.release)
	wg.Wait()

	select {
	case r := <-delivered:
		t.Fatalf("cancelled task delivered %+v", r)
	default:
	}
}

func TestTask_ErrorsAreClassified(t *testing.T) {
	src := &blockingSource{err: errors.New("dial tcp: connection refused")}
	task := New(context.Background(), src, Request{Stream: StreamSnapshot})

	_, err := task.Run()
	if market.KindOf(err) != market.KindNetwork {
		t.Fatalf("kind = %v, want network", market.KindOf(err))
	}

	src = &blockingSource{err: market.ParseError("decode", errors.New("bad"))}
	task = New(context.Background(), src, Request{Stream: StreamSeries, Timeframe: market.Timeframe1D})
	_, err = task.Run()
	if market.KindOf(err) != market.KindParse {
		t.Fatalf("kind = %v, want parse", market.KindOf(err))
	}
}

func TestTask_NilSnapshotIsParseError(t *testing.T) {
	task := New(context.Background(), &blockingSource{}, Request{Stream: StreamSnapshot})
	if _, err := task.Run(); market.KindOf(err) != market.KindParse {
		t.Fatalf("Run error = %v, want parse error", err)
	}
}

func TestTask_RunTwiceAborts(t *testing.T) {
	src := &blockingSource{snap: &market.PriceSnapshot{}}
	task := New(context.Background(), src, Request{Stream: StreamSnapshot})
	if _, err := task.Run(); err != nil {
		t.Fatalf("first Run error = %v", err)
	}
	if _, err := task.Run(); !errors.Is(err, ErrAborted) {
		t.Fatalf("second Run error = %v, want ErrAborted", err)
	}
	if src.calls.Load() != 1 {
		t.Fatalf("source calls = %d, want 1", src.calls.Load())
	}
}

func TestTask_ParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	task := New(parent, &blockingSource{}, Request{})
	cancel()
	if !task.Canceled() {
		t.Fatal("task not cancelled with parent")
	}
}
