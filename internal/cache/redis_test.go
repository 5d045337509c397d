package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/five82/pricewatch/internal/market"
)

type fakeRedis struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

type countingSource struct {
	snapshots int
	series    int
	err       error
}

func (c *countingSource) FetchSnapshot(context.Context) (*market.PriceSnapshot, error) {
	c.snapshots++
	if c.err != nil {
		return nil, c.err
	}
	return &market.PriceSnapshot{
		Price:   decimal.RequireFromString("310.5"),
		High24h: decimal.NewNullDecimal(decimal.RequireFromString("320")),
	}, nil
}

func (c *countingSource) FetchSeries(_ context.Context, tf market.Timeframe) (market.PriceSeries, error) {
	c.series++
	if c.err != nil {
		return nil, c.err
	}
	return market.PriceSeries{
		{Timestamp: 1, Price: decimal.NewFromInt(int64(tf.Days()))},
		{Timestamp: 2, Price: decimal.RequireFromString("1.25")},
	}, nil
}

func TestSource_SnapshotCachedUntilExpiry(t *testing.T) {
	rdb := newFakeRedis()
	inner := &countingSource{}
	s := New(inner, rdb, Options{AssetID: "bittensor", SnapshotTTL: 20 * time.Second})

	first, err := s.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	second, err := s.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}

	if inner.snapshots != 1 {
		t.Fatalf("inner called %d times, want 1", inner.snapshots)
	}
	if !second.Price.Equal(first.Price) || !second.High24h.Valid || second.Low24h.Valid {
		t.Fatalf("cached snapshot = %+v", second)
	}
	if ttl := rdb.ttls["pricewatch:bittensor:snapshot"]; ttl != 20*time.Second {
		t.Fatalf("ttl = %v, want 20s", ttl)
	}
}

func TestSource_SeriesKeyedByTimeframe(t *testing.T) {
	rdb := newFakeRedis()
	inner := &countingSource{}
	s := New(inner, rdb, Options{AssetID: "bittensor"})
	ctx := context.Background()

	for _, tf := range []market.Timeframe{market.Timeframe7D, market.Timeframe30D, market.Timeframe7D} {
		if _, err := s.FetchSeries(ctx, tf); err != nil {
			t.Fatalf("FetchSeries(%v): %v", tf, err)
		}
	}
	if inner.series != 2 {
		t.Fatalf("inner called %d times, want 2", inner.series)
	}

	got, _ := s.FetchSeries(ctx, market.Timeframe30D)
	if len(got) != 2 || got[0].Price.IntPart() != 30 || got[1].Price.String() != "1.25" {
		t.Fatalf("cached series = %v", got)
	}
	if ttl := rdb.ttls["pricewatch:bittensor:series:30"]; ttl != DefaultSeriesTTL {
		t.Fatalf("ttl = %v, want default", ttl)
	}
}

func TestSource_RedisFailuresFallThrough(t *testing.T) {
	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection reset")
	rdb.setErr = errors.New("connection reset")
	inner := &countingSource{}
	s := New(inner, rdb, Options{})

	for i := 0; i < 2; i++ {
		if _, err := s.FetchSnapshot(context.Background()); err != nil {
			t.Fatalf("FetchSnapshot with broken redis: %v", err)
		}
	}
	if inner.snapshots != 2 {
		t.Fatalf("inner called %d times, want 2", inner.snapshots)
	}
}

func TestSource_CorruptEntryIsRefetched(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data["pricewatch:default:snapshot"] = []byte("{not json")
	inner := &countingSource{}
	s := New(inner, rdb, Options{})

	if _, err := s.FetchSnapshot(context.Background()); err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if inner.snapshots != 1 {
		t.Fatalf("corrupt entry served from cache")
	}
}

func TestSource_ErrorsAreNotCached(t *testing.T) {
	rdb := newFakeRedis()
	inner := &countingSource{err: market.NetworkError("fetch coin", errors.New("timeout"))}
	s := New(inner, rdb, Options{})

	if _, err := s.FetchSnapshot(context.Background()); market.KindOf(err) != market.KindNetwork {
		t.Fatalf("err = %v, want network error", err)
	}
	if len(rdb.data) != 0 {
		t.Fatalf("failed fetch was cached: %v", rdb.data)
	}
}

func TestDial(t *testing.T) {
	origNew, origPing := newRedisClient, pingRedis
	t.Cleanup(func() {
		newRedisClient = origNew
		pingRedis = origPing
	})

	var captured *redis.Options
	newRedisClient = func(opts *redis.Options) *redis.Client {
		captured = opts
		return redis.NewClient(opts)
	}
	pingErr := error(nil)
	pingRedis = func(context.Context, *redis.Client) error { return pingErr }

	tests := []struct {
		name     string
		addr     string
		wantAddr string
		wantDB   int
		wantErr  bool
	}{
		{name: "host port", addr: "cache:6380", wantAddr: "cache:6380"},
		{name: "url with db", addr: "redis://cache:6379/2", wantAddr: "cache:6379", wantDB: 2},
		{name: "empty", addr: "  ", wantErr: true},
		{name: "bad url", addr: "redis://cache:6379/notadb", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			captured = nil
			client, err := Dial(context.Background(), tc.addr)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Dial: %v", err)
			}
			defer client.Close()
			if captured.Addr != tc.wantAddr || captured.DB != tc.wantDB {
				t.Fatalf("options addr=%s db=%d", captured.Addr, captured.DB)
			}
		})
	}

	pingErr = errors.New("refused")
	if _, err := Dial(context.Background(), "cache:6379"); err == nil {
		t.Fatalf("expected ping failure to surface")
	}
}
