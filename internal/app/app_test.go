package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/five82/pricewatch/internal/cache"
	"github.com/five82/pricewatch/internal/coingecko"
	"github.com/five82/pricewatch/internal/config"
	"github.com/five82/pricewatch/internal/market"
	"github.com/five82/pricewatch/internal/prefs"
)

const coinBody = `{
  "id": "bittensor",
  "market_data": {
    "current_price": {"usd": 310.5},
    "high_24h": {"usd": 320},
    "low_24h": {"usd": 295},
    "price_change_percentage_24h": 2.1,
    "ath": {"usd": 757.6},
    "ath_date": {"usd": "2024-03-07T18:45:36.466Z"}
  }
}`

const chartBody = `{"prices": [[1700000000000, 300.1], [1700003600000, 305.2], [1700007200000, 310.5]]}`

func fakeAPI(t *testing.T, fail bool) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		switch r.URL.Path {
		case "/api/v3/coins/bittensor":
			_, _ = w.Write([]byte(coinBody))
		case "/api/v3/coins/bittensor/market_chart":
			_, _ = w.Write([]byte(chartBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeConfig(t *testing.T, baseURL string) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	logFile := filepath.Join(dir, "pricewatch.log")
	body := fmt.Sprintf("api_base_url = %q\npoll_interval_ms = 60000\n\n[log]\nfile = %q\nlevel = \"debug\"\n", baseURL+"/api/v3", logFile)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return Options{ConfigPath: path, PrefsPath: filepath.Join(dir, "prefs.toml")}, logFile
}

func TestRunOnceWritesReport(t *testing.T) {
	server := fakeAPI(t, false)
	opts, logFile := writeConfig(t, server.URL)

	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := RunOnce(ctx, opts, &out); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	report := out.String()
	for _, want := range []string{"asset: bittensor", "symbol: TAO", "timeframe: 7d", "310.5", "points: 3", "757.6"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "error:") {
		t.Fatalf("report has an error:\n%s", report)
	}

	logged, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logged), "headless run finished") {
		t.Fatalf("log file missing completion entry:\n%s", logged)
	}
}

func TestRunOnceReportsFailure(t *testing.T) {
	server := fakeAPI(t, true)
	opts, _ := writeConfig(t, server.URL)

	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := RunOnce(ctx, opts, &out)
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("RunOnce error = %v, want ErrNoSnapshot", err)
	}
	if !strings.Contains(out.String(), "503") {
		t.Fatalf("report missing failure detail:\n%s", out.String())
	}
}

func TestRunOnceRejectsBadTimeframe(t *testing.T) {
	server := fakeAPI(t, false)
	opts, _ := writeConfig(t, server.URL)
	opts.Timeframe = "2w"

	if err := RunOnce(context.Background(), opts, &bytes.Buffer{}); err == nil {
		t.Fatal("RunOnce accepted an invalid timeframe")
	}
}

func TestTimeframePrecedence(t *testing.T) {
	cfg := config.Config{DefaultTimeframe: "30d"}
	tests := []struct {
		name  string
		flag  string
		prefs prefs.Prefs
		want  market.Timeframe
	}{
		{"config", "", prefs.Defaults(), market.Timeframe30D},
		{"prefs over config", "", prefs.Prefs{Timeframe: "1yr"}, market.Timeframe365D},
		{"flag over prefs", "6mo", prefs.Prefs{Timeframe: "1yr"}, market.Timeframe180D},
	}
	for _, tt := range tests {
		rt := &runtime{cfg: cfg, prefs: tt.prefs}
		got, err := rt.timeframe(Options{Timeframe: tt.flag})
		if err != nil {
			t.Fatalf("%s: timeframe returned error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: timeframe = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPollIntervalFlagOverridesConfig(t *testing.T) {
	rt := &runtime{cfg: config.Config{PollIntervalMs: 30000}}
	if got := rt.pollInterval(Options{}); got != 30*time.Second {
		t.Fatalf("pollInterval = %v, want 30s", got)
	}
	if got := rt.pollInterval(Options{PollEvery: 5}); got != 5*time.Second {
		t.Fatalf("pollInterval = %v, want 5s", got)
	}
}

type nopRedis struct{}

func (nopRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return redis.NewStatusResult("OK", nil)
}

func (nopRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func TestBuildSourceWrapsCacheWhenConfigured(t *testing.T) {
	orig := dialRedis
	t.Cleanup(func() { dialRedis = orig })

	cfg := config.Config{
		AssetID:      "bittensor",
		APIBaseURL:   coingecko.DefaultBaseURL,
		SnapshotMode: "full",
	}

	src, closeFn, err := buildSource(context.Background(), cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("buildSource returned error: %v", err)
	}
	closeFn()
	if _, ok := src.(*coingecko.Client); !ok {
		t.Fatalf("source without redis = %T, want *coingecko.Client", src)
	}

	closed := false
	dialRedis = func(ctx context.Context, addr string) (cache.RedisClient, func(), error) {
		if addr != "redis://localhost:6379/0" {
			t.Fatalf("dial addr = %q", addr)
		}
		return nopRedis{}, func() { closed = true }, nil
	}
	cfg.Cache.RedisURL = "redis://localhost:6379/0"
	src, closeFn, err = buildSource(context.Background(), cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("buildSource returned error: %v", err)
	}
	if _, ok := src.(*cache.Source); !ok {
		t.Fatalf("source with redis = %T, want *cache.Source", src)
	}
	closeFn()
	if !closed {
		t.Fatal("redis client not closed")
	}

	dialRedis = func(ctx context.Context, addr string) (cache.RedisClient, func(), error) {
		return nil, nil, errors.New("connection refused")
	}
	src, closeFn, err = buildSource(context.Background(), cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("buildSource with unreachable redis returned error: %v", err)
	}
	closeFn()
	if _, ok := src.(*coingecko.Client); !ok {
		t.Fatalf("source with unreachable redis = %T, want *coingecko.Client", src)
	}
}
