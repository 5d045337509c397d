package ui

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/five82/pricewatch/internal/market"
	"github.com/five82/pricewatch/internal/state"
)

func TestClassifyFetchError(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"", ""},
		{"network error: snapshot: execute request: dial tcp 127.0.0.1:1: connect: connection refused", "CONNECTION REFUSED"},
		{"network error: snapshot: execute request: dial tcp: lookup api.invalid: no such host", "HOST NOT FOUND"},
		{"network error: snapshot: api /api/v3/coins/bittensor rate limited (status 429)", "RATE LIMITED"},
		{"network error: series: execute request: context deadline exceeded (Client.Timeout exceeded while awaiting headers)", "TIMEOUT"},
		{"parse error: snapshot: decode response: unexpected EOF", "BAD RESPONSE"},
		{"network error: snapshot: api /api/v3/coins/bittensor returned status 503", "UPSTREAM UNAVAILABLE"},
		{"network error: snapshot: boom", "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyFetchError(tt.msg); got != tt.want {
			t.Fatalf("classifyFetchError(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestBannerText(t *testing.T) {
	vm := state.NewViewModel(market.DefaultTimeframe)
	if got := bannerText(vm); got != "" {
		t.Fatalf("bannerText without error = %q, want empty", got)
	}

	vm.ErrorMessage = "network error: snapshot: boom"
	got := bannerText(vm)
	if !strings.HasPrefix(got, fetchFailedHeadline) || !strings.Contains(got, "boom") {
		t.Fatalf("bannerText = %q, want headline with detail", got)
	}
	if strings.Contains(got, "last known") {
		t.Fatalf("bannerText without snapshot mentions last known price: %q", got)
	}

	vm.Snapshot = &market.PriceSnapshot{Price: decimal.NewFromInt(300)}
	if got := bannerText(vm); !strings.Contains(got, "last known price") {
		t.Fatalf("bannerText with snapshot = %q, want last known price note", got)
	}
}

func TestStatusOf(t *testing.T) {
	snap := &market.PriceSnapshot{Price: decimal.NewFromInt(300)}
	tests := []struct {
		name    string
		vm      state.ViewModel
		visible bool
		want    feedStatus
	}{
		{"connecting", state.ViewModel{}, true, feedConnecting},
		{"live", state.ViewModel{Snapshot: snap}, true, feedLive},
		{"paused", state.ViewModel{Snapshot: snap}, false, feedPaused},
		{"stale", state.ViewModel{Snapshot: snap, ErrorMessage: "x", ConsecutiveFailures: 1}, true, feedStale},
		{"offline beats paused", state.ViewModel{Snapshot: snap, ErrorMessage: "x", ConsecutiveFailures: 2}, false, feedOffline},
	}
	for _, tt := range tests {
		if got := statusOf(tt.vm, tt.visible); got != tt.want {
			t.Fatalf("%s: statusOf = %v, want %v", tt.name, got, tt.want)
		}
	}
}
