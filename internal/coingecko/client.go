package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/five82/pricewatch/internal/market"
)

// Ensure Client implements market.Source at compile time.
var _ market.Source = (*Client)(nil)

const (
	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultAssetID   = "bittensor"
	defaultUserAgent = "pricewatch/0.1"
	DefaultTimeout   = 10 * time.Second
	apiKeyHeader     = "x-cg-demo-api-key"
)

// Options configure a Client.
type Options struct {
	BaseURL    string
	AssetID    string
	APIKey     string
	Mode       SnapshotMode
	Timeout    time.Duration
	Tracer     trace.Tracer
	HTTPClient *http.Client // overrides Timeout when set
}

// Client talks to the CoinGecko HTTP API for a single asset.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	assetID   string
	apiKey    string
	mode      SnapshotMode
	tracer    trace.Tracer
	now       func() time.Time
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	asset := strings.TrimSpace(opts.AssetID)
	if asset == "" {
		asset = DefaultAssetID
	}
	mode, ok := ParseSnapshotMode(string(opts.Mode))
	if !ok {
		return nil, fmt.Errorf("unsupported snapshot mode %q", opts.Mode)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("coingecko")
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		assetID:   asset,
		apiKey:    strings.TrimSpace(opts.APIKey),
		mode:      mode,
		tracer:    tracer,
		now:       time.Now,
	}, nil
}

// AssetID returns the CoinGecko id the client is bound to.
func (c *Client) AssetID() string { return c.assetID }

// FetchSnapshot reads the current price using the configured snapshot mode.
func (c *Client) FetchSnapshot(ctx context.Context) (*market.PriceSnapshot, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if c.mode == ModeSimple {
		return c.FetchSimplePrice(ctx)
	}
	return c.FetchCoin(ctx)
}

// FetchCoin reads the full market-data snapshot from /coins/{id}.
func (c *Client) FetchCoin(ctx context.Context) (*market.PriceSnapshot, error) {
	ctx, span := c.startSpan(ctx, "coingecko.fetch-coin")
	defer span.End()

	const op = "fetch coin"
	rel := c.baseURL.JoinPath("coins", c.assetID)
	rel.RawQuery = "localization=false&tickers=false&market_data=true&community_data=false&developer_data=false&sparkline=false"

	var payload CoinResponse
	if err := c.doURL(ctx, op, rel, &payload); err != nil {
		return nil, recordErr(span, err)
	}
	snap, err := c.snapshotFromCoin(payload)
	if err != nil {
		return nil, recordErr(span, market.ParseError(op, err))
	}
	return snap, nil
}

// FetchSimplePrice reads price and 24h change from /simple/price.
func (c *Client) FetchSimplePrice(ctx context.Context) (*market.PriceSnapshot, error) {
	ctx, span := c.startSpan(ctx, "coingecko.fetch-simple-price")
	defer span.End()

	const op = "fetch simple price"
	rel := c.baseURL.JoinPath("simple", "price")
	rel.RawQuery = fmt.Sprintf("ids=%s&vs_currencies=usd&include_24hr_change=true", url.QueryEscape(c.assetID))

	var payload map[string]SimplePrice
	if err := c.doURL(ctx, op, rel, &payload); err != nil {
		return nil, recordErr(span, err)
	}
	entry, ok := payload[c.assetID]
	if !ok {
		return nil, recordErr(span, market.ParseError(op, fmt.Errorf("asset %q missing from response", c.assetID)))
	}
	if !entry.USD.Valid || entry.USD.Decimal.IsNegative() {
		return nil, recordErr(span, market.ParseError(op, fmt.Errorf("usd price missing or invalid")))
	}
	return &market.PriceSnapshot{
		Price:        entry.USD.Decimal,
		Change24hPct: entry.USD24hChange,
		ObservedAt:   c.now().UTC(),
	}, nil
}

// FetchSeries reads historical prices for tf from /coins/{id}/market_chart.
func (c *Client) FetchSeries(ctx context.Context, tf market.Timeframe) (market.PriceSeries, error) {
	ctx, span := c.startSpan(ctx, "coingecko.fetch-market-chart")
	defer span.End()
	span.SetAttributes(attribute.Int("days", tf.Days()))

	const op = "fetch market chart"
	if !tf.Valid() {
		return nil, recordErr(span, fmt.Errorf("unsupported timeframe %d", int(tf)))
	}
	rel := c.baseURL.JoinPath("coins", c.assetID, "market_chart")
	rel.RawQuery = fmt.Sprintf("vs_currency=usd&days=%d", tf.Days())

	var payload MarketChartResponse
	if err := c.doURL(ctx, op, rel, &payload); err != nil {
		return nil, recordErr(span, err)
	}
	if payload.Prices == nil {
		return nil, recordErr(span, market.ParseError(op, fmt.Errorf("prices missing from response")))
	}
	series := market.NewPriceSeries(*payload.Prices)
	span.SetAttributes(attribute.Int("points", len(series)))
	return series, nil
}

func (c *Client) snapshotFromCoin(payload CoinResponse) (*market.PriceSnapshot, error) {
	md := payload.MarketData
	if md == nil {
		return nil, fmt.Errorf("market_data missing from response")
	}
	price := md.CurrentPrice.usd()
	if !price.Valid || price.Decimal.IsNegative() {
		return nil, fmt.Errorf("market_data.current_price.usd missing or invalid")
	}
	snap := &market.PriceSnapshot{
		Price:        price.Decimal,
		High24h:      md.High24h.usd(),
		Low24h:       md.Low24h.usd(),
		Change24hPct: md.PriceChangePercentage24h,
		AllTimeHigh:  md.ATH.usd(),
		ObservedAt:   c.now().UTC(),
	}
	if raw := strings.TrimSpace(md.ATHDate["usd"]); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			ts = ts.UTC()
			snap.AllTimeHighDate = &ts
		}
	}
	return snap, nil
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	ctx, span := c.tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("asset", c.assetID))
	return ctx, span
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (c *Client) doURL(ctx context.Context, op string, reqURL *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return market.NetworkError(op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return market.NetworkError(op, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return market.NetworkError(op, fmt.Errorf("api %s rate limited (status %d)", reqURL.Path, resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return market.NetworkError(op, fmt.Errorf("api %s returned status %d", reqURL.Path, resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return market.NetworkError(op, fmt.Errorf("read response: %w", err))
		}
		return market.ParseError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
