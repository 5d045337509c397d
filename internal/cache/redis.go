// Package cache puts an optional Redis response cache in front of a
// market.Source so several dashboards can share one upstream quota.
//
// Cache failures never fail a fetch: read errors fall through to the wrapped
// source and write errors are only logged.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/five82/pricewatch/internal/market"
)

const (
	DefaultSnapshotTTL = 15 * time.Second
	DefaultSeriesTTL   = 5 * time.Minute

	keyPrefix = "pricewatch"
)

// RedisClient is the subset of *redis.Client the cache uses.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
)

// Dial connects to Redis at addr, which is either host:port or a redis:// or
// rediss:// URL, and verifies the connection.
func Dial(ctx context.Context, addr string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// Options configure a Source.
type Options struct {
	AssetID     string
	SnapshotTTL time.Duration
	SeriesTTL   time.Duration
	Logger      *zap.Logger
}

// Source serves snapshots and series from Redis when fresh and from the
// wrapped source otherwise.
type Source struct {
	inner       market.Source
	redis       RedisClient
	assetID     string
	snapshotTTL time.Duration
	seriesTTL   time.Duration
	log         *zap.Logger
}

var _ market.Source = (*Source)(nil)

// New wraps inner with a cache backed by rdb.
func New(inner market.Source, rdb RedisClient, opts Options) *Source {
	s := &Source{
		inner:       inner,
		redis:       rdb,
		assetID:     opts.AssetID,
		snapshotTTL: opts.SnapshotTTL,
		seriesTTL:   opts.SeriesTTL,
		log:         opts.Logger,
	}
	if s.assetID == "" {
		s.assetID = "default"
	}
	if s.snapshotTTL <= 0 {
		s.snapshotTTL = DefaultSnapshotTTL
	}
	if s.seriesTTL <= 0 {
		s.seriesTTL = DefaultSeriesTTL
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.With(zap.String("component", "cache"))
	return s
}

func (s *Source) FetchSnapshot(ctx context.Context) (*market.PriceSnapshot, error) {
	key := s.snapshotKey()
	var cached market.PriceSnapshot
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}

	snap, err := s.inner.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		s.set(ctx, key, snap, s.snapshotTTL)
	}
	return snap, nil
}

func (s *Source) FetchSeries(ctx context.Context, tf market.Timeframe) (market.PriceSeries, error) {
	key := s.seriesKey(tf)
	var cached market.PriceSeries
	if s.get(ctx, key, &cached) {
		return cached, nil
	}

	series, err := s.inner.FetchSeries(ctx, tf)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, series, s.seriesTTL)
	return series, nil
}

func (s *Source) snapshotKey() string {
	return fmt.Sprintf("%s:%s:snapshot", keyPrefix, s.assetID)
}

func (s *Source) seriesKey(tf market.Timeframe) string {
	return fmt.Sprintf("%s:%s:series:%d", keyPrefix, s.assetID, tf.Days())
}

// get decodes the value at key into dst and reports whether it was a usable hit.
func (s *Source) get(ctx context.Context, key string, dst any) bool {
	data, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Source) set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil && ctx.Err() == nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
