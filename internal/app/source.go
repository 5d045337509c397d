package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/five82/pricewatch/internal/cache"
	"github.com/five82/pricewatch/internal/coingecko"
	"github.com/five82/pricewatch/internal/config"
	"github.com/five82/pricewatch/internal/market"
)

// dialRedis is replaced in tests.
var dialRedis = func(ctx context.Context, addr string) (cache.RedisClient, func(), error) {
	client, err := cache.Dial(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// buildSource creates the CoinGecko client and, when a Redis URL is
// configured, wraps it with the response cache. An unreachable Redis is
// logged and the dashboard runs uncached.
func buildSource(ctx context.Context, cfg config.Config, tracer trace.Tracer, log *zap.Logger) (market.Source, func(), error) {
	client, err := coingecko.NewClient(coingecko.Options{
		BaseURL: cfg.APIBaseURL,
		AssetID: cfg.AssetID,
		APIKey:  cfg.APIKey,
		Mode:    cfg.Mode(),
		Timeout: cfg.RequestTimeout,
		Tracer:  tracer,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init price client: %w", err)
	}

	noop := func() {}
	if cfg.Cache.RedisURL == "" {
		return client, noop, nil
	}

	rdb, closeRedis, err := dialRedis(ctx, cfg.Cache.RedisURL)
	if err != nil {
		log.Warn("redis cache unavailable, continuing without it", zap.Error(err))
		return client, noop, nil
	}
	log.Info("redis cache enabled",
		zap.Duration("snapshot_ttl", cfg.Cache.SnapshotTTL),
		zap.Duration("series_ttl", cfg.Cache.SeriesTTL),
	)
	return cache.New(client, rdb, cache.Options{
		AssetID:     cfg.AssetID,
		SnapshotTTL: cfg.Cache.SnapshotTTL,
		SeriesTTL:   cfg.Cache.SeriesTTL,
		Logger:      log,
	}), closeRedis, nil
}
