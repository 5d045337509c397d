// Package config loads pricewatch settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults (CoinGecko public API, bittensor/TAO, 30s polling, 7d)
//  2. the TOML file at ~/.config/pricewatch/config.toml or the -config path
//  3. PRICEWATCH_* environment variables, with nested keys joined by "_"
//     (PRICEWATCH_LOG_LEVEL, PRICEWATCH_CACHE_REDIS_URL)
//
// A missing config file is not an error. Values that would make the engine
// misbehave, such as a poll interval under one second or an unknown
// timeframe, are rejected at load time.
//
// Example config.toml:
//
//	asset_id = "bittensor"
//	poll_interval_ms = 30000
//	default_timeframe = "7d"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[log]
//	level = "debug"
package config
