// Package market defines the data model shared by the price source, the sync
// engine and the UI.
//
// # Core Types
//
//   - PriceSnapshot: one point-in-time reading of price and 24h statistics.
//     Snapshots are immutable; a newer reading replaces the pointer, never the
//     fields.
//   - PriceSeries: historical [timestamp, price] samples, ascending by time.
//   - Timeframe: the lookback window for a series (1d, 7d, 14d, 30d, 6mo, 1yr).
//   - FetchError: classified fetch failure (network or parse).
//
// Prices are github.com/shopspring/decimal values so that what the upstream
// API reports is what the UI shows. Optional statistics use
// decimal.NullDecimal; an invalid NullDecimal means the source did not report
// the value.
//
// # Source
//
// Source is the contract between the engine and anything that can produce
// snapshots and series: the CoinGecko client, the Redis cache wrapper, and the
// fakes used in tests.
package market
