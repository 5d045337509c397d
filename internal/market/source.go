package market

import "context"

// Source retrieves live and historical prices for one asset.
type Source interface {
	FetchSnapshot(ctx context.Context) (*PriceSnapshot, error)
	FetchSeries(ctx context.Context, tf Timeframe) (PriceSeries, error)
}
