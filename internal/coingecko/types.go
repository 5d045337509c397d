package coingecko

import (
	"github.com/shopspring/decimal"
)

// SnapshotMode selects which endpoint backs FetchSnapshot.
type SnapshotMode string

const (
	// ModeFull reads /coins/{id} with market data.
	ModeFull SnapshotMode = "full"
	// ModeSimple reads /simple/price; 24h range and ATH are absent.
	ModeSimple SnapshotMode = "simple"
)

// ParseSnapshotMode normalizes a configured mode, defaulting to ModeFull.
func ParseSnapshotMode(value string) (SnapshotMode, bool) {
	switch SnapshotMode(value) {
	case "", ModeFull:
		return ModeFull, true
	case ModeSimple:
		return ModeSimple, true
	default:
		return ModeFull, false
	}
}

// usdValues holds a per-currency object such as market_data.current_price.
type usdValues map[string]decimal.NullDecimal

func (v usdValues) usd() decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return v["usd"]
}

// CoinResponse is the subset of /coins/{id} the dashboard reads.
type CoinResponse struct {
	ID         string      `json:"id"`
	Symbol     string      `json:"symbol"`
	MarketData *MarketData `json:"market_data"`
}

// MarketData mirrors coin.market_data.
type MarketData struct {
	CurrentPrice             usdValues           `json:"current_price"`
	High24h                  usdValues           `json:"high_24h"`
	Low24h                   usdValues           `json:"low_24h"`
	PriceChangePercentage24h decimal.NullDecimal `json:"price_change_percentage_24h"`
	ATH                      usdValues           `json:"ath"`
	ATHDate                  map[string]string   `json:"ath_date"`
	LastUpdated              string              `json:"last_updated"`
}

// SimplePrice is one entry of the /simple/price response.
type SimplePrice struct {
	USD          decimal.NullDecimal `json:"usd"`
	USD24hChange decimal.NullDecimal `json:"usd_24h_change"`
}

// MarketChartResponse mirrors /coins/{id}/market_chart. Prices is a pointer so
// a missing key can be told apart from an empty window.
type MarketChartResponse struct {
	Prices *[][]decimal.Decimal `json:"prices"`
}
