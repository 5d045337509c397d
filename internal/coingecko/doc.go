// Package coingecko provides the HTTP client for the CoinGecko v3 API.
//
// # Overview
//
// The client is the dashboard's remote price source. It is bound to a single
// asset at construction and implements market.Source, so the engine never
// sees URLs or JSON.
//
// # API Endpoints
//
//   - GET /coins/{id}?localization=false&tickers=false&market_data=true&community_data=false&developer_data=false&sparkline=false
//     Full snapshot: current price, 24h high/low, 24h change, all-time high.
//   - GET /simple/price?ids={id}&vs_currencies=usd&include_24hr_change=true
//     Simplified snapshot: price and 24h change only.
//   - GET /coins/{id}/market_chart?vs_currency=usd&days={N}
//     Historical [timestamp, price] pairs for the lookback window.
//
// Query strings are written in the order above rather than through
// url.Values, which would sort the keys.
//
// # Request Handling
//
// All requests:
//   - Use the caller's context for cancellation
//   - Set Accept: application/json and User-Agent: pricewatch/<version>
//   - Send x-cg-demo-api-key when an API key is configured
//   - Are bounded by the http.Client timeout (default 10 seconds)
//   - Run inside an OpenTelemetry span named coingecko.<operation>
//
// # Error Handling
//
// Every failure is returned as a *market.FetchError:
//
//   - KindNetwork: request could not be built or sent, timed out, or the API
//     answered with status >= 400 (429 is reported as rate limited)
//   - KindParse: body was not valid JSON or lacked the required fields
//
// Cancellation is not classified here. A cancelled context surfaces as a
// network error wrapping context.Canceled; the fetch task decides whether a
// failure was an abort.
//
// # Testing
//
// Tests run the client against httptest servers that assert the exact
// request paths and query strings.
package coingecko
