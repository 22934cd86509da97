// Package bittrex provides a client for the Bittrex v1.1 REST API.
//
// Endpoints are grouped into three categories, each with its own base path:
//   - Public:  /api/v1.1/public/  (market data, no authentication)
//   - Market:  /api/v1.1/market/  (order placement and cancellation)
//   - Account: /api/v1.1/account/ (balances, deposits, withdrawals, history)
//
// Market and Account calls are signed: the API key and a nonce are appended
// to the query string and the "apisign" header carries the HMAC-SHA512 of the
// full URL keyed by the API secret.
//
// Every endpoint method funnels through Client.Do, which returns the
// envelope's result as raw JSON. An envelope with success=false is returned
// as an *APIError carrying the exchange's message.
package bittrex
