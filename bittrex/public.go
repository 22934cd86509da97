package bittrex

import (
	"context"
	"encoding/json"
)

// OrderBookType selects which side of the book getorderbook returns.
type OrderBookType string

const (
	OrderBookBuy  OrderBookType = "buy"
	OrderBookSell OrderBookType = "sell"
	OrderBookBoth OrderBookType = "both"
)

// Markets lists all open markets and their metadata.
func (c *Client) Markets(ctx context.Context) (json.RawMessage, error) {
	return c.Call(ctx, GetMarkets, nil)
}

// Currencies lists all supported currencies.
func (c *Client) Currencies(ctx context.Context) (json.RawMessage, error) {
	return c.Call(ctx, GetCurrencies, nil)
}

// Ticker returns the current bid, ask and last price for a market
// (e.g. "BTC-LTC").
func (c *Client) Ticker(ctx context.Context, market string) (json.RawMessage, error) {
	return c.Call(ctx, GetTicker, NewParams().Set("market", market))
}

// MarketSummaries returns the last 24 hour summary of every market.
func (c *Client) MarketSummaries(ctx context.Context) (json.RawMessage, error) {
	return c.Call(ctx, GetMarketSummaries, nil)
}

// MarketSummary returns the last 24 hour summary of one market. An empty
// market falls back to MarketSummaries.
func (c *Client) MarketSummary(ctx context.Context, market string) (json.RawMessage, error) {
	if market == "" {
		return c.MarketSummaries(ctx)
	}
	return c.Call(ctx, GetMarketSummary, NewParams().Set("market", market))
}

// OrderBook returns the order book of a market.
func (c *Client) OrderBook(ctx context.Context, market string, side OrderBookType) (json.RawMessage, error) {
	return c.Call(ctx, GetOrderBook, NewParams().
		Set("market", market).
		Set("type", string(side)))
}

// MarketHistory returns the latest trades of a market.
func (c *Client) MarketHistory(ctx context.Context, market string) (json.RawMessage, error) {
	return c.Call(ctx, GetMarketHistory, NewParams().Set("market", market))
}
