package bittrex

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuyLimit places a limit buy of quantity at rate.
func (c *Client) BuyLimit(ctx context.Context, market string, quantity, rate decimal.Decimal) (json.RawMessage, error) {
	return c.Call(ctx, BuyLimitOrder, limitParams(market, quantity, rate))
}

// SellLimit places a limit sell of quantity at rate.
func (c *Client) SellLimit(ctx context.Context, market string, quantity, rate decimal.Decimal) (json.RawMessage, error) {
	return c.Call(ctx, SellLimitOrder, limitParams(market, quantity, rate))
}

// Cancel cancels an open order. A successful cancel has a null result.
func (c *Client) Cancel(ctx context.Context, orderID uuid.UUID) (json.RawMessage, error) {
	return c.Call(ctx, CancelOrder, NewParams().Set("uuid", orderID))
}

// OpenOrders lists open orders, optionally restricted to one market.
func (c *Client) OpenOrders(ctx context.Context, market string) (json.RawMessage, error) {
	return c.Call(ctx, GetOpenOrders, NewParams().SetOptional("market", market))
}

func limitParams(market string, quantity, rate decimal.Decimal) *Params {
	return NewParams().
		Set("market", market).
		Set("quantity", quantity).
		Set("rate", rate)
}
