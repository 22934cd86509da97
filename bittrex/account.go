package bittrex

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balances returns the balance of every currency in the account.
func (c *Client) Balances(ctx context.Context) (json.RawMessage, error) {
	return c.Call(ctx, GetBalances, nil)
}

// Balance returns the balance of one currency. An empty currency falls back
// to Balances.
func (c *Client) Balance(ctx context.Context, currency string) (json.RawMessage, error) {
	if currency == "" {
		return c.Balances(ctx)
	}
	return c.Call(ctx, GetBalance, NewParams().Set("currency", currency))
}

// DepositAddress returns, or triggers generation of, a deposit address.
func (c *Client) DepositAddress(ctx context.Context, currency string) (json.RawMessage, error) {
	return c.Call(ctx, GetDepositAddress, NewParams().Set("currency", currency))
}

// Withdraw sends quantity of currency to address. paymentID is the memo or
// tag some currencies require; it is omitted when empty.
func (c *Client) Withdraw(ctx context.Context, currency string, quantity decimal.Decimal, address, paymentID string) (json.RawMessage, error) {
	return c.Call(ctx, WithdrawFunds, NewParams().
		Set("currency", currency).
		Set("quantity", quantity).
		Set("address", address).
		SetOptional("paymentid", paymentID))
}

// Order returns a single order.
func (c *Client) Order(ctx context.Context, orderID uuid.UUID) (json.RawMessage, error) {
	return c.Call(ctx, GetOrder, NewParams().Set("uuid", orderID))
}

// OrderHistory returns closed orders, optionally for one market.
func (c *Client) OrderHistory(ctx context.Context, market string) (json.RawMessage, error) {
	return c.Call(ctx, GetOrderHistory, NewParams().SetOptional("market", market))
}

// WithdrawalHistory returns past withdrawals, optionally for one currency.
func (c *Client) WithdrawalHistory(ctx context.Context, currency string) (json.RawMessage, error) {
	return c.Call(ctx, GetWithdrawalHistory, NewParams().SetOptional("currency", currency))
}

// DepositHistory returns past deposits, optionally for one currency.
func (c *Client) DepositHistory(ctx context.Context, currency string) (json.RawMessage, error) {
	return c.Call(ctx, GetDepositHistory, NewParams().SetOptional("currency", currency))
}
