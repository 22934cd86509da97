package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rickgao/bittrex-client/bittrex"
)

func marketCommands(opts *rootOptions) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "buy <market> <quantity> <rate>",
			Short: "Place a limit buy order",
			Args:  cobra.ExactArgs(3),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				qty, rate, err := parseQuantityRate(args[1], args[2])
				if err != nil {
					return nil, err
				}
				return c.BuyLimit(ctx, args[0], qty, rate)
			}),
		},
		{
			Use:   "sell <market> <quantity> <rate>",
			Short: "Place a limit sell order",
			Args:  cobra.ExactArgs(3),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				qty, rate, err := parseQuantityRate(args[1], args[2])
				if err != nil {
					return nil, err
				}
				return c.SellLimit(ctx, args[0], qty, rate)
			}),
		},
		{
			Use:   "cancel <order-uuid>",
			Short: "Cancel an open order",
			Args:  cobra.ExactArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				id, err := parseOrderID(args[0])
				if err != nil {
					return nil, err
				}
				return c.Cancel(ctx, id)
			}),
		},
		{
			Use:   "openorders [market]",
			Short: "List open orders, optionally for one market",
			Args:  cobra.MaximumNArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				return c.OpenOrders(ctx, optionalArg(args))
			}),
		},
	}
}

func parseQuantityRate(quantity, rate string) (decimal.Decimal, decimal.Decimal, error) {
	q, err := parseDecimal("quantity", quantity)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	r, err := parseDecimal("rate", rate)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return q, r, nil
}

func parseDecimal(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s must be > 0, got %s", name, s)
	}
	return d, nil
}

func parseOrderID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid order uuid %q: %w", s, err)
	}
	return id, nil
}
