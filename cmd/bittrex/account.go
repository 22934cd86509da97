package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/rickgao/bittrex-client/bittrex"
)

func accountCommands(opts *rootOptions) []*cobra.Command {
	var paymentID string

	withdraw := &cobra.Command{
		Use:   "withdraw <currency> <quantity> <address>",
		Short: "Withdraw funds to an address",
		Args:  cobra.ExactArgs(3),
		RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
			qty, err := parseDecimal("quantity", args[1])
			if err != nil {
				return nil, err
			}
			return c.Withdraw(ctx, args[0], qty, args[2], paymentID)
		}),
	}
	withdraw.Flags().StringVar(&paymentID, "paymentid", "", "memo or payment id for currencies that need one")

	return []*cobra.Command{
		{
			Use:   "balances",
			Short: "List balances of every currency",
			Args:  cobra.NoArgs,
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, _ []string) (json.RawMessage, error) {
				return c.Balances(ctx)
			}),
		},
		{
			Use:   "balance [currency]",
			Short: "Show the balance of one currency, or all without an argument",
			Args:  cobra.MaximumNArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				return c.Balance(ctx, optionalArg(args))
			}),
		},
		{
			Use:   "depositaddress <currency>",
			Short: "Show or generate the deposit address of a currency",
			Args:  cobra.ExactArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				return c.DepositAddress(ctx, args[0])
			}),
		},
		withdraw,
		{
			Use:   "order <order-uuid>",
			Short: "Show a single order",
			Args:  cobra.ExactArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				id, err := parseOrderID(args[0])
				if err != nil {
					return nil, err
				}
				return c.Order(ctx, id)
			}),
		},
		{
			Use:   "orderhistory [market]",
			Short: "List order history, optionally for one market",
			Args:  cobra.MaximumNArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				return c.OrderHistory(ctx, optionalArg(args))
			}),
		},
		{
			Use:   "withdrawals [currency]",
			Short: "List withdrawal history, optionally for one currency",
			Args:  cobra.MaximumNArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				return c.WithdrawalHistory(ctx, optionalArg(args))
			}),
		},
		{
			Use:   "deposits [currency]",
			Short: "List deposit history, optionally for one currency",
			Args:  cobra.MaximumNArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				return c.DepositHistory(ctx, optionalArg(args))
			}),
		},
	}
}
