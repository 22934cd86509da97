package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/bittrex-client/bittrex"
)

func publicCommands(opts *rootOptions) []*cobra.Command {
	var bookType string

	orderbook := &cobra.Command{
		Use:   "orderbook <market>",
		Short: "Show the order book of a market",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
			switch t := bittrex.OrderBookType(bookType); t {
			case bittrex.OrderBookBuy, bittrex.OrderBookSell, bittrex.OrderBookBoth:
				return c.OrderBook(ctx, args[0], t)
			default:
				return nil, fmt.Errorf("--type must be buy, sell or both, got %q", bookType)
			}
		}),
	}
	orderbook.Flags().StringVar(&bookType, "type", string(bittrex.OrderBookBoth), "book side: buy, sell or both")

	return []*cobra.Command{
		{
			Use:   "markets",
			Short: "List open markets",
			Args:  cobra.NoArgs,
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, _ []string) (json.RawMessage, error) {
				return c.Markets(ctx)
			}),
		},
		{
			Use:   "currencies",
			Short: "List supported currencies",
			Args:  cobra.NoArgs,
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, _ []string) (json.RawMessage, error) {
				return c.Currencies(ctx)
			}),
		},
		{
			Use:   "ticker <market>",
			Short: "Show bid, ask and last price of a market",
			Args:  cobra.ExactArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				return c.Ticker(ctx, args[0])
			}),
		},
		{
			Use:   "summaries",
			Short: "Show the 24h summary of every market",
			Args:  cobra.NoArgs,
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, _ []string) (json.RawMessage, error) {
				return c.MarketSummaries(ctx)
			}),
		},
		{
			Use:   "summary [market]",
			Short: "Show the 24h summary of one market, or all without an argument",
			Args:  cobra.MaximumNArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				return c.MarketSummary(ctx, optionalArg(args))
			}),
		},
		orderbook,
		{
			Use:   "history <market>",
			Short: "Show recent trades of a market",
			Args:  cobra.ExactArgs(1),
			RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
				return c.MarketHistory(ctx, args[0])
			}),
		},
	}
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
