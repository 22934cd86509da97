package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rickgao/bittrex-client/bittrex"
	"github.com/rickgao/bittrex-client/internal/version"
)

func newCallCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "call <category> <call> [key=value ...]",
		Short: "Dispatch any call by category and name",
		Long: `Dispatch a raw call. Category is public, market or account; parameters
are sent in the order given.

  bittrex call public getticker market=BTC-LTC`,
		Args: cobra.MinimumNArgs(2),
		RunE: opts.run(func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error) {
			category, err := bittrex.ParseCategory(args[0])
			if err != nil {
				return nil, err
			}
			params, err := parseParams(args[2:])
			if err != nil {
				return nil, err
			}
			return c.Do(ctx, args[1], category, params)
		}),
	}
}

func parseParams(pairs []string) (*bittrex.Params, error) {
	params := bittrex.NewParams()
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter %q must be key=value", pair)
		}
		params.Set(k, v)
	}
	return params, nil
}

func newEndpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List known calls and their categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, e := range bittrex.Endpoints() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", e.Category, e.Call)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.Product, version.String())
			return nil
		},
	}
}
