package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/bittrex-client/bittrex"
	"github.com/rickgao/bittrex-client/internal/config"
)

type rootOptions struct {
	configPath string
	envFiles   []string
	baseURL    string
	key        string
	secret     string
	timeout    time.Duration
	logLevel   string
}

// callFunc issues one API call for a subcommand.
type callFunc func(ctx context.Context, c *bittrex.Client, args []string) (json.RawMessage, error)

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "bittrex",
		Short:         "Call the Bittrex v1.1 API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to YAML config file (default: environment only)")
	flags.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, ".env files to load before reading the environment")
	flags.StringVar(&opts.baseURL, "base-url", "", "API base URL (overrides config)")
	flags.StringVar(&opts.key, "key", "", "API key (overrides config and BITTREX_API_KEY)")
	flags.StringVar(&opts.secret, "secret", "", "API secret (overrides config and BITTREX_API_SECRET)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout (default 30s)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newVersionCmd(),
		newEndpointsCmd(),
		newCallCmd(opts),
	)
	cmd.AddCommand(publicCommands(opts)...)
	cmd.AddCommand(marketCommands(opts)...)
	cmd.AddCommand(accountCommands(opts)...)

	return cmd
}

// loadConfig resolves settings from .env files, the environment or a config
// file, then flags.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFiles(o.envFiles...); err != nil {
		return nil, err
	}

	var cfg *config.Config
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadWithDefaults(o.configPath); err != nil {
			return nil, err
		}
	} else {
		cfg = config.FromEnv()
	}

	if o.baseURL != "" {
		cfg.API.BaseURL = o.baseURL
	}
	if o.key != "" {
		cfg.API.APIKey = o.key
	}
	if o.secret != "" {
		cfg.API.APISecret = o.secret
	}
	if o.timeout != 0 {
		cfg.API.Timeout = o.timeout
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) newClient(stderr io.Writer) (*bittrex.Client, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return nil, err
	}

	return bittrex.NewClient(cfg.API.APIKey, cfg.API.APISecret,
		bittrex.WithBaseURL(cfg.API.BaseURL),
		bittrex.WithTimeout(cfg.API.Timeout),
		bittrex.WithLogger(logger),
	)
}

// run adapts a callFunc into a cobra RunE that prints the result.
func (o *rootOptions) run(fn callFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, err := o.newClient(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		raw, err := fn(cmd.Context(), client, args)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), raw)
	}
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format result: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
