// Command recorder polls Bittrex market summaries into TimescaleDB and serves
// Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/bittrex-client/bittrex"
	"github.com/rickgao/bittrex-client/internal/config"
	"github.com/rickgao/bittrex-client/internal/database"
	"github.com/rickgao/bittrex-client/internal/metrics"
	"github.com/rickgao/bittrex-client/internal/poller"
	"github.com/rickgao/bittrex-client/internal/version"
	"github.com/rickgao/bittrex-client/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/recorder.yaml", "path to config file")
	envFile := flag.String("env-file", ".env", "optional .env file loaded before the config")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		slog.Error("recorder failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	if err := config.LoadEnvFiles(envFile); err != nil {
		return err
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateRecorder(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	// Set up structured logging
	logger, err := cfg.Log.NewLogger(os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	logger.Info("starting recorder",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
	)

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Connect to database
	logger.Info("connecting to database", "target", database.Describe(cfg.Database.Timescale))

	pool, err := database.Connect(ctx, cfg.Database.Timescale)
	if err != nil {
		return fmt.Errorf("connect timescale: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	logger.Info("database connected")

	collector := metrics.NewCollector()

	// Create API client
	client, err := bittrex.NewClient(cfg.API.APIKey, cfg.API.APISecret,
		bittrex.WithBaseURL(cfg.API.BaseURL),
		bittrex.WithTimeout(cfg.API.Timeout),
		bittrex.WithLogger(logger),
		bittrex.WithObserver(collector),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	// Start metrics and health server early so startup can be monitored
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           newServeMux(cfg.Metrics.Path, collector.Handler(), pool),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	w := writer.NewSummaryWriter(writer.WriterConfig{
		BatchSize:     cfg.Writer.BatchSize,
		FlushInterval: cfg.Writer.FlushInterval,
	}, pool, collector, logger)
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start writer: %w", err)
	}

	p := poller.New(poller.Config{
		Markets:     cfg.Poller.Markets,
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
	}, client, w, poller.WithObserver(collector), poller.WithLogger(logger))
	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}

	logger.Info("recorder running",
		"markets", len(cfg.Poller.Markets),
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Poller first so no snapshot arrives after the writer's final flush.
	if err := p.Stop(shutdownCtx); err != nil {
		logger.Warn("poller stop failed", "error", err)
	}
	if err := w.Stop(shutdownCtx); err != nil {
		logger.Warn("writer stop failed", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown failed", "error", err)
	}

	stats := w.Stats()
	logger.Info("recorder stopped",
		"inserts", stats.Inserts,
		"conflicts", stats.Conflicts,
		"errors", stats.Errors,
	)
	return nil
}
