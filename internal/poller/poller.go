package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/bittrex-client/bittrex"
	"github.com/rickgao/bittrex-client/internal/model"
)

// SummarySource fetches market summaries. *bittrex.Client satisfies it.
type SummarySource interface {
	MarketSummary(ctx context.Context, market string) (json.RawMessage, error)
	MarketSummaries(ctx context.Context) (json.RawMessage, error)
}

// SnapshotHandler receives fetched snapshots.
type SnapshotHandler interface {
	HandleSnapshot(snapshot model.SummarySnapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(model.SummarySnapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(s model.SummarySnapshot) error {
	return f(s)
}

// CycleObserver is told which markets failed in each finished cycle.
type CycleObserver interface {
	PollCycle(failedMarkets []string)
}

// Config holds poller configuration.
type Config struct {
	Markets     []string      // Markets to poll; empty polls all in one call
	Interval    time.Duration // Poll interval (default: 1m)
	Concurrency int           // Max concurrent requests (default: 4)
	Timeout     time.Duration // Per-request timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Minute,
		Concurrency: 4,
		Timeout:     10 * time.Second,
	}
}

// CycleResult summarizes one poll cycle.
type CycleResult struct {
	Fetched int
	Failed  []string // Markets that failed, sorted
}

// Poller periodically fetches market summaries via the REST API.
type Poller struct {
	cfg      Config
	source   SummarySource
	handler  SnapshotHandler
	observer CycleObserver
	logger   *slog.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Poller.
type Option func(*Poller)

// WithObserver reports cycle results to o.
func WithObserver(o CycleObserver) Option {
	return func(p *Poller) {
		p.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock sets the receive-time clock.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a new Poller.
func New(cfg Config, source SummarySource, handler SnapshotHandler, opts ...Option) *Poller {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	p := &Poller{
		cfg:     cfg,
		source:  source,
		handler: handler,
		logger:  slog.Default(),
		now:     time.Now,
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	if p.cfg.Interval <= 0 {
		return fmt.Errorf("poll interval must be > 0, got %v", p.cfg.Interval)
	}

	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("summary poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
		"markets", len(p.cfg.Markets),
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("summary poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.PollOnce(p.ctx)

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce(p.ctx)
		}
	}
}

// PollOnce runs a single poll cycle.
func (p *Poller) PollOnce(ctx context.Context) CycleResult {
	start := time.Now()

	var result CycleResult
	if len(p.cfg.Markets) == 0 {
		result = p.pollAll(ctx)
	} else {
		result = p.pollMarkets(ctx)
	}

	if p.observer != nil {
		p.observer.PollCycle(result.Failed)
	}

	p.logger.Info("poll cycle complete",
		"fetched", result.Fetched,
		"errors", len(result.Failed),
		"duration", time.Since(start),
	)

	return result
}

// pollAll fetches every market in one getmarketsummaries call.
func (p *Poller) pollAll(ctx context.Context) CycleResult {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	summaries, err := bittrex.Decode[[]model.MarketSummary](p.source.MarketSummaries(reqCtx))
	if err != nil {
		p.logger.Warn("failed to poll market summaries", "err", err)
		return CycleResult{Failed: []string{"*"}}
	}

	var result CycleResult
	received := p.now()
	for _, s := range summaries {
		if err := p.handle(s, received); err != nil {
			p.logger.Warn("failed to handle summary", "market", s.MarketName, "err", err)
			result.Failed = append(result.Failed, s.MarketName)
			continue
		}
		result.Fetched++
	}
	sort.Strings(result.Failed)
	return result
}

// pollMarkets fetches the configured markets with bounded concurrency.
func (p *Poller) pollMarkets(ctx context.Context) CycleResult {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	var mu sync.Mutex
	var result CycleResult

	for _, market := range p.cfg.Markets {
		market := market
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			err := p.pollMarket(gctx, market)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Warn("failed to poll market", "market", market, "err", err)
				result.Failed = append(result.Failed, market)
				return nil
			}
			result.Fetched++
			return nil
		})
	}

	// Workers never return an error; a failed market must not cancel the rest.
	_ = g.Wait()

	sort.Strings(result.Failed)
	return result
}

// pollMarket fetches and handles a single market's summary.
func (p *Poller) pollMarket(ctx context.Context, market string) error {
	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	summaries, err := bittrex.Decode[[]model.MarketSummary](p.source.MarketSummary(reqCtx, market))
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return fmt.Errorf("market %s: empty summary", market)
	}

	return p.handle(summaries[0], p.now())
}

func (p *Poller) handle(s model.MarketSummary, received time.Time) error {
	if p.handler == nil {
		return nil
	}
	return p.handler.HandleSnapshot(model.NewSummarySnapshot(s, received))
}
