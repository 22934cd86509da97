package writer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/bittrex-client/internal/model"
)

// finalFlushTimeout bounds the flush performed by Stop.
const finalFlushTimeout = 10 * time.Second

const insertSummary = `
	INSERT INTO market_summaries (exchange_ts, received_at, market_name, high, low, volume, last, base_volume, bid, ask, open_buy_orders, open_sell_orders, prev_day, created)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (market_name, exchange_ts) DO NOTHING
`

// ErrWriterStopped is returned by HandleSnapshot after Stop.
var ErrWriterStopped = errors.New("writer stopped")

// SummaryWriter batches market summary snapshots into the market_summaries table.
type SummaryWriter struct {
	cfg      WriterConfig
	logger   *slog.Logger
	db       BatchSender
	observer FlushObserver

	// Batching
	batch       []summaryRow
	batchMu     sync.Mutex
	stopped     bool
	flushMu     sync.Mutex // serializes flushes so rows are written in order
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics WriterMetrics
}

// NewSummaryWriter creates a new SummaryWriter. observer may be nil.
func NewSummaryWriter(cfg WriterConfig, db BatchSender, observer FlushObserver, logger *slog.Logger) *SummaryWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	return &SummaryWriter{
		cfg:      cfg,
		db:       db,
		observer: observer,
		logger:   logger,
		batch:    make([]summaryRow, 0, cfg.BatchSize),
		ctx:      context.Background(),
	}
}

// Start begins the periodic flush loop.
func (w *SummaryWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("summary writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop shuts down the flush loop and writes whatever is still buffered.
func (w *SummaryWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping summary writer")

	w.batchMu.Lock()
	w.stopped = true
	w.batchMu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("summary writer stopped")
	case <-ctx.Done():
		w.logger.Warn("summary writer stop timed out")
	}

	// Final flush runs on its own context since w.ctx is already cancelled.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalFlushTimeout)
	defer cancel()
	w.flush(flushCtx)

	return nil
}

// Stats returns current metrics.
func (w *SummaryWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// Pending returns the number of buffered rows.
func (w *SummaryWriter) Pending() int {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return len(w.batch)
}

// HandleSnapshot buffers a snapshot, flushing when the batch is full.
func (w *SummaryWriter) HandleSnapshot(s model.SummarySnapshot) error {
	row := transform(s)

	w.batchMu.Lock()
	if w.stopped {
		w.batchMu.Unlock()
		return ErrWriterStopped
	}
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(w.ctx)
	}
	return nil
}

// flushLoop periodically flushes the batch.
func (w *SummaryWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

// transform converts a SummarySnapshot to a summaryRow. A summary without an
// exchange timestamp is keyed by its receive time.
func transform(s model.SummarySnapshot) summaryRow {
	exchangeTs := s.ExchangeTS
	if exchangeTs == 0 {
		exchangeTs = s.ReceivedAt
	}
	m := s.Summary
	return summaryRow{
		ExchangeTs:     exchangeTs,
		ReceivedAt:     s.ReceivedAt,
		MarketName:     m.MarketName,
		High:           m.High.String(),
		Low:            m.Low.String(),
		Volume:         m.Volume.String(),
		Last:           m.Last.String(),
		BaseVolume:     m.BaseVolume.String(),
		Bid:            m.Bid.String(),
		Ask:            m.Ask.String(),
		OpenBuyOrders:  m.OpenBuyOrders,
		OpenSellOrders: m.OpenSellOrders,
		PrevDay:        m.PrevDay.String(),
		Created:        m.Created.Micro(),
	}
}

// flush writes the current batch to the database.
func (w *SummaryWriter) flush(ctx context.Context) {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]summaryRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, batch)
	elapsed := time.Since(start)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		if w.observer != nil {
			w.observer.Flush(0, 0, len(batch), elapsed)
		}
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	if w.observer != nil {
		w.observer.Flush(len(batch)-conflicts, conflicts, 0, elapsed)
	}

	w.logger.Debug("flushed market summaries",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", elapsed,
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *SummaryWriter) batchInsert(ctx context.Context, rows []summaryRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertSummary,
			r.ExchangeTs, r.ReceivedAt, r.MarketName,
			r.High, r.Low, r.Volume, r.Last, r.BaseVolume, r.Bid, r.Ask,
			r.OpenBuyOrders, r.OpenSellOrders, r.PrevDay, r.Created,
		)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
