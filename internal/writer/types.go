package writer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// WriterConfig contains configuration for batch writers.
type WriterConfig struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		BatchSize:     500,
		FlushInterval: 5 * time.Second,
	}
}

// BatchSender sends a queued batch. *pgxpool.Pool satisfies it.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// FlushObserver is told the outcome of every flush.
type FlushObserver interface {
	Flush(inserted, skipped, failed int, elapsed time.Duration)
}

// summaryRow represents a row for the market_summaries table.
type summaryRow struct {
	ExchangeTs     int64 // Microseconds
	ReceivedAt     int64 // Microseconds
	MarketName     string
	High           string // Decimal text
	Low            string
	Volume         string
	Last           string
	BaseVolume     string
	Bid            string
	Ask            string
	OpenBuyOrders  int
	OpenSellOrders int
	PrevDay        string
	Created        int64 // Microseconds, 0 if unknown
}

// WriterMetrics holds metrics for a writer.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}
