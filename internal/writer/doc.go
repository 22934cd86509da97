// Package writer implements the batch writer for market summary snapshots.
//
// Snapshots are buffered and flushed to TimescaleDB when the batch is full or
// the flush interval elapses. Writes are append-only: a row that already
// exists for (market_name, exchange_ts) is skipped, never updated.
// Prices are stored as numeric decimal text so no precision is lost.
package writer
