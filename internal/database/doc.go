// Package database provides connection pool management for TimescaleDB.
//
// The recorder stores one row per observed market summary in
// market_summaries, keyed by (market_name, exchange_ts). On TimescaleDB the
// table is a hypertable partitioned on exchange_ts.
package database
