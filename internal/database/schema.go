package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of pgxpool.Pool used for schema setup.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// schemaStatements create the market_summaries table. Timestamps are
// microseconds since epoch; prices are numeric to keep decimal precision.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS market_summaries (
		exchange_ts      BIGINT      NOT NULL,
		received_at      BIGINT      NOT NULL,
		market_name      TEXT        NOT NULL,
		high             NUMERIC,
		low              NUMERIC,
		volume           NUMERIC,
		last             NUMERIC,
		base_volume      NUMERIC,
		bid              NUMERIC,
		ask              NUMERIC,
		open_buy_orders  INTEGER,
		open_sell_orders INTEGER,
		prev_day         NUMERIC,
		created          BIGINT,
		PRIMARY KEY (market_name, exchange_ts)
	)`,
	`CREATE INDEX IF NOT EXISTS market_summaries_received_at_idx ON market_summaries (received_at)`,
}

// hypertableStatement converts the table when the timescaledb extension is
// installed. Plain PostgreSQL skips it.
const hypertableStatement = `DO $$
BEGIN
	IF EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'timescaledb') THEN
		PERFORM create_hypertable('market_summaries', 'exchange_ts',
			chunk_time_interval => 86400000000, if_not_exists => TRUE);
	END IF;
END
$$`

// EnsureSchema creates the tables the recorder writes to.
func EnsureSchema(ctx context.Context, db Execer) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	if _, err := db.Exec(ctx, hypertableStatement); err != nil {
		return fmt.Errorf("ensure hypertable: %w", err)
	}
	return nil
}
