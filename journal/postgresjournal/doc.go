// Package postgresjournal stores journal entries in PostgreSQL.
//
// The store works with pgxpool.Pool, database/sql (lib/pq) and sqlx connections.
// SQL is built with goqu; every Append is a single multi-row INSERT.
//
// Table layout:
//
//	sequence_number BIGSERIAL PRIMARY KEY
//	run_id          TEXT
//	entry_type      TEXT
//	occurred_at     TIMESTAMPTZ   (simulated time)
//	payload         JSONB         (request body)
//	metadata        JSONB
package postgresjournal
