// Package adapters lets the journal store run on pgxpool.Pool, sql.DB, or sqlx.DB
// through one DBAdapter interface. Queries use PostgreSQL's $n placeholders.
package adapters
