package postgresjournal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/Arrow-air/tool-simulation/journal"
	"github.com/Arrow-air/tool-simulation/journal/postgresjournal/internal/adapters"
	"github.com/Arrow-air/tool-simulation/observability"
)

const (
	defaultTableName = "journal_entries"

	logMsgSQLExecuted       = "executed sql for: "
	logMsgEntriesAppended   = "journal entries appended"
	logMsgEntriesQueried    = "journal entries queried"
	logMsgTableCreated      = "journal table ensured"
	logMsgCloseRowsFailed   = "failed to close database rows"
	logMsgDBExecFailed      = "journal append failed"
	logMsgDBQueryFailed     = "journal query failed"
	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrEntryCount       = "entry_count"
	logAttrRunID            = "run_id"
	logAttrTable            = "table"
	logAttrDurationMS       = "duration_ms"
	logActionAppend         = "append"
	logActionQuery          = "query"
	logActionCreateTable    = "create table"
	colSequenceNumber       = "sequence_number"
	colRunID                = "run_id"
	colEntryType            = "entry_type"
	colOccurredAt           = "occurred_at"
	colPayload              = "payload"
	colMetadata             = "metadata"
	dialectPostgres         = "postgres"
	castJsonb               = "?::jsonb"
	createTableStatement    = `CREATE TABLE IF NOT EXISTS "%[1]s" (
	sequence_number BIGSERIAL PRIMARY KEY,
	run_id TEXT NOT NULL,
	entry_type TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL
)`
	createIndexStatement = `CREATE INDEX IF NOT EXISTS "%[1]s_run_id_idx" ON "%[1]s" (run_id, sequence_number)`
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Store is a journal.Recorder backed by a PostgreSQL table. It is safe for concurrent use.
type Store struct {
	db        adapters.DBAdapter
	tableName string
	logger    observability.Logger
}

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithTableName sets the journal table. It must be a plain SQL identifier.
func WithTableName(tableName string) Option {
	return func(s *Store) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		if !tableNamePattern.MatchString(tableName) {
			return fmt.Errorf("%w: %q", ErrInvalidTableName, tableName)
		}

		s.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Store.
//
// Debug level: SQL statements with execution timing
// Info level: entry counts and durations
// Warn level: failures to release rows
// Error level: failed statements.
func WithLogger(logger observability.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// NewStoreFromPGXPool creates a Store on a pgx pool.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a Store on a database/sql connection, e.g. opened with the lib/pq driver.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a Store on a sqlx connection.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (*Store, error) {
	s := &Store{
		db:        db,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// CreateTable creates the journal table and its run index if they do not exist.
func (s *Store) CreateTable(ctx context.Context) error {
	for _, statement := range []string{createTableStatement, createIndexStatement} {
		sqlQuery := fmt.Sprintf(statement, s.tableName)

		start := time.Now()
		_, err := s.db.Exec(ctx, sqlQuery)
		s.logQueryWithDuration(sqlQuery, logActionCreateTable, time.Since(start))

		if err != nil {
			s.logError(logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
			return errors.Join(ErrCreatingTableFailed, err)
		}
	}

	s.logOperation(logMsgTableCreated, logAttrTable, s.tableName)

	return nil
}

// Append inserts the entries with one statement. Appending nothing is a no-op.
func (s *Store) Append(ctx context.Context, entries ...journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	sqlQuery, args, err := s.buildInsertQuery(entries)
	if err != nil {
		return err
	}

	start := time.Now()
	_, execErr := s.db.Exec(ctx, sqlQuery, args...)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, logActionAppend, duration)

	if execErr != nil {
		s.logError(logMsgDBExecFailed, execErr, logAttrEntryCount, len(entries))
		return errors.Join(ErrAppendingFailed, execErr)
	}

	s.logOperation(
		logMsgEntriesAppended,
		logAttrEntryCount, len(entries),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return nil
}

// Query returns the entries of one run in append order.
func (s *Store) Query(ctx context.Context, runID string) ([]journal.Entry, error) {
	sqlQuery, args, err := s.buildSelectQuery(runID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery, args...)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		s.logError(logMsgDBQueryFailed, queryErr, logAttrRunID, runID)
		return nil, errors.Join(ErrQueryingFailed, queryErr)
	}
	defer s.closeRows(rows)

	entries, err := s.scanEntries(rows)
	if err != nil {
		return nil, err
	}

	s.logOperation(
		logMsgEntriesQueried,
		logAttrRunID, runID,
		logAttrEntryCount, len(entries),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return entries, nil
}

func (s *Store) scanEntries(rows adapters.DBRows) ([]journal.Entry, error) {
	entries := make([]journal.Entry, 0)

	for rows.Next() {
		var (
			entryType  string
			occurredAt time.Time
			payload    []byte
			metadata   []byte
		)

		if err := rows.Scan(&entryType, &occurredAt, &payload, &metadata); err != nil {
			return nil, errors.Join(ErrScanningRowFailed, err)
		}

		entry := journal.Entry{
			Type:       journal.EntryType(entryType),
			OccurredAt: occurredAt.UTC(),
			Payload:    payload,
		}

		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, errors.Join(ErrDecodingMetadataFailed, err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRowFailed, err)
	}

	return entries, nil
}

func (s *Store) buildInsertQuery(entries []journal.Entry) (string, []any, error) {
	rows := make([][]any, 0, len(entries))

	for _, entry := range entries {
		metadata, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(entry.Metadata)
		if err != nil {
			return "", nil, errors.Join(ErrBuildingQueryFailed, err)
		}

		payload := string(entry.Payload)
		if payload == "" {
			payload = "null"
		}

		rows = append(rows, []any{
			entry.Metadata.RunID,
			string(entry.Type),
			entry.OccurredAt.UTC(),
			goqu.L(castJsonb, payload),
			goqu.L(castJsonb, string(metadata)),
		})
	}

	sqlQuery, args, err := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Cols(colRunID, colEntryType, colOccurredAt, colPayload, colMetadata).
		Vals(rows...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

func (s *Store) buildSelectQuery(runID string) (string, []any, error) {
	sqlQuery, args, err := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(colEntryType, colOccurredAt, colPayload, colMetadata).
		Where(goqu.C(colRunID).Eq(runID)).
		Order(goqu.I(colSequenceNumber).Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}

	return sqlQuery, args, nil
}

// closeRows closes database rows and logs any errors.
func (s *Store) closeRows(rows adapters.DBRows) {
	if err := rows.Close(); err != nil && s.logger != nil {
		s.logger.Warn(logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (s *Store) logQueryWithDuration(sqlQuery, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

func (s *Store) logOperation(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Store) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append([]any{logAttrError, err.Error()}, args...)...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

var _ journal.Recorder = (*Store)(nil)
