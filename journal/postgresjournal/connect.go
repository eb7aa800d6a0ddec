package postgresjournal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // registers the "postgres" driver for database/sql and sqlx
)

// Adapter names accepted by Connect.
const (
	AdapterPGX  = "pgx"
	AdapterSQL  = "sql"
	AdapterSQLX = "sqlx"
)

const (
	driverName         = "postgres"
	maxConnections     = 16
	minConnections     = 1
	maxConnLifetime    = time.Hour
	maxConnIdleTime    = 5 * time.Minute
	healthCheckPeriod  = time.Minute
	connectTimeout     = 5 * time.Second
	sqlMaxIdleConns    = 4
	sqlConnMaxIdleTime = 5 * time.Minute
)

// Connect opens a connection of the given adapter kind to dsn and returns a Store on it
// together with the function that closes the connection.
func Connect(ctx context.Context, adapter, dsn string, options ...Option) (*Store, func() error, error) {
	switch adapter {
	case AdapterPGX:
		pool, err := newPGXPool(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		store, err := NewStoreFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store, func() error { pool.Close(); return nil }, nil

	case AdapterSQL:
		db, err := openSQLDB(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		store, err := NewStoreFromSQLDB(db, options...)
		if err != nil {
			return nil, nil, errors.Join(err, db.Close())
		}

		return store, db.Close, nil

	case AdapterSQLX:
		db, err := openSQLDB(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		xdb := sqlx.NewDb(db, driverName)
		store, err := NewStoreFromSQLX(xdb, options...)
		if err != nil {
			return nil, nil, errors.Join(err, xdb.Close())
		}

		return store, xdb.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, adapter)
	}
}

func newPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectFailed, err)
	}

	config.MaxConns = maxConnections
	config.MinConns = minConnections
	config.MaxConnLifetime = maxConnLifetime
	config.MaxConnIdleTime = maxConnIdleTime
	config.HealthCheckPeriod = healthCheckPeriod
	config.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Join(ErrConnectFailed, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectFailed, err)
	}

	return pool, nil
}

func openSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Join(ErrConnectFailed, err)
	}

	db.SetMaxOpenConns(maxConnections)
	db.SetMaxIdleConns(sqlMaxIdleConns)
	db.SetConnMaxLifetime(maxConnLifetime)
	db.SetConnMaxIdleTime(sqlConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return nil, errors.Join(ErrConnectFailed, err, db.Close())
	}

	return db, nil
}
