// Package database provides a driver-agnostic connection abstraction over
// SQLite and PostgreSQL so that repositories can be written once against a
// shared Executor interface.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Driver identifies a supported database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ErrNoRows is returned by QueryRow scans when no row matched.
var ErrNoRows = errors.New("database: no rows in result set")

// ErrUnsupportedDriver is returned when a connection string does not map to
// a known driver.
var ErrUnsupportedDriver = errors.New("database: unsupported driver")

// Config holds connection settings for either backend.
type Config struct {
	Driver Driver

	// SQLitePath is the database file path when Driver is DriverSQLite.
	SQLitePath string

	// PostgresURL is the connection URL when Driver is DriverPostgres.
	PostgresURL string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DetectDriver inspects a DATABASE_URL-style string and returns the driver
// it selects. An empty URL selects SQLite.
func DetectDriver(url string) (Driver, error) {
	switch {
	case url == "":
		return DriverSQLite, nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(url, "sqlite://"):
		return DriverSQLite, nil
	case strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"):
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, url)
	}
}

// Row is a single-row result.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a multi-row result set.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the outcome of a statement.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs SQL statements. Queries use `?` placeholders regardless of
// backend; the postgres implementation rebinds them to $n.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// Transaction is an Executor bound to a database transaction.
type Transaction interface {
	Executor
	Commit() error
	Rollback() error
}

// Connection is a live database handle.
type Connection interface {
	Executor
	Begin(ctx context.Context) (Transaction, error)
	Driver() Driver
	Ping(ctx context.Context) error
	Close() error
}

// Connect opens a connection for the configured driver.
func Connect(ctx context.Context, cfg Config) (Connection, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return connectSQLite(ctx, cfg)
	case DriverPostgres:
		return connectPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// IsNoRows reports whether err indicates an empty result.
func IsNoRows(err error) bool {
	return errors.Is(err, ErrNoRows)
}

// rebind converts `?` placeholders to $1..$n for postgres. Question marks
// inside single-quoted literals are left alone.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			fmt.Fprintf(&b, "$%d", n)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
