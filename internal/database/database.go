// Package database owns everything that touches PostgreSQL wire traffic:
// the pool abstraction, the pgx-backed driver, the identifier sanitizer,
// and the connection manager that holds the single active target pool.
//
// Layers above this package talk only to the DB interface and the Manager;
// they never import pgx directly.
package database

import (
	"context"
	"fmt"
)

// Row represents a single result row.
type Row interface {
	Scan(dest ...any) error
}

// Rows represents a result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// DB is the contract for one connection pool.
type DB interface {
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Query executes a SQL statement that returns multiple rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// QueryRow executes a SQL statement that returns at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Exec executes a statement and returns the number of rows affected.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Close releases all resources held by the pool.
	Close()
}

// Target describes a database to connect to. It is ephemeral: built from a
// connect request, used to open a pool, and discarded. The password must
// never appear in logs or error messages; use Redacted for display.
type Target struct {
	Host     string
	Port     uint16
	User     string
	Password string
	Database string
}

// Redacted returns a loggable description of the target without the password.
func (t Target) Redacted() string {
	return fmt.Sprintf("%s@%s:%d/%s", t.User, t.Host, t.Port, t.Database)
}
