// Package adapter provides the database adapter contract used by trendsql.
//
// An adapter owns one *sql.DB for a target store. The batch runner pins a
// single connection from it for the whole run so that statements which create
// views or temporary state stay visible to the statements after them.
// Concrete adapters live in pkg/adapters/ and register themselves from init().
package adapter

import (
	"context"
	"database/sql"
)

// Config holds configuration for connecting to a database.
type Config struct {
	// Type selects the registered adapter (sqlite, duckdb, postgres).
	Type string

	// Path is the file path for file-based databases. ":memory:" is accepted
	// by the embedded engines.
	Path string

	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string

	// Options contains driver-specific connection options (e.g. sslmode).
	Options map[string]string

	// Params holds adapter-specific structured settings.
	Params map[string]any
}

// Adapter defines the interface that all database adapters implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	// The caller must close the returned rows.
	Query(ctx context.Context, sql string) (*sql.Rows, error)

	// Conn pins a single connection from the pool.
	// The caller must close it to return it to the pool.
	Conn(ctx context.Context) (*sql.Conn, error)

	// LoadCSV appends the rows of a CSV file with a header line to an
	// existing table, matching columns by header name.
	LoadCSV(ctx context.Context, tableName string, filePath string) error

	// DialectName returns the SQL dialect name (e.g. "sqlite", "postgres").
	DialectName() string
}

// SQLDB is implemented by adapters that expose their underlying *sql.DB,
// for tooling such as schema migrations that needs the raw handle.
type SQLDB interface {
	SQLDB() *sql.DB
}

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx used to run a
// single statement.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
