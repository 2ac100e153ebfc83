// Package database wraps the SQLite connection used by the ledger store.
//
// The ledger lives in an in-memory database: the dataset is a static seed
// plus refresh-appended rows, and nothing survives a process restart.
package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InMemoryDSN opens a private in-memory database.
// cache=shared keeps every pooled connection on the same database.
const InMemoryDSN = "file::memory:?cache=shared"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	dsn  string
}

// New opens a database connection for the given DSN
func New(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// An in-memory database is dropped when its last connection closes, so
	// keep at least one connection alive for the life of the process.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	return &DB{
		conn: conn,
		dsn:  dsn,
	}, nil
}

// NewInMemory opens the standard in-memory ledger database
func NewInMemory() (*DB, error) {
	return New(InMemoryDSN)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Begin starts a new transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

// Exec executes a query without returning rows
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
