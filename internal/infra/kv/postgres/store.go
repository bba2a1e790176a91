// Package postgres keeps durable entries in a PostgreSQL table, one row per
// key, through pgx's database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"

	"primenest/internal/kv/core"
)

var _ core.Store = (*Store)(nil)

const (
	driverName = "pgx"
	defaultDSN = "postgres://localhost/primenest?sslmode=disable"

	createTable = `CREATE TABLE IF NOT EXISTS kv_entries (
	entry_key   TEXT PRIMARY KEY,
	entry_value BYTEA NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectEntry = `SELECT entry_value FROM kv_entries WHERE entry_key = $1`
	upsertEntry = `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (entry_key) DO UPDATE SET entry_value = EXCLUDED.entry_value, updated_at = now()`
	deleteEntry = `DELETE FROM kv_entries WHERE entry_key = $1`
)

var (
	openMu sync.Mutex
	openDB = sql.Open
)

// Store is a kv_entries-backed durable area.
type Store struct {
	db *sql.DB
}

// New connects to dsn (defaultDSN when empty) and creates kv_entries if missing.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := openDB(driverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv_entries: %w", err)
	}
	return &Store{db: db}, nil
}

// Driver reports core.DriverPostgres.
func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	switch err := s.db.QueryRowContext(ctx, selectEntry, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, core.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return value, nil
}

// Put replaces the value stored under key. The upsert is atomic per row.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, upsertEntry, key, value); err != nil {
		return fmt.Errorf("postgres put %s: %w", key, err)
	}
	return nil
}

// Delete removes key and reports whether a row existed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, deleteEntry, key)
	if err != nil {
		return false, fmt.Errorf("postgres delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return n > 0, nil
}

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen replaces the database/sql opener until the returned restore
// func runs. Tests use it to inject a stub driver.
func OverrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) (restore func()) {
	openMu.Lock()
	prev := openDB
	openDB = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		openDB = prev
		openMu.Unlock()
	}
}
