// Package sqlite keeps durable entries in an embedded SQLite file via the
// pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers "sqlite"

	"primenest/internal/kv/core"
)

var (
	_ core.Store  = (*Store)(nil)
	_ core.Lister = (*Store)(nil)
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS kv_entries (
	entry_key   TEXT PRIMARY KEY,
	entry_value BLOB NOT NULL,
	updated_at  INTEGER NOT NULL
)`
	selectEntry = `SELECT entry_value FROM kv_entries WHERE entry_key = ?`
	upsertEntry = `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`
	deleteEntry = `DELETE FROM kv_entries WHERE entry_key = ?`
	listKeys    = `SELECT entry_key FROM kv_entries WHERE substr(entry_key, 1, length(?1)) = ?1 ORDER BY entry_key`
)

// Store is a kv_entries table in one SQLite file.
type Store struct {
	db    *sql.DB
	path  string
	nowFn func() time.Time
}

// New opens path (primenest.db when empty), creating parent directories and
// the table as needed.
func New(path string) (*Store, error) {
	if path == "" {
		path = "primenest.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv_entries: %w", err)
	}
	return &Store{db: db, path: path, nowFn: time.Now}, nil
}

// Driver reports core.DriverSQLite.
func (s *Store) Driver() core.Driver { return core.DriverSQLite }

// Path is the database file.
func (s *Store) Path() string { return s.path }

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	switch err := s.db.QueryRowContext(ctx, selectEntry, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, core.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return value, nil
}

// Put replaces the value stored under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, upsertEntry, key, value, s.nowFn().UnixMilli()); err != nil {
		return fmt.Errorf("sqlite put %s: %w", key, err)
	}
	return nil
}

// Delete removes key and reports whether it existed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, deleteEntry, key)
	if err != nil {
		return false, fmt.Errorf("sqlite delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite delete %s: %w", key, err)
	}
	return n > 0, nil
}

// Keys lists the stored keys beginning with prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, listKeys, prefix)
	if err != nil {
		return nil, fmt.Errorf("sqlite list: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("sqlite list: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite list: %w", err)
	}
	return keys, nil
}

// Count returns the number of stored keys.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite count: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
