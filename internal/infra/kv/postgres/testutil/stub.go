// Package testutil fakes just enough of a PostgreSQL connection for the
// postgres store: kv_entries DDL, upsert, select and delete by key.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

var driverSeq atomic.Uint64

// Fault injection errors.
var (
	ErrPing  = errors.New("stub: ping refused")
	ErrExec  = errors.New("stub: exec refused")
	ErrQuery = errors.New("stub: query refused")
)

// Conn is the single connection behind a stub database. Entries mirrors the
// kv_entries table.
type Conn struct {
	mu         sync.Mutex
	Statements []string
	Entries    map[string][]byte
	FailPing   bool
	FailExec   bool
	FailQuery  bool
}

// NewStubDB registers a uniquely named driver and opens a *sql.DB on it.
func NewStubDB() (*sql.DB, *Conn) {
	conn := &Conn{Entries: map[string][]byte{}}
	name := fmt.Sprintf("primenest-stub-%d", driverSeq.Add(1))
	sql.Register(name, connector{conn})
	db, err := sql.Open(name, "")
	if err != nil {
		panic(err)
	}
	return db, conn
}

// Seen reports whether a recorded statement contains fragment, ignoring case.
func (c *Conn) Seen(fragment string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.Statements {
		if strings.Contains(strings.ToLower(s), strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

type connector struct{ c *Conn }

func (d connector) Open(string) (driver.Conn, error) { return d.c, nil }

// Prepare is unsupported; the store only uses the context-aware fast paths.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return nil, fmt.Errorf("stub: prepare not supported: %s", query)
}

// Close is a no-op.
func (c *Conn) Close() error { return nil }

// Begin returns a transaction that does nothing.
func (c *Conn) Begin() (driver.Tx, error) { return noTx{}, nil }

// Ping fails when FailPing is set.
func (c *Conn) Ping(context.Context) error {
	if c.FailPing {
		return ErrPing
	}
	return nil
}

func keyArg(args []driver.NamedValue) (string, error) {
	if len(args) == 0 {
		return "", errors.New("stub: missing key argument")
	}
	k, ok := args[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("stub: key is %T", args[0].Value)
	}
	return k, nil
}

// ExecContext applies DDL, upserts and deletes against Entries.
func (c *Conn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Statements = append(c.Statements, query)
	if c.FailExec {
		return nil, ErrExec
	}
	verb, _, _ := strings.Cut(strings.TrimSpace(query), " ")
	switch strings.ToUpper(verb) {
	case "CREATE":
		return driver.RowsAffected(0), nil
	case "INSERT":
		k, err := keyArg(args)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, errors.New("stub: missing value argument")
		}
		v, _ := args[1].Value.([]byte)
		c.Entries[k] = bytes.Clone(v)
		return driver.RowsAffected(1), nil
	case "DELETE":
		k, err := keyArg(args)
		if err != nil {
			return nil, err
		}
		if _, ok := c.Entries[k]; !ok {
			return driver.RowsAffected(0), nil
		}
		delete(c.Entries, k)
		return driver.RowsAffected(1), nil
	default:
		return nil, fmt.Errorf("stub: unsupported statement: %s", query)
	}
}

// QueryContext answers single-key selects.
func (c *Conn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Statements = append(c.Statements, query)
	if c.FailQuery {
		return nil, ErrQuery
	}
	k, err := keyArg(args)
	if err != nil {
		return nil, err
	}
	r := &rows{}
	if v, ok := c.Entries[k]; ok {
		r.values = [][]byte{bytes.Clone(v)}
	}
	return r, nil
}

type noTx struct{}

func (noTx) Commit() error   { return nil }
func (noTx) Rollback() error { return nil }

type rows struct {
	values [][]byte
	next   int
}

func (r *rows) Columns() []string { return []string{"entry_value"} }

func (r *rows) Close() error { return nil }

func (r *rows) Next(dest []driver.Value) error {
	if r.next == len(r.values) {
		return io.EOF
	}
	dest[0] = r.values[r.next]
	r.next++
	return nil
}
