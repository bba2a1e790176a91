package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"primenest/internal/infra/kv/postgres/testutil"
	"primenest/internal/kv/core"
)

func openStub(t *testing.T) (*Store, *testutil.Conn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(name, _ string) (*sql.DB, error) {
		if name != driverName {
			t.Fatalf("unexpected driver %s", name)
		}
		return db, nil
	})
	t.Cleanup(restore)
	store, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store, conn
}

func TestNewCreatesEntriesTable(t *testing.T) {
	store, conn := openStub(t)
	if store.Driver() != core.DriverPostgres {
		t.Fatalf("driver = %s", store.Driver())
	}
	if !conn.Seen("create table if not exists kv_entries") {
		t.Fatalf("expected kv_entries DDL, got %v", conn.Statements)
	}
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store, conn := openStub(t)
	if _, err := store.Get(ctx, "primenest_contacts"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Put(ctx, "primenest_contacts", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "primenest_contacts", []byte(`[{"id":"c1"}]`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(conn.Entries) != 1 {
		t.Fatalf("expected one row, got %d", len(conn.Entries))
	}
	got, err := store.Get(ctx, "primenest_contacts")
	if err != nil || string(got) != `[{"id":"c1"}]` {
		t.Fatalf("get = %q, %v", got, err)
	}
	if !conn.Seen("on conflict (entry_key)") {
		t.Fatalf("expected an upsert, got %v", conn.Statements)
	}
	ok, err := store.Delete(ctx, "primenest_contacts")
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	ok, err = store.Delete(ctx, "primenest_contacts")
	if err != nil || ok {
		t.Fatalf("second delete = %v, %v", ok, err)
	}
}

func TestNewPingFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := New(context.Background(), "postgres://ignored"); !errors.Is(err, testutil.ErrPing) {
		t.Fatalf("expected ping failure, got %v", err)
	}
}

func TestNewOpenFailure(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return nil, errors.New("boom") })
	defer restore()
	if _, err := New(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected wrapped open error, got %v", err)
	}
}

func TestExecFailuresSurface(t *testing.T) {
	ctx := context.Background()
	store, conn := openStub(t)
	conn.FailExec = true
	if err := store.Put(ctx, "k", []byte("v")); err == nil {
		t.Fatalf("expected put failure")
	}
	if _, err := store.Delete(ctx, "k"); err == nil {
		t.Fatalf("expected delete failure")
	}
	conn.FailExec = false
	conn.FailQuery = true
	if _, err := store.Get(ctx, "k"); !errors.Is(err, testutil.ErrQuery) || errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected query failure distinct from not found, got %v", err)
	}
}
