package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"primenest/internal/kv/core"
)

func TestStore_RoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "primenest.db")
	store, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if store.Driver() != core.DriverSQLite || store.Path() != path {
		t.Fatalf("unexpected driver/path %s %s", store.Driver(), store.Path())
	}
	if _, err := store.Get(ctx, "primenest_agents"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Put(ctx, "primenest_agents", []byte(`[{"id":"a1"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "primenest_agents", []byte(`[{"id":"a2"}]`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	got, err := reopened.Get(ctx, "primenest_agents")
	if err != nil || string(got) != `[{"id":"a2"}]` {
		t.Fatalf("get after reopen = %q, %v", got, err)
	}
	rows, err := reopened.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected single row per key, got %d", rows)
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, err := New(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = store.Close() }()
	if ok, err := store.Delete(ctx, "absent"); err != nil || ok {
		t.Fatalf("delete absent = %v, %v", ok, err)
	}
	if err := store.Put(ctx, "k", nil); err != nil {
		t.Fatalf("put nil: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty payload, got %q %v", got, err)
	}
	if ok, err := store.Delete(ctx, "k"); err != nil || !ok {
		t.Fatalf("delete present = %v, %v", ok, err)
	}
}

func TestStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store, err := New(filepath.Join(t.TempDir(), "primenest.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer store.Close()
	// "_" must match literally, not as a LIKE wildcard.
	if err := store.Put(ctx, "primenest_sessionX1", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	for _, k := range []string{"primenest_sessions", "primenest_session_b", "primenest_users", "primenest_session_a"} {
		if err := store.Put(ctx, k, []byte(`{}`)); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	keys, err := store.Keys(ctx, "primenest_session_")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if strings.Join(keys, ",") != "primenest_session_a,primenest_session_b" {
		t.Fatalf("keys = %v", keys)
	}
}
