package redis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"primenest/internal/kv/core"
)

func newStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	store, err := New(context.Background(), Config{Addr: srv.Addr(), Prefix: prefix})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, srv
}

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t, "")
	if store.Driver() != core.DriverRedis {
		t.Fatalf("driver = %s", store.Driver())
	}
	if _, err := store.Get(ctx, "primenest_properties"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Put(ctx, "primenest_properties", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "primenest_properties")
	if err != nil || string(got) != `[]` {
		t.Fatalf("get = %q, %v", got, err)
	}
	ok, err := store.Delete(ctx, "primenest_properties")
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	ok, err = store.Delete(ctx, "primenest_properties")
	if err != nil || ok {
		t.Fatalf("second delete = %v, %v", ok, err)
	}
}

func TestStore_Prefix(t *testing.T) {
	ctx := context.Background()
	store, srv := newStore(t, "tenant-a:")
	if err := store.Put(ctx, "primenest_users", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !srv.Exists("tenant-a:primenest_users") {
		t.Fatalf("expected prefixed key, keys=%v", srv.Keys())
	}
	if srv.Exists("primenest_users") {
		t.Fatalf("unprefixed key must not be written")
	}
}

func TestNewUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()
	if _, err := New(context.Background(), Config{Addr: addr}); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store, srv := newStore(t, "tenant-a:")
	srv.Set("tenant-b:primenest_session_z", "{}")
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
