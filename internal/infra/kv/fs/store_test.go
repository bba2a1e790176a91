package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"primenest/internal/kv/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("driver = %s", store.Driver())
	}
	if _, err := store.Get(ctx, "primenest_users"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Put(ctx, "primenest_users", []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "primenest_users.json")); err != nil {
		t.Fatalf("expected one file per key: %v", err)
	}
	if err := store.Put(ctx, "primenest_users", []byte(`[{"id":"u1"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := store.Get(ctx, "primenest_users")
	if err != nil || string(got) != `[{"id":"u1"}]` {
		t.Fatalf("get = %q, %v", got, err)
	}
	ok, err := store.Delete(ctx, "primenest_users")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "primenest_users")
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
}

func TestStore_RejectsPathLikeKeys(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"../escape", "/abs", "a/b", "  ", "", ".hidden"} {
		if err := store.Put(ctx, key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("put %q: expected ErrInvalidKey, got %v", key, err)
		}
		if _, err := store.Get(ctx, key); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("get %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for i := 0; i < 3; i++ {
		if err := store.Put(ctx, "k", []byte("v")); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	entries, err := os.ReadDir(store.Root())
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "k.json" {
		t.Fatalf("unexpected directory contents %v", entries)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "k.json")); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestNewDefaultsRoot(t *testing.T) {
	chdir(t, t.TempDir())
	store, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if store.Root() != DefaultRoot {
		t.Fatalf("root = %s", store.Root())
	}
}

func TestStore_KeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if err := os.WriteFile(filepath.Join(store.Root(), ".primenest_session_c.json.123"), []byte(`{}`), 0o600); err != nil {
		t.Fatalf("write temp: %v", err)
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

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
