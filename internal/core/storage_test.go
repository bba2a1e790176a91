package core

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"primenest/internal/config"
	"primenest/internal/kv"
	"primenest/pkg/domain"
)

func TestOpenStoreSQLiteReload(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Seed: true, Storage: config.Storage{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "state.db")}}

	store, area, err := OpenStore(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !store.Seeded() {
		t.Fatalf("expected seeding")
	}
	store.CreateContact(ctx, domain.NewContact{Name: "A", Email: "a@x.io", Message: "m"})
	if err := kv.Close(area); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, area2, err := OpenStore(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = kv.Close(area2) }()
	if reopened.Seeded() || len(reopened.GetContacts()) != 1 || len(reopened.GetProperties(domain.PropertyFilter{})) != 6 {
		t.Fatalf("state not restored")
	}
}

func TestOpenStoreSeedDisabled(t *testing.T) {
	store, _, err := OpenStore(context.Background(), &config.Config{Storage: config.Storage{Driver: "memory"}}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Seeded() || len(store.GetAgents(domain.AgentFilter{})) != 0 {
		t.Fatalf("seeding must be disabled")
	}
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, _, err := OpenStore(context.Background(), &config.Config{Storage: config.Storage{Driver: "floppy"}}, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCommittedWritesSurviveCancelledContext(t *testing.T) {
	cfg := &config.Config{Storage: config.Storage{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "state.db")}}
	store, area, err := OpenStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store.CreateContact(ctx, domain.NewContact{Name: "A", Email: "a@x.io", Message: "m"})
	if res := store.LastFlush(); !res.OK() {
		t.Fatalf("contact flush failed: %v", res.Err())
	}
	store.CreateUser(ctx, domain.NewUser{Email: "b@x.io", Password: "pw", FirstName: "B", LastName: "C", UserType: "buyer"})
	if res := store.LastFlush(); !res.OK() {
		t.Fatalf("user flush failed: %v", res.Err())
	}
	if err := kv.Close(area); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, area2, err := OpenStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = kv.Close(area2) }()
	if len(reopened.GetContacts()) != 1 {
		t.Fatalf("contact lost after reload")
	}
	if _, ok := reopened.GetUserByEmail("b@x.io"); !ok {
		t.Fatalf("user lost after reload")
	}
}
