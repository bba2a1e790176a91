package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"primenest/internal/core"
	"primenest/internal/infra/kv/memory"
	"primenest/internal/mirror"
	"primenest/pkg/domain"
)

func TestClearArea(t *testing.T) {
	ctx := context.Background()
	area := memory.New()
	store := core.NewStore(ctx, core.StoreOptions{Mirror: mirror.New(area, nil)})
	sessions := core.NewSessions(area, nil, nil)
	for i := 0; i < 2; i++ {
		if _, err := sessions.Open(ctx, domain.PublicUser{ID: "u"}); err != nil {
			t.Fatalf("open session: %v", err)
		}
	}
	if !store.Seeded() || area.Len() != 4+2+1 {
		t.Fatalf("expected seeded collections plus sessions, got %d entries", area.Len())
	}

	var out bytes.Buffer
	if err := clearArea(ctx, area, nil, &out); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if area.Len() != 0 {
		t.Fatalf("expected empty area, got %d entries", area.Len())
	}
	if !strings.Contains(out.String(), "cleared 4 collections and 2 sessions from memory storage") {
		t.Fatalf("unexpected output %q", out.String())
	}

	reopened := core.NewStore(ctx, core.StoreOptions{Mirror: mirror.New(area, nil)})
	if !reopened.Seeded() {
		t.Fatalf("store must seed again after a clear")
	}
}
