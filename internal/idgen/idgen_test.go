package idgen

import (
	"regexp"
	"testing"
)

var canonicalV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestUUIDLayout(t *testing.T) {
	for i := 0; i < 200; i++ {
		id := UUID()
		if len(id) != 36 {
			t.Fatalf("expected 36 chars, got %d (%s)", len(id), id)
		}
		for _, pos := range []int{8, 13, 18, 23} {
			if id[pos] != '-' {
				t.Fatalf("expected dash at %d in %s", pos, id)
			}
		}
		if !canonicalV4.MatchString(id) {
			t.Fatalf("id %s is not a canonical v4 uuid", id)
		}
	}
}

func TestUUIDUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := UUID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s after %d draws", id, i)
		}
		seen[id] = struct{}{}
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}
}

func TestSequence(t *testing.T) {
	next := Sequence("prop")
	if got := next(); got != "prop-1" {
		t.Fatalf("first id = %s", got)
	}
	if got := next(); got != "prop-2" {
		t.Fatalf("second id = %s", got)
	}
	other := Sequence("prop")
	if got := other(); got != "prop-1" {
		t.Fatalf("independent sequences must not share state, got %s", got)
	}
}
