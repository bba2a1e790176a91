package core

import (
	"cmp"
	"slices"
	"strings"

	"primenest/pkg/domain"
)

// matchProperty reports whether p satisfies every non-empty predicate of f.
func matchProperty(p domain.Property, f domain.PropertyFilter) bool {
	if f.City != "" && !strings.Contains(strings.ToLower(p.City), strings.ToLower(f.City)) {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.PropertyType != "" && p.PropertyType != f.PropertyType {
		return false
	}
	return true
}

func filterProperties(in []domain.Property, f domain.PropertyFilter) []domain.Property {
	if f.IsZero() {
		return in
	}
	out := make([]domain.Property, 0, len(in))
	for _, p := range in {
		if matchProperty(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func filterAgents(in []domain.Agent, f domain.AgentFilter) []domain.Agent {
	if f.IsZero() {
		return in
	}
	out := make([]domain.Agent, 0, len(in))
	for _, a := range in {
		if a.Specialty != nil && *a.Specialty == f.Specialty {
			out = append(out, a)
		}
	}
	return out
}

// Ties keep insertion order.
func sortPropertiesNewestFirst(in []domain.Property) []domain.Property {
	slices.SortStableFunc(in, func(a, b domain.Property) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return in
}

func sortAgentsByListings(in []domain.Agent) []domain.Agent {
	slices.SortStableFunc(in, func(a, b domain.Agent) int {
		return cmp.Compare(b.ActiveListings, a.ActiveListings)
	})
	return in
}

func sortContactsNewestFirst(in []domain.Contact) []domain.Contact {
	slices.SortStableFunc(in, func(a, b domain.Contact) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return in
}
