// Package mirror serializes the in-memory record collections to the durable
// key-value area and restores them on startup. Every durable failure is
// absorbed here: loads degrade to "no data" for the affected collection and
// saves report failures through FlushResult instead of returning an error.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"primenest/internal/kv"
	"primenest/pkg/domain"
)

// Durable keys, one JSON array per record kind.
const (
	KeyUsers      = "primenest_users"
	KeyProperties = "primenest_properties"
	KeyAgents     = "primenest_agents"
	KeyContacts   = "primenest_contacts"
)

// Keys returns the durable keys in flush order.
func Keys() []string {
	return []string{KeyUsers, KeyProperties, KeyAgents, KeyContacts}
}

// KeyFor maps a record kind to its durable key.
func KeyFor(entity domain.EntityType) (string, bool) {
	switch entity {
	case domain.EntityUser:
		return KeyUsers, true
	case domain.EntityProperty:
		return KeyProperties, true
	case domain.EntityAgent:
		return KeyAgents, true
	case domain.EntityContact:
		return KeyContacts, true
	default:
		return "", false
	}
}

// Snapshot is the full record set of every kind.
type Snapshot struct {
	Users      []domain.User
	Properties []domain.Property
	Agents     []domain.Agent
	Contacts   []domain.Contact
}

// LoadReport describes what Load restored. Missing keys are not failures.
type LoadReport struct {
	Loaded  []string
	Missing []string
	Failed  map[string]error
}

// OK reports whether every key was either loaded or absent.
func (r LoadReport) OK() bool { return len(r.Failed) == 0 }

// FlushResult is the outcome of Save.
type FlushResult struct {
	Written []string
	Failed  map[string]error
}

// OK reports whether every collection reached the durable area.
func (r FlushResult) OK() bool { return len(r.Failed) == 0 }

// Err joins the per-key failures, or returns nil.
func (r FlushResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.Failed))
	for k := range r.Failed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	errs := make([]error, 0, len(keys))
	for _, k := range keys {
		errs = append(errs, fmt.Errorf("%s: %w", k, r.Failed[k]))
	}
	return errors.Join(errs...)
}

func (r *FlushResult) fail(key string, err error) {
	if r.Failed == nil {
		r.Failed = make(map[string]error)
	}
	r.Failed[key] = err
}

// Mirror reads and writes snapshots through a kv.Store.
type Mirror struct {
	store  kv.Store
	logger *slog.Logger
}

// New constructs a mirror. A nil logger uses slog.Default().
func New(store kv.Store, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{store: store, logger: logger}
}

// Store exposes the underlying durable area.
func (m *Mirror) Store() kv.Store { return m.store }

// Load restores every collection independently. A missing or corrupt entry
// leaves that collection empty without affecting the others.
func (m *Mirror) Load(ctx context.Context) (Snapshot, LoadReport) {
	var snap Snapshot
	var report LoadReport
	load := func(key string, dst any) {
		raw, err := m.store.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			report.Missing = append(report.Missing, key)
			return
		}
		if err == nil {
			err = json.Unmarshal(raw, dst)
		}
		if err != nil {
			if report.Failed == nil {
				report.Failed = make(map[string]error)
			}
			report.Failed[key] = err
			m.logger.Warn("mirror load failed", "key", key, "error", err)
			return
		}
		report.Loaded = append(report.Loaded, key)
	}

	var users []domain.User
	load(KeyUsers, &users)
	var properties []domain.Property
	load(KeyProperties, &properties)
	var agents []domain.Agent
	load(KeyAgents, &agents)
	var contacts []domain.Contact
	load(KeyContacts, &contacts)

	// A failed decode may leave a partially filled slice behind.
	if _, bad := report.Failed[KeyUsers]; !bad {
		snap.Users = users
	}
	if _, bad := report.Failed[KeyProperties]; !bad {
		snap.Properties = properties
	}
	if _, bad := report.Failed[KeyAgents]; !bad {
		snap.Agents = agents
	}
	if _, bad := report.Failed[KeyContacts]; !bad {
		snap.Contacts = contacts
	}
	return snap, report
}

// Save writes every collection of snap as a whole. Nil slices are written as
// empty arrays.
func (m *Mirror) Save(ctx context.Context, snap Snapshot) FlushResult {
	var res FlushResult
	m.put(ctx, &res, KeyUsers, nonNil(snap.Users))
	m.put(ctx, &res, KeyProperties, nonNil(snap.Properties))
	m.put(ctx, &res, KeyAgents, nonNil(snap.Agents))
	m.put(ctx, &res, KeyContacts, nonNil(snap.Contacts))
	return res
}

func (m *Mirror) put(ctx context.Context, res *FlushResult, key string, v any) {
	payload, err := json.Marshal(v)
	if err == nil {
		err = m.store.Put(ctx, key, payload)
	}
	if err != nil {
		res.fail(key, err)
		m.logger.Warn("mirror save failed", "key", key, "error", err)
		return
	}
	res.Written = append(res.Written, key)
}

// Clear removes the four collections from the durable area.
func (m *Mirror) Clear(ctx context.Context) error {
	var errs []string
	for _, key := range Keys() {
		if _, err := m.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("clear mirror: %s", strings.Join(errs, "; "))
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
