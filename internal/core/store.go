package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"primenest/internal/idgen"
	"primenest/internal/infra/kv/memory"
	"primenest/internal/mirror"
	"primenest/internal/seed"
	"primenest/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.Repository = (*Store)(nil)

// collection keeps records by ID together with their insertion order.
type collection[T any] struct {
	order []string
	byID  map[string]T
}

func newCollection[T any]() collection[T] {
	return collection[T]{byID: make(map[string]T)}
}

func (c *collection[T]) put(id string, v T) {
	if _, exists := c.byID[id]; !exists {
		c.order = append(c.order, id)
	}
	c.byID[id] = v
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.byID[id]
	return v, ok
}

func (c *collection[T]) len() int { return len(c.byID) }

// values returns the records in insertion order, copied with clone.
func (c *collection[T]) values(clone func(T) T) []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.byID[id]))
	}
	return out
}

// StoreOptions configures NewStore. Zero values select the defaults.
type StoreOptions struct {
	// Mirror persists the record set; nil keeps everything in process memory.
	Mirror *mirror.Mirror
	// IDs assigns record identifiers; defaults to idgen.UUID.
	IDs idgen.Generator
	// Now stamps createdAt; defaults to the current UTC time.
	Now func() time.Time
	// Seed overrides the demo dataset; nil uses seed.Default().
	Seed *seed.Dataset
	// SkipSeed disables seeding entirely.
	SkipSeed bool
	Logger   *slog.Logger
}

// Store is the in-memory repository of users, properties, agents and
// contacts. Every create flushes the full record set through the mirror.
type Store struct {
	mu         sync.RWMutex
	users      collection[domain.User]
	properties collection[domain.Property]
	agents     collection[domain.Agent]
	contacts   collection[domain.Contact]

	mirror *mirror.Mirror
	newID  idgen.Generator
	nowFn  func() time.Time
	logger *slog.Logger

	loadReport mirror.LoadReport
	lastFlush  mirror.FlushResult
	seeded     bool
}

// NewStore restores the durable record set, seeds the demo dataset when both
// agents and properties are empty, and returns the ready store. Durable
// failures are absorbed; inspect LoadReport and LastFlush to observe them.
func NewStore(ctx context.Context, opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Mirror
	if m == nil {
		m = mirror.New(memory.New(), logger)
	}
	ids := opts.IDs
	if ids == nil {
		ids = idgen.UUID
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	s := &Store{
		users:      newCollection[domain.User](),
		properties: newCollection[domain.Property](),
		agents:     newCollection[domain.Agent](),
		contacts:   newCollection[domain.Contact](),
		mirror:     m,
		newID:      ids,
		nowFn:      now,
		logger:     logger,
	}

	snap, report := m.Load(ctx)
	s.loadReport = report
	for _, u := range snap.Users {
		s.users.put(u.ID, u.Clone())
	}
	for _, p := range snap.Properties {
		s.properties.put(p.ID, p.Clone())
	}
	for _, a := range snap.Agents {
		s.agents.put(a.ID, a.Clone())
	}
	for _, c := range snap.Contacts {
		s.contacts.put(c.ID, c.Clone())
	}

	if !opts.SkipSeed {
		ds := opts.Seed
		if ds == nil {
			def := seed.Default()
			ds = &def
		}
		s.seed(ctx, *ds)
	}
	return s
}

// seed inserts the dataset only when agents and properties are both empty,
// then flushes once.
func (s *Store) seed(ctx context.Context, ds seed.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agents.len() > 0 || s.properties.len() > 0 {
		return
	}
	agentIDs := make(map[string]string, len(ds.Agents))
	for _, a := range ds.Agents {
		created := s.insertAgent(a.Input())
		agentIDs[a.Key] = created.ID
	}
	for _, p := range ds.Properties {
		s.insertProperty(p.Input(agentIDs[p.Agent]))
	}
	s.seeded = true
	s.flushLocked(ctx)
	s.logger.Info("store seeded", "agents", len(ds.Agents), "properties", len(ds.Properties))
}

// Seeded reports whether this instance inserted the demo dataset.
func (s *Store) Seeded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seeded
}

// LoadReport returns the outcome of the startup restore.
func (s *Store) LoadReport() mirror.LoadReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadReport
}

// LastFlush returns the outcome of the most recent flush.
func (s *Store) LastFlush() mirror.FlushResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFlush
}

// Flush writes the full record set and returns the outcome.
func (s *Store) Flush(ctx context.Context) mirror.FlushResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

// flushLocked ignores cancellation of ctx: a committed write must reach the
// durable area even when the caller has gone away.
func (s *Store) flushLocked(ctx context.Context) mirror.FlushResult {
	res := s.mirror.Save(context.WithoutCancel(ctx), s.snapshotLocked())
	s.lastFlush = res
	return res
}

func (s *Store) snapshotLocked() mirror.Snapshot {
	return mirror.Snapshot{
		Users:      s.users.values(domain.User.Clone),
		Properties: s.properties.values(domain.Property.Clone),
		Agents:     s.agents.values(domain.Agent.Clone),
		Contacts:   s.contacts.values(domain.Contact.Clone),
	}
}

// Mirror returns the persistence mirror backing the store.
func (s *Store) Mirror() *mirror.Mirror { return s.mirror }

// GetUser returns the user with id.
func (s *Store) GetUser(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users.get(id)
	if !ok {
		return domain.User{}, false
	}
	return u.Clone(), true
}

// GetUserByEmail returns the first user, in insertion order, whose email
// matches exactly.
func (s *Store) GetUserByEmail(email string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.users.order {
		if u := s.users.byID[id]; u.Email == email {
			return u.Clone(), true
		}
	}
	return domain.User{}, false
}

// CreateUser stores a new user. Phone stays nil when omitted.
func (s *Store) CreateUser(ctx context.Context, in domain.NewUser) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.User{
		ID:        s.newID(),
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     clonePtr(in.Phone),
		UserType:  in.UserType,
		CreatedAt: s.nowFn(),
	}
	s.users.put(u.ID, u)
	s.flushLocked(ctx)
	return u.Clone()
}

// GetProperties returns the properties matching every predicate in filter,
// newest first.
func (s *Store) GetProperties(filter domain.PropertyFilter) []domain.Property {
	s.mu.RLock()
	all := s.properties.values(domain.Property.Clone)
	s.mu.RUnlock()
	return sortPropertiesNewestFirst(filterProperties(all, filter))
}

// GetProperty returns the property with id.
func (s *Store) GetProperty(id string) (domain.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties.get(id)
	if !ok {
		return domain.Property{}, false
	}
	return p.Clone(), true
}

// CreateProperty stores a new property. Featured defaults to false.
func (s *Store) CreateProperty(ctx context.Context, in domain.NewProperty) domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.insertProperty(in)
	s.flushLocked(ctx)
	return p
}

func (s *Store) insertProperty(in domain.NewProperty) domain.Property {
	featured := false
	if in.Featured != nil {
		featured = *in.Featured
	}
	p := domain.Property{
		ID:           s.newID(),
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		Location:     in.Location,
		City:         in.City,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		Area:         in.Area,
		Status:       in.Status,
		PropertyType: in.PropertyType,
		Featured:     featured,
		Images:       append([]string(nil), in.Images...),
		AgentID:      in.AgentID,
		CreatedAt:    s.nowFn(),
	}
	s.properties.put(p.ID, p)
	return p.Clone()
}

// GetAgents returns the agents matching filter, most active listings first.
func (s *Store) GetAgents(filter domain.AgentFilter) []domain.Agent {
	s.mu.RLock()
	all := s.agents.values(domain.Agent.Clone)
	s.mu.RUnlock()
	return sortAgentsByListings(filterAgents(all, filter))
}

// GetAgent returns the agent with id.
func (s *Store) GetAgent(id string) (domain.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents.get(id)
	if !ok {
		return domain.Agent{}, false
	}
	return a.Clone(), true
}

// CreateAgent stores a new agent. ActiveListings defaults to 0 and Specialty to nil.
func (s *Store) CreateAgent(ctx context.Context, in domain.NewAgent) domain.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.insertAgent(in)
	s.flushLocked(ctx)
	return a
}

func (s *Store) insertAgent(in domain.NewAgent) domain.Agent {
	listings := 0
	if in.ActiveListings != nil {
		listings = *in.ActiveListings
	}
	a := domain.Agent{
		ID:             s.newID(),
		Name:           in.Name,
		Title:          in.Title,
		Email:          in.Email,
		Phone:          in.Phone,
		Photo:          in.Photo,
		ActiveListings: listings,
		Experience:     in.Experience,
		Specialty:      clonePtr(in.Specialty),
		CreatedAt:      s.nowFn(),
	}
	s.agents.put(a.ID, a)
	return a.Clone()
}

// CreateContact stores a contact submission. Phone stays nil when omitted.
func (s *Store) CreateContact(ctx context.Context, in domain.NewContact) domain.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Contact{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     clonePtr(in.Phone),
		Message:   in.Message,
		CreatedAt: s.nowFn(),
	}
	s.contacts.put(c.ID, c)
	s.flushLocked(ctx)
	return c.Clone()
}

// GetContacts returns every contact, newest first.
func (s *Store) GetContacts() []domain.Contact {
	s.mu.RLock()
	all := s.contacts.values(domain.Contact.Clone)
	s.mu.RUnlock()
	return sortContactsNewestFirst(all)
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
