package core

import (
	"context"
	"log/slog"
	"time"

	"primenest/internal/validation"
	"primenest/pkg/domain"
)

// Default simulated round trips.
const (
	DefaultLatency       = 100 * time.Millisecond
	DefaultLogoutLatency = 50 * time.Millisecond
)

// Session is an authenticated user together with the token that identifies it.
type Session struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

// Service is the API facade over the Store: every call waits a simulated
// round trip, validates writes and manages sessions.
type Service struct {
	store         *Store
	sessions      *Sessions
	validator     *validation.Validator
	latency       time.Duration
	logoutLatency time.Duration
	metrics       MetricsRecorder
	tracer        Tracer
	logger        *slog.Logger
}

// ServiceOption configures optional Service dependencies.
type ServiceOption func(*Service)

// WithLatency overrides the simulated round trips. Zero disables the wait.
func WithLatency(latency, logout time.Duration) ServiceOption {
	return func(s *Service) {
		s.latency = latency
		s.logoutLatency = logout
	}
}

// WithMetricsRecorder sets the recorder observing every operation.
func WithMetricsRecorder(m MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer sets the tracer wrapping every operation.
func WithTracer(t Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) ServiceOption {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

// NewService constructs a service over store. A nil sessions registry keeps
// sessions in the store's durable area.
func NewService(store *Store, sessions *Sessions, opts ...ServiceOption) *Service {
	s := &Service{
		store:         store,
		sessions:      sessions,
		validator:     validation.New(),
		latency:       DefaultLatency,
		logoutLatency: DefaultLogoutLatency,
		metrics:       noopMetrics{},
		tracer:        noopTracer{},
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = NewSessions(store.Mirror().Store(), nil, s.logger)
	}
	return s
}

// Store returns the underlying repository.
func (s *Service) Store() *Store { return s.store }

// Sessions returns the session registry.
func (s *Service) Sessions() *Sessions { return s.sessions }

func (s *Service) run(ctx context.Context, op string, delay time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := wait(ctx, delay)
	if err == nil {
		err = fn(ctx)
	}
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
	if err != nil {
		s.logger.Debug("service operation failed", "operation", op, "error", err)
	}
	return err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ListProperties returns properties matching filter, newest first.
func (s *Service) ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	var out []domain.Property
	err := s.run(ctx, "properties.list", s.latency, func(context.Context) error {
		out = s.store.GetProperties(filter)
		return nil
	})
	return out, err
}

// Property returns one property or ErrNotFound.
func (s *Service) Property(ctx context.Context, id string) (domain.Property, error) {
	var out domain.Property
	err := s.run(ctx, "properties.get", s.latency, func(context.Context) error {
		p, ok := s.store.GetProperty(id)
		if !ok {
			return ErrNotFound{Entity: domain.EntityProperty, ID: id}
		}
		out = p
		return nil
	})
	return out, err
}

// ListAgents returns agents matching filter, most active first.
func (s *Service) ListAgents(ctx context.Context, filter domain.AgentFilter) ([]domain.Agent, error) {
	var out []domain.Agent
	err := s.run(ctx, "agents.list", s.latency, func(context.Context) error {
		out = s.store.GetAgents(filter)
		return nil
	})
	return out, err
}

// Agent returns one agent or ErrNotFound.
func (s *Service) Agent(ctx context.Context, id string) (domain.Agent, error) {
	var out domain.Agent
	err := s.run(ctx, "agents.get", s.latency, func(context.Context) error {
		a, ok := s.store.GetAgent(id)
		if !ok {
			return ErrNotFound{Entity: domain.EntityAgent, ID: id}
		}
		out = a
		return nil
	})
	return out, err
}

// CreateContact validates and stores a contact submission.
func (s *Service) CreateContact(ctx context.Context, in domain.NewContact) (domain.Contact, error) {
	var out domain.Contact
	err := s.run(ctx, "contacts.create", s.latency, func(ctx context.Context) error {
		if err := s.validator.Struct(in); err != nil {
			return err
		}
		out = s.store.CreateContact(ctx, in)
		return nil
	})
	return out, err
}

// ListContacts returns every contact, newest first.
func (s *Service) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	var out []domain.Contact
	err := s.run(ctx, "contacts.list", s.latency, func(context.Context) error {
		out = s.store.GetContacts()
		return nil
	})
	return out, err
}

// Signup registers a user and opens a session for it.
func (s *Service) Signup(ctx context.Context, in domain.NewUser) (Session, error) {
	var out Session
	err := s.run(ctx, "auth.signup", s.latency, func(ctx context.Context) error {
		if err := s.validator.Struct(in); err != nil {
			return err
		}
		if _, exists := s.store.GetUserByEmail(in.Email); exists {
			return ErrEmailExists
		}
		user := s.store.CreateUser(ctx, in).Public()
		token, err := s.sessions.Open(ctx, user)
		if err != nil {
			return err
		}
		out = Session{Token: token, User: user}
		s.logger.Info("user signed up", "user_id", user.ID)
		return nil
	})
	return out, err
}

// Login checks credentials by equality and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	var out Session
	err := s.run(ctx, "auth.login", s.latency, func(ctx context.Context) error {
		u, ok := s.store.GetUserByEmail(email)
		if !ok || u.Password != password {
			return ErrInvalidCredentials
		}
		user := u.Public()
		token, err := s.sessions.Open(ctx, user)
		if err != nil {
			return err
		}
		out = Session{Token: token, User: user}
		return nil
	})
	return out, err
}

// Logout ends the session for token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.run(ctx, "auth.logout", s.logoutLatency, func(ctx context.Context) error {
		return s.sessions.Close(ctx, token)
	})
}

// CurrentUser returns the user signed in under token.
func (s *Service) CurrentUser(ctx context.Context, token string) (domain.PublicUser, bool) {
	var (
		out domain.PublicUser
		ok  bool
	)
	_ = s.run(ctx, "auth.me", 0, func(ctx context.Context) error {
		out, ok = s.sessions.Lookup(ctx, token)
		if !ok {
			return ErrUnauthenticated
		}
		return nil
	})
	return out, ok
}
