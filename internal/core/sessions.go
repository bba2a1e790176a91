package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"primenest/internal/idgen"
	"primenest/internal/kv"
	"primenest/pkg/domain"
)

const (
	sessionKeyPrefix = "primenest_session_"
	sessionIndexKey  = "primenest_sessions"
)

// SessionKey returns the durable key holding the session for token.
func SessionKey(token string) string { return sessionKeyPrefix + token }

// Sessions keeps the signed-in user, minus password, as one durable entry per
// token. An index entry lists the issued tokens so Clear can remove them.
type Sessions struct {
	mu       sync.Mutex
	store    kv.Store
	newToken idgen.Generator
	logger   *slog.Logger
}

// NewSessions constructs a session registry. Nil tokens default to idgen.UUID.
func NewSessions(store kv.Store, tokens idgen.Generator, logger *slog.Logger) *Sessions {
	if tokens == nil {
		tokens = idgen.UUID
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{store: store, newToken: tokens, logger: logger}
}

// Open issues a token for user. The entry is written even if ctx is cancelled
// meanwhile, since the caller's account change has already been committed.
func (s *Sessions) Open(ctx context.Context, user domain.PublicUser) (string, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	ctx = context.WithoutCancel(ctx)
	token := s.newToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Put(ctx, SessionKey(token), payload); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	tokens := s.indexOrRebuildLocked(ctx)
	if !slices.Contains(tokens, token) {
		tokens = append(tokens, token)
	}
	if err := s.writeIndexLocked(ctx, tokens); err != nil {
		s.logger.Warn("session index not updated", "error", err)
	}
	return token, nil
}

// Lookup returns the user for token. Unknown, empty or corrupt entries report false.
func (s *Sessions) Lookup(ctx context.Context, token string) (domain.PublicUser, bool) {
	if token == "" {
		return domain.PublicUser{}, false
	}
	raw, err := s.store.Get(ctx, SessionKey(token))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("session read failed", "error", err)
		}
		return domain.PublicUser{}, false
	}
	var user domain.PublicUser
	if err := json.Unmarshal(raw, &user); err != nil {
		s.logger.Warn("session entry corrupt", "error", err)
		return domain.PublicUser{}, false
	}
	return user, true
}

// Close removes the session for token. Unknown tokens are not an error.
func (s *Sessions) Close(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.Delete(ctx, SessionKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	tokens, err := s.indexLocked(ctx)
	if err != nil {
		return nil
	}
	kept := tokens[:0]
	for _, t := range tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	if err := s.writeIndexLocked(ctx, kept); err != nil {
		s.logger.Warn("session index not updated", "error", err)
	}
	return nil
}

// Clear removes every indexed session and the index itself, returning how
// many session entries existed.
func (s *Sessions) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := s.indexOrRebuildLocked(ctx)
	removed := 0
	var errs []error
	for _, t := range tokens {
		ok, err := s.store.Delete(ctx, SessionKey(t))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			removed++
		}
	}
	if _, err := s.store.Delete(ctx, sessionIndexKey); err != nil {
		errs = append(errs, err)
	}
	return removed, errors.Join(errs...)
}

// indexOrRebuildLocked returns the indexed tokens. An unreadable index is
// rebuilt from the session entries when the store can list keys; otherwise
// sessions issued before the damage are no longer tracked.
func (s *Sessions) indexOrRebuildLocked(ctx context.Context) []string {
	tokens, err := s.indexLocked(ctx)
	if err == nil {
		return tokens
	}
	lister, ok := s.store.(kv.Lister)
	if !ok {
		s.logger.Warn("session index unreadable, earlier sessions untracked",
			"driver", s.store.Driver(), "error", err)
		return nil
	}
	keys, lerr := lister.Keys(ctx, sessionKeyPrefix)
	if lerr != nil {
		s.logger.Warn("session index unreadable, rebuild failed", "error", err, "list_error", lerr)
		return nil
	}
	tokens = make([]string, 0, len(keys))
	for _, k := range keys {
		tokens = append(tokens, strings.TrimPrefix(k, sessionKeyPrefix))
	}
	s.logger.Warn("session index unreadable, rebuilt from entries", "sessions", len(tokens), "error", err)
	return tokens
}

func (s *Sessions) indexLocked(ctx context.Context) ([]string, error) {
	raw, err := s.store.Get(ctx, sessionIndexKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tokens []string
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *Sessions) writeIndexLocked(ctx context.Context, tokens []string) error {
	if tokens == nil {
		tokens = []string{}
	}
	payload, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, sessionIndexKey, payload)
}
