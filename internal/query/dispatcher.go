package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"primenest/internal/config"
)

// ErrNoPassthrough is returned for unmodelled paths when no Fetcher is set.
var ErrNoPassthrough = errors.New("no passthrough configured")

// Dispatcher maps resource queries onto Source reads. Rules, first match wins:
//
//	/api/properties      → ListProperties(filter)
//	/api/properties/<id> → Property(id), id is the text after the last "/"
//	/api/agents          → ListAgents(filter)
//	/api/agents/<id>     → Agent(id)
//	anything else        → passthrough GET of Query.Key()
type Dispatcher struct {
	source  Source
	fetcher Fetcher
	on401   UnauthorizedBehavior
	logger  *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFetcher enables the passthrough fallback.
func WithFetcher(f Fetcher) Option {
	return func(d *Dispatcher) { d.fetcher = f }
}

// WithUnauthorized sets the default 401 behavior.
func WithUnauthorized(b UnauthorizedBehavior) Option {
	return func(d *Dispatcher) { d.on401 = b }
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher constructs a dispatcher over source.
func NewDispatcher(source Source, opts ...Option) *Dispatcher {
	d := &Dispatcher{source: source, on401: OnUnauthorizedThrow, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve resolves q with the dispatcher's default 401 behavior.
func (d *Dispatcher) Resolve(ctx context.Context, q Query) (any, error) {
	return d.ResolveWith(ctx, q, d.on401)
}

// ResolveWith resolves q, surfacing passthrough 401s per on401.
func (d *Dispatcher) ResolveWith(ctx context.Context, q Query, on401 UnauthorizedBehavior) (any, error) {
	switch {
	case q.Path == PathProperties:
		filter, err := PropertyFilterParam(q.Params)
		if err != nil {
			return nil, err
		}
		return d.source.ListProperties(ctx, filter)
	case strings.HasPrefix(q.Path, PathProperties+"/"):
		return d.source.Property(ctx, lastSegment(q.Path))
	case q.Path == PathAgents:
		filter, err := AgentFilterParam(q.Params)
		if err != nil {
			return nil, err
		}
		return d.source.ListAgents(ctx, filter)
	case strings.HasPrefix(q.Path, PathAgents+"/"):
		return d.source.Agent(ctx, lastSegment(q.Path))
	default:
		return d.passthrough(ctx, q, on401)
	}
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

func (d *Dispatcher) passthrough(ctx context.Context, q Query, on401 UnauthorizedBehavior) (any, error) {
	key := q.Key()
	if d.fetcher == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoPassthrough, key)
	}
	resp, err := d.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && on401 == OnUnauthorizedReturnNull {
		d.logger.Debug("passthrough unauthorized, returning null", "path", key)
		return nil, nil
	}
	if !resp.OK() {
		body := string(resp.Body)
		if body == "" {
			body = resp.Status
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: body}
	}
	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("passthrough %s: response is not JSON", key)
	}
	return json.RawMessage(resp.Body), nil
}

// FromConfig builds a dispatcher over source, enabling the passthrough fetcher
// when cfg.BaseURL is set.
func FromConfig(source Source, cfg config.Passthrough, logger *slog.Logger) (*Dispatcher, error) {
	on401, err := ParseUnauthorizedBehavior(cfg.On401)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithUnauthorized(on401), WithLogger(logger)}
	if cfg.BaseURL != "" {
		opts = append(opts, WithFetcher(NewHTTPFetcher(cfg.BaseURL, cfg.Timeout)))
	}
	return NewDispatcher(source, opts...), nil
}
