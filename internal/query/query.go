// Package query resolves resource queries, a path plus optional parameters,
// against the marketplace service and falls back to a network request for
// paths the service does not model.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"primenest/pkg/domain"
)

// Resource paths served by the service.
const (
	PathProperties = "/api/properties"
	PathAgents     = "/api/agents"
)

// Query is a resource query: the data-fetching cache key.
type Query struct {
	Path   string
	Params []any
}

// New builds a Query.
func New(path string, params ...any) Query {
	return Query{Path: path, Params: params}
}

// Key joins the path and parameters with "/", the form used for passthrough requests.
func (q Query) Key() string {
	parts := make([]string, 0, len(q.Params)+1)
	parts = append(parts, q.Path)
	for _, p := range q.Params {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, "/")
}

// UnauthorizedBehavior selects how a 401 passthrough response is surfaced.
type UnauthorizedBehavior string

const (
	// OnUnauthorizedThrow surfaces 401 as a *StatusError.
	OnUnauthorizedThrow UnauthorizedBehavior = "throw"
	// OnUnauthorizedReturnNull resolves 401 to a nil value.
	OnUnauthorizedReturnNull UnauthorizedBehavior = "return-null"
)

// ParseUnauthorizedBehavior maps configuration text to a behavior.
func ParseUnauthorizedBehavior(s string) (UnauthorizedBehavior, error) {
	switch UnauthorizedBehavior(strings.ToLower(strings.TrimSpace(s))) {
	case "", OnUnauthorizedThrow:
		return OnUnauthorizedThrow, nil
	case OnUnauthorizedReturnNull, "returnnull":
		return OnUnauthorizedReturnNull, nil
	default:
		return "", fmt.Errorf("unknown unauthorized behavior %q", s)
	}
}

// StatusError is a non-2xx passthrough response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Body)
}

// PropertyFilterParam extracts the property filter from the first parameter.
// It accepts a domain.PropertyFilter, a pointer to one, a map of query values,
// a decoded JSON object, raw JSON or nothing.
func PropertyFilterParam(params []any) (domain.PropertyFilter, error) {
	if len(params) == 0 {
		return domain.PropertyFilter{}, nil
	}
	switch p := params[0].(type) {
	case nil:
		return domain.PropertyFilter{}, nil
	case domain.PropertyFilter:
		return p, nil
	case *domain.PropertyFilter:
		if p == nil {
			return domain.PropertyFilter{}, nil
		}
		return *p, nil
	case map[string]string:
		return propertyFilterFromMap(p), nil
	case map[string]any:
		m, err := stringValues(p, "city", "status", "propertyType")
		if err != nil {
			return domain.PropertyFilter{}, fmt.Errorf("property filter: %w", err)
		}
		return propertyFilterFromMap(m), nil
	case json.RawMessage:
		var f domain.PropertyFilter
		if err := json.Unmarshal(p, &f); err != nil {
			return domain.PropertyFilter{}, fmt.Errorf("decode property filter: %w", err)
		}
		return f, nil
	default:
		return domain.PropertyFilter{}, fmt.Errorf("unsupported property filter %T", params[0])
	}
}

// AgentFilterParam extracts the agent filter from the first parameter.
func AgentFilterParam(params []any) (domain.AgentFilter, error) {
	if len(params) == 0 {
		return domain.AgentFilter{}, nil
	}
	switch p := params[0].(type) {
	case nil:
		return domain.AgentFilter{}, nil
	case domain.AgentFilter:
		return p, nil
	case *domain.AgentFilter:
		if p == nil {
			return domain.AgentFilter{}, nil
		}
		return *p, nil
	case map[string]string:
		return domain.AgentFilter{Specialty: p["specialty"]}, nil
	case map[string]any:
		m, err := stringValues(p, "specialty")
		if err != nil {
			return domain.AgentFilter{}, fmt.Errorf("agent filter: %w", err)
		}
		return domain.AgentFilter{Specialty: m["specialty"]}, nil
	case json.RawMessage:
		var f domain.AgentFilter
		if err := json.Unmarshal(p, &f); err != nil {
			return domain.AgentFilter{}, fmt.Errorf("decode agent filter: %w", err)
		}
		return f, nil
	default:
		return domain.AgentFilter{}, fmt.Errorf("unsupported agent filter %T", params[0])
	}
}

func propertyFilterFromMap(m map[string]string) domain.PropertyFilter {
	return domain.PropertyFilter{
		City:         m["city"],
		Status:       domain.PropertyStatus(m["status"]),
		PropertyType: domain.PropertyType(m["propertyType"]),
	}
}

// stringValues picks keys out of a decoded JSON object. Absent and null
// values read as empty; any other non-string value is an error.
func stringValues(m map[string]any, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
		case string:
			out[k] = v
		default:
			return nil, fmt.Errorf("%s must be a string, got %T", k, v)
		}
	}
	return out, nil
}

// Source is the read surface the dispatcher resolves against.
type Source interface {
	ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	Property(ctx context.Context, id string) (domain.Property, error)
	ListAgents(ctx context.Context, filter domain.AgentFilter) ([]domain.Agent, error)
	Agent(ctx context.Context, id string) (domain.Agent, error)
}
