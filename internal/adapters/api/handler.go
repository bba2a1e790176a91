// Package api exposes the marketplace over HTTP with echo. List and detail
// reads go through the query dispatcher; writes and auth call the service.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"primenest/internal/chat"
	"primenest/internal/core"
	"primenest/internal/query"
	"primenest/internal/validation"
	"primenest/pkg/domain"
)

// Resolver resolves resource queries.
type Resolver interface {
	Resolve(ctx context.Context, q query.Query) (any, error)
}

// Handler serves the HTTP surface.
type Handler struct {
	Queries Resolver
	Service *core.Service
	Chat    *chat.Responder
	// Metrics, when set, is mounted on /metrics.
	Metrics http.Handler
	Logger  *slog.Logger
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChatRequest is the chat payload.
type ChatRequest struct {
	Message string `json:"message" validate:"required,notblank"`
}

// ChatResponse carries the canned reply.
type ChatResponse struct {
	Reply     string `json:"reply"`
	AgentName string `json:"agentName"`
}

// NewEcho builds an echo instance with middleware and routes registered.
func NewEcho(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = h.errorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			h.logger().Info("request", attrs...)
			return nil
		},
	}))
	h.Register(e)
	return e
}

// Register wires the routes onto e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if h.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.Metrics))
	}

	api := e.Group("/api")
	api.GET("/properties", h.listProperties)
	api.GET("/properties/:id", h.getProperty)
	api.GET("/agents", h.listAgents)
	api.GET("/agents/:id", h.getAgent)
	api.GET("/contacts", h.listContacts)
	api.POST("/contacts", h.createContact)
	api.POST("/auth/signup", h.signup)
	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout)
	api.GET("/auth/me", h.me)
	api.POST("/chat", h.chat)
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var mapped *HTTPError
	if he, ok := err.(*echo.HTTPError); ok {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		mapped = newHTTPError(he.Code, msg, strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_")))
	} else {
		mapped = MapError(err)
	}
	if mapped.StatusCode >= http.StatusInternalServerError {
		h.logger().Error("request failed", "path", c.Path(), "error", err)
	}
	_ = c.JSON(mapped.StatusCode, mapped.Body)
}

func (h *Handler) resolve(c echo.Context, q query.Query) error {
	out, err := h.Queries.Resolve(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) listProperties(c echo.Context) error {
	var filter domain.PropertyFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &filter); err != nil {
		return newHTTPError(http.StatusBadRequest, "invalid query parameters", "INVALID_REQUEST")
	}
	return h.resolve(c, query.New(query.PathProperties, filter))
}

func (h *Handler) getProperty(c echo.Context) error {
	return h.resolve(c, query.New(query.PathProperties+"/"+c.Param("id")))
}

func (h *Handler) listAgents(c echo.Context) error {
	var filter domain.AgentFilter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &filter); err != nil {
		return newHTTPError(http.StatusBadRequest, "invalid query parameters", "INVALID_REQUEST")
	}
	return h.resolve(c, query.New(query.PathAgents, filter))
}

func (h *Handler) getAgent(c echo.Context) error {
	return h.resolve(c, query.New(query.PathAgents+"/"+c.Param("id")))
}

func (h *Handler) listContacts(c echo.Context) error {
	contacts, err := h.Service.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contacts)
}

func (h *Handler) createContact(c echo.Context) error {
	var in domain.NewContact
	if err := c.Bind(&in); err != nil {
		return newHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	contact, err := h.Service.CreateContact(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contact)
}

func (h *Handler) signup(c echo.Context) error {
	var in domain.NewUser
	if err := c.Bind(&in); err != nil {
		return newHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	sess, err := h.Service.Signup(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return newHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sess, err := h.Service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) logout(c echo.Context) error {
	if err := h.Service.Logout(c.Request().Context(), bearerToken(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) me(c echo.Context) error {
	user, ok := h.Service.CurrentUser(c.Request().Context(), bearerToken(c))
	if !ok {
		return core.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return newHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	responder := h.Chat
	if responder == nil {
		responder = chat.NewResponder("")
	}
	return c.JSON(http.StatusOK, ChatResponse{Reply: responder.Reply(req.Message), AgentName: responder.AgentName()})
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}
