package api

import (
	"context"
	"errors"
	"net/http"

	"primenest/internal/core"
	"primenest/internal/query"
	"primenest/internal/validation"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError pairs a status code with its response body.
type HTTPError struct {
	StatusCode int
	Body       ErrorResponse
}

func (e *HTTPError) Error() string { return e.Body.Error }

func newHTTPError(status int, message, code string) *HTTPError {
	return &HTTPError{StatusCode: status, Body: ErrorResponse{Error: message, Code: code}}
}

// MapError maps service, validation and dispatcher errors to HTTP errors.
func MapError(err error) *HTTPError {
	var (
		httpErr  *HTTPError
		notFound core.ErrNotFound
		verr     *validation.Error
		status   *query.StatusError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &notFound):
		return newHTTPError(http.StatusNotFound, notFound.Error(), "NOT_FOUND")
	case errors.As(err, &verr):
		e := newHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		e.Body.Fields = verr.Fields
		return e
	case errors.Is(err, core.ErrInvalidCredentials):
		return newHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, core.ErrUnauthenticated):
		return newHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, core.ErrEmailExists):
		return newHTTPError(http.StatusConflict, err.Error(), "EMAIL_EXISTS")
	case errors.As(err, &status):
		return newHTTPError(http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
	case errors.Is(err, query.ErrNoPassthrough):
		return newHTTPError(http.StatusNotFound, query.ErrNoPassthrough.Error(), "NOT_FOUND")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return newHTTPError(http.StatusServiceUnavailable, "request cancelled", "CANCELLED")
	default:
		return newHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
