package core

import (
	"errors"
	"fmt"

	"primenest/pkg/domain"
)

// ErrNotFound indicates the requested record does not exist. The message names
// only the entity type; ID is carried for logs and callers that unwrap it.
type ErrNotFound struct {
	Entity domain.EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

var (
	// ErrEmailExists is returned by Signup when the email is already registered.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned by Login on unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when a session token is missing or unknown.
	ErrUnauthenticated = errors.New("not authenticated")
)
