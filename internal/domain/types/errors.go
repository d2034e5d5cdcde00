package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a logged-in identity.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrAlreadyAuthenticated is returned by login while another identity is active.
	ErrAlreadyAuthenticated = errors.New("already signed in; log out first")
	// ErrRoleImmutable is returned when an update tries to switch roles.
	ErrRoleImmutable = errors.New("role cannot change without logging out")
	// ErrInvalidJoinCode is returned for QR payloads that do not carry a session id.
	ErrInvalidJoinCode = errors.New("invalid code")
	// ErrSessionNotFound is returned when the vault has no session with the given id.
	ErrSessionNotFound = errors.New("session not found")
)

// ValidationError reports a missing or malformed input caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError wraps a failure to reach the backend at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response or an undecodable body.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (status %d)", e.Status)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}

// PermissionError reports a missing device capability (camera, location, photos).
type PermissionError struct {
	Resource string
	Hint     string
}

func (e *PermissionError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s access is required", e.Resource)
	}
	return fmt.Sprintf("%s access is required: %s", e.Resource, e.Hint)
}
