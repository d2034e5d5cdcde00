package session

import (
	"fmt"

	"aura/internal/domain"
)

// Status is the tag of a State.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is an immutable snapshot of the session.
//
// Fields are unexported so an authenticated state can only be built by
// Authenticated, which refuses identities without a valid role.
type State struct {
	status   Status
	identity domain.Identity
}

// Uninitialized is the state before Initialize has run.
func Uninitialized() State { return State{status: StatusUninitialized} }

// Loading is the state while the persisted identity is being read.
func Loading() State { return State{status: StatusLoading} }

// Unauthenticated is the state with no identity.
func Unauthenticated() State { return State{status: StatusUnauthenticated} }

// Authenticated returns the state for id. It fails if id has no valid role.
func Authenticated(id domain.Identity) (State, error) {
	if !id.Role.Valid() {
		return State{}, &domain.ValidationError{Field: "role", Message: "must be patient or doctor"}
	}
	return State{status: StatusAuthenticated, identity: id}, nil
}

func (s State) Status() Status { return s.status }

// Settled reports whether loading has finished.
func (s State) Settled() bool {
	return s.status == StatusAuthenticated || s.status == StatusUnauthenticated
}

// Identity returns the signed-in identity, if any.
func (s State) Identity() (domain.Identity, bool) {
	if s.status != StatusAuthenticated {
		return domain.Identity{}, false
	}
	return s.identity, true
}

// Role returns the signed-in role, if any.
func (s State) Role() (domain.Role, bool) {
	if s.status != StatusAuthenticated {
		return "", false
	}
	return s.identity.Role, true
}

func (s State) String() string {
	if s.status == StatusAuthenticated {
		return fmt.Sprintf("authenticated(%s)", s.identity.Role)
	}
	return s.status.String()
}
