// Package router decides whether a role-gated area may be entered.
//
// Decisions are pure functions of the session state and are meant to be
// recomputed on every navigation.
package router

import (
	"aura/internal/domain"
	"aura/internal/services/session"
)

// Kind is the outcome of a guard.
type Kind int

const (
	// Suspend means the session is still loading; render nothing yet.
	Suspend Kind = iota
	Render
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Suspend:
		return "suspend"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision says what to do with a navigation. To is set only for Redirect.
type Decision struct {
	Kind Kind
	To   domain.Route
}

// Guard gates an area that requires role.
//
// A user signed in with the other role is sent to the welcome route, never
// to their own dashboard.
func Guard(st session.State, required domain.Role) Decision {
	if !st.Settled() {
		return Decision{Kind: Suspend}
	}
	role, ok := st.Role()
	if !ok || role != required {
		return Decision{Kind: Redirect, To: domain.RouteWelcome}
	}
	return Decision{Kind: Render}
}

// GuardAuthFlow gates the signed-out area (welcome, role selection, login).
// Signed-in users are sent to their dashboard.
func GuardAuthFlow(st session.State) Decision {
	if !st.Settled() {
		return Decision{Kind: Suspend}
	}
	if role, ok := st.Role(); ok {
		return Decision{Kind: Redirect, To: Landing(role)}
	}
	return Decision{Kind: Render}
}

// Landing is the dashboard route for role.
func Landing(role domain.Role) domain.Route { return session.Landing(role) }
