package interfaces

import domaintypes "aura/internal/domain/types"

// Navigator performs the navigation side effects of session changes.
type Navigator interface {
	Replace(route domaintypes.Route)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route domaintypes.Route)

// Replace calls f(route).
func (f NavigatorFunc) Replace(route domaintypes.Route) { f(route) }
