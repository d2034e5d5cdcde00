package router_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/domain"
	"aura/internal/services/router"
	"aura/internal/services/session"
)

func authed(t *testing.T, role domain.Role) session.State {
	t.Helper()
	st, err := session.Authenticated(domain.Identity{Role: role, Name: "x"})
	require.NoError(t, err)
	return st
}

func TestGuard_RoleMatrix(t *testing.T) {
	cases := []struct {
		user, area domain.Role
		want       router.Decision
	}{
		{domain.RolePatient, domain.RolePatient, router.Decision{Kind: router.Render}},
		{domain.RoleDoctor, domain.RoleDoctor, router.Decision{Kind: router.Render}},
		{domain.RolePatient, domain.RoleDoctor, router.Decision{Kind: router.Redirect, To: domain.RouteWelcome}},
		{domain.RoleDoctor, domain.RolePatient, router.Decision{Kind: router.Redirect, To: domain.RouteWelcome}},
	}
	for _, tc := range cases {
		t.Run(tc.user.String()+"->"+tc.area.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, router.Guard(authed(t, tc.user), tc.area))
		})
	}
}

func TestGuard_LoadingSuspends(t *testing.T) {
	for _, st := range []session.State{session.Uninitialized(), session.Loading()} {
		assert.Equal(t, router.Suspend, router.Guard(st, domain.RoleDoctor).Kind)
		assert.Equal(t, router.Suspend, router.GuardAuthFlow(st).Kind)
	}
}

func TestGuard_Unauthenticated_RedirectsToWelcome(t *testing.T) {
	d := router.Guard(session.Unauthenticated(), domain.RolePatient)
	assert.Equal(t, router.Decision{Kind: router.Redirect, To: domain.RouteWelcome}, d)
}

func TestGuardAuthFlow(t *testing.T) {
	assert.Equal(t, router.Render, router.GuardAuthFlow(session.Unauthenticated()).Kind)
	assert.Equal(t,
		router.Decision{Kind: router.Redirect, To: domain.RouteDoctorDashboard},
		router.GuardAuthFlow(authed(t, domain.RoleDoctor)))
	assert.Equal(t,
		router.Decision{Kind: router.Redirect, To: domain.RoutePatientDashboard},
		router.GuardAuthFlow(authed(t, domain.RolePatient)))
}

type nopStore struct{ id *domain.Identity }

func (s *nopStore) SaveIdentity(id domain.Identity) error { s.id = &id; return nil }
func (s *nopStore) LoadIdentity() (domain.Identity, bool, error) {
	if s.id == nil {
		return domain.Identity{}, false, nil
	}
	return *s.id, true, nil
}
func (s *nopStore) DeleteIdentity() error { s.id = nil; return nil }

func TestLogout_AlwaysRedirectsAfterwards(t *testing.T) {
	for _, role := range []domain.Role{domain.RolePatient, domain.RoleDoctor} {
		svc := session.New(&nopStore{}, nil, nil)
		svc.Initialize(context.Background())
		_, err := svc.Login(context.Background(), domain.LoginRequest{Role: role, Name: "x"})
		require.NoError(t, err)
		assert.Equal(t, router.Render, router.Guard(svc.Current(), role).Kind)

		require.NoError(t, svc.Logout(context.Background()))
		for _, area := range []domain.Role{domain.RolePatient, domain.RoleDoctor} {
			assert.Equal(t,
				router.Decision{Kind: router.Redirect, To: domain.RouteWelcome},
				router.Guard(svc.Current(), area))
		}
	}
}
