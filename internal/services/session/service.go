package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"aura/internal/domain"
)

// Service is the single owner of the current identity.
type Service struct {
	store domain.IdentityStore
	nav   domain.Navigator
	log   *slog.Logger

	mu    sync.RWMutex
	state State

	once    sync.Once
	settled chan struct{}
}

// New returns a Service in the Uninitialized state.
func New(store domain.IdentityStore, nav domain.Navigator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if nav == nil {
		nav = domain.NavigatorFunc(func(domain.Route) {})
	}
	return &Service{
		store:   store,
		nav:     nav,
		log:     log,
		state:   Uninitialized(),
		settled: make(chan struct{}),
	}
}

// Initialize reads the persisted identity and settles the state. It runs once;
// later calls return the current state.
//
// A failed or undecodable read is logged and leaves the user signed out.
func (s *Service) Initialize(ctx context.Context) State {
	s.once.Do(func() {
		s.set(Loading())

		next := Unauthenticated()
		if err := ctx.Err(); err != nil {
			s.log.Warn("session init cancelled", "err", err)
		} else if id, ok, err := s.store.LoadIdentity(); err != nil {
			s.log.Error("failed to load session", "err", err)
		} else if ok {
			if st, err := Authenticated(id); err != nil {
				s.log.Error("discarding stored session", "err", err)
			} else {
				next = st
			}
		}

		s.set(next)
		close(s.settled)
	})
	return s.Current()
}

// Wait blocks until Initialize has settled the state or ctx is done.
func (s *Service) Wait(ctx context.Context) (State, error) {
	select {
	case <-s.settled:
		return s.Current(), nil
	case <-ctx.Done():
		return s.Current(), ctx.Err()
	}
}

// Current returns a snapshot of the session state.
func (s *Service) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Login signs in as req.Role and navigates to that role's landing route.
//
// A failed write to the store is logged; the in-memory state is updated anyway.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.Identity, error) {
	if !req.Role.Valid() {
		return domain.Identity{}, &domain.ValidationError{Field: "role", Message: "must be patient or doctor"}
	}
	if strings.TrimSpace(req.Name) == "" {
		return domain.Identity{}, &domain.ValidationError{Field: "name", Message: "is required"}
	}
	if _, err := s.Wait(ctx); err != nil {
		return domain.Identity{}, err
	}

	s.mu.Lock()
	prev, had := s.state.Identity()
	if had && prev.Role != req.Role {
		s.mu.Unlock()
		return domain.Identity{}, domain.ErrAlreadyAuthenticated
	}
	if !had {
		prev = domain.Identity{Role: req.Role}
	}
	id := prev.Merge(withClaims(domain.IdentityPatch{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		WalletAddress: req.WalletAddress,
		Token:         req.Token,
	}))
	if id.WalletAddress == "" && id.Role == domain.RolePatient {
		id.WalletAddress = domain.WalletNotLinked
	}
	st, err := Authenticated(id)
	if err != nil {
		s.mu.Unlock()
		return domain.Identity{}, err
	}
	s.state = st
	s.mu.Unlock()

	if err := s.store.SaveIdentity(id); err != nil {
		s.log.Error("failed to persist session", "role", id.Role, "err", err)
	}
	s.log.Info("signed in", "role", id.Role)
	s.nav.Replace(Landing(id.Role))
	return id, nil
}

// UpdateUser merges patch into the signed-in identity and persists it.
//
// Storage errors are returned only when patch.MustPersist is set.
func (s *Service) UpdateUser(ctx context.Context, patch domain.IdentityPatch) (domain.Identity, error) {
	if _, err := s.Wait(ctx); err != nil {
		return domain.Identity{}, err
	}

	s.mu.Lock()
	cur, ok := s.state.Identity()
	if !ok {
		s.mu.Unlock()
		return domain.Identity{}, domain.ErrNotAuthenticated
	}
	if patch.Role != "" && patch.Role != cur.Role {
		s.mu.Unlock()
		return domain.Identity{}, domain.ErrRoleImmutable
	}
	id := cur.Merge(withClaims(patch))
	s.state = State{status: StatusAuthenticated, identity: id}
	s.mu.Unlock()

	if err := s.store.SaveIdentity(id); err != nil {
		s.log.Error("failed to persist session update", "err", err)
		if patch.MustPersist {
			return id, err
		}
	}
	return id, nil
}

// Logout forgets the identity and navigates to the welcome route.
func (s *Service) Logout(ctx context.Context) error {
	if _, err := s.Wait(ctx); err != nil {
		return err
	}

	if err := s.store.DeleteIdentity(); err != nil {
		s.log.Error("failed to clear stored session", "err", err)
	}
	s.set(Unauthenticated())
	s.log.Info("signed out")
	s.nav.Replace(domain.RouteWelcome)
	return nil
}

func (s *Service) set(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Landing is the route a fresh login for role lands on.
func Landing(role domain.Role) domain.Route {
	if role == domain.RoleDoctor {
		return domain.RouteDoctorDashboard
	}
	return domain.RoutePatientDashboard
}

// withClaims fills empty name and email from the patch token's claims.
// The token is not verified; it only pre-fills profile fields.
func withClaims(p domain.IdentityPatch) domain.IdentityPatch {
	if p.Token == "" || (p.Name != "" && p.Email != "") {
		return p
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(p.Token, claims); err != nil {
		return p
	}
	if v, ok := claims["name"].(string); ok && p.Name == "" {
		p.Name = v
	}
	if v, ok := claims["email"].(string); ok && p.Email == "" {
		p.Email = v
	}
	return p
}
