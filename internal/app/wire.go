package app

import (
	"fmt"
	"log/slog"
	"os"

	"aura/internal/domain"
	"aura/internal/services/analysis"
	"aura/internal/services/finder"
	"aura/internal/services/handoff"
	"aura/internal/services/medicine"
	"aura/internal/services/session"
	"aura/internal/store"
	"aura/internal/vault"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config   Config
	Log      *slog.Logger
	Identity domain.IdentityStore
	Drafts   domain.DraftStore
	Vault    *vault.HTTP
	Session  *session.Service
	Doctor   *handoff.Doctor
	Patient  *handoff.Patient
	Finder   *finder.Service
	Medicine *medicine.Service
	Analysis *analysis.Simulator
}

// NewWire constructs the dependency graph from cfg. nav receives the
// navigation side effects of login and logout.
func NewWire(cfg Config, nav domain.Navigator, log *slog.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}

	// The identity is sealed with the device key unless a passphrase is set.
	pass := cfg.Passphrase
	if pass == "" {
		k, err := store.DeviceKey(cfg.Home)
		if err != nil {
			return nil, fmt.Errorf("device key: %w", err)
		}
		pass = k
	}

	// File-based stores
	identityStore := store.NewIdentityFileStore(cfg.Home, pass)
	draftStore := store.NewDraftFileStore(cfg.Home)

	// Vault client (uses provided HTTP client)
	vc := vault.NewHTTP(cfg.APIURL)
	if cfg.HTTP != nil {
		vc.HTTP = cfg.HTTP
	}

	// High-level services
	return &Wire{
		Config:   cfg,
		Log:      log,
		Identity: identityStore,
		Drafts:   draftStore,
		Vault:    vc,
		Session:  session.New(identityStore, nav, log),
		Doctor:   handoff.NewDoctor(vc, cfg.joinBase(), log),
		Patient:  handoff.NewPatient(vc, draftStore, log),
		Finder:   finder.New(vc, log),
		Medicine: medicine.New(vc, log),
		Analysis: analysis.New(),
	}, nil
}

// NewPoller returns a poller for id using the configured interval.
func (w *Wire) NewPoller(id domain.SessionID) *handoff.Poller {
	return handoff.NewPoller(w.Vault, id,
		handoff.WithInterval(w.Config.PollInterval),
		handoff.WithLogger(w.Log),
	)
}
