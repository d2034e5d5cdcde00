package vaultserver

import (
	"context"
	"sync"

	"aura/internal/domain"
)

// MemoryStore holds sessions in process memory; everything is lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.HandoffSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[domain.SessionID]*domain.HandoffSession),
	}
}

func (m *MemoryStore) CreateSession(_ context.Context, s domain.HandoffSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Patients = append([]domain.PatientRecord(nil), s.Patients...)
	m.sessions[s.SessionID] = &s
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id domain.SessionID) (domain.HandoffSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.HandoffSession{}, domain.ErrSessionNotFound
	}
	out := *s
	out.Patients = append([]domain.PatientRecord{}, s.Patients...)
	return out, nil
}

func (m *MemoryStore) AppendRecord(_ context.Context, id domain.SessionID, rec domain.PatientRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Patients = append(s.Patients, rec)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
