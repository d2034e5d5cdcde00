package vaultserver

import (
	"context"

	"aura/internal/domain"
)

// Store persists hand-off sessions and their records.
//
// AppendRecord and GetSession return domain.ErrSessionNotFound for unknown ids.
// GetSession returns records in upload order.
type Store interface {
	CreateSession(ctx context.Context, s domain.HandoffSession) error
	GetSession(ctx context.Context, id domain.SessionID) (domain.HandoffSession, error)
	AppendRecord(ctx context.Context, id domain.SessionID, rec domain.PatientRecord) error
	Close() error
}
