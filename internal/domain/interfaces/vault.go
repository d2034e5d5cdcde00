package interfaces

import (
	"context"
	"io"

	domaintypes "aura/internal/domain/types"
)

// VaultClient talks to the backend's vault and lookup endpoints, all with context.
type VaultClient interface {
	CreateSession(ctx context.Context, doctorName string) (domaintypes.CreateSessionResponse, error)
	FetchSession(ctx context.Context, id domaintypes.SessionID) (domaintypes.HandoffSession, error)
	UploadRecord(
		ctx context.Context,
		id domaintypes.SessionID,
		record domaintypes.PatientRecord,
	) (domaintypes.UploadReceipt, error)

	FindPlaces(
		ctx context.Context,
		kind domaintypes.PlaceKind,
		query domaintypes.PlacesQuery,
	) (domaintypes.PlacesResult, error)
	IdentifyMedicine(
		ctx context.Context,
		filename string,
		image io.Reader,
	) (domaintypes.MedicineResult, error)
}

// SessionReader is the read side of the vault used by the doctor's poller.
type SessionReader interface {
	FetchSession(ctx context.Context, id domaintypes.SessionID) (domaintypes.HandoffSession, error)
}

// RecordUploader is the write side of the vault used by the patient.
type RecordUploader interface {
	UploadRecord(
		ctx context.Context,
		id domaintypes.SessionID,
		record domaintypes.PatientRecord,
	) (domaintypes.UploadReceipt, error)
}
