package interfaces

import domaintypes "aura/internal/domain/types"

// IdentityStore persists the single authenticated identity on the device.
type IdentityStore interface {
	SaveIdentity(id domaintypes.Identity) error
	// LoadIdentity reports ok=false when nothing has been saved.
	LoadIdentity() (id domaintypes.Identity, ok bool, err error)
	DeleteIdentity() error
}

// DraftStore keeps the patient intake form between submission attempts.
type DraftStore interface {
	SaveDraft(record domaintypes.PatientRecord) error
	LoadDraft() (domaintypes.PatientRecord, bool, error)
	ClearDraft() error
}
