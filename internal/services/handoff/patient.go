package handoff

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"aura/internal/domain"
	"aura/internal/qr"
)

// Patient is the patient's side of the hand-off.
type Patient struct {
	vault  domain.RecordUploader
	drafts domain.DraftStore
	now    func() time.Time
	log    *slog.Logger
}

// NewPatient returns a Patient. drafts may be nil.
func NewPatient(vault domain.RecordUploader, drafts domain.DraftStore, log *slog.Logger) *Patient {
	if log == nil {
		log = slog.Default()
	}
	return &Patient{vault: vault, drafts: drafts, now: time.Now, log: log}
}

// WithClock replaces the clock used to stamp submissions.
func (p *Patient) WithClock(now func() time.Time) *Patient {
	p.now = now
	return p
}

// ScanJoinCode returns the session id carried by a scanned payload.
func (p *Patient) ScanJoinCode(payload string) (domain.SessionID, error) {
	return ParseJoinCode(payload)
}

// ScanJoinImage decodes a QR image and returns the session id it carries.
func (p *Patient) ScanJoinImage(r io.Reader) (domain.SessionID, error) {
	text, err := qr.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidJoinCode, err)
	}
	return ParseJoinCode(text)
}

// ValidateRecord checks the fields required before any upload.
func ValidateRecord(rec domain.PatientRecord) error {
	required := []struct{ field, value string }{
		{"name", rec.Name},
		{"age", rec.Age},
		{"symptoms", rec.Symptoms},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &domain.ValidationError{Field: r.field, Message: "is required"}
		}
	}
	return nil
}

// SubmitRecord uploads rec into session id.
//
// Invalid records never reach the network. The draft is kept until the
// upload succeeds. Retrying after an ambiguous failure may store the record
// twice.
func (p *Patient) SubmitRecord(
	ctx context.Context,
	id domain.SessionID,
	rec domain.PatientRecord,
) (domain.UploadReceipt, error) {
	if id == "" {
		return domain.UploadReceipt{}, domain.ErrInvalidJoinCode
	}
	if err := ValidateRecord(rec); err != nil {
		return domain.UploadReceipt{}, err
	}

	if p.drafts != nil {
		if err := p.drafts.SaveDraft(rec); err != nil {
			p.log.Warn("failed to save intake draft", "err", err)
		}
	}

	rec.ID = ""
	rec.Timestamp = p.now().UTC().Format(time.RFC3339)
	receipt, err := p.vault.UploadRecord(ctx, id, rec)
	if err != nil {
		p.log.Error("record upload failed", "session_id", id, "err", err)
		return domain.UploadReceipt{}, err
	}

	if p.drafts != nil {
		if err := p.drafts.ClearDraft(); err != nil {
			p.log.Warn("failed to clear intake draft", "err", err)
		}
	}
	p.log.Info("record uploaded", "session_id", id, "record_id", receipt.ID)
	return receipt, nil
}
