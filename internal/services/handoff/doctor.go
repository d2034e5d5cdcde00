package handoff

import (
	"context"
	"log/slog"
	"strings"

	"aura/internal/domain"
	"aura/internal/qr"
)

// SessionCreator is the part of the vault the doctor uses to open a session.
type SessionCreator interface {
	CreateSession(ctx context.Context, doctorName string) (domain.CreateSessionResponse, error)
}

// Handoff is a freshly created session ready to be shown to patients.
type Handoff struct {
	SessionID  domain.SessionID
	DoctorName string
	JoinURL    string
	QR         *qr.Code
}

// Doctor is the doctor's side of the hand-off.
type Doctor struct {
	vault      SessionCreator
	publicBase string
	log        *slog.Logger
}

// NewDoctor returns a Doctor. publicBase is used to build the join URL when
// the server does not return a usable one.
func NewDoctor(vault SessionCreator, publicBase string, log *slog.Logger) *Doctor {
	if log == nil {
		log = slog.Default()
	}
	return &Doctor{vault: vault, publicBase: publicBase, log: log}
}

// CreateSession opens a session for doctorName and encodes its join URL.
// On error no session is considered created and the call may be retried.
func (d *Doctor) CreateSession(ctx context.Context, doctorName string) (Handoff, error) {
	name := strings.TrimSpace(doctorName)
	if name == "" {
		return Handoff{}, &domain.ValidationError{Field: "doctor_name", Message: "is required"}
	}

	resp, err := d.vault.CreateSession(ctx, name)
	if err != nil {
		return Handoff{}, err
	}

	join := resp.QRURL
	if id, err := ParseJoinCode(join); err != nil || id != resp.SessionID {
		join = JoinURL(d.publicBase, resp.SessionID)
		d.log.Debug("server join url unusable, built locally", "qr_url", resp.QRURL, "join_url", join)
	}

	code, err := qr.Encode(join)
	if err != nil {
		return Handoff{}, err
	}
	d.log.Info("hand-off session created", "session_id", resp.SessionID)
	return Handoff{
		SessionID:  resp.SessionID,
		DoctorName: name,
		JoinURL:    join,
		QR:         code,
	}, nil
}
