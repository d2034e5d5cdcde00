package handoff_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/domain"
	"aura/internal/services/handoff"
)

type creatorFunc func(ctx context.Context, name string) (domain.CreateSessionResponse, error)

func (f creatorFunc) CreateSession(ctx context.Context, name string) (domain.CreateSessionResponse, error) {
	return f(ctx, name)
}

func TestCreateSession_IDRoundTripsThroughItsJoinURL(t *testing.T) {
	d := handoff.NewDoctor(creatorFunc(func(_ context.Context, name string) (domain.CreateSessionResponse, error) {
		assert.Equal(t, "Dr. Rao", name)
		return domain.CreateSessionResponse{SessionID: "s-42", QRURL: "http://api/vault/s-42/join"}, nil
	}), "http://public", nil)

	h, err := d.CreateSession(context.Background(), "  Dr. Rao ")
	require.NoError(t, err)
	assert.Equal(t, "http://api/vault/s-42/join", h.JoinURL)

	id, err := handoff.NewPatient(nil, nil, nil).ScanJoinCode(h.JoinURL)
	require.NoError(t, err)
	assert.Equal(t, h.SessionID, id)
	assert.Equal(t, h.JoinURL, h.QR.Content)
}

func TestCreateSession_BuildsJoinURLWhenServerOmitsIt(t *testing.T) {
	d := handoff.NewDoctor(creatorFunc(func(context.Context, string) (domain.CreateSessionResponse, error) {
		return domain.CreateSessionResponse{SessionID: "s-1"}, nil
	}), "http://public/", nil)

	h, err := d.CreateSession(context.Background(), "Dr. Rao")
	require.NoError(t, err)
	assert.Equal(t, "http://public/vault/s-1/join", h.JoinURL)
}

func TestCreateSession_Errors(t *testing.T) {
	called := false
	d := handoff.NewDoctor(creatorFunc(func(context.Context, string) (domain.CreateSessionResponse, error) {
		called = true
		return domain.CreateSessionResponse{}, &domain.ServerError{Status: 502}
	}), "http://public", nil)

	_, err := d.CreateSession(context.Background(), " ")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.False(t, called)

	_, err = d.CreateSession(context.Background(), "Dr. Rao")
	var se *domain.ServerError
	assert.ErrorAs(t, err, &se)
}
