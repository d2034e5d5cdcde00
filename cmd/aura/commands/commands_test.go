package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/domain"
	"aura/internal/vault"
	"aura/internal/vaultserver"
)

type harness struct {
	t   *testing.T
	api string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv, err := vaultserver.New(vaultserver.NewMemoryStore(), "http://aura.test", nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &harness{t: t, api: ts.URL}
}

// newHome returns a data dir with a fast license check.
func (h *harness) newHome() string {
	dir := h.t.TempDir()
	cfg := "license_verify_delay: 1ms\npoll_interval: 20ms\n"
	require.NoError(h.t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o600))
	return dir
}

func (h *harness) runCtx(ctx context.Context, home string, args ...string) (string, error) {
	h.t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--home", home, "--passphrase", "pw", "--api", h.api}, args...))
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func (h *harness) run(home string, args ...string) (string, error) {
	h.t.Helper()
	return h.runCtx(context.Background(), home, args...)
}

func (h *harness) openSession(doctor string) domain.CreateSessionResponse {
	h.t.Helper()
	resp, err := vault.NewHTTP(h.api).CreateSession(context.Background(), doctor)
	require.NoError(h.t, err)
	return resp
}

func TestLoginPatientAndWhoami(t *testing.T) {
	h := newHarness(t)
	home := h.newHome()

	out, err := h.run(home, "login", "patient", "--name", "Asha", "--email", "asha@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "-> Patient dashboard")
	assert.Contains(t, out, "Welcome, Asha!")

	out, err = h.run(home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Role:   patient")
	assert.Contains(t, out, "asha@example.com")
}

func TestLoginRejectsBadWallet(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(h.newHome(), "login", "patient", "--name", "Asha", "--wallet", "0x123")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "wallet", verr.Field)
}

func TestLoginWhileSignedInRedirects(t *testing.T) {
	h := newHarness(t)
	home := h.newHome()
	_, err := h.run(home, "login", "doctor", "--name", "Dr. Rao", "--license", "MC-1")
	require.NoError(t, err)

	_, err = h.run(home, "login", "patient", "--name", "Asha")
	var rerr *redirectError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, domain.RouteDoctorDashboard, rerr.to)
}

func TestDoctorLoginNeedsLicense(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(h.newHome(), "login", "doctor", "--name", "Dr. Rao")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "license", verr.Field)
}

func TestRoleGuards(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(h.newHome(), "vault", "share", "--url", "http://aura.test/vault/x/join")
	var rerr *redirectError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, domain.RouteWelcome, rerr.to)
	assert.Contains(t, userMessage(err), "sign in")

	doc := h.newHome()
	_, err = h.run(doc, "login", "doctor", "--name", "Dr. Rao", "--license", "MC-1")
	require.NoError(t, err)
	_, err = h.run(doc, "medicine", "identify", "pill.jpg")
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, domain.RoleDoctor, rerr.role)
}

func TestLogoutForgetsIdentity(t *testing.T) {
	h := newHarness(t)
	home := h.newHome()
	_, err := h.run(home, "login", "patient", "--name", "Asha")
	require.NoError(t, err)

	out, err := h.run(home, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "-> Welcome")

	out, err = h.run(home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestAccountUpdates(t *testing.T) {
	h := newHarness(t)
	home := h.newHome()
	_, err := h.run(home, "login", "patient", "--name", "Asha")
	require.NoError(t, err)

	wallet := "0x" + strings.Repeat("ab", 20)
	out, err := h.run(home, "account", "link-wallet", wallet)
	require.NoError(t, err)
	assert.Contains(t, out, wallet)

	_, err = h.run(home, "account", "set-email", "not an email")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	out, err = h.run(home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Wallet: "+wallet)
}

func TestShareRecordReachesDoctor(t *testing.T) {
	h := newHarness(t)
	sess := h.openSession("Dr. Rao")

	home := h.newHome()
	_, err := h.run(home, "login", "patient", "--name", "Asha")
	require.NoError(t, err)

	out, err := h.run(home, "vault", "share", "--url", sess.QRURL,
		"--name", "Asha", "--age", "34", "--symptoms", "cough", "--allergies", "penicillin")
	require.NoError(t, err)
	assert.Contains(t, out, "Shared with the doctor")

	got, err := vault.NewHTTP(h.api).FetchSession(context.Background(), sess.SessionID)
	require.NoError(t, err)
	require.Len(t, got.Patients, 1)
	assert.Equal(t, "penicillin", got.Patients[0].Allergies)

	out, err = h.run(home, "vault", "draft")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved draft.")
}

func TestShareInvalidRecordKeepsDraft(t *testing.T) {
	h := newHarness(t)
	sess := h.openSession("Dr. Rao")
	home := h.newHome()
	_, err := h.run(home, "login", "patient", "--name", "Asha")
	require.NoError(t, err)

	_, err = h.run(home, "vault", "share", "--url", sess.QRURL, "--name", "Asha", "--age", "34")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "symptoms", verr.Field)

	// The second attempt only supplies what was missing.
	_, err = h.run(home, "vault", "share", "--url", sess.QRURL, "--symptoms", "fever")
	require.NoError(t, err)

	got, err := vault.NewHTTP(h.api).FetchSession(context.Background(), sess.SessionID)
	require.NoError(t, err)
	require.Len(t, got.Patients, 1)
	assert.Equal(t, "Asha", got.Patients[0].Name)
	assert.Equal(t, "fever", got.Patients[0].Symptoms)
}

func TestShareRejectsBadJoinCode(t *testing.T) {
	h := newHarness(t)
	home := h.newHome()
	_, err := h.run(home, "login", "patient", "--name", "Asha")
	require.NoError(t, err)

	_, err = h.run(home, "vault", "share", "--url", "not a url", "--name", "Asha", "--age", "34", "--symptoms", "cough")
	require.ErrorIs(t, err, domain.ErrInvalidJoinCode)
	assert.Equal(t, "Invalid code. Scan the doctor's QR code again.", userMessage(err))

	out, err := h.run(home, "vault", "draft")
	require.NoError(t, err)
	assert.Contains(t, out, "== Asha (age 34) ==")
}

func TestShareValidatesBeforeScanning(t *testing.T) {
	h := newHarness(t)
	home := h.newHome()
	_, err := h.run(home, "login", "patient", "--name", "Asha")
	require.NoError(t, err)

	_, err = h.run(home, "vault", "share", "--url", "not a url", "--name", "Asha")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "age", verr.Field)
}

func TestDoctorOpenAndWatch(t *testing.T) {
	h := newHarness(t)
	home := h.newHome()
	_, err := h.run(home, "login", "doctor", "--name", "Dr. Rao", "--license", "MC-1")
	require.NoError(t, err)

	png := filepath.Join(t.TempDir(), "qr.png")
	out, err := h.run(home, "vault", "open", "--no-watch", "--png", png)
	require.NoError(t, err)
	assert.Contains(t, out, "opened for Dr. Rao")
	assert.FileExists(t, png)

	sess := h.openSession("Dr. Rao")
	_, err = vault.NewHTTP(h.api).UploadRecord(context.Background(), sess.SessionID, domain.PatientRecord{
		Name: "Asha", Age: "34", Symptoms: "cough",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	out, err = h.runCtx(ctx, home, "vault", "watch", sess.SessionID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "== Asha (age 34) ==")
	assert.Contains(t, out, "1 record(s) received.")
}

func TestFindWithoutLocation(t *testing.T) {
	h := newHarness(t)
	home := h.newHome()
	_, err := h.run(home, "login", "patient", "--name", "Asha")
	require.NoError(t, err)

	_, err = h.run(home, "find", "hospitals", "--lat", "12.9")
	var perr *domain.PermissionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "location", perr.Resource)
}

func TestDetectListsSamples(t *testing.T) {
	h := newHarness(t)
	home := h.newHome()
	_, err := h.run(home, "login", "patient", "--name", "Asha")
	require.NoError(t, err)

	out, err := h.run(home, "detect", "fracture", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "xray_001\tX-ray 001")

	_, err = h.run(home, "detect", "tumor", "--sample", "nope")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUserMessage(t *testing.T) {
	appCtx = nil
	cases := []struct {
		err  error
		want string
	}{
		{&domain.ValidationError{Field: "age", Message: "is required"}, "Please check age: is required."},
		{fmt.Errorf("upload: %w", domain.ErrSessionNotFound), "That session does not exist or has ended."},
		{&domain.TransportError{Op: "fetch", Err: errors.New("refused")}, "Cannot reach the server at the configured address. Check your connection and --api."},
		{&domain.ServerError{Status: 500}, "The server reported an error (status 500)."},
		{&domain.ServerError{Status: 400, Message: "bad"}, "The server reported an error: bad"},
		{context.Canceled, "Cancelled."},
		{errors.New("boom"), "Error: boom"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, userMessage(c.err))
	}
}
