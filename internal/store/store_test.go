package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/domain"
	"aura/internal/store"
)

func fastIdentityStore(dir, pass string) *store.IdentityFileStore {
	return store.NewIdentityFileStore(dir, pass).WithScryptParams(1<<4, 8, 1)
}

func TestIdentity_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var ids domain.IdentityStore = fastIdentityStore(home, "pass")

	id := domain.Identity{
		Role:          domain.RolePatient,
		Name:          "Asha",
		Email:         "asha@example.com",
		WalletAddress: domain.WalletNotLinked,
	}
	require.NoError(t, ids.SaveIdentity(id))

	got, ok, err := ids.LoadIdentity()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	info, err := os.Stat(filepath.Join(home, "identity.json.enc"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestIdentity_Missing_NotOK(t *testing.T) {
	_, ok, err := fastIdentityStore(t.TempDir(), "pass").LoadIdentity()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	id := domain.Identity{Role: domain.RoleDoctor, Name: "Dr. Rao"}

	require.NoError(t, fastIdentityStore(home, "correct").SaveIdentity(id))

	_, ok, err := fastIdentityStore(home, "wrong").LoadIdentity()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestIdentity_NotPlaintextOnDisk(t *testing.T) {
	home := t.TempDir()
	id := domain.Identity{Role: domain.RolePatient, Name: "Zephyrine"}
	require.NoError(t, fastIdentityStore(home, "k").SaveIdentity(id))

	b, err := os.ReadFile(filepath.Join(home, "identity.json.enc"))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "Zephyrine")
}

func TestIdentity_Delete_Idempotent(t *testing.T) {
	home := t.TempDir()
	ids := fastIdentityStore(home, "pass")
	require.NoError(t, ids.SaveIdentity(domain.Identity{Role: domain.RolePatient, Name: "A"}))

	require.NoError(t, ids.DeleteIdentity())
	require.NoError(t, ids.DeleteIdentity())

	_, ok, err := ids.LoadIdentity()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDraft_RoundTripAndClear(t *testing.T) {
	home := t.TempDir()
	var drafts domain.DraftStore = store.NewDraftFileStore(home)

	_, ok, err := drafts.LoadDraft()
	require.NoError(t, err)
	assert.False(t, ok)

	rec := domain.PatientRecord{Name: "Asha", Age: "34", Symptoms: "cough", Allergies: "penicillin"}
	require.NoError(t, drafts.SaveDraft(rec))

	got, ok, err := drafts.LoadDraft()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, rec, got)

	require.NoError(t, drafts.ClearDraft())
	_, ok, err = drafts.LoadDraft()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeviceKey_StableAcrossCalls(t *testing.T) {
	home := t.TempDir()

	k1, err := store.DeviceKey(home)
	require.NoError(t, err)
	assert.Len(t, k1, 64)

	k2, err := store.DeviceKey(home)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}
