package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"aura/internal/domain"
)

const (
	idFilename = "identity.json.enc"
	// idKey labels the encrypted entry, mirroring the key the mobile client used.
	idKey = "user_session"
)

// IdentityFileStore persists the signed-in identity encrypted at rest.
type IdentityFileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex

	// kdf parameters; tests lower these to keep scrypt fast.
	n, r, p int
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir, sealing
// the identity under passphrase.
func NewIdentityFileStore(dir, passphrase string) *IdentityFileStore {
	n, r, p := scryptParamsDefault()
	return &IdentityFileStore{dir: dir, passphrase: passphrase, n: n, r: r, p: p}
}

// WithScryptParams overrides the key derivation cost.
func (s *IdentityFileStore) WithScryptParams(n, r, p int) *IdentityFileStore {
	s.n, s.r, s.p = n, r, p
	return s
}

// SaveIdentity writes the encrypted identity to disk.
func (s *IdentityFileStore) SaveIdentity(id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	ct, err := encrypt(s.passphrase, idKey, raw, s.n, s.r, s.p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, idFilename), ct, 0o600)
}

// LoadIdentity reads and decrypts the identity. ok is false when none was saved.
func (s *IdentityFileStore) LoadIdentity() (domain.Identity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, idFilename))
	if err != nil {
		return domain.Identity{}, false, err
	}
	if b == nil {
		return domain.Identity{}, false, nil
	}
	pt, err := decrypt(s.passphrase, idKey, b)
	if err != nil {
		return domain.Identity{}, false, err
	}
	var id domain.Identity
	if err := json.Unmarshal(pt, &id); err != nil {
		return domain.Identity{}, false, fmt.Errorf("decode identity: %w", err)
	}
	if !id.Role.Valid() {
		return domain.Identity{}, false, errors.New("stored identity has no valid role")
	}
	return id, true, nil
}

// DeleteIdentity removes the stored identity, if any.
func (s *IdentityFileStore) DeleteIdentity() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(filepath.Join(s.dir, idFilename))
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
