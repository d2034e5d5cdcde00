package store

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

const deviceKeyFilename = "device.key"

// DeviceKey returns the per-device secret under dir, creating it on first use.
// It stands in for a passphrase when the user has not configured one.
func DeviceKey(dir string) (string, error) {
	path := filepath.Join(dir, deviceKeyFilename)
	b, err := readFile(path)
	if err != nil {
		return "", err
	}
	if k := strings.TrimSpace(string(b)); k != "" {
		return k, nil
	}

	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	key := hex.EncodeToString(raw[:])
	if err := writeFile(path, []byte(key+"\n"), 0o600); err != nil {
		return "", err
	}
	return key, nil
}
