// Package store provides file-based persistence for the Aura CLI.
//
// It contains concrete implementations of the domain storage interfaces.
// All methods are concurrency-safe via internal locking, and every write
// goes through a temp file and an atomic rename. Stored files live under
// the configured home directory.
//
// The package includes:
//   - The signed-in identity, sealed with scrypt and ChaCha20-Poly1305 (IdentityFileStore)
//   - The patient's unsent intake form (DraftFileStore)
//   - The per-device secret used when no passphrase is configured (DeviceKey)
package store
