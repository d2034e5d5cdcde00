// Package vault provides an HTTP implementation of the domain.VaultClient
// interface used by aura.
//
// The backend owns hand-off sessions between doctors and patients, and also
// answers provider lookups and medicine identification. This package offers
// a concrete HTTP client for those endpoints.
//
// Supported operations include:
//   - Creating a hand-off session for a doctor.
//   - Fetching a session's submitted patient records.
//   - Uploading a patient record into a session.
//   - Looking up nearby hospitals and doctors.
//   - Identifying a medicine from a photo (multipart upload).
//
// All requests accept a context for cancellation and deadlines. Failures
// to reach the server are returned as *domain.TransportError; non-2xx
// statuses and undecodable bodies as *domain.ServerError carrying the
// server's "error" or "message" text when present.
package vault
