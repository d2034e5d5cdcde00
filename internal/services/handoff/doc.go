// Package handoff moves patient intake records from a patient's device to a
// doctor's through a short-lived vault session.
//
// The doctor creates a session and shows its join URL as a QR code, then
// polls the session for new records. The patient scans the code, fills in
// the intake form and submits it into that session. Neither side needs an
// account relationship with the other.
package handoff
