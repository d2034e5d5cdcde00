// Package session owns the signed-in identity for the lifetime of a process.
//
// The Service loads the persisted identity once, exposes the current State
// through a single accessor, and is the only writer of the identity store.
// Login and Logout also drive navigation through a domain.Navigator.
package session
