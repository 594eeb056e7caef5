// Package storage defines the key-value persistence capability the music
// core depends on. Every method may fail: the host environment's store
// (browser localStorage, a file, a test double) is treated as an untrusted
// external resource, and callers fall back to defaults on any error.
package storage

import "errors"

// ErrNotFound reports a missing key.
var ErrNotFound = errors.New("storage: key not found")

// KV is the injected persistence capability.
type KV interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)
	// Set stores value under key. Quota-style failures are expected.
	Set(key, value string) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(key string) error
}
