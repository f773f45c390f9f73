// Package storage defines the durable key/value abstraction the mood log is persisted through.
package storage

// Backend is the interface for durable storage of serialized values.
type Backend interface {
	// Get returns the value stored under key. A missing key yields an
	// error wrapping apperr.ErrNotFound.
	Get(key string) ([]byte, error)
	// Set atomically replaces the value stored under key.
	Set(key string, value []byte) error
}

// Driver names accepted by Open.
const (
	DriverFS     = "fs"
	DriverSQLite = "sqlite"
)
