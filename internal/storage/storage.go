// Package storage defines the snapshot store backing all persistence.
//
// The store is a key→document map: every mutation persists a whole
// collection as one JSON document under a fixed key, so a reader never
// observes a partially written collection. Persistence is fire-and-forget
// from the caller's point of view; a failed save is reported but the
// in-memory state keeps the change.
package storage

import "context"

// Snapshot keys.
const (
	KeyIncidents = "incidents"
	KeyLOVs      = "lovs"
	KeyUsers     = "users"
)

// Store persists opaque snapshot documents by key.
type Store interface {
	// Load returns the document stored under key, or ErrNotFound when
	// no document has been saved yet.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the document stored under key.
	Save(ctx context.Context, key string, data []byte) error

	// Close releases any resources held by the store.
	Close() error
}
