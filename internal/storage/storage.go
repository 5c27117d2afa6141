// internal/storage/storage.go
package storage

import "github.com/fieldops/gridtrack/pkg/core"

// Backend is the interface all storage implementations must satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveSnapshot replaces the persisted session state.
	SaveSnapshot(s core.SessionSnapshot) error
	// LoadSnapshot returns the last persisted session state. A backend
	// with nothing saved returns an empty snapshot, not an error.
	LoadSnapshot() (core.SessionSnapshot, error)
}

// Exportable is an optional interface for backends that produce a
// shareable session file on close.
type Exportable interface {
	ExportedFilePath() string
}
