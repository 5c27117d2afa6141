// internal/storage/memory/memory.go
package memory

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/internal/config"
	"github.com/fieldops/gridtrack/pkg/core"
)

// Backend keeps the session snapshot in memory and exports it to a JSON
// document on close. It is the default backend: sessions are short-lived
// and the export file is the durable artifact.
type Backend struct {
	cfg    config.MemoryConfig
	logger zerolog.Logger

	mu             sync.RWMutex
	snap           core.SessionSnapshot
	hasSnap        bool
	lastExportPath string
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig, logger zerolog.Logger) *Backend {
	return &Backend{
		cfg:    cfg,
		logger: logger.With().Str("backend", "memory").Logger(),
	}
}

// Init is a no-op; the output directory is created lazily on export.
func (b *Backend) Init() error {
	return nil
}

// SaveSnapshot replaces the held session state.
func (b *Backend) SaveSnapshot(s core.SessionSnapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap = s
	b.hasSnap = true
	return nil
}

// LoadSnapshot returns the held session state, empty if nothing was saved.
func (b *Backend) LoadSnapshot() (core.SessionSnapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap, nil
}

// Close exports the held snapshot, if any.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasSnap {
		return nil
	}
	if err := b.exportJSON(); err != nil {
		return err
	}
	b.logger.Info().Str("path", b.lastExportPath).Msg("session exported")
	return nil
}

// ExportedFilePath returns the path of the last export, empty before any
// export has happened.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// sessionTimestamp names export files after the snapshot time.
func (b *Backend) sessionTimestamp() string {
	ts := b.snap.TakenAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.UTC().Format("20060102_150405")
}
