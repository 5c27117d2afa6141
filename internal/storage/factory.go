// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/internal/config"
	gormstorage "github.com/fieldops/gridtrack/internal/storage/gorm"
	"github.com/fieldops/gridtrack/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg config.StorageConfig, logger zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(cfg.Memory, logger), nil
	case "gorm", "postgres", "sqlite":
		return gormstorage.New(logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
