package storage

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/internal/config"
	"github.com/fieldops/gridtrack/internal/storage/memory"
)

// the default backend must also expose its export path
var _ Exportable = (*memory.Backend)(nil)

func TestNewBackend_Memory(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{
		Type:   "memory",
		Memory: config.MemoryConfig{OutputDir: t.TempDir()},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b == nil {
		t.Fatal("expected backend")
	}
	if _, ok := b.(Exportable); !ok {
		t.Error("memory backend should be exportable")
	}
}

func TestNewBackend_Gorm(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{Type: "gorm"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b == nil {
		t.Fatal("expected backend")
	}
}

func TestNewBackend_UnknownType(t *testing.T) {
	if _, err := NewBackend(config.StorageConfig{Type: "carrier-pigeon"}, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown storage type")
	}
}
