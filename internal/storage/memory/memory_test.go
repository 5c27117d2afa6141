package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/internal/config"
	v1 "github.com/fieldops/gridtrack/internal/export/v1"
	"github.com/fieldops/gridtrack/pkg/core"
)

func testSnapshot() core.SessionSnapshot {
	return core.SessionSnapshot{
		TakenAt:    time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC),
		OperatorID: "op-1",
		Assets: []core.Asset{
			{ID: "a1", AgentID: "alpha", Status: core.StatusActive},
		},
		Broadcasts: []core.Broadcast{
			{ID: "b1", Message: "hold", IssuedBy: "op-1"},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()}, zerolog.Nop())
	if err := b.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := b.SaveSnapshot(testSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := b.LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Assets) != 1 || got.Assets[0].AgentID != "alpha" {
		t.Errorf("snapshot lost assets: %+v", got.Assets)
	}
	if got.OperatorID != "op-1" {
		t.Errorf("unexpected operator: %s", got.OperatorID)
	}
}

func TestLoadSnapshot_EmptyBeforeSave(t *testing.T) {
	b := New(config.MemoryConfig{}, zerolog.Nop())

	got, err := b.LoadSnapshot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Assets) != 0 || len(got.Broadcasts) != 0 {
		t.Errorf("expected empty snapshot, got %+v", got)
	}
}

func TestClose_ExportsJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir}, zerolog.Nop())
	b.SaveSnapshot(testSnapshot())

	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	path := b.ExportedFilePath()
	if path == "" {
		t.Fatal("expected exported file path")
	}
	if filepath.Ext(path) != ".json" {
		t.Errorf("expected plain json, got %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	var doc v1.Export
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if doc.OperatorID != "op-1" || len(doc.Assets) != 1 {
		t.Errorf("export content wrong: %+v", doc)
	}
}

func TestClose_ExportsGzip(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true}, zerolog.Nop())
	b.SaveSnapshot(testSnapshot())

	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	path := b.ExportedFilePath()
	if filepath.Ext(path) != ".gz" {
		t.Fatalf("expected .gz export, got %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer gz.Close()

	var doc v1.Export
	if err := json.NewDecoder(gz).Decode(&doc); err != nil {
		t.Fatalf("decode gzipped export: %v", err)
	}
	if len(doc.Broadcasts) != 1 || doc.Broadcasts[0].Message != "hold" {
		t.Errorf("export content wrong: %+v", doc.Broadcasts)
	}
}

func TestClose_NothingSavedNoExport(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()}, zerolog.Nop())

	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if b.ExportedFilePath() != "" {
		t.Error("expected no export without a saved snapshot")
	}
}
