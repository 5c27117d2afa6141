package influx

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/pkg/core"
)

func TestTelemetryPoint_LineProtocol(t *testing.T) {
	at := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	asset := core.Asset{
		ID:       "a1",
		AgentID:  "alpha",
		Status:   core.StatusActive,
		Position: core.Coordinate{Lat: 40.5, Lon: -74.25, Alt: 12},
		GridCell: core.GridCell{X: 3, Y: 5},
		Speed:    4.2,
		Heading:  270,
	}

	line := influxdb2_write.PointToLineProtocol(TelemetryPoint(asset, at), time.Nanosecond)

	if !strings.HasPrefix(line, "asset_position,") {
		t.Errorf("unexpected measurement: %s", line)
	}
	for _, want := range []string{"agentId=alpha", "status=active", "lat=40.5", "gridX=3i"} {
		if !strings.Contains(line, want) {
			t.Errorf("line protocol missing %q: %s", want, line)
		}
	}
}

func TestWritePoint_BackupFallback(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(zerolog.Nop(), "")
	m.BackupWriter = gzip.NewWriter(&buf)

	point := influxdb2_write.NewPointWithMeasurement("poll_run").
		AddTag("task", "broadcast-poll").
		AddField("failed", false).
		SetTime(time.Now())

	if err := m.WritePoint(context.Background(), BucketPerformance, point); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := m.BackupWriter.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "poll_run,task=broadcast-poll") {
		t.Errorf("backup file missing line protocol: %s", body)
	}
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")
	point := influxdb2_write.NewPointWithMeasurement("poll_run").
		AddField("failed", true)

	if err := m.WritePoint(context.Background(), BucketPerformance, point); err == nil {
		t.Error("expected error without client or backup writer")
	}
}

func TestWritePoint_UnknownBucket(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")
	m.IsValid = true

	point := influxdb2_write.NewPointWithMeasurement("x").AddField("v", 1)
	if err := m.WritePoint(context.Background(), "nonexistent", point); err == nil {
		t.Error("expected error for unregistered bucket")
	}
}

func TestRecordPoll_WritesToBackup(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(zerolog.Nop(), "")
	m.BackupWriter = gzip.NewWriter(&buf)

	m.RecordPoll("telemetry-poll", 42*time.Millisecond, true)

	if err := m.BackupWriter.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	r, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, _ := io.ReadAll(r)
	line := string(body)
	if !strings.Contains(line, "task=telemetry-poll") {
		t.Errorf("missing task tag: %s", line)
	}
	if !strings.Contains(line, "failed=true") {
		t.Errorf("missing failed field: %s", line)
	}
}
