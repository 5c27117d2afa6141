package tracker

import (
	"testing"
	"time"

	"github.com/fieldops/gridtrack/internal/trail"
	"github.com/fieldops/gridtrack/internal/transform"
	"github.com/fieldops/gridtrack/pkg/core"
)

func tel(agentID string, lat, lon float64) core.Telemetry {
	return core.Telemetry{
		AgentID:  agentID,
		Position: core.Coordinate{Lat: lat, Lon: lon, Timestamp: time.Now()},
	}
}

func newRegistry() *Registry {
	return NewRegistry(trail.NewBuffer(), 1024, 768)
}

func TestApplyTelemetry_CreatesAsset(t *testing.T) {
	r := newRegistry()

	a, err := r.ApplyTelemetry(tel("agent-1", 40.7, -74.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" {
		t.Error("expected generated asset id")
	}
	if a.Status != core.StatusActive {
		t.Errorf("new assets default to active, got %s", a.Status)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 asset, got %d", r.Len())
	}
}

func TestApplyTelemetry_RejectsBadInput(t *testing.T) {
	r := newRegistry()

	if _, err := r.ApplyTelemetry(core.Telemetry{Position: core.Coordinate{Lat: 1, Lon: 1}}); err == nil {
		t.Error("expected error for missing agent id")
	}
	if _, err := r.ApplyTelemetry(tel("a", 99, 0)); err == nil {
		t.Error("expected error for out-of-range latitude")
	}
	if r.Len() != 0 {
		t.Error("rejected telemetry must not create assets")
	}
}

func TestApplyTelemetry_ArrivalOrderWins(t *testing.T) {
	r := newRegistry()

	first := tel("agent-1", 40.70, -74.0)
	second := tel("agent-1", 40.80, -74.0)
	// second report carries an older embedded timestamp
	second.Position.Timestamp = first.Position.Timestamp.Add(-time.Hour)

	r.ApplyTelemetry(first)
	r.ApplyTelemetry(second)

	a, _ := r.Asset("agent-1")
	if a.Position.Lat != 40.80 {
		t.Errorf("later arrival must win regardless of timestamps, got lat %f", a.Position.Lat)
	}
}

func TestApplyTelemetry_FeedsTrail(t *testing.T) {
	trails := trail.NewBuffer()
	r := NewRegistry(trails, 1024, 768)

	a, _ := r.ApplyTelemetry(tel("agent-1", 40.70, -74.0))
	r.ApplyTelemetry(tel("agent-1", 40.71, -74.0))

	if got := len(trails.Points(a.ID)); got != 2 {
		t.Errorf("expected 2 trail points, got %d", got)
	}
}

func TestApplyTelemetry_GridCellsCoverGrid(t *testing.T) {
	r := newRegistry()

	r.ApplyTelemetry(tel("west", 40.5, -74.5))
	r.ApplyTelemetry(tel("east", 40.5, -73.5))

	w, _ := r.Asset("west")
	e, _ := r.Asset("east")
	if !w.GridCell.Valid() || !e.GridCell.Valid() {
		t.Fatalf("cells must be on the grid: %+v %+v", w.GridCell, e.GridCell)
	}
	if w.GridCell.X >= e.GridCell.X {
		t.Errorf("west asset must land west of east asset: %+v vs %+v", w.GridCell, e.GridCell)
	}
}

func TestDeactivate_NeverDeletes(t *testing.T) {
	r := newRegistry()
	r.ApplyTelemetry(tel("agent-1", 40.7, -74.0))

	r.Deactivate("agent-1")

	a, ok := r.Asset("agent-1")
	if !ok {
		t.Fatal("deactivated asset must still exist")
	}
	if a.Status != core.StatusInactive {
		t.Errorf("expected inactive, got %s", a.Status)
	}
}

func TestSetStatus(t *testing.T) {
	r := newRegistry()
	r.ApplyTelemetry(tel("agent-1", 40.7, -74.0))

	if err := r.SetStatus("agent-1", core.StatusAlert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.SetStatus("agent-1", "bogus"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := r.SetStatus("ghost", core.StatusAlert); err != nil {
		t.Errorf("unknown agent must be a no-op, got %v", err)
	}
}

func TestRoster(t *testing.T) {
	r := newRegistry()
	r.ApplyTelemetry(tel("bravo", 40.7, -74.0))
	r.ApplyTelemetry(tel("alpha", 40.8, -74.0))

	roster := r.Roster()
	if len(roster) != 2 || roster[0] != "alpha" || roster[1] != "bravo" {
		t.Errorf("expected sorted roster, got %v", roster)
	}
}

func TestProject_ClampsZoomToConfiguredRange(t *testing.T) {
	r := newRegistry()
	r.SetZoomRange(transform.RangeBetween(1, 2))

	r.ApplyTelemetry(tel("agent-1", 40.70, -74.0))
	r.ApplyTelemetry(tel("agent-2", 40.80, -74.1))

	over, ok := r.Project("agent-1", 50, transform.Pan{})
	if !ok {
		t.Fatal("expected projection for known agent")
	}
	atMax, _ := r.Project("agent-1", 2, transform.Pan{})
	if over != atMax {
		t.Errorf("zoom beyond max must clamp: %+v vs %+v", over, atMax)
	}

	if _, ok := r.Project("ghost", 1, transform.Pan{}); ok {
		t.Error("unknown agent must not project")
	}
}

func TestSubscribe(t *testing.T) {
	r := newRegistry()
	var fired int
	r.Subscribe(func() { fired++ })

	r.ApplyTelemetry(tel("agent-1", 40.7, -74.0))
	r.SetStatus("agent-1", core.StatusAlert)
	r.SetStatus("ghost", core.StatusAlert) // no-op, no notify

	if fired != 2 {
		t.Errorf("expected 2 notifications, got %d", fired)
	}
}
