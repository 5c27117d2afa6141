package annotation

import (
	"testing"
	"time"

	"github.com/fieldops/gridtrack/pkg/core"
)

func zoneAnnotation(t *testing.T, s *Store) core.Annotation {
	t.Helper()
	a, err := s.Create(CreateParams{
		Label:       "restricted",
		CreatedBy:   "op-1",
		Geometry:    core.Rectangle{A: coord(40.00, -74.00), B: coord(40.01, -73.99)},
		RequiresAck: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func hostileAt(lat, lon float64) core.Asset {
	return core.Asset{
		ID:       "a1",
		AgentID:  "agent-1",
		Callsign: "VIPER",
		Status:   core.StatusAlert,
		Position: coord(lat, lon),
	}
}

func TestDetector_FiresOncePerEntry(t *testing.T) {
	s := NewStore()
	zoneAnnotation(t, s)
	d := NewDetector()
	now := time.Now()

	// entry fires
	if v := d.Check(hostileAt(40.005, -73.995), s.Zones(), now); len(v) != 1 {
		t.Fatalf("expected 1 violation on entry, got %d", len(v))
	}
	// continuous presence does not re-fire
	if v := d.Check(hostileAt(40.006, -73.995), s.Zones(), now); len(v) != 0 {
		t.Fatalf("expected no violation while inside, got %d", len(v))
	}
	// exit re-arms
	if v := d.Check(hostileAt(40.05, -73.995), s.Zones(), now); len(v) != 0 {
		t.Fatalf("expected no violation on exit, got %d", len(v))
	}
	// re-entry fires again
	if v := d.Check(hostileAt(40.005, -73.995), s.Zones(), now); len(v) != 1 {
		t.Fatalf("expected 1 violation on re-entry, got %d", len(v))
	}
}

func TestDetector_OnlyHostileStatusesFire(t *testing.T) {
	s := NewStore()
	zoneAnnotation(t, s)
	d := NewDetector()

	friendly := hostileAt(40.005, -73.995)
	friendly.Status = core.StatusActive
	if v := d.Check(friendly, s.Zones(), time.Now()); len(v) != 0 {
		t.Errorf("active asset must not violate, got %d", len(v))
	}

	untracked := hostileAt(40.005, -73.995)
	untracked.Status = core.StatusInactive
	if v := d.Check(untracked, s.Zones(), time.Now()); len(v) != 1 {
		t.Errorf("inactive (untracked) asset must violate, got %d", len(v))
	}
}

func TestDetector_StatusFlipInsideZoneFires(t *testing.T) {
	s := NewStore()
	zoneAnnotation(t, s)
	d := NewDetector()

	a := hostileAt(40.005, -73.995)
	a.Status = core.StatusActive
	d.Check(a, s.Zones(), time.Now())

	// same spot, now hostile: counts as an entry
	a.Status = core.StatusAlert
	if v := d.Check(a, s.Zones(), time.Now()); len(v) != 1 {
		t.Errorf("expected violation when status turns hostile inside zone, got %d", len(v))
	}
}

func TestDetector_ForgetAnnotation(t *testing.T) {
	s := NewStore()
	zone := zoneAnnotation(t, s)
	d := NewDetector()

	d.Check(hostileAt(40.005, -73.995), s.Zones(), time.Now())
	d.ForgetAnnotation(zone.ID)

	// same position, state was dropped, so this is an entry again
	if v := d.Check(hostileAt(40.005, -73.995), s.Zones(), time.Now()); len(v) != 1 {
		t.Errorf("expected re-fire after pair state forgotten, got %d", len(v))
	}
}

func TestDetector_MultipleZones(t *testing.T) {
	s := NewStore()
	zoneAnnotation(t, s)
	if _, err := s.Create(CreateParams{
		Label:       "second zone",
		CreatedBy:   "op-1",
		Geometry:    core.Circle{Center: coord(40.005, -73.995), Edge: coord(40.015, -73.995)},
		RequiresAck: true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := NewDetector()
	v := d.Check(hostileAt(40.005, -73.995), s.Zones(), time.Now())
	if len(v) != 2 {
		t.Errorf("expected one violation per zone, got %d", len(v))
	}
}
