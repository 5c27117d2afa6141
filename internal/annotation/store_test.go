package annotation

import (
	"errors"
	"testing"
	"time"

	"github.com/fieldops/gridtrack/pkg/core"
)

func validParams() CreateParams {
	return CreateParams{
		Label:     "LZ Bravo",
		Color:     "#c62828",
		CreatedBy: "op-1",
		Geometry:  core.Marker{At: coord(40, -74)},
	}
}

func TestCreate(t *testing.T) {
	s := NewStore()

	a, err := s.Create(validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" {
		t.Error("expected generated id")
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected createdAt to be set")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 annotation, got %d", s.Len())
	}
}

func TestCreate_EmptyLabelRejected(t *testing.T) {
	s := NewStore()

	p := validParams()
	p.Label = ""
	_, err := s.Create(p)

	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("no partial state may be committed on validation failure")
	}
}

func TestCreate_BadGeometryRejected(t *testing.T) {
	s := NewStore()

	p := validParams()
	p.Geometry = core.Polygon{Ring: []core.Coordinate{coord(0, 0)}}
	if _, err := s.Create(p); err == nil {
		t.Fatal("expected geometry validation error")
	}
	if s.Len() != 0 {
		t.Error("no partial state may be committed on validation failure")
	}
}

func ack(agentID string, resp core.AckResponse) core.Acknowledgment {
	return core.Acknowledgment{
		AgentID:        agentID,
		AgentCallsign:  "CS-" + agentID,
		AcknowledgedAt: time.Now(),
		Response:       resp,
	}
}

func TestAcknowledge_DedupByAgent(t *testing.T) {
	s := NewStore()
	a, _ := s.Create(validParams())

	if err := s.Acknowledge(a.ID, ack("x", core.ResponseAcknowledged)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Acknowledge(a.ID, ack("y", core.ResponseUnable)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// same agent again: replaces, never duplicates
	if err := s.Acknowledge(a.ID, ack("x", core.ResponseNoted)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := s.Get(a.ID)
	if len(got.Acks) != 2 {
		t.Fatalf("expected 2 acknowledgments (distinct agents), got %d", len(got.Acks))
	}
	x, ok := core.FindAck(got.Acks, "x")
	if !ok || x.Response != core.ResponseNoted {
		t.Errorf("expected replaced response for agent x, got %+v", x)
	}
}

func TestAcknowledge_MissingAnnotationIsNoop(t *testing.T) {
	s := NewStore()
	if err := s.Acknowledge("gone", ack("x", core.ResponseAcknowledged)); err != nil {
		t.Errorf("acknowledging a deleted annotation must be a no-op, got %v", err)
	}
}

func TestAcknowledge_InvalidRejected(t *testing.T) {
	s := NewStore()
	a, _ := s.Create(validParams())

	bad := ack("", core.ResponseAcknowledged)
	if err := s.Acknowledge(a.ID, bad); err == nil {
		t.Error("expected validation error for empty agent id")
	}
}

func TestDelete_Atomic(t *testing.T) {
	s := NewStore()
	a, _ := s.Create(validParams())
	s.Acknowledge(a.ID, ack("x", core.ResponseAcknowledged))

	s.Delete(a.ID)
	if _, ok := s.Get(a.ID); ok {
		t.Error("expected annotation gone")
	}

	// ack after delete: silent no-op
	if err := s.Acknowledge(a.ID, ack("y", core.ResponseAcknowledged)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	s.Delete("never-existed") // no-op
}

func TestList_SnapshotIsolation(t *testing.T) {
	s := NewStore()
	a, _ := s.Create(validParams())
	s.Acknowledge(a.ID, ack("x", core.ResponseAcknowledged))

	snap := s.List()
	snap[0].Acks[0].Response = core.ResponseUnable

	got, _ := s.Get(a.ID)
	if got.Acks[0].Response != core.ResponseAcknowledged {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestSubscribe(t *testing.T) {
	s := NewStore()

	var fired int
	s.Subscribe(func() { fired++ })

	a, _ := s.Create(validParams())
	s.Acknowledge(a.ID, ack("x", core.ResponseAcknowledged))
	s.Delete(a.ID)
	s.Delete(a.ID) // no-op deletes do not notify

	if fired != 3 {
		t.Errorf("expected 3 notifications, got %d", fired)
	}
}

func TestZones(t *testing.T) {
	s := NewStore()

	zone := validParams()
	zone.Geometry = core.Circle{Center: coord(40, -74), Edge: coord(40.01, -74)}
	zone.RequiresAck = true
	s.Create(zone)

	display := validParams()
	display.RequiresAck = true // marker: requiresAck but no containment
	s.Create(display)

	noAck := validParams()
	noAck.Geometry = core.Rectangle{A: coord(40, -74), B: coord(41, -73)}
	s.Create(noAck)

	zones := s.Zones()
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}
	if zones[0].Geometry.Kind() != core.KindCircle {
		t.Errorf("unexpected zone geometry %s", zones[0].Geometry.Kind())
	}
}

func TestDraft_CancelLeavesNoState(t *testing.T) {
	s := NewStore()

	d := NewDraft(core.KindPolygon, validParams())
	d.Add(coord(40, -74))
	d.Add(coord(40.1, -74))
	d.Cancel()

	if d.PointCount() != 0 {
		t.Error("cancel must drop all vertices")
	}
	if s.Len() != 0 {
		t.Error("cancel must not touch the store")
	}
}

func TestDraft_CommitPolygon(t *testing.T) {
	s := NewStore()

	d := NewDraft(core.KindPolygon, validParams())
	d.Add(coord(40, -74))
	d.Add(coord(40.1, -74))

	// too few vertices: rejected, draft reusable
	if _, err := d.Commit(s); err == nil {
		t.Fatal("expected validation error at 2 vertices")
	}

	d.Add(coord(40.05, -73.9))
	a, err := d.Commit(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Geometry.Kind() != core.KindPolygon {
		t.Errorf("expected polygon, got %s", a.Geometry.Kind())
	}
}
