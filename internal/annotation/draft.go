package annotation

import "github.com/fieldops/gridtrack/pkg/core"

// Draft is an in-progress drawing. It accumulates vertices and only touches
// the store on Commit; Cancel at any vertex count leaves no residual state.
type Draft struct {
	kind   core.GeometryKind
	points []core.Coordinate
	params CreateParams
}

// NewDraft starts a drawing operation of the given kind.
func NewDraft(kind core.GeometryKind, params CreateParams) *Draft {
	return &Draft{kind: kind, params: params}
}

// Add appends a vertex to the drawing.
func (d *Draft) Add(c core.Coordinate) {
	d.points = append(d.points, c)
}

// PointCount returns the number of vertices drawn so far.
func (d *Draft) PointCount() int {
	return len(d.points)
}

// Cancel abandons the drawing. The draft must not be reused afterwards.
func (d *Draft) Cancel() {
	d.points = nil
}

// Commit assembles the geometry from the drawn vertices and creates the
// annotation. Validation failures leave the store untouched; the draft
// stays intact so the operator can keep drawing.
func (d *Draft) Commit(store *Store) (core.Annotation, error) {
	g, err := d.geometry()
	if err != nil {
		return core.Annotation{}, err
	}
	p := d.params
	p.Geometry = g
	return store.Create(p)
}

func (d *Draft) geometry() (core.Geometry, error) {
	switch d.kind {
	case core.KindMarker:
		if len(d.points) != 1 {
			return nil, &core.ValidationError{Field: "points", Reason: "marker needs exactly 1 point"}
		}
		return core.Marker{At: d.points[0]}, nil
	case core.KindCircle:
		if len(d.points) != 2 {
			return nil, &core.ValidationError{Field: "points", Reason: "circle needs center and edge"}
		}
		return core.Circle{Center: d.points[0], Edge: d.points[1]}, nil
	case core.KindRectangle:
		if len(d.points) != 2 {
			return nil, &core.ValidationError{Field: "points", Reason: "rectangle needs opposite corners"}
		}
		return core.Rectangle{A: d.points[0], B: d.points[1]}, nil
	case core.KindPolygon:
		if len(d.points) < 3 {
			return nil, &core.ValidationError{Field: "points", Reason: "polygon needs at least 3 vertices"}
		}
		ring := make([]core.Coordinate, len(d.points))
		copy(ring, d.points)
		return core.Polygon{Ring: ring}, nil
	case core.KindFreehand:
		if len(d.points) < 2 {
			return nil, &core.ValidationError{Field: "points", Reason: "freehand needs at least 2 points"}
		}
		path := make([]core.Coordinate, len(d.points))
		copy(path, d.points)
		return core.Freehand{Path: path}, nil
	default:
		return nil, &core.ValidationError{Field: "kind", Reason: "unknown geometry kind"}
	}
}
