// pkg/core/annotation.go
package core

import "time"

// GeometryKind discriminates annotation geometry variants.
type GeometryKind string

const (
	KindMarker    GeometryKind = "marker"
	KindCircle    GeometryKind = "circle"
	KindRectangle GeometryKind = "rectangle"
	KindPolygon   GeometryKind = "polygon"
	KindFreehand  GeometryKind = "freehand"
)

// Geometry is the shape of an annotation. Each variant carries only the
// fields its geometry needs; consumers switch on Kind and must handle every
// case.
type Geometry interface {
	Kind() GeometryKind
	// Points returns the defining coordinates in drawing order.
	Points() []Coordinate
}

// Marker is a single point of interest. It has no containment semantics.
type Marker struct {
	At Coordinate `json:"at"`
}

func (m Marker) Kind() GeometryKind   { return KindMarker }
func (m Marker) Points() []Coordinate { return []Coordinate{m.At} }

// Circle is a zone defined by a center and a point on its edge. The radius
// is the geodesic distance between the two and is always derived, never
// stored.
type Circle struct {
	Center Coordinate `json:"center"`
	Edge   Coordinate `json:"edge"`
}

func (c Circle) Kind() GeometryKind   { return KindCircle }
func (c Circle) Points() []Coordinate { return []Coordinate{c.Center, c.Edge} }

// Rectangle is an axis-aligned box defined by two opposite corners.
type Rectangle struct {
	A Coordinate `json:"a"`
	B Coordinate `json:"b"`
}

func (r Rectangle) Kind() GeometryKind   { return KindRectangle }
func (r Rectangle) Points() []Coordinate { return []Coordinate{r.A, r.B} }

// Polygon is a closed ring of at least three vertices. The ring is closed
// implicitly; the last vertex does not repeat the first.
type Polygon struct {
	Ring []Coordinate `json:"ring"`
}

func (p Polygon) Kind() GeometryKind   { return KindPolygon }
func (p Polygon) Points() []Coordinate { return p.Ring }

// Freehand is a drawn path of at least two points, display-only.
type Freehand struct {
	Path []Coordinate `json:"path"`
}

func (f Freehand) Kind() GeometryKind   { return KindFreehand }
func (f Freehand) Points() []Coordinate { return f.Path }

// Annotation is an operator-drawn marking on the map. Immutable once
// created except for its acknowledgment set and explicit delete.
type Annotation struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	Color       string           `json:"color"`
	CreatedBy   string           `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	Geometry    Geometry         `json:"geometry"`
	RequiresAck bool             `json:"requiresAck"`
	Priority    string           `json:"priority,omitempty"`
	Acks        []Acknowledgment `json:"acknowledgments"`
}
