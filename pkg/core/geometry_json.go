// pkg/core/geometry_json.go
package core

import (
	"encoding/json"
	"fmt"
)

// geometryEnvelope is the wire and storage shape for Geometry: a kind tag
// plus the defining points in drawing order.
type geometryEnvelope struct {
	Kind   GeometryKind `json:"kind"`
	Points []Coordinate `json:"points"`
}

// GeometryFromPoints rebuilds a Geometry variant from its kind tag and
// defining points. Point counts are checked against the variant's contract.
func GeometryFromPoints(kind GeometryKind, points []Coordinate) (Geometry, error) {
	switch kind {
	case KindMarker:
		if len(points) != 1 {
			return nil, fmt.Errorf("marker needs exactly 1 point, got %d", len(points))
		}
		return Marker{At: points[0]}, nil
	case KindCircle:
		if len(points) != 2 {
			return nil, fmt.Errorf("circle needs exactly 2 points, got %d", len(points))
		}
		return Circle{Center: points[0], Edge: points[1]}, nil
	case KindRectangle:
		if len(points) != 2 {
			return nil, fmt.Errorf("rectangle needs exactly 2 points, got %d", len(points))
		}
		return Rectangle{A: points[0], B: points[1]}, nil
	case KindPolygon:
		if len(points) < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(points))
		}
		return Polygon{Ring: points}, nil
	case KindFreehand:
		if len(points) < 2 {
			return nil, fmt.Errorf("freehand needs at least 2 points, got %d", len(points))
		}
		return Freehand{Path: points}, nil
	}
	return nil, fmt.Errorf("unknown geometry kind %q", kind)
}

// annotationAlias breaks the MarshalJSON recursion.
type annotationAlias Annotation

type annotationJSON struct {
	annotationAlias
	Geometry geometryEnvelope `json:"geometry"`
}

// MarshalJSON encodes the geometry as a tagged envelope so the interface
// survives a round trip.
func (a Annotation) MarshalJSON() ([]byte, error) {
	doc := annotationJSON{annotationAlias: annotationAlias(a)}
	if a.Geometry != nil {
		doc.Geometry = geometryEnvelope{
			Kind:   a.Geometry.Kind(),
			Points: a.Geometry.Points(),
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON rebuilds the concrete geometry variant from the envelope.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var doc annotationJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*a = Annotation(doc.annotationAlias)
	if doc.Geometry.Kind == "" {
		a.Geometry = nil
		return nil
	}
	g, err := GeometryFromPoints(doc.Geometry.Kind, doc.Geometry.Points)
	if err != nil {
		return err
	}
	a.Geometry = g
	return nil
}
