package annotation

import (
	"testing"

	"github.com/fieldops/gridtrack/internal/geo"
	"github.com/fieldops/gridtrack/pkg/core"
)

func coord(lat, lon float64) core.Coordinate {
	return core.Coordinate{Lat: lat, Lon: lon}
}

func TestValidateGeometry(t *testing.T) {
	tests := []struct {
		name    string
		g       core.Geometry
		wantErr bool
	}{
		{"marker", core.Marker{At: coord(40, -74)}, false},
		{"circle", core.Circle{Center: coord(40, -74), Edge: coord(40.01, -74)}, false},
		{"rectangle", core.Rectangle{A: coord(40, -74), B: coord(41, -73)}, false},
		{"triangle", core.Polygon{Ring: []core.Coordinate{coord(40, -74), coord(41, -74), coord(40.5, -73)}}, false},
		{"polygon too few", core.Polygon{Ring: []core.Coordinate{coord(40, -74), coord(41, -74)}}, true},
		{"freehand", core.Freehand{Path: []core.Coordinate{coord(40, -74), coord(40.1, -74)}}, false},
		{"freehand too few", core.Freehand{Path: []core.Coordinate{coord(40, -74)}}, true},
		{"nil geometry", nil, true},
		{"latitude out of range", core.Marker{At: coord(91, 0)}, true},
		{"longitude out of range", core.Marker{At: coord(0, -181)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGeometry(tt.g)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGeometry() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRadius_Derived(t *testing.T) {
	c := core.Circle{Center: coord(40, -74), Edge: coord(40.01, -74)}
	want := geo.Distance(c.Center, c.Edge)
	if got := Radius(c); got != want {
		t.Errorf("expected radius %f, got %f", want, got)
	}
}

func TestContainsPoint_Circle(t *testing.T) {
	// ~1.1 km radius
	c := core.Circle{Center: coord(40, -74), Edge: coord(40.01, -74)}

	if !ContainsPoint(c, coord(40.005, -74)) {
		t.Error("point strictly inside radius must be contained")
	}
	if !ContainsPoint(c, coord(40, -74)) {
		t.Error("center must be contained")
	}
	if ContainsPoint(c, coord(40.02, -74)) {
		t.Error("point beyond radius must not be contained")
	}
}

func TestContainsPoint_Rectangle(t *testing.T) {
	r := core.Rectangle{A: coord(40.00, -74.00), B: coord(40.01, -73.99)}

	if !ContainsPoint(r, coord(40.005, -73.995)) {
		t.Error("expected (40.005,-73.995) inside")
	}
	if ContainsPoint(r, coord(40.02, -73.99)) {
		t.Error("expected (40.02,-73.99) outside")
	}

	// corner order must not matter
	flipped := core.Rectangle{A: r.B, B: r.A}
	if !ContainsPoint(flipped, coord(40.005, -73.995)) {
		t.Error("corner order must not matter")
	}
}

func TestContainsPoint_Polygon(t *testing.T) {
	square := core.Polygon{Ring: []core.Coordinate{
		coord(40.00, -74.00),
		coord(40.00, -73.90),
		coord(40.10, -73.90),
		coord(40.10, -74.00),
	}}

	if !ContainsPoint(square, coord(40.05, -73.95)) {
		t.Error("square center must be inside")
	}
	if ContainsPoint(square, coord(41, -73.95)) {
		t.Error("far point must be outside")
	}
	if ContainsPoint(square, coord(40.05, -74.05)) {
		t.Error("point west of the square must be outside")
	}
}

func TestContainsPoint_ConcavePolygon(t *testing.T) {
	// U-shape; the notch between the arms is outside
	u := core.Polygon{Ring: []core.Coordinate{
		coord(0, 0), coord(0, 4), coord(3, 4), coord(3, 3),
		coord(1, 3), coord(1, 1), coord(3, 1), coord(3, 0),
	}}

	if !ContainsPoint(u, coord(0.5, 2)) {
		t.Error("base of the U must be inside")
	}
	if ContainsPoint(u, coord(2, 2)) {
		t.Error("notch of the U must be outside")
	}
}

func TestContainsPoint_NoZoneSemantics(t *testing.T) {
	m := core.Marker{At: coord(40, -74)}
	if ContainsPoint(m, coord(40, -74)) {
		t.Error("markers have no containment semantics")
	}

	f := core.Freehand{Path: []core.Coordinate{coord(40, -74), coord(40.1, -74)}}
	if ContainsPoint(f, coord(40.05, -74)) {
		t.Error("freehand paths have no containment semantics")
	}
}
