package annotation

import (
	"fmt"

	"github.com/fieldops/gridtrack/internal/geo"
	"github.com/fieldops/gridtrack/pkg/core"
)

// ValidateGeometry enforces the per-kind point contract before anything is
// committed: exactly 1 point for markers, exactly 2 for circles (center +
// edge) and rectangles (opposite corners), at least 3 for polygons, at
// least 2 for freehand paths.
func ValidateGeometry(g core.Geometry) error {
	if g == nil {
		return &core.ValidationError{Field: "geometry", Reason: "must not be nil"}
	}

	for i, p := range g.Points() {
		if err := p.Validate(); err != nil {
			return &core.ValidationError{
				Field:  fmt.Sprintf("points[%d]", i),
				Reason: err.Error(),
			}
		}
	}

	switch s := g.(type) {
	case core.Marker, core.Circle, core.Rectangle:
		// fixed-arity shapes carry exactly the fields they need
		return nil
	case core.Polygon:
		if len(s.Ring) < 3 {
			return &core.ValidationError{Field: "ring", Reason: "polygon needs at least 3 vertices"}
		}
	case core.Freehand:
		if len(s.Path) < 2 {
			return &core.ValidationError{Field: "path", Reason: "freehand needs at least 2 points"}
		}
	default:
		return &core.ValidationError{Field: "geometry", Reason: fmt.Sprintf("unknown kind %q", g.Kind())}
	}
	return nil
}

// Radius returns the derived radius of a circle in meters: the geodesic
// distance from center to edge point.
func Radius(c core.Circle) float64 {
	return geo.Distance(c.Center, c.Edge)
}

// ContainsPoint is the geofence predicate. Markers and freehand paths have
// no containment semantics and never contain anything.
func ContainsPoint(g core.Geometry, p core.Coordinate) bool {
	switch s := g.(type) {
	case core.Circle:
		return geo.Distance(s.Center, p) <= Radius(s)
	case core.Rectangle:
		return inBox(s, p)
	case core.Polygon:
		return inRing(s.Ring, p)
	case core.Marker, core.Freehand:
		return false
	default:
		return false
	}
}

func inBox(r core.Rectangle, p core.Coordinate) bool {
	minLat, maxLat := r.A.Lat, r.B.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLon, maxLon := r.A.Lon, r.B.Lon
	if minLon > maxLon {
		minLon, maxLon = maxLon, minLon
	}
	return p.Lat >= minLat && p.Lat <= maxLat && p.Lon >= minLon && p.Lon <= maxLon
}

// inRing is the standard even-odd ray cast over the ring taken as closed.
func inRing(ring []core.Coordinate, p core.Coordinate) bool {
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		yi, xi := ring[i].Lat, ring[i].Lon
		yj, xj := ring[j].Lat, ring[j].Lon
		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lon < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}
