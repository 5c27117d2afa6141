package geo

import (
	"github.com/wroge/wgs84"

	"github.com/fieldops/gridtrack/pkg/core"
)

// PROJECTION
// Render-space math happens in EPSG:3857 so the pixel mapping stays linear.
// Coordinates everywhere else in the system stay in 4326; only the
// transform layer round-trips through the projected plane.

// ToMercator projects a 4326 coordinate into the 3857 plane.
func ToMercator(c core.Coordinate) (x, y float64) {
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ = f(c.Lon, c.Lat, 0)
	return x, y
}

// FromMercator inverts ToMercator. The returned coordinate has no
// timestamp; the caller owns that.
func FromMercator(x, y float64) core.Coordinate {
	f := wgs84.EPSG().Transform(3857, 4326)
	lon, lat, _ := f(x, y, 0)
	return core.Coordinate{Lat: lat, Lon: lon}
}
