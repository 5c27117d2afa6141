package geo

import (
	"math"

	"github.com/fieldops/gridtrack/pkg/core"
)

// EarthRadiusM is the mean Earth radius used for haversine math.
const EarthRadiusM = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinates using the haversine formula. Symmetric, and 0 for identical
// points.
func Distance(a, b core.Coordinate) float64 {
	if a.Lat == b.Lat && a.Lon == b.Lon {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * EarthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial great-circle bearing from a to b in degrees
// [0, 360). Identical points yield 0, never NaN.
func Bearing(a, b core.Coordinate) float64 {
	if a.Lat == b.Lat && a.Lon == b.Lon {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// TotalDistance sums consecutive pairwise distances along a path.
// Paths shorter than 2 points have length 0.
func TotalDistance(path []core.Coordinate) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += Distance(path[i-1], path[i])
	}
	return total
}

// compassPoints are the 16-point compass labels clockwise from north.
var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassLabel maps a bearing in degrees to one of the 16 compass points.
func CompassLabel(bearing float64) string {
	idx := int(math.Round(math.Mod(bearing+360, 360)/22.5)) % 16
	return compassPoints[idx]
}
