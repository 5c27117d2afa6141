// pkg/core/coordinate.go
package core

import (
	"fmt"
	"time"
)

// Coordinate is a geographic position fix in EPSG:4326.
type Coordinate struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Alt       float64   `json:"alt,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate rejects out-of-range coordinates. Values are never clamped into
// the model; a fix outside the valid range is discarded by the caller.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return &ValidationError{Field: "lat", Reason: fmt.Sprintf("latitude %v outside [-90, 90]", c.Lat)}
	}
	if c.Lon < -180 || c.Lon > 180 {
		return &ValidationError{Field: "lon", Reason: fmt.Sprintf("longitude %v outside [-180, 180]", c.Lon)}
	}
	return nil
}

// GridCell is a cell on the 8x8 tactical grid.
type GridCell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GridSize is the number of cells per axis of the tactical grid. The grid is
// always 8x8 regardless of the geographic extent it is stretched over.
const GridSize = 8

// Valid reports whether the cell lies on the grid.
func (g GridCell) Valid() bool {
	return g.X >= 0 && g.X < GridSize && g.Y >= 0 && g.Y < GridSize
}
