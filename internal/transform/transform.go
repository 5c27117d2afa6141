// Package transform maps geographic coordinates into a bounded 2-D render
// space and onto the 8x8 tactical grid. All math happens in the EPSG:3857
// plane so pan/zoom stay linear.
package transform

import (
	"errors"

	"github.com/fieldops/gridtrack/internal/geo"
	"github.com/fieldops/gridtrack/pkg/core"
)

// ErrNoExtent is returned when a viewport is fitted over zero coordinates.
var ErrNoExtent = errors.New("no coordinates to fit viewport")

const (
	// DefaultPadding is the fraction of the extent added on every side.
	DefaultPadding = 0.20

	// minSpanM pads degenerate (single point) extents so the mapping never
	// divides by zero. 3857 units are meters near the equator.
	minSpanM = 500.0
)

// Pixel is a point in render space.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pan is an unconstrained render-space offset.
type Pan struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the projected bounding box the render surface shows at
// zoom 1 with no pan.
type Viewport struct {
	minX, minY float64
	maxX, maxY float64

	// render surface dimensions in pixels
	width, height float64
}

// Fit builds a viewport over the extent of the given coordinates plus the
// padding fraction on every side. Returns ErrNoExtent for an empty slice.
func Fit(coords []core.Coordinate, pad float64, width, height float64) (*Viewport, error) {
	if len(coords) == 0 {
		return nil, ErrNoExtent
	}

	x0, y0 := geo.ToMercator(coords[0])
	minX, maxX := x0, x0
	minY, maxY := y0, y0
	for _, c := range coords[1:] {
		x, y := geo.ToMercator(c)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX < minSpanM {
		spanX = minSpanM
	}
	if spanY < minSpanM {
		spanY = minSpanM
	}

	return &Viewport{
		minX:   minX - spanX*pad,
		maxX:   maxX + spanX*pad,
		minY:   minY - spanY*pad,
		maxY:   maxY + spanY*pad,
		width:  width,
		height: height,
	}, nil
}

// ToPixel maps a coordinate to render space under the given zoom and pan.
// Render y grows downward.
func (v *Viewport) ToPixel(c core.Coordinate, zoom float64, pan Pan) Pixel {
	x, y := geo.ToMercator(c)
	u := (x - v.minX) / (v.maxX - v.minX)
	w := (v.maxY - y) / (v.maxY - v.minY)
	return Pixel{
		X: u*v.width*zoom + pan.X,
		Y: w*v.height*zoom + pan.Y,
	}
}

// ToCoordinate inverts ToPixel for the same zoom and pan, to within
// floating-point tolerance.
func (v *Viewport) ToCoordinate(p Pixel, zoom float64, pan Pan) core.Coordinate {
	u := (p.X - pan.X) / (v.width * zoom)
	w := (p.Y - pan.Y) / (v.height * zoom)
	x := v.minX + u*(v.maxX-v.minX)
	y := v.maxY - w*(v.maxY-v.minY)
	return geo.FromMercator(x, y)
}

// GridCell maps a coordinate onto the 8x8 tactical grid stretched over the
// viewport bounds. The second return is false outside the bounds. Grid y
// grows downward to match render space.
func (v *Viewport) GridCell(c core.Coordinate) (core.GridCell, bool) {
	x, y := geo.ToMercator(c)
	if x < v.minX || x > v.maxX || y < v.minY || y > v.maxY {
		return core.GridCell{}, false
	}
	u := (x - v.minX) / (v.maxX - v.minX)
	w := (v.maxY - y) / (v.maxY - v.minY)

	cell := core.GridCell{
		X: int(u * core.GridSize),
		Y: int(w * core.GridSize),
	}
	// a point exactly on the max edge belongs to the last cell
	if cell.X == core.GridSize {
		cell.X = core.GridSize - 1
	}
	if cell.Y == core.GridSize {
		cell.Y = core.GridSize - 1
	}
	return cell, true
}
