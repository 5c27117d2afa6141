package transform

import (
	"math"
	"testing"

	"github.com/fieldops/gridtrack/pkg/core"
)

func coord(lat, lon float64) core.Coordinate {
	return core.Coordinate{Lat: lat, Lon: lon}
}

func testViewport(t *testing.T) *Viewport {
	t.Helper()
	vp, err := Fit([]core.Coordinate{
		coord(40.70, -74.02),
		coord(40.80, -73.90),
	}, DefaultPadding, 1024, 768)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return vp
}

func TestFit_Empty(t *testing.T) {
	if _, err := Fit(nil, DefaultPadding, 1024, 768); err != ErrNoExtent {
		t.Errorf("expected ErrNoExtent, got %v", err)
	}
}

func TestFit_SinglePointDegenerate(t *testing.T) {
	vp, err := Fit([]core.Coordinate{coord(40.75, -73.98)}, DefaultPadding, 1024, 768)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vp.maxX-vp.minX <= 0 || vp.maxY-vp.minY <= 0 {
		t.Error("degenerate extent must still have a positive span")
	}

	// the point itself maps somewhere finite
	p := vp.ToPixel(coord(40.75, -73.98), 1, Pan{})
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		t.Errorf("pixel not finite: %+v", p)
	}
}

func TestPixelRoundTrip(t *testing.T) {
	vp := testViewport(t)

	zooms := []float64{0.5, 1, 2.37, 5}
	pans := []Pan{{}, {X: 100, Y: -250}, {X: -9999.5, Y: 42}}
	points := []core.Coordinate{
		coord(40.70, -74.02),
		coord(40.75, -73.96),
		coord(40.80, -73.90),
		coord(40.99, -74.40), // outside the fitted extent, mapping still holds
	}

	for _, z := range zooms {
		for _, pan := range pans {
			for _, c := range points {
				px := vp.ToPixel(c, z, pan)
				back := vp.ToCoordinate(px, z, pan)
				if math.Abs(back.Lat-c.Lat) > 1e-6 || math.Abs(back.Lon-c.Lon) > 1e-6 {
					t.Errorf("round trip zoom=%v pan=%+v: %+v -> %+v", z, pan, c, back)
				}
			}
		}
	}
}

func TestToPixel_OrientationAndOrder(t *testing.T) {
	vp := testViewport(t)

	west := vp.ToPixel(coord(40.75, -74.01), 1, Pan{})
	east := vp.ToPixel(coord(40.75, -73.91), 1, Pan{})
	if west.X >= east.X {
		t.Errorf("east must render right of west: %f >= %f", west.X, east.X)
	}

	north := vp.ToPixel(coord(40.79, -73.96), 1, Pan{})
	south := vp.ToPixel(coord(40.71, -73.96), 1, Pan{})
	if north.Y >= south.Y {
		t.Errorf("north must render above south: %f >= %f", north.Y, south.Y)
	}
}

func TestGridCell_AlwaysEightByEight(t *testing.T) {
	vp := testViewport(t)

	cell, ok := vp.GridCell(coord(40.75, -73.96))
	if !ok {
		t.Fatal("expected point inside bounds")
	}
	if !cell.Valid() {
		t.Errorf("cell out of grid: %+v", cell)
	}
}

func TestGridCell_OutsideBounds(t *testing.T) {
	vp := testViewport(t)

	if _, ok := vp.GridCell(coord(10, 10)); ok {
		t.Error("expected point far outside bounds to be rejected")
	}
}

func TestGridCell_CornersLandInCornerCells(t *testing.T) {
	vp, err := Fit([]core.Coordinate{
		coord(40.0, -74.0),
		coord(41.0, -73.0),
	}, 0, 1000, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nw, ok := vp.GridCell(coord(41.0, -74.0))
	if !ok || nw.X != 0 || nw.Y != 0 {
		t.Errorf("north-west corner: got %+v ok=%v", nw, ok)
	}
	se, ok := vp.GridCell(coord(40.0, -73.0))
	if !ok || se.X != core.GridSize-1 || se.Y != core.GridSize-1 {
		t.Errorf("south-east corner: got %+v ok=%v", se, ok)
	}
}

func TestZoomRange(t *testing.T) {
	r := DefaultZoomRange()

	if got := r.Clamp(0.1); got != r.Min {
		t.Errorf("expected clamp to %f, got %f", r.Min, got)
	}
	if got := r.Clamp(100); got != r.Max {
		t.Errorf("expected clamp to %f, got %f", r.Max, got)
	}
	if got := r.Clamp(2); got != 2 {
		t.Errorf("expected 2 unchanged, got %f", got)
	}

	z := r.In(1)
	if math.Abs(z-1.25) > 1e-9 {
		t.Errorf("expected multiplicative step, got %f", z)
	}
	if got := r.In(r.Max); got != r.Max {
		t.Errorf("zooming in at max must stay at max, got %f", got)
	}
	if got := r.Out(r.Min); got != r.Min {
		t.Errorf("zooming out at min must stay at min, got %f", got)
	}
}

func TestRangeBetween(t *testing.T) {
	r := RangeBetween(1, 3)
	if r.Min != 1 || r.Max != 3 || r.Step != DefaultZoomStep {
		t.Errorf("unexpected range: %+v", r)
	}
	if got := r.Clamp(5); got != 3 {
		t.Errorf("expected clamp to configured max, got %f", got)
	}

	for _, bad := range []ZoomRange{
		RangeBetween(0, 3),
		RangeBetween(-1, 3),
		RangeBetween(3, 1),
	} {
		if bad != DefaultZoomRange() {
			t.Errorf("invalid bounds should fall back to defaults, got %+v", bad)
		}
	}
}
