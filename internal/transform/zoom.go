package transform

// Zoom limits and step. The step is multiplicative so zooming feels uniform
// across the range.
const (
	DefaultZoomMin  = 0.5
	DefaultZoomMax  = 5.0
	DefaultZoomStep = 1.25
)

// ZoomRange clamps zoom values into a configured window.
type ZoomRange struct {
	Min  float64
	Max  float64
	Step float64
}

// DefaultZoomRange returns the standard [0.5, 5] range.
func DefaultZoomRange() ZoomRange {
	return ZoomRange{Min: DefaultZoomMin, Max: DefaultZoomMax, Step: DefaultZoomStep}
}

// RangeBetween builds a zoom range over [min, max] with the standard step.
// Non-positive or inverted bounds fall back to the defaults.
func RangeBetween(min, max float64) ZoomRange {
	if min <= 0 || max <= 0 || min > max {
		return DefaultZoomRange()
	}
	return ZoomRange{Min: min, Max: max, Step: DefaultZoomStep}
}

// Clamp forces z into [Min, Max]. Non-positive values clamp to Min.
func (r ZoomRange) Clamp(z float64) float64 {
	if z < r.Min {
		return r.Min
	}
	if z > r.Max {
		return r.Max
	}
	return z
}

// In returns the next zoom level in, clamped.
func (r ZoomRange) In(z float64) float64 {
	return r.Clamp(z * r.Step)
}

// Out returns the next zoom level out, clamped.
func (r ZoomRange) Out(z float64) float64 {
	return r.Clamp(z / r.Step)
}
