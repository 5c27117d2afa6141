// Package trail keeps a bounded, time-ordered position history per asset.
package trail

import (
	"sync"

	"github.com/fieldops/gridtrack/internal/geo"
	"github.com/fieldops/gridtrack/pkg/core"
)

// Capacity is the hard cap on retained positions per asset. The oldest
// entry is evicted first.
const Capacity = 100

// ColorFor is the trail styling rule: a pure function of the asset's
// current status. It is recomputed on every record so the rendered color
// always matches the latest status, even for segments recorded earlier.
func ColorFor(status core.AssetStatus) string {
	switch status {
	case core.StatusActive:
		return "#2e7d32"
	case core.StatusAlert:
		return "#c62828"
	case core.StatusEnroute:
		return "#1565c0"
	case core.StatusInactive:
		return "#757575"
	default:
		return "#757575"
	}
}

// Summary describes a trail without exposing its points.
type Summary struct {
	PointCount    int     `json:"pointCount"`
	TotalDistance float64 `json:"totalDistance"`
	DurationMs    int64   `json:"durationMs"`
}

type record struct {
	points []core.Coordinate
	color  string
}

// Buffer holds all asset trails. Trails are created lazily on first
// observation and only ever cleared by explicit operator action.
type Buffer struct {
	mu     sync.RWMutex
	trails map[string]*record
}

// NewBuffer creates an empty trail buffer.
func NewBuffer() *Buffer {
	return &Buffer{trails: make(map[string]*record)}
}

// Record appends a coordinate to the asset's trail, evicting from the front
// once the capacity is exceeded. Arrival order is preserved as-is; entries
// are never re-sorted by their embedded timestamps.
func (b *Buffer) Record(assetID string, c core.Coordinate, status core.AssetStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, ok := b.trails[assetID]
	if !ok {
		r = &record{points: make([]core.Coordinate, 0, Capacity)}
		b.trails[assetID] = r
	}

	r.points = append(r.points, c)
	if len(r.points) > Capacity {
		r.points = r.points[len(r.points)-Capacity:]
	}
	r.color = ColorFor(status)
}

// Restore replaces the asset's trail wholesale, e.g. from a persisted
// snapshot. The capacity cap still applies.
func (b *Buffer) Restore(assetID string, points []core.Coordinate, color string) {
	if len(points) > Capacity {
		points = points[len(points)-Capacity:]
	}
	r := &record{points: make([]core.Coordinate, len(points), Capacity), color: color}
	copy(r.points, points)

	b.mu.Lock()
	b.trails[assetID] = r
	b.mu.Unlock()
}

// Clear empties the asset's trail but keeps its identity and styling.
// Unknown assets are a no-op.
func (b *Buffer) Clear(assetID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r, ok := b.trails[assetID]; ok {
		r.points = r.points[:0]
	}
}

// Points returns a copy of the asset's trail in arrival order.
func (b *Buffer) Points(assetID string) []core.Coordinate {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, ok := b.trails[assetID]
	if !ok {
		return nil
	}
	out := make([]core.Coordinate, len(r.points))
	copy(out, r.points)
	return out
}

// Color returns the trail's current rendered color.
func (b *Buffer) Color(assetID string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if r, ok := b.trails[assetID]; ok {
		return r.color
	}
	return ""
}

// Summarize reports point count, geodesic length and duration of a trail.
// Duration is last-minus-first timestamp, 0 with fewer than 2 points.
func (b *Buffer) Summarize(assetID string) Summary {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, ok := b.trails[assetID]
	if !ok {
		return Summary{}
	}

	s := Summary{PointCount: len(r.points)}
	if len(r.points) < 2 {
		return s
	}
	s.TotalDistance = geo.TotalDistance(r.points)
	first := r.points[0].Timestamp
	last := r.points[len(r.points)-1].Timestamp
	s.DurationMs = last.Sub(first).Milliseconds()
	return s
}

// AssetIDs returns the ids of all assets with a trail, including cleared
// ones.
func (b *Buffer) AssetIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.trails))
	for id := range b.trails {
		ids = append(ids, id)
	}
	return ids
}
