// Package tracker owns the asset roster: current positions, statuses,
// derived grid cells, and the lanes drawn between grid cells. It is the
// only writer for asset state; the trail buffer records history as a side
// effect of every accepted position update.
package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/gridtrack/internal/trail"
	"github.com/fieldops/gridtrack/internal/transform"
	"github.com/fieldops/gridtrack/pkg/core"
)

// Registry tracks all known assets. Assets are created on first
// observation and never deleted, only marked inactive.
type Registry struct {
	mu          sync.RWMutex
	assets      map[string]core.Asset // keyed by AgentID
	lanes       map[string]core.Lane
	viewport    *transform.Viewport
	subscribers []func()

	trails        *trail.Buffer
	width, height float64
	zoom          transform.ZoomRange
	now           func() time.Time
}

// NewRegistry creates an empty registry. The render dimensions size the
// viewport the tactical grid is stretched over.
func NewRegistry(trails *trail.Buffer, width, height float64) *Registry {
	return &Registry{
		assets: make(map[string]core.Asset),
		lanes:  make(map[string]core.Lane),
		trails: trails,
		width:  width,
		height: height,
		zoom:   transform.DefaultZoomRange(),
		now:    time.Now,
	}
}

// SetZoomRange replaces the zoom window projections clamp into.
func (r *Registry) SetZoomRange(zr transform.ZoomRange) {
	r.mu.Lock()
	r.zoom = zr
	r.mu.Unlock()
}

// ZoomRange returns the configured zoom window.
func (r *Registry) ZoomRange() transform.ZoomRange {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.zoom
}

// Subscribe registers a change callback fired after every committed update.
func (r *Registry) Subscribe(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// ApplyTelemetry validates and applies one position report. Reports are
// applied in arrival order: a later call always wins for the current
// position even if its embedded timestamp is older, so clock skew between
// clients cannot reorder the view.
func (r *Registry) ApplyTelemetry(tel core.Telemetry) (core.Asset, error) {
	if err := tel.Validate(); err != nil {
		return core.Asset{}, err
	}

	r.mu.Lock()
	a, ok := r.assets[tel.AgentID]
	if !ok {
		a = core.Asset{
			ID:      uuid.NewString(),
			AgentID: tel.AgentID,
			Status:  core.StatusActive,
		}
	}
	if tel.Callsign != "" {
		a.Callsign = tel.Callsign
	}
	a.Position = tel.Position
	a.Speed = tel.Speed
	a.Heading = tel.Heading
	if tel.Status != "" {
		a.Status = tel.Status
	}
	a.LastUpdate = r.now()

	r.assets[tel.AgentID] = a
	r.refitLocked()
	a = r.assets[tel.AgentID] // pick up the refreshed grid cell
	subs := r.subscribers
	r.mu.Unlock()

	if r.trails != nil {
		r.trails.Record(a.ID, tel.Position, a.Status)
	}
	for _, fn := range subs {
		fn()
	}
	return a, nil
}

// refitLocked rebuilds the viewport over all current positions and
// re-derives every asset's grid cell. Cells scale with the extent, so a
// single distant asset shifts everyone's cell.
func (r *Registry) refitLocked() {
	coords := make([]core.Coordinate, 0, len(r.assets))
	for _, a := range r.assets {
		coords = append(coords, a.Position)
	}
	vp, err := transform.Fit(coords, transform.DefaultPadding, r.width, r.height)
	if err != nil {
		return
	}
	r.viewport = vp
	for id, a := range r.assets {
		if cell, ok := vp.GridCell(a.Position); ok {
			a.GridCell = cell
			r.assets[id] = a
		}
	}
}

// PutAsset restores an asset wholesale, e.g. from a persisted snapshot.
// Validation already happened when the asset was first applied.
func (r *Registry) PutAsset(a core.Asset) {
	r.mu.Lock()
	r.assets[a.AgentID] = a
	r.refitLocked()
	r.mu.Unlock()
}

// SetStatus updates an asset's status. Unknown agents are a no-op.
func (r *Registry) SetStatus(agentID string, status core.AssetStatus) error {
	if !status.Valid() {
		return &core.ValidationError{Field: "status", Reason: "unknown status " + string(status)}
	}

	r.mu.Lock()
	a, ok := r.assets[agentID]
	if ok {
		a.Status = status
		a.LastUpdate = r.now()
		r.assets[agentID] = a
	}
	subs := r.subscribers
	r.mu.Unlock()

	if ok {
		for _, fn := range subs {
			fn()
		}
	}
	return nil
}

// Deactivate marks an asset inactive. Assets are never removed.
func (r *Registry) Deactivate(agentID string) {
	r.SetStatus(agentID, core.StatusInactive)
}

// Asset returns a copy of the asset for the given agent.
func (r *Registry) Asset(agentID string) (core.Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[agentID]
	return a, ok
}

// Assets returns a snapshot of all assets ordered by agent id.
func (r *Registry) Assets() []core.Asset {
	r.mu.RLock()
	out := make([]core.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].AgentID < out[j].AgentID })
	return out
}

// Roster returns all known agent ids, sorted.
func (r *Registry) Roster() []string {
	assets := r.Assets()
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.AgentID
	}
	return ids
}

// Viewport returns the current auto-fitted viewport, or nil before the
// first position report.
func (r *Registry) Viewport() *transform.Viewport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.viewport
}

// Project maps an asset's current position into render space. The zoom is
// clamped into the configured range first. The second return is false for
// unknown agents or before the first position report.
func (r *Registry) Project(agentID string, zoom float64, pan transform.Pan) (transform.Pixel, bool) {
	r.mu.RLock()
	a, ok := r.assets[agentID]
	vp := r.viewport
	z := r.zoom.Clamp(zoom)
	r.mu.RUnlock()

	if !ok || vp == nil {
		return transform.Pixel{}, false
	}
	return vp.ToPixel(a.Position, z, pan), true
}

// Len returns the number of known assets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assets)
}
