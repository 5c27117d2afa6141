package annotation

import (
	"sync"
	"time"

	"github.com/fieldops/gridtrack/pkg/core"
)

// Violation is one asset entering one restricted zone.
type Violation struct {
	AssetID      string
	AgentID      string
	Callsign     string
	AnnotationID string
	Label        string
	At           time.Time
}

// violationStatuses mark an asset as hostile or untracked for zone
// purposes. Inactive counts: assets are never deleted, so inactive is the
// "untracked" state.
func violationStatus(s core.AssetStatus) bool {
	return s == core.StatusAlert || s == core.StatusInactive
}

// Detector fires a violation exactly once per (asset, zone) entry.
// Re-entry after an exit fires again; continuous presence does not. The
// currently-inside set per pair is the state that makes the edge trigger
// work.
type Detector struct {
	mu     sync.Mutex
	inside map[pairKey]bool
}

type pairKey struct {
	assetID      string
	annotationID string
}

// NewDetector creates an empty detector.
func NewDetector() *Detector {
	return &Detector{inside: make(map[pairKey]bool)}
}

// Check evaluates one asset position against the given zones and returns
// the violations fired by this observation.
func (d *Detector) Check(asset core.Asset, zones []core.Annotation, now time.Time) []Violation {
	d.mu.Lock()
	defer d.mu.Unlock()

	var fired []Violation
	hostile := violationStatus(asset.Status)

	for _, zone := range zones {
		key := pairKey{assetID: asset.ID, annotationID: zone.ID}
		in := hostile && ContainsPoint(zone.Geometry, asset.Position)

		if in && !d.inside[key] {
			fired = append(fired, Violation{
				AssetID:      asset.ID,
				AgentID:      asset.AgentID,
				Callsign:     asset.Callsign,
				AnnotationID: zone.ID,
				Label:        zone.Label,
				At:           now,
			})
		}
		if in {
			d.inside[key] = true
		} else {
			delete(d.inside, key)
		}
	}
	return fired
}

// ForgetAnnotation drops pair state for a deleted zone so a recreated
// annotation with the same id starts clean.
func (d *Detector) ForgetAnnotation(annotationID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.inside {
		if key.annotationID == annotationID {
			delete(d.inside, key)
		}
	}
}
