package main

import (
	"time"

	"github.com/fieldops/gridtrack/internal/annotation"
	"github.com/fieldops/gridtrack/internal/broadcast"
	"github.com/fieldops/gridtrack/internal/tracker"
	"github.com/fieldops/gridtrack/internal/trail"
	"github.com/fieldops/gridtrack/pkg/core"
)

// captureSnapshot collects the full session state from the live stores.
func captureSnapshot(
	reg *tracker.Registry,
	trails *trail.Buffer,
	annotations *annotation.Store,
	broadcasts *broadcast.Store,
	operatorID string,
) core.SessionSnapshot {
	snap := core.SessionSnapshot{
		TakenAt:     time.Now(),
		OperatorID:  operatorID,
		Assets:      reg.Assets(),
		Annotations: annotations.List(),
		Broadcasts:  broadcasts.List(),
		Lanes:       reg.Lanes(),
	}

	for _, a := range snap.Assets {
		points := trails.Points(a.ID)
		if len(points) == 0 {
			continue
		}
		snap.Trails = append(snap.Trails, core.TrailRecord{
			AssetID: a.ID,
			Color:   trails.Color(a.ID),
			Points:  points,
		})
	}
	return snap
}

// restoreSnapshot loads persisted session state back into the live stores.
func restoreSnapshot(
	snap core.SessionSnapshot,
	reg *tracker.Registry,
	trails *trail.Buffer,
	annotations *annotation.Store,
	broadcasts *broadcast.Store,
) {
	for _, a := range snap.Assets {
		reg.PutAsset(a)
	}
	for _, t := range snap.Trails {
		trails.Restore(t.AssetID, t.Points, t.Color)
	}
	for _, a := range snap.Annotations {
		annotations.Put(a)
	}
	for _, b := range snap.Broadcasts {
		broadcasts.Merge(b)
	}
	for _, l := range snap.Lanes {
		reg.PutLane(l)
	}
}
