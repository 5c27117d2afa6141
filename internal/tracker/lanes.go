package tracker

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/gridtrack/pkg/core"
)

// CreateLane draws a directed lane between two grid cells with a fixed set
// of assigned assets. Lanes are immutable after creation except for status
// transitions.
func (r *Registry) CreateLane(from, to core.GridCell, assetIDs []string, priority int) (core.Lane, error) {
	if !from.Valid() || !to.Valid() {
		return core.Lane{}, &core.ValidationError{Field: "gridCell", Reason: "cells must lie on the 8x8 grid"}
	}
	if from == to {
		return core.Lane{}, &core.ValidationError{Field: "gridCell", Reason: "lane endpoints must differ"}
	}

	ids := make([]string, len(assetIDs))
	copy(ids, assetIDs)

	lane := core.Lane{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		AssetIDs:  ids,
		Priority:  priority,
		Status:    core.LaneActive,
		CreatedAt: r.now(),
	}

	r.mu.Lock()
	r.lanes[lane.ID] = lane
	subs := r.subscribers
	r.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return lane, nil
}

// TransitionLane moves a lane out of the active state. Only
// active -> completed and active -> compromised are legal.
func (r *Registry) TransitionLane(laneID string, status core.LaneStatus) error {
	if status != core.LaneCompleted && status != core.LaneCompromised {
		return &core.ValidationError{Field: "status", Reason: "lanes can only transition to completed or compromised"}
	}

	r.mu.Lock()
	lane, ok := r.lanes[laneID]
	if !ok {
		r.mu.Unlock()
		return nil // races with removal elsewhere; no-op
	}
	if lane.Status != core.LaneActive {
		r.mu.Unlock()
		return &core.ValidationError{Field: "status", Reason: "lane already " + string(lane.Status)}
	}
	lane.Status = status
	r.lanes[laneID] = lane
	subs := r.subscribers
	r.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return nil
}

// Lane returns a copy of one lane.
func (r *Registry) Lane(laneID string) (core.Lane, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lane, ok := r.lanes[laneID]
	if !ok {
		return core.Lane{}, false
	}
	return copyLane(lane), true
}

// Lanes returns a snapshot of all lanes ordered by creation time.
func (r *Registry) Lanes() []core.Lane {
	r.mu.RLock()
	out := make([]core.Lane, 0, len(r.lanes))
	for _, lane := range r.lanes {
		out = append(out, copyLane(lane))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// LaneCount reports the number of lanes without copying them.
func (r *Registry) LaneCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lanes)
}

// PutLane restores a lane wholesale, e.g. from a persisted snapshot.
func (r *Registry) PutLane(lane core.Lane) {
	if lane.CreatedAt.IsZero() {
		lane.CreatedAt = time.Now()
	}
	r.mu.Lock()
	r.lanes[lane.ID] = lane
	r.mu.Unlock()
}

func copyLane(lane core.Lane) core.Lane {
	ids := make([]string, len(lane.AssetIDs))
	copy(ids, lane.AssetIDs)
	lane.AssetIDs = ids
	return lane
}
