// pkg/core/lane.go
package core

import "time"

// LaneStatus is the lifecycle state of a lane.
type LaneStatus string

const (
	LaneActive      LaneStatus = "active"
	LaneCompleted   LaneStatus = "completed"
	LaneCompromised LaneStatus = "compromised"
)

// Valid reports whether the status is one of the known values.
func (s LaneStatus) Valid() bool {
	switch s {
	case LaneActive, LaneCompleted, LaneCompromised:
		return true
	}
	return false
}

// Lane is a directed relation between two grid cells with assigned assets.
// Immutable once created except for status transitions.
type Lane struct {
	ID        string     `json:"id"`
	From      GridCell   `json:"from"`
	To        GridCell   `json:"to"`
	AssetIDs  []string   `json:"assetIds"`
	Priority  int        `json:"priority"`
	Status    LaneStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}
