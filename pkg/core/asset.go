// pkg/core/asset.go
package core

import "time"

// AssetStatus is the operational state of a tracked asset.
type AssetStatus string

const (
	StatusActive   AssetStatus = "active"
	StatusInactive AssetStatus = "inactive"
	StatusAlert    AssetStatus = "alert"
	StatusEnroute  AssetStatus = "enroute"
)

// Valid reports whether the status is one of the known values.
func (s AssetStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusAlert, StatusEnroute:
		return true
	}
	return false
}

// Asset is a tracked mobile entity (agent or simulated player). Assets are
// never deleted, only marked inactive.
type Asset struct {
	ID         string      `json:"id"`
	AgentID    string      `json:"agentId"`
	Callsign   string      `json:"callsign"`
	Position   Coordinate  `json:"position"`
	GridCell   GridCell    `json:"gridCell"`
	Status     AssetStatus `json:"status"`
	Speed      float64     `json:"speed,omitempty"`
	Heading    float64     `json:"heading,omitempty"`
	LastUpdate time.Time   `json:"lastUpdate"`
}

// Telemetry is a single position report for an agent, as delivered by the
// sync collaborator.
type Telemetry struct {
	AgentID  string      `json:"agentId"`
	Callsign string      `json:"callsign,omitempty"`
	Position Coordinate  `json:"position"`
	Status   AssetStatus `json:"status,omitempty"`
	Speed    float64     `json:"speed,omitempty"`
	Heading  float64     `json:"heading,omitempty"`
}

// Validate checks the telemetry payload before it is applied.
func (t Telemetry) Validate() error {
	if t.AgentID == "" {
		return &ValidationError{Field: "agentId", Reason: "must not be empty"}
	}
	if err := t.Position.Validate(); err != nil {
		return err
	}
	if t.Status != "" && !t.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status " + string(t.Status)}
	}
	if t.Heading < 0 || t.Heading > 360 {
		return &ValidationError{Field: "heading", Reason: "heading outside [0, 360]"}
	}
	return nil
}
