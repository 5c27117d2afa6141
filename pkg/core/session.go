// pkg/core/session.go
package core

import "time"

// TrailRecord groups one asset's breadcrumb trail with its styling.
type TrailRecord struct {
	AssetID string       `json:"assetId"`
	Color   string       `json:"color"`
	Points  []Coordinate `json:"points"`
}

// SessionSnapshot is the full session state at one instant. Storage
// backends persist and restore snapshots whole; partial writes are not
// part of the contract.
type SessionSnapshot struct {
	TakenAt     time.Time    `json:"takenAt"`
	OperatorID  string       `json:"operatorId"`
	Assets      []Asset      `json:"assets"`
	Trails      []TrailRecord `json:"trails"`
	Annotations []Annotation `json:"annotations"`
	Broadcasts  []Broadcast  `json:"broadcasts"`
	Lanes       []Lane       `json:"lanes"`
}
