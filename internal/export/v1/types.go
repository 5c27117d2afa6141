// Package v1 contains the v1 export format for session data. The file is
// a single flat JSON document a debrief tool can consume without access
// to the live stores.
package v1

// Export is the root JSON structure for v1 format.
type Export struct {
	FormatVersion int          `json:"formatVersion"`
	OperatorID    string       `json:"operatorId"`
	TakenAt       string       `json:"takenAt"`
	Assets        []Asset      `json:"assets"`
	Annotations   []Annotation `json:"annotations"`
	Broadcasts    []Broadcast  `json:"broadcasts"`
	Lanes         []Lane       `json:"lanes"`
}

// Asset is one tracked entity with its trail flattened into position rows.
type Asset struct {
	ID         string  `json:"id"`
	AgentID    string  `json:"agentId"`
	Callsign   string  `json:"callsign"`
	Status     string  `json:"status"`
	GridCell   [2]int  `json:"gridCell"`
	TrailColor string  `json:"trailColor,omitempty"`
	TrailWKT   string  `json:"trailWkt,omitempty"`
	// Positions rows are [lat, lon, alt, unixMillis]
	Positions [][]any `json:"positions"`
}

// Annotation is one map marking with its geometry rendered as WKT.
type Annotation struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Color       string   `json:"color"`
	CreatedBy   string   `json:"createdBy"`
	CreatedAt   string   `json:"createdAt"`
	Kind        string   `json:"kind"`
	WKT         string   `json:"wkt"`
	RadiusM     float64  `json:"radiusM,omitempty"`
	RequiresAck bool     `json:"requiresAck"`
	AckedBy     []string `json:"ackedBy"`
}

// Broadcast is one directive with its acknowledgment summary.
type Broadcast struct {
	ID           string   `json:"id"`
	Message      string   `json:"message"`
	Priority     string   `json:"priority,omitempty"`
	IssuedBy     string   `json:"issuedBy"`
	IssuedAt     string   `json:"issuedAt"`
	TargetAgents []string `json:"targetAgents"`
	RequiresAck  bool     `json:"requiresAck"`
	AutoExpireMs int64    `json:"autoExpireMs"`
	// Acks rows are [agentId, response, unixMillis]
	Acks [][]any `json:"acks"`
}

// Lane is one grid-cell relation.
type Lane struct {
	ID       string   `json:"id"`
	From     [2]int   `json:"from"`
	To       [2]int   `json:"to"`
	AssetIDs []string `json:"assetIds"`
	Priority int      `json:"priority"`
	Status   string   `json:"status"`
}
