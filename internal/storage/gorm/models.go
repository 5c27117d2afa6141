package gormstorage

import (
	"time"

	"gorm.io/datatypes"
)

// Models lists every table in the schema, passed to AutoMigrate.
var Models = []interface{}{
	&SessionRow{},
	&AssetRow{},
	&TrailRow{},
	&AnnotationRow{},
	&BroadcastRow{},
	&LaneRow{},
}

// SessionRow holds the snapshot header. Exactly one row exists after a
// save.
type SessionRow struct {
	ID         uint      `gorm:"primarykey"`
	TakenAt    time.Time `json:"takenAt"`
	OperatorID string    `json:"operatorId" gorm:"size:64"`
}

func (*SessionRow) TableName() string {
	return "sessions"
}

// AssetRow is one tracked asset.
type AssetRow struct {
	ID         uint   `gorm:"primarykey"`
	AssetID    string `gorm:"uniqueIndex;size:64"`
	AgentID    string `gorm:"index;size:64"`
	Callsign   string `gorm:"size:64"`
	Lat        float64
	Lon        float64
	Alt        float64
	FixTime    time.Time
	GridX      int
	GridY      int
	Status     string `gorm:"size:16"`
	Speed      float64
	Heading    float64
	LastUpdate time.Time
}

func (*AssetRow) TableName() string {
	return "assets"
}

// TrailRow is one asset's breadcrumb trail, points as a JSON array.
type TrailRow struct {
	ID      uint           `gorm:"primarykey"`
	AssetID string         `gorm:"uniqueIndex;size:64"`
	Color   string         `gorm:"size:16"`
	Points  datatypes.JSON `json:"points"`
}

func (*TrailRow) TableName() string {
	return "trails"
}

// AnnotationRow is one map marking. Points carry the defining coordinates
// as JSON; Wkb carries the derived shape for GIS tooling that reads the
// database directly.
type AnnotationRow struct {
	ID           uint   `gorm:"primarykey"`
	AnnotationID string `gorm:"uniqueIndex;size:64"`
	Label        string `gorm:"size:255"`
	Color        string `gorm:"size:16"`
	CreatedBy    string `gorm:"size:64"`
	CreatedAt    time.Time
	Kind         string         `gorm:"size:16"`
	Points       datatypes.JSON `json:"points"`
	Wkb          []byte
	RequiresAck  bool
	Priority     string         `gorm:"size:16"`
	Acks         datatypes.JSON `json:"acks"`
}

func (*AnnotationRow) TableName() string {
	return "annotations"
}

// BroadcastRow is one operator directive.
type BroadcastRow struct {
	ID           uint   `gorm:"primarykey"`
	BroadcastID  string `gorm:"uniqueIndex;size:64"`
	Message      string `gorm:"size:2000"`
	Priority     string `gorm:"size:16"`
	IssuedBy     string `gorm:"size:64"`
	IssuedAt     time.Time
	TargetAgents datatypes.JSON `json:"targetAgents"`
	RequiresAck  bool
	AutoExpireMs int64
	Acks         datatypes.JSON `json:"acks"`
}

func (*BroadcastRow) TableName() string {
	return "broadcasts"
}

// LaneRow is one grid-cell relation.
type LaneRow struct {
	ID        uint   `gorm:"primarykey"`
	LaneID    string `gorm:"uniqueIndex;size:64"`
	FromX     int
	FromY     int
	ToX       int
	ToY       int
	AssetIDs  datatypes.JSON `json:"assetIds"`
	Priority  int
	Status    string `gorm:"size:16"`
	CreatedAt time.Time
}

func (*LaneRow) TableName() string {
	return "lanes"
}
