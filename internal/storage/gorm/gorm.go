// Package gormstorage persists session snapshots through gorm, preferring
// Postgres with a SQLite fallback so a session survives the network.
package gormstorage

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fieldops/gridtrack/internal/database"
	"github.com/fieldops/gridtrack/pkg/core"
)

// DefaultSqlitePath is where the fallback database lands.
const DefaultSqlitePath = "./gridtrack_session.db"

// Backend stores snapshots in a relational schema. A save replaces the
// previous snapshot wholesale inside one transaction.
type Backend struct {
	mgr    *database.Manager
	logger zerolog.Logger
}

// New creates a gorm-backed Backend. The connection opens in Init.
func New(logger zerolog.Logger) *Backend {
	return &Backend{
		mgr:    database.NewManager(logger, DefaultSqlitePath),
		logger: logger.With().Str("backend", "gorm").Logger(),
	}
}

// NewWithDB creates a Backend over an already-open connection (used by
// tests).
func NewWithDB(db *gorm.DB, logger zerolog.Logger) *Backend {
	mgr := database.NewManager(logger, "")
	mgr.DB = db
	mgr.IsValid = true
	return &Backend{mgr: mgr, logger: logger}
}

// Init connects and migrates the schema.
func (b *Backend) Init() error {
	if b.mgr.DB == nil {
		if err := b.mgr.Connect(); err != nil {
			return err
		}
	}
	return b.mgr.Migrate(Models...)
}

// Close releases the connection, dumping the in-memory fallback to disk
// first when one is in use.
func (b *Backend) Close() error {
	return b.mgr.Close()
}

// SaveSnapshot replaces the persisted session state.
func (b *Backend) SaveSnapshot(s core.SessionSnapshot) error {
	if !b.mgr.IsValid {
		return fmt.Errorf("database not valid")
	}

	return b.mgr.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range Models {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clearing table: %w", err)
			}
		}

		if err := tx.Create(&SessionRow{TakenAt: s.TakenAt, OperatorID: s.OperatorID}).Error; err != nil {
			return fmt.Errorf("saving session row: %w", err)
		}

		for _, a := range s.Assets {
			row := toAssetRow(a)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("saving asset %s: %w", a.ID, err)
			}
		}

		for _, t := range s.Trails {
			row, err := toTrailRow(t)
			if err != nil {
				return err
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("saving trail %s: %w", t.AssetID, err)
			}
		}

		for _, a := range s.Annotations {
			row, err := toAnnotationRow(a)
			if err != nil {
				return err
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("saving annotation %s: %w", a.ID, err)
			}
		}

		for _, bc := range s.Broadcasts {
			row, err := toBroadcastRow(bc)
			if err != nil {
				return err
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("saving broadcast %s: %w", bc.ID, err)
			}
		}

		for _, l := range s.Lanes {
			row, err := toLaneRow(l)
			if err != nil {
				return err
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("saving lane %s: %w", l.ID, err)
			}
		}

		return nil
	})
}

// LoadSnapshot reads the persisted session state. An empty database
// returns an empty snapshot.
func (b *Backend) LoadSnapshot() (core.SessionSnapshot, error) {
	var s core.SessionSnapshot
	if !b.mgr.IsValid {
		return s, fmt.Errorf("database not valid")
	}
	db := b.mgr.DB

	var session SessionRow
	err := db.First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("loading session row: %w", err)
	}
	s.TakenAt = session.TakenAt
	s.OperatorID = session.OperatorID

	var assetRows []AssetRow
	if err := db.Find(&assetRows).Error; err != nil {
		return s, fmt.Errorf("loading assets: %w", err)
	}
	for _, r := range assetRows {
		s.Assets = append(s.Assets, fromAssetRow(r))
	}

	var trailRows []TrailRow
	if err := db.Find(&trailRows).Error; err != nil {
		return s, fmt.Errorf("loading trails: %w", err)
	}
	for _, r := range trailRows {
		t, err := fromTrailRow(r)
		if err != nil {
			return s, err
		}
		s.Trails = append(s.Trails, t)
	}

	var annotationRows []AnnotationRow
	if err := db.Find(&annotationRows).Error; err != nil {
		return s, fmt.Errorf("loading annotations: %w", err)
	}
	for _, r := range annotationRows {
		a, err := fromAnnotationRow(r)
		if err != nil {
			return s, err
		}
		s.Annotations = append(s.Annotations, a)
	}

	var broadcastRows []BroadcastRow
	if err := db.Find(&broadcastRows).Error; err != nil {
		return s, fmt.Errorf("loading broadcasts: %w", err)
	}
	for _, r := range broadcastRows {
		bc, err := fromBroadcastRow(r)
		if err != nil {
			return s, err
		}
		s.Broadcasts = append(s.Broadcasts, bc)
	}

	var laneRows []LaneRow
	if err := db.Find(&laneRows).Error; err != nil {
		return s, fmt.Errorf("loading lanes: %w", err)
	}
	for _, r := range laneRows {
		l, err := fromLaneRow(r)
		if err != nil {
			return s, err
		}
		s.Lanes = append(s.Lanes, l)
	}

	return s, nil
}
