package gormstorage

import (
	"encoding/json"
	"fmt"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/fieldops/gridtrack/pkg/core"
)

func toAssetRow(a core.Asset) AssetRow {
	return AssetRow{
		AssetID:    a.ID,
		AgentID:    a.AgentID,
		Callsign:   a.Callsign,
		Lat:        a.Position.Lat,
		Lon:        a.Position.Lon,
		Alt:        a.Position.Alt,
		FixTime:    a.Position.Timestamp,
		GridX:      a.GridCell.X,
		GridY:      a.GridCell.Y,
		Status:     string(a.Status),
		Speed:      a.Speed,
		Heading:    a.Heading,
		LastUpdate: a.LastUpdate,
	}
}

func fromAssetRow(r AssetRow) core.Asset {
	return core.Asset{
		ID:       r.AssetID,
		AgentID:  r.AgentID,
		Callsign: r.Callsign,
		Position: core.Coordinate{
			Lat:       r.Lat,
			Lon:       r.Lon,
			Alt:       r.Alt,
			Timestamp: r.FixTime,
		},
		GridCell:   core.GridCell{X: r.GridX, Y: r.GridY},
		Status:     core.AssetStatus(r.Status),
		Speed:      r.Speed,
		Heading:    r.Heading,
		LastUpdate: r.LastUpdate,
	}
}

func toTrailRow(t core.TrailRecord) (TrailRow, error) {
	points, err := json.Marshal(t.Points)
	if err != nil {
		return TrailRow{}, fmt.Errorf("encoding trail points: %w", err)
	}
	return TrailRow{
		AssetID: t.AssetID,
		Color:   t.Color,
		Points:  datatypes.JSON(points),
	}, nil
}

func fromTrailRow(r TrailRow) (core.TrailRecord, error) {
	var points []core.Coordinate
	if len(r.Points) > 0 {
		if err := json.Unmarshal(r.Points, &points); err != nil {
			return core.TrailRecord{}, fmt.Errorf("decoding trail points: %w", err)
		}
	}
	return core.TrailRecord{
		AssetID: r.AssetID,
		Color:   r.Color,
		Points:  points,
	}, nil
}

func toAnnotationRow(a core.Annotation) (AnnotationRow, error) {
	row := AnnotationRow{
		AnnotationID: a.ID,
		Label:        a.Label,
		Color:        a.Color,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		RequiresAck:  a.RequiresAck,
		Priority:     a.Priority,
	}

	if a.Geometry != nil {
		row.Kind = string(a.Geometry.Kind())
		points, err := json.Marshal(a.Geometry.Points())
		if err != nil {
			return AnnotationRow{}, fmt.Errorf("encoding geometry points: %w", err)
		}
		row.Points = datatypes.JSON(points)
		row.Wkb = geometryWKB(a.Geometry)
	}

	acks, err := json.Marshal(a.Acks)
	if err != nil {
		return AnnotationRow{}, fmt.Errorf("encoding acks: %w", err)
	}
	row.Acks = datatypes.JSON(acks)
	return row, nil
}

func fromAnnotationRow(r AnnotationRow) (core.Annotation, error) {
	a := core.Annotation{
		ID:          r.AnnotationID,
		Label:       r.Label,
		Color:       r.Color,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		RequiresAck: r.RequiresAck,
		Priority:    r.Priority,
	}

	if r.Kind != "" {
		var points []core.Coordinate
		if err := json.Unmarshal(r.Points, &points); err != nil {
			return core.Annotation{}, fmt.Errorf("decoding geometry points: %w", err)
		}
		g, err := core.GeometryFromPoints(core.GeometryKind(r.Kind), points)
		if err != nil {
			return core.Annotation{}, err
		}
		a.Geometry = g
	}

	if len(r.Acks) > 0 {
		if err := json.Unmarshal(r.Acks, &a.Acks); err != nil {
			return core.Annotation{}, fmt.Errorf("decoding acks: %w", err)
		}
	}
	return a, nil
}

func toBroadcastRow(b core.Broadcast) (BroadcastRow, error) {
	targets, err := json.Marshal(b.TargetAgents)
	if err != nil {
		return BroadcastRow{}, fmt.Errorf("encoding targets: %w", err)
	}
	acks, err := json.Marshal(b.Acks)
	if err != nil {
		return BroadcastRow{}, fmt.Errorf("encoding acks: %w", err)
	}
	return BroadcastRow{
		BroadcastID:  b.ID,
		Message:      b.Message,
		Priority:     b.Priority,
		IssuedBy:     b.IssuedBy,
		IssuedAt:     b.IssuedAt,
		TargetAgents: datatypes.JSON(targets),
		RequiresAck:  b.RequiresAck,
		AutoExpireMs: b.AutoExpire.Milliseconds(),
		Acks:         datatypes.JSON(acks),
	}, nil
}

func fromBroadcastRow(r BroadcastRow) (core.Broadcast, error) {
	b := core.Broadcast{
		ID:          r.BroadcastID,
		Message:     r.Message,
		Priority:    r.Priority,
		IssuedBy:    r.IssuedBy,
		IssuedAt:    r.IssuedAt,
		RequiresAck: r.RequiresAck,
		AutoExpire:  time.Duration(r.AutoExpireMs) * time.Millisecond,
	}
	if len(r.TargetAgents) > 0 {
		if err := json.Unmarshal(r.TargetAgents, &b.TargetAgents); err != nil {
			return core.Broadcast{}, fmt.Errorf("decoding targets: %w", err)
		}
	}
	if len(r.Acks) > 0 {
		if err := json.Unmarshal(r.Acks, &b.Acks); err != nil {
			return core.Broadcast{}, fmt.Errorf("decoding acks: %w", err)
		}
	}
	return b, nil
}

func toLaneRow(l core.Lane) (LaneRow, error) {
	assetIDs, err := json.Marshal(l.AssetIDs)
	if err != nil {
		return LaneRow{}, fmt.Errorf("encoding lane assets: %w", err)
	}
	return LaneRow{
		LaneID:    l.ID,
		FromX:     l.From.X,
		FromY:     l.From.Y,
		ToX:       l.To.X,
		ToY:       l.To.Y,
		AssetIDs:  datatypes.JSON(assetIDs),
		Priority:  l.Priority,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
	}, nil
}

func fromLaneRow(r LaneRow) (core.Lane, error) {
	l := core.Lane{
		ID:        r.LaneID,
		From:      core.GridCell{X: r.FromX, Y: r.FromY},
		To:        core.GridCell{X: r.ToX, Y: r.ToY},
		Priority:  r.Priority,
		Status:    core.LaneStatus(r.Status),
		CreatedAt: r.CreatedAt,
	}
	if len(r.AssetIDs) > 0 {
		if err := json.Unmarshal(r.AssetIDs, &l.AssetIDs); err != nil {
			return core.Lane{}, fmt.Errorf("decoding lane assets: %w", err)
		}
	}
	return l, nil
}

// geometryWKB renders the derived shape in lon/lat order. Circles store
// their center; the Points JSON remains the source of truth.
func geometryWKB(g core.Geometry) []byte {
	switch v := g.(type) {
	case core.Marker:
		return pointOf(v.At).AsBinary()
	case core.Circle:
		return pointOf(v.Center).AsBinary()
	case core.Rectangle:
		return lineOf([]core.Coordinate{v.A, v.B}).AsBinary()
	case core.Polygon:
		return closedLineOf(v.Ring).AsBinary()
	case core.Freehand:
		return lineOf(v.Path).AsBinary()
	}
	return nil
}

func pointOf(c core.Coordinate) geom.Point {
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: c.Lon, Y: c.Lat}})
}

func lineOf(points []core.Coordinate) geom.LineString {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.Lon, p.Lat)
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
}

func closedLineOf(ring []core.Coordinate) geom.LineString {
	flat := make([]float64, 0, (len(ring)+1)*2)
	for _, p := range ring {
		flat = append(flat, p.Lon, p.Lat)
	}
	flat = append(flat, ring[0].Lon, ring[0].Lat)
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
}
