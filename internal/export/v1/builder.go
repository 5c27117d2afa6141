package v1

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/fieldops/gridtrack/internal/geo"
	"github.com/fieldops/gridtrack/pkg/core"
)

// FormatVersion identifies the export document layout.
const FormatVersion = 1

// Build creates an Export from a session snapshot.
func Build(s core.SessionSnapshot) Export {
	export := Export{
		FormatVersion: FormatVersion,
		OperatorID:    s.OperatorID,
		TakenAt:       s.TakenAt.UTC().Format(time.RFC3339),
		Assets:        make([]Asset, 0, len(s.Assets)),
		Annotations:   make([]Annotation, 0, len(s.Annotations)),
		Broadcasts:    make([]Broadcast, 0, len(s.Broadcasts)),
		Lanes:         make([]Lane, 0, len(s.Lanes)),
	}

	trails := make(map[string]core.TrailRecord, len(s.Trails))
	for _, t := range s.Trails {
		trails[t.AssetID] = t
	}

	for _, a := range s.Assets {
		row := Asset{
			ID:       a.ID,
			AgentID:  a.AgentID,
			Callsign: a.Callsign,
			Status:   string(a.Status),
			GridCell: [2]int{a.GridCell.X, a.GridCell.Y},
		}
		if t, ok := trails[a.ID]; ok {
			row.TrailColor = t.Color
			row.TrailWKT = lineWKT(t.Points)
			row.Positions = positionRows(t.Points)
		} else {
			row.Positions = positionRows([]core.Coordinate{a.Position})
		}
		export.Assets = append(export.Assets, row)
	}

	for _, ann := range s.Annotations {
		row := Annotation{
			ID:          ann.ID,
			Label:       ann.Label,
			Color:       ann.Color,
			CreatedBy:   ann.CreatedBy,
			CreatedAt:   ann.CreatedAt.UTC().Format(time.RFC3339),
			RequiresAck: ann.RequiresAck,
			AckedBy:     make([]string, 0, len(ann.Acks)),
		}
		if ann.Geometry != nil {
			row.Kind = string(ann.Geometry.Kind())
			row.WKT = GeometryWKT(ann.Geometry)
			if c, ok := ann.Geometry.(core.Circle); ok {
				row.RadiusM = CircleRadiusM(c)
			}
		}
		for _, ack := range ann.Acks {
			row.AckedBy = append(row.AckedBy, ack.AgentID)
		}
		export.Annotations = append(export.Annotations, row)
	}

	for _, b := range s.Broadcasts {
		row := Broadcast{
			ID:           b.ID,
			Message:      b.Message,
			Priority:     b.Priority,
			IssuedBy:     b.IssuedBy,
			IssuedAt:     b.IssuedAt.UTC().Format(time.RFC3339),
			TargetAgents: b.TargetAgents,
			RequiresAck:  b.RequiresAck,
			AutoExpireMs: b.AutoExpire.Milliseconds(),
			Acks:         make([][]any, 0, len(b.Acks)),
		}
		for _, ack := range b.Acks {
			row.Acks = append(row.Acks, []any{
				ack.AgentID,
				string(ack.Response),
				ack.AcknowledgedAt.UnixMilli(),
			})
		}
		export.Broadcasts = append(export.Broadcasts, row)
	}

	for _, l := range s.Lanes {
		export.Lanes = append(export.Lanes, Lane{
			ID:       l.ID,
			From:     [2]int{l.From.X, l.From.Y},
			To:       [2]int{l.To.X, l.To.Y},
			AssetIDs: l.AssetIDs,
			Priority: l.Priority,
			Status:   string(l.Status),
		})
	}

	return export
}

// GeometryWKT renders a geometry as WKT in lon/lat axis order. Circles
// have no WKT form; they render as their center point, with the edge point
// preserved in the points array of the stored record.
func GeometryWKT(g core.Geometry) string {
	switch v := g.(type) {
	case core.Marker:
		return pointOf(v.At).AsText()
	case core.Circle:
		return pointOf(v.Center).AsText()
	case core.Rectangle:
		minLat, maxLat := order(v.A.Lat, v.B.Lat)
		minLon, maxLon := order(v.A.Lon, v.B.Lon)
		ring := []core.Coordinate{
			{Lat: minLat, Lon: minLon},
			{Lat: minLat, Lon: maxLon},
			{Lat: maxLat, Lon: maxLon},
			{Lat: maxLat, Lon: minLon},
		}
		return polygonOf(ring).AsText()
	case core.Polygon:
		return polygonOf(v.Ring).AsText()
	case core.Freehand:
		return lineOf(v.Path).AsText()
	}
	return ""
}

func lineWKT(points []core.Coordinate) string {
	if len(points) < 2 {
		return ""
	}
	return lineOf(points).AsText()
}

func positionRows(points []core.Coordinate) [][]any {
	rows := make([][]any, 0, len(points))
	for _, p := range points {
		rows = append(rows, []any{p.Lat, p.Lon, p.Alt, p.Timestamp.UnixMilli()})
	}
	return rows
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

// polygonOf closes the ring; callers pass vertices without the repeated
// first point.
func polygonOf(ring []core.Coordinate) geom.Polygon {
	flat := make([]float64, 0, (len(ring)+1)*2)
	for _, p := range ring {
		flat = append(flat, p.Lon, p.Lat)
	}
	flat = append(flat, ring[0].Lon, ring[0].Lat)
	shell := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	return geom.NewPolygon([]geom.LineString{shell})
}

// CircleRadiusM returns the derived radius for a circle annotation.
func CircleRadiusM(c core.Circle) float64 {
	return geo.Distance(c.Center, c.Edge)
}

func order(a, b float64) (lo, hi float64) {
	if a > b {
		return b, a
	}
	return a, b
}
