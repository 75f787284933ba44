package telemetry

import (
	"math"

	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/lifts"
	"github.com/pthm-cable/skiresort/runs"
)

// TreeRecord is one row of trees.csv.
type TreeRecord struct {
	Index int     `csv:"index" json:"-"`
	X     float64 `csv:"x" json:"x"`
	Y     float64 `csv:"y" json:"y"`
	Z     float64 `csv:"z" json:"z"`
	Type  int     `csv:"type" json:"type"`
	Scale float64 `csv:"scale" json:"scale"`
}

// RunRecord is one row of runs.csv.
type RunRecord struct {
	ID         string  `csv:"id"`
	Name       string  `csv:"name"`
	Difficulty string  `csv:"difficulty"`
	Width      float64 `csv:"width"`
	Length     float64 `csv:"length"`
	Vertices   int     `csv:"vertices"`
	Triangles  int     `csv:"triangles"`
	TopY       float64 `csv:"top_y"`
	BottomY    float64 `csv:"bottom_y"`
	Drop       float64 `csv:"drop"`
}

// TowerRecord is one row of towers.csv. Stations are listed with a zero
// height and Station set.
type TowerRecord struct {
	LiftID  string  `csv:"lift_id" json:"-"`
	Index   int     `csv:"index" json:"-"`
	Station bool    `csv:"station" json:"station,omitempty"`
	X       float64 `csv:"x" json:"x"`
	Y       float64 `csv:"y" json:"y"`
	Z       float64 `csv:"z" json:"z"`
	Height  float64 `csv:"height" json:"height"`
	T       float64 `csv:"t" json:"t"`
}

// CabinRecord is one row of cabins.csv.
type CabinRecord struct {
	Tick      int32   `csv:"tick" json:"-"`
	LiftID    string  `csv:"lift_id" json:"-"`
	Index     int     `csv:"index" json:"-"`
	Progress  float64 `csv:"progress" json:"progress"`
	Direction int     `csv:"direction" json:"direction"`
	X         float64 `csv:"x" json:"x"`
	Y         float64 `csv:"y" json:"y"`
	Z         float64 `csv:"z" json:"z"`
}

// TreeRecords flattens a forest.
func TreeRecords(trees []forest.Tree) []TreeRecord {
	out := make([]TreeRecord, len(trees))
	for i, t := range trees {
		out[i] = TreeRecord{Index: i, X: t.X, Y: t.Y, Z: t.Z, Type: t.Type, Scale: t.Scale}
	}
	return out
}

// RunRecords summarises each ribbon.
func RunRecords(ribbons []*runs.Ribbon) []RunRecord {
	out := make([]RunRecord, 0, len(ribbons))
	for _, r := range ribbons {
		rec := RunRecord{
			ID:         r.RunID,
			Name:       r.Name,
			Difficulty: r.Difficulty.String(),
			Width:      r.Width,
			Length:     r.Length,
			Vertices:   len(r.Vertices),
			Triangles:  len(r.Indices) / 3,
		}
		if n := len(r.Centerline); n > 0 {
			rec.TopY = r.Centerline[0].Y
			rec.BottomY = r.Centerline[n-1].Y
			rec.Drop = rec.TopY - rec.BottomY
		}
		out = append(out, rec)
	}
	return out
}

// TowerRecords lists the stations and towers of every lift.
func TowerRecords(built []*lifts.Built) []TowerRecord {
	var out []TowerRecord
	for _, b := range built {
		for i, s := range b.Stations {
			out = append(out, TowerRecord{
				LiftID:  b.Lift.ID,
				Index:   i,
				Station: true,
				X:       s.X,
				Y:       s.Y,
				Z:       s.Z,
				T:       stationParam(b, i),
			})
		}
		for i, tw := range b.Towers {
			out = append(out, TowerRecord{
				LiftID: b.Lift.ID,
				Index:  i,
				X:      tw.Position.X,
				Y:      tw.Position.Y,
				Z:      tw.Position.Z,
				Height: tw.Height,
				T:      tw.T,
			})
		}
	}
	return out
}

// stationParam is the line parameter of station idx: its horizontal
// distance along the stations over the line length.
func stationParam(b *lifts.Built, idx int) float64 {
	if b.Length <= 0 {
		return 0
	}
	var d float64
	for i := 1; i <= idx; i++ {
		dx := b.Stations[i].X - b.Stations[i-1].X
		dz := b.Stations[i].Z - b.Stations[i-1].Z
		d += math.Hypot(dx, dz)
	}
	return math.Min(d/b.Length, 1)
}

// CabinRecords samples every cabin at tick.
func CabinRecords(tick int32, built []*lifts.Built) []CabinRecord {
	var out []CabinRecord
	for _, b := range built {
		for i, c := range b.Cabins {
			out = append(out, CabinRecord{
				Tick:      tick,
				LiftID:    b.Lift.ID,
				Index:     i,
				Progress:  c.Progress,
				Direction: c.Direction,
				X:         c.Position.X,
				Y:         c.Position.Y,
				Z:         c.Position.Z,
			})
		}
	}
	return out
}
