package scene

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/lifts"
	"github.com/pthm-cable/skiresort/runs"
	"github.com/pthm-cable/skiresort/terrain"
)

// Hit is the result of a pick.
type Hit struct {
	Entity   ecs.Entity
	Tag      Tag
	Position r3.Vec
	Distance float64 // Horizontal distance from the query point
}

// Pick returns the entity closest to (x, z) within radius, measured in the
// horizontal plane. Runs count from their ribbon edge and whole lifts from
// their line. When nothing is close, a point inside the terrain bounds
// picks the terrain.
func (s *Scene) Pick(x, z, radius float64) (Hit, bool) {
	var best Hit
	found := false

	query := s.filter.Query()
	for query.Next() {
		pos, tag := query.Get()
		if tag.Kind == KindTerrain {
			continue
		}
		d := s.distance(pos, tag, x, z)
		if d > radius {
			continue
		}
		// Equal distances prefer point features over whole runs and lifts.
		if found && (d > best.Distance || (d == best.Distance && !(best.Tag.Part == PartWhole && tag.Part != PartWhole))) {
			continue
		}
		best = Hit{
			Entity:   query.Entity(),
			Tag:      *tag,
			Position: r3.Vec{X: pos.X, Y: pos.Y, Z: pos.Z},
			Distance: d,
		}
		found = true
	}
	if found {
		return best, true
	}

	if !s.field.Bounds().Contains(x, z) {
		return Hit{}, false
	}
	query = s.filter.Query()
	for query.Next() {
		_, tag := query.Get()
		if tag.Kind != KindTerrain {
			continue
		}
		best = Hit{
			Entity:   query.Entity(),
			Tag:      *tag,
			Position: r3.Vec{X: x, Y: s.field.Height(x, z), Z: z},
		}
		found = true
	}
	return best, found
}

func (s *Scene) distance(pos *Position, tag *Tag, x, z float64) float64 {
	switch {
	case tag.Kind == KindRun:
		rb := s.ribbons[tag.Index]
		return math.Max(0, polylineDistance(rb.Centerline, x, z)-rb.Width/2)
	case tag.Kind == KindLift && tag.Part == PartWhole:
		return polylineDistance(s.Lifts()[tag.Index].Stations, x, z)
	}
	return math.Hypot(pos.X-x, pos.Z-z)
}

// polylineDistance is the horizontal distance from (x, z) to the polyline.
func polylineDistance(pts []r3.Vec, x, z float64) float64 {
	if len(pts) == 0 {
		return math.Inf(1)
	}
	best := math.Hypot(pts[0].X-x, pts[0].Z-z)
	for i := 1; i < len(pts); i++ {
		ax, az := pts[i-1].X, pts[i-1].Z
		dx, dz := pts[i].X-ax, pts[i].Z-az
		var t float64
		if l2 := dx*dx + dz*dz; l2 > 0 {
			t = math.Max(0, math.Min(1, ((x-ax)*dx+(z-az)*dz)/l2))
		}
		best = math.Min(best, math.Hypot(ax+t*dx-x, az+t*dz-z))
	}
	return best
}

// Describe returns display lines for a picked entity.
func (s *Scene) Describe(h Hit) []string {
	t := h.Tag
	switch t.Kind {
	case KindTerrain:
		x, z := h.Position.X, h.Position.Z
		lines := []string{
			"Terrain",
			fmt.Sprintf("Elevation %.1f m", h.Position.Y),
			fmt.Sprintf("Slope %.2f", s.slope(x, z)),
		}
		if h.Position.Y > s.cfg.Forest.TreeLine {
			lines = append(lines, "Above the tree line")
		}
		return lines

	case KindDecoration:
		tr := s.trees[t.Index]
		zone := "valley"
		if forest.IsAlpine(tr.Type, s.cfg.Forest.TypeCount) {
			zone = "alpine"
		}
		return []string{
			fmt.Sprintf("Tree #%d", t.Index),
			fmt.Sprintf("Type %d (%s)", tr.Type, zone),
			fmt.Sprintf("Scale %.2f", tr.Scale),
			fmt.Sprintf("Elevation %.1f m", tr.Y),
		}

	case KindRun:
		return describeRun(s.ribbons[t.Index])

	case KindLift:
		b := s.lift(t.ID)
		if b == nil {
			return nil
		}
		switch t.Part {
		case PartStation:
			return []string{b.Lift.Name, fmt.Sprintf("Station %d of %d", t.Index+1, len(b.Stations))}
		case PartTower:
			tw := b.Towers[t.Index]
			return []string{b.Lift.Name, fmt.Sprintf("Tower %d", t.Index+1), fmt.Sprintf("Height %.1f m", tw.Height)}
		case PartCabin:
			c := b.Cabins[t.Index]
			dir := "uphill"
			if c.Direction < 0 {
				dir = "downhill"
			}
			return []string{b.Lift.Name, fmt.Sprintf("Cabin %d, %s", t.Index+1, dir), fmt.Sprintf("Progress %.0f%%", c.Progress*100)}
		}
		return describeLift(b)
	}
	return nil
}

func describeRun(rb *runs.Ribbon) []string {
	top, bottom := rb.Centerline[0], rb.Centerline[len(rb.Centerline)-1]
	return []string{
		rb.Name,
		fmt.Sprintf("Difficulty %s", rb.Difficulty),
		fmt.Sprintf("Width %.0f m", rb.Width),
		fmt.Sprintf("Length %.0f m", rb.Length),
		fmt.Sprintf("Vertical drop %.0f m", top.Y-bottom.Y),
	}
}

func describeLift(b *lifts.Built) []string {
	return []string{
		b.Lift.Name,
		fmt.Sprintf("Type %s", b.Lift.Type),
		fmt.Sprintf("Capacity %d/h", b.Lift.Capacity),
		fmt.Sprintf("Length %.0f m", b.Length),
		fmt.Sprintf("%d towers, %d cabins", len(b.Towers), len(b.Cabins)),
	}
}

func (s *Scene) lift(id string) *lifts.Built {
	for _, b := range s.Lifts() {
		if b.Lift.ID == id {
			return b
		}
	}
	return nil
}

func (s *Scene) slope(x, z float64) float64 {
	return terrain.Slope(s.field, x, z, s.cfg.Forest.SlopeDelta)
}

// Refresh updates a hit's position from its entity, so selections follow
// moving cabins. It returns nil when the entity no longer exists.
func (s *Scene) Refresh(h Hit) *Hit {
	if h.Tag.Kind == KindTerrain {
		return &h
	}
	if !s.world.Alive(h.Entity) {
		return nil
	}
	p := s.posMap.Get(h.Entity)
	h.Position = r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
	return &h
}
