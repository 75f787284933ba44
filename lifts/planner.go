// Package lifts lays out lift lines over the terrain: stations, support
// towers, the cable and the cabins that shuttle along it.
package lifts

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/skiresort/terrain"
)

var (
	// ErrZeroLength is returned when the lift line or one of its legs has no
	// horizontal length.
	ErrZeroLength = errors.New("lifts: zero-length lift line")
	// ErrTooFewTowers is returned when fewer than two towers are requested.
	ErrTooFewTowers = errors.New("lifts: at least two towers required")
)

// Point is a position on the XZ plane.
type Point struct {
	X, Z float64
}

// Lift describes one lift line.
type Lift struct {
	ID       string
	Name     string
	Type     Type
	Capacity int // Riders per hour; type default when zero
	Base     Point
	Summit   Point
	Mid      *Point // Optional mid-station
	Towers   int    // Including the two end supports
	Cabins   int    // Type default when zero
}

// Options tune lift layout.
type Options struct {
	MinTowerHeight float64
	Clearance      float64 // Tower top above the cable
	StationHeight  float64 // Cable height above ground at stations
	LateralOffset  float64 // Sideways offset of up and down lines
	CabinClearance float64 // Cabin height relative to the cable; negative hangs below
	SpeedJitter    float64 // Fractional per-cabin speed variation
}

// DefaultOptions returns the bundled lift settings.
func DefaultOptions() Options {
	return Options{
		MinTowerHeight: 6,
		Clearance:      1.5,
		StationHeight:  8,
		LateralOffset:  1.5,
		CabinClearance: -2,
		SpeedJitter:    0.05,
	}
}

// Tower is a support between stations. Position is at ground level.
type Tower struct {
	Position r3.Vec
	Height   float64
	T        float64 // Parameter along the line, 0 at base and 1 at summit
}

// Cabin is one moving cabin or chair.
type Cabin struct {
	Progress  float64 // 0 at base, 1 at summit
	Direction int     // +1 uphill, -1 downhill
	Speed     float64 // Progress per second
	Position  r3.Vec
}

// Built is the laid-out geometry and runtime state of a lift.
type Built struct {
	Lift     Lift
	Stations []r3.Vec // At cable height; base, optional mid, summit
	Towers   []Tower
	Cable    []r3.Vec
	Cabins   []*Cabin
	Length   float64 // Horizontal length of the line

	path    *path
	lateral float64
	hang    float64
}

// Planner builds lifts on a surface and animates their cabins.
type Planner struct {
	surface terrain.Surface
	opts    Options
	rng     *rand.Rand
	lifts   []*Built
}

// NewPlanner creates a planner. rng seeds per-cabin speed variation.
func NewPlanner(surface terrain.Surface, opts Options, rng *rand.Rand) *Planner {
	return &Planner{surface: surface, opts: opts, rng: rng}
}

// Lifts returns every lift built so far.
func (p *Planner) Lifts() []*Built { return p.lifts }

// BuildLift lays out l and registers it for ticking.
func (p *Planner) BuildLift(l Lift) (*Built, error) {
	if l.Towers < 2 {
		return nil, fmt.Errorf("lift %q has %d towers: %w", l.ID, l.Towers, ErrTooFewTowers)
	}
	if l.Base == l.Summit {
		return nil, fmt.Errorf("lift %q: base and summit coincide: %w", l.ID, ErrZeroLength)
	}

	stops := []Point{l.Base}
	if l.Mid != nil {
		stops = append(stops, *l.Mid)
	}
	stops = append(stops, l.Summit)

	stations := make([]r3.Vec, len(stops))
	for i, s := range stops {
		stations[i] = r3.Vec{X: s.X, Y: p.surface.Height(s.X, s.Z) + p.opts.StationHeight, Z: s.Z}
	}
	line, err := newPath(stations)
	if err != nil {
		return nil, fmt.Errorf("lift %q: %w", l.ID, err)
	}

	spec := l.Type.Spec()
	if l.Capacity == 0 {
		l.Capacity = spec.Capacity
	}
	if l.Cabins == 0 {
		l.Cabins = spec.Cabins
	}

	b := &Built{
		Lift:     l,
		Stations: stations,
		Length:   line.total,
		lateral:  p.opts.LateralOffset,
		hang:     p.opts.CabinClearance,
	}

	for i := 1; i < l.Towers-1; i++ {
		t := float64(i) / float64(l.Towers-1)
		straight := line.at(t)
		ground := p.surface.Height(straight.X, straight.Z)
		b.Towers = append(b.Towers, Tower{
			Position: r3.Vec{X: straight.X, Y: ground, Z: straight.Z},
			Height:   math.Max(p.opts.MinTowerHeight, straight.Y-ground+p.opts.Clearance),
			T:        t,
		})
	}
	b.path = cablePath(line, b.Towers)
	b.Cable = b.path.nodes

	for i := 0; i < l.Cabins; i++ {
		dir := 1
		if i%2 == 1 {
			dir = -1
		}
		jitter := 1.0
		if p.rng != nil {
			jitter += p.opts.SpeedJitter * (2*p.rng.Float64() - 1)
		}
		c := &Cabin{
			Progress:  float64(i) / float64(l.Cabins),
			Direction: dir,
			Speed:     spec.Speed * jitter / line.total,
		}
		b.place(c)
		b.Cabins = append(b.Cabins, c)
	}

	p.lifts = append(p.lifts, b)
	return b, nil
}

// Tick advances every lift's cabins by dt seconds.
func (p *Planner) Tick(dt float64) {
	for _, b := range p.lifts {
		b.Tick(dt)
	}
}

// Tick advances the cabins by dt seconds. Cabins bounce at the stations.
func (b *Built) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	for _, c := range b.Cabins {
		c.Progress += c.Speed * float64(c.Direction) * dt
		switch {
		case c.Progress >= 1:
			c.Progress = 1
			c.Direction = -1
		case c.Progress <= 0:
			c.Progress = 0
			c.Direction = 1
		}
		b.place(c)
	}
}

// CableAt returns the cable point at parameter t. The cable runs straight
// between consecutive stations and tower tops.
func (b *Built) CableAt(t float64) r3.Vec { return b.path.at(t) }

func (b *Built) place(c *Cabin) {
	pos := b.path.at(c.Progress)
	side := b.path.perpendicular(c.Progress)
	off := b.lateral * float64(c.Direction)
	c.Position = r3.Vec{
		X: pos.X + side.X*off,
		Y: pos.Y + b.hang,
		Z: pos.Z + side.Z*off,
	}
}

// cablePath threads the cable through the stations and the tower tops,
// ordered from base to summit. A tower standing on a station keeps the
// higher of the two points.
func cablePath(line *path, towers []Tower) *path {
	type stop struct {
		d float64
		v r3.Vec
	}
	stops := make([]stop, 0, len(line.nodes)+len(towers))
	for i, n := range line.nodes {
		stops = append(stops, stop{line.cum[i], n})
	}
	for _, tw := range towers {
		top := tw.Position
		top.Y += tw.Height
		stops = append(stops, stop{tw.T * line.total, top})
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].d < stops[j].d })

	p := &path{total: line.total}
	for _, s := range stops {
		if k := len(p.nodes) - 1; k >= 0 && s.d-p.cum[k] < 1e-9 {
			p.nodes[k].Y = math.Max(p.nodes[k].Y, s.v.Y)
			continue
		}
		p.nodes = append(p.nodes, s.v)
		p.cum = append(p.cum, s.d)
	}
	return p
}

// path is a polyline parameterised by horizontal arc-length fraction.
type path struct {
	nodes []r3.Vec
	cum   []float64 // Horizontal distance from the first node
	total float64
}

func newPath(nodes []r3.Vec) (*path, error) {
	p := &path{nodes: nodes, cum: make([]float64, len(nodes))}
	for i := 1; i < len(nodes); i++ {
		d := math.Hypot(nodes[i].X-nodes[i-1].X, nodes[i].Z-nodes[i-1].Z)
		if d == 0 {
			return nil, fmt.Errorf("leg %d: %w", i, ErrZeroLength)
		}
		p.cum[i] = p.cum[i-1] + d
	}
	p.total = p.cum[len(nodes)-1]
	return p, nil
}

// leg returns the index of the segment containing t and the local fraction.
func (p *path) leg(t float64) (int, float64) {
	d := math.Max(0, math.Min(1, t)) * p.total
	i := sort.SearchFloat64s(p.cum, d)
	switch {
	case i == 0:
		i = 1
	case i >= len(p.cum):
		i = len(p.cum) - 1
	}
	return i - 1, (d - p.cum[i-1]) / (p.cum[i] - p.cum[i-1])
}

func (p *path) at(t float64) r3.Vec {
	i, u := p.leg(t)
	a, b := p.nodes[i], p.nodes[i+1]
	return r3.Add(a, r3.Scale(u, r3.Sub(b, a)))
}

// perpendicular returns the horizontal unit vector to the left of travel
// from base to summit at t.
func (p *path) perpendicular(t float64) r3.Vec {
	i, _ := p.leg(t)
	a, b := p.nodes[i], p.nodes[i+1]
	dx, dz := b.X-a.X, b.Z-a.Z
	n := math.Hypot(dx, dz)
	return r3.Vec{X: -dz / n, Z: dx / n}
}
