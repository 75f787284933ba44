// Package forest scatters trees over a terrain surface, avoiding cleared
// corridors, steep ground and the bare slopes above the tree line.
package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/skiresort/terrain"
)

// ErrInvalidOptions is returned by NewSampler when the options cannot
// produce a sensible forest on the given surface.
var ErrInvalidOptions = errors.New("forest: invalid options")

// Tree is one placed tree.
type Tree struct {
	X, Y, Z float64 // World position; Y is the terrain height
	Type    int     // Index into the foliage palette
	Scale   float64 // Uniform mesh scale
}

// Corridor is an axis-aligned clearing centred on (X, Z). The boundary
// counts as inside.
type Corridor struct {
	Name  string
	X, Z  float64
	Width float64 // Full X extent
	Depth float64 // Full Z extent
}

// Contains reports whether (x, z) lies in the corridor.
func (c Corridor) Contains(x, z float64) bool {
	return math.Abs(x-c.X) <= c.Width/2 && math.Abs(z-c.Z) <= c.Depth/2
}

func (c Corridor) bounds() terrain.Bounds {
	return terrain.Bounds{
		MinX: c.X - c.Width/2, MinZ: c.Z - c.Depth/2,
		MaxX: c.X + c.Width/2, MaxZ: c.Z + c.Depth/2,
	}
}

// Options tune the scatter.
type Options struct {
	Spacing     float64 // Grid cell size
	ExtraChance float64 // Probability of a second candidate per cell

	MinElevation float64
	TreeLine     float64
	TreeLineBand float64 // Thinning band below the tree line

	SlopeDelta    float64 // Finite-difference step
	ModerateSlope float64 // Thinning starts here
	SteepSlope    float64 // Hard reject above this

	TypeCount int
	ScaleMin  float64
	ScaleMax  float64

	Corridors []Corridor
}

// DefaultOptions returns the options used by the bundled resort.
func DefaultOptions() Options {
	return Options{
		Spacing:       6,
		ExtraChance:   0.35,
		MinElevation:  3,
		TreeLine:      70,
		TreeLineBand:  12,
		SlopeDelta:    0.5,
		ModerateSlope: 0.6,
		SteepSlope:    1.2,
		TypeCount:     4,
		ScaleMin:      0.8,
		ScaleMax:      1.4,
	}
}

// Sampler generates a forest from a surface.
type Sampler struct {
	surface terrain.Surface
	bounds  terrain.Bounds
	opts    Options
	rng     *rand.Rand
}

// NewSampler validates opts against the surface and bounds.
func NewSampler(surface terrain.Surface, bounds terrain.Bounds, opts Options, rng *rand.Rand) (*Sampler, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidOptions)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidOptions)
	}
	if bounds.Width() <= 0 || bounds.Depth() <= 0 {
		return nil, fmt.Errorf("%w: empty bounds", ErrInvalidOptions)
	}
	if opts.Spacing <= 0 {
		return nil, fmt.Errorf("%w: spacing must be positive, got %g", ErrInvalidOptions, opts.Spacing)
	}
	if opts.TreeLine <= opts.MinElevation {
		return nil, fmt.Errorf("%w: tree line %g must be above minimum elevation %g", ErrInvalidOptions, opts.TreeLine, opts.MinElevation)
	}
	if opts.SlopeDelta <= 0 {
		return nil, fmt.Errorf("%w: slope delta must be positive, got %g", ErrInvalidOptions, opts.SlopeDelta)
	}
	if opts.SteepSlope < opts.ModerateSlope {
		return nil, fmt.Errorf("%w: steep slope %g below moderate slope %g", ErrInvalidOptions, opts.SteepSlope, opts.ModerateSlope)
	}
	if opts.TreeLineBand < 0 {
		return nil, fmt.Errorf("%w: tree line band must not be negative, got %g", ErrInvalidOptions, opts.TreeLineBand)
	}
	if opts.TypeCount < 1 {
		return nil, fmt.Errorf("%w: type count must be at least 1, got %d", ErrInvalidOptions, opts.TypeCount)
	}
	if opts.ScaleMin <= 0 || opts.ScaleMax < opts.ScaleMin {
		return nil, fmt.Errorf("%w: scale range [%g, %g] is invalid", ErrInvalidOptions, opts.ScaleMin, opts.ScaleMax)
	}
	for _, c := range opts.Corridors {
		if c.Width <= 0 || c.Depth <= 0 {
			return nil, fmt.Errorf("%w: corridor %q has non-positive extent %gx%g", ErrInvalidOptions, c.Name, c.Width, c.Depth)
		}
		cb := c.bounds()
		if cb.MaxX < bounds.MinX || cb.MinX > bounds.MaxX || cb.MaxZ < bounds.MinZ || cb.MinZ > bounds.MaxZ {
			return nil, fmt.Errorf("%w: corridor %q lies outside the terrain", ErrInvalidOptions, c.Name)
		}
	}
	// A tree line above everything the surface can reach means the forest
	// options were tuned for a different height field.
	if cs, ok := surface.(terrain.Ceilinged); ok && opts.TreeLine > cs.Ceiling() {
		return nil, fmt.Errorf("%w: tree line %g above terrain ceiling %g", ErrInvalidOptions, opts.TreeLine, cs.Ceiling())
	}

	return &Sampler{surface: surface, bounds: bounds, opts: opts, rng: rng}, nil
}

// Generate scatters trees over the bounds. Each call consumes the random
// source, so two calls on the same sampler yield different forests.
func (s *Sampler) Generate() []Tree {
	o := s.opts
	cols := int(math.Ceil(s.bounds.Width() / o.Spacing))
	rows := int(math.Ceil(s.bounds.Depth() / o.Spacing))
	// Stretch cells slightly so the grid tiles the bounds exactly.
	stepX := s.bounds.Width() / float64(cols)
	stepZ := s.bounds.Depth() / float64(rows)
	trees := make([]Tree, 0, cols*rows/2)

	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			candidates := 1
			if s.rng.Float64() < o.ExtraChance {
				candidates = 2
			}
			for c := 0; c < candidates; c++ {
				x := s.bounds.MinX + (float64(i)+s.rng.Float64())*stepX
				z := s.bounds.MinZ + (float64(j)+s.rng.Float64())*stepZ
				if t, ok := s.place(x, z); ok {
					trees = append(trees, t)
				}
			}
		}
	}
	return trees
}

func (s *Sampler) place(x, z float64) (Tree, bool) {
	o := s.opts

	h := s.surface.Height(x, z)
	if h < o.MinElevation || h > o.TreeLine {
		return Tree{}, false
	}
	if s.inCorridor(x, z) {
		return Tree{}, false
	}

	slope := terrain.Slope(s.surface, x, z, o.SlopeDelta)
	if slope > o.SteepSlope {
		return Tree{}, false
	}
	if slope > o.ModerateSlope && s.rng.Float64() < rejectChance(slope, o.ModerateSlope, o.SteepSlope) {
		return Tree{}, false
	}

	if o.TreeLineBand > 0 {
		bandStart := o.TreeLine - o.TreeLineBand
		if h > bandStart && s.rng.Float64() < rejectChance(h, bandStart, o.TreeLine) {
			return Tree{}, false
		}
	}

	return Tree{
		X:     x,
		Y:     h,
		Z:     z,
		Type:  s.pickType(h),
		Scale: o.ScaleMin + s.rng.Float64()*(o.ScaleMax-o.ScaleMin),
	}, true
}

func (s *Sampler) inCorridor(x, z float64) bool {
	for _, c := range s.opts.Corridors {
		if c.Contains(x, z) {
			return true
		}
	}
	return false
}

// pickType favours the last (alpine) half of the palette in the upper third
// of the forest band and the first half below it.
func (s *Sampler) pickType(h float64) int {
	o := s.opts
	if o.TypeCount == 1 {
		return 0
	}
	split := o.TypeCount / 2
	upper := (h - o.MinElevation) / (o.TreeLine - o.MinElevation)
	alpine := upper > 2.0/3.0
	if s.rng.Float64() < 0.2 {
		// Some mixing so bands do not read as hard stripes.
		alpine = !alpine
	}
	if alpine {
		return split + s.rng.Intn(o.TypeCount-split)
	}
	return s.rng.Intn(split)
}

// IsAlpine reports whether palette index typ belongs to the alpine half.
func IsAlpine(typ, typeCount int) bool {
	return typeCount > 1 && typ >= typeCount/2
}

// rejectChance rises linearly from 0 at lo to 1 at hi.
func rejectChance(v, lo, hi float64) float64 {
	if hi <= lo {
		return 1
	}
	p := (v - lo) / (hi - lo)
	return math.Max(0, math.Min(1, p))
}
