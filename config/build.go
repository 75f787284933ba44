package config

import (
	"fmt"

	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/lifts"
	"github.com/pthm-cable/skiresort/runs"
	"github.com/pthm-cable/skiresort/sky"
	"github.com/pthm-cable/skiresort/terrain"
)

// TerrainSpec converts the terrain section into a height field spec.
func (c *Config) TerrainSpec() (terrain.Spec, error) {
	tc := c.Terrain
	spec := terrain.Spec{
		Width:         tc.Width,
		Depth:         tc.Depth,
		BaseElevation: tc.BaseElevation,
		RidgeDamping:  tc.RidgeDamping,
		BowlDamping:   tc.BowlDamping,
		BaseArea: terrain.BaseArea{
			Enabled:   tc.BaseArea.Enabled,
			StartZ:    tc.BaseArea.StartZ,
			FullZ:     tc.BaseArea.FullZ,
			Elevation: tc.BaseArea.Elevation,
			HalfWidth: tc.BaseArea.HalfWidth,
			SideBlend: tc.BaseArea.SideBlend,
		},
		Edge: terrain.EdgeFalloff{Margin: tc.Edge.Margin, Floor: tc.Edge.Floor},
	}

	for i, lc := range tc.Landforms {
		var lf terrain.Landform
		switch lc.Kind {
		case "peak":
			lf = terrain.Peak{X: lc.X, Z: lc.Z, Height: lc.Height, Radius: lc.Radius}
		case "plateau":
			lf = terrain.Plateau{X: lc.X, Z: lc.Z, RadiusX: lc.RadiusX, RadiusZ: lc.RadiusZ, Height: lc.Height, Falloff: lc.Falloff}
		case "ridge":
			lf = terrain.Ridge{X1: lc.X, Z1: lc.Z, X2: lc.X2, Z2: lc.Z2, Height: lc.Height, Width: lc.Width}
		case "bowl":
			lf = terrain.Bowl{X: lc.X, Z: lc.Z, Radius: lc.Radius, Depth: lc.Depth}
		default:
			return terrain.Spec{}, fmt.Errorf("%w: landform %d: unknown kind %q", ErrInvalid, i, lc.Kind)
		}
		spec.Landforms = append(spec.Landforms, lf)
	}

	var layers terrain.Layers
	for i, nc := range tc.Noise {
		n, err := nc.build()
		if err != nil {
			return terrain.Spec{}, fmt.Errorf("%w: noise layer %d: %v", ErrInvalid, i, err)
		}
		layers = append(layers, n)
	}
	switch len(layers) {
	case 0:
	case 1:
		spec.Noise = layers[0]
	default:
		spec.Noise = layers
	}
	return spec, nil
}

func (nc NoiseConfig) build() (terrain.Noise, error) {
	persistence := nc.Persistence
	if persistence == 0 {
		persistence = 0.5
	}
	switch nc.Kind {
	case "sine":
		if nc.Amplitude == 0 {
			return terrain.DefaultSineNoise(), nil
		}
		octaves := max(nc.Octaves, 1)
		n := terrain.SineNoise{Octaves: make([]terrain.SineOctave, octaves)}
		amp, freq := nc.Amplitude, nc.Frequency
		for i := range n.Octaves {
			n.Octaves[i] = terrain.SineOctave{Amplitude: amp, Frequency: freq}
			amp *= persistence
			freq *= 2
		}
		return n, nil
	case "simplex":
		return terrain.NewSimplexNoise(nc.Seed, nc.Amplitude, nc.Frequency, nc.Octaves, persistence), nil
	case "perlin":
		return terrain.NewPerlinNoise(nc.Seed, nc.Amplitude, nc.Frequency, nc.Octaves), nil
	}
	return nil, fmt.Errorf("unknown kind %q", nc.Kind)
}

// ForestOptions returns the scatter options, including automatic corridors.
func (c *Config) ForestOptions() forest.Options {
	fc := c.Forest
	return forest.Options{
		Spacing:       fc.Spacing,
		ExtraChance:   fc.ExtraChance,
		MinElevation:  fc.MinElevation,
		TreeLine:      fc.TreeLine,
		TreeLineBand:  fc.TreeLineBand,
		SlopeDelta:    fc.SlopeDelta,
		ModerateSlope: fc.ModerateSlope,
		SteepSlope:    fc.SteepSlope,
		TypeCount:     fc.TypeCount,
		ScaleMin:      fc.ScaleMin,
		ScaleMax:      fc.ScaleMax,
		Corridors:     c.Derived.Corridors,
	}
}

// RunOptions returns the ribbon options.
func (c *Config) RunOptions() runs.Options {
	return runs.Options{
		Clearance:       c.Runs.Clearance,
		MinSamples:      c.Runs.MinSamples,
		SamplesPerPoint: c.Runs.SamplesPerPoint,
		Widths:          c.Runs.Widths,
	}
}

// LiftOptions returns the lift layout options.
func (c *Config) LiftOptions() lifts.Options {
	lc := c.Lifts
	return lifts.Options{
		MinTowerHeight: lc.MinTowerHeight,
		Clearance:      lc.Clearance,
		StationHeight:  lc.StationHeight,
		LateralOffset:  lc.LateralOffset,
		CabinClearance: lc.CabinClearance,
		SpeedJitter:    lc.SpeedJitter,
	}
}

// SkyCycle creates the day/night cycle.
func (c *Config) SkyCycle() *sky.Cycle {
	return sky.New(c.Sky.DayLengthSec, c.Sky.InitialHour, c.Sky.OrbitRadius)
}

// Validate checks cross-section consistency that the individual packages
// cannot see on their own. Height-dependent checks (tree line against the
// terrain ceiling) happen when the forest sampler is built.
func (c *Config) Validate() error {
	if c.Terrain.Width <= 0 || c.Terrain.Depth <= 0 {
		return fmt.Errorf("%w: terrain extent must be positive, got %gx%g", ErrInvalid, c.Terrain.Width, c.Terrain.Depth)
	}
	if _, err := c.TerrainSpec(); err != nil {
		return err
	}
	if c.Forest.TreeLine <= c.Forest.MinElevation {
		return fmt.Errorf("%w: forest tree line %g must be above min elevation %g", ErrInvalid, c.Forest.TreeLine, c.Forest.MinElevation)
	}
	if err := c.Runs.Widths.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	b := c.Derived.Bounds
	seen := make(map[string]bool)
	for _, r := range c.Derived.Runs {
		if r.ID == "" || seen["run:"+r.ID] {
			return fmt.Errorf("%w: run id %q is empty or duplicated", ErrInvalid, r.ID)
		}
		seen["run:"+r.ID] = true
		for i, p := range r.Points {
			if !b.Contains(p.X, p.Z) {
				return fmt.Errorf("%w: run %q point %d (%g, %g) outside terrain", ErrInvalid, r.ID, i, p.X, p.Z)
			}
		}
	}
	for _, l := range c.Derived.Lifts {
		if l.ID == "" || seen["lift:"+l.ID] {
			return fmt.Errorf("%w: lift id %q is empty or duplicated", ErrInvalid, l.ID)
		}
		seen["lift:"+l.ID] = true
		stops := []lifts.Point{l.Base, l.Summit}
		if l.Mid != nil {
			stops = append(stops, *l.Mid)
		}
		for _, p := range stops {
			if !b.Contains(p.X, p.Z) {
				return fmt.Errorf("%w: lift %q station (%g, %g) outside terrain", ErrInvalid, l.ID, p.X, p.Z)
			}
		}
	}

	if c.Viewer.GridResolution < 1 {
		return fmt.Errorf("%w: viewer grid resolution must be at least 1, got %d", ErrInvalid, c.Viewer.GridResolution)
	}
	return nil
}
