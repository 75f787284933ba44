// Package config provides configuration loading and access for the resort.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/lifts"
	"github.com/pthm-cable/skiresort/runs"
	"github.com/pthm-cable/skiresort/terrain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned when a loaded configuration is inconsistent.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds all resort configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Forest    ForestConfig    `yaml:"forest"`
	Runs      RunsConfig      `yaml:"runs"`
	Lifts     LiftsConfig     `yaml:"lifts"`
	Sky       SkyConfig       `yaml:"sky"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Viewer    ViewerConfig    `yaml:"viewer"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TerrainConfig describes the height field.
type TerrainConfig struct {
	Width         float64           `yaml:"width"`
	Depth         float64           `yaml:"depth"`
	BaseElevation float64           `yaml:"base_elevation"`
	RidgeDamping  float64           `yaml:"ridge_damping"` // 0 = package default
	BowlDamping   float64           `yaml:"bowl_damping"`  // 0 = package default
	Landforms     []LandformConfig  `yaml:"landforms"`
	Noise         []NoiseConfig     `yaml:"noise"`
	BaseArea      BaseAreaConfig    `yaml:"base_area"`
	Edge          EdgeFalloffConfig `yaml:"edge"`
}

// LandformConfig is one primitive. Kind selects which fields apply:
// peak (x, z, height, radius), plateau (x, z, radius_x, radius_z, height,
// falloff), ridge (x, z, x2, z2, height, width) and bowl (x, z, radius, depth).
type LandformConfig struct {
	Kind    string  `yaml:"kind"`
	X       float64 `yaml:"x"`
	Z       float64 `yaml:"z"`
	X2      float64 `yaml:"x2,omitempty"`
	Z2      float64 `yaml:"z2,omitempty"`
	Height  float64 `yaml:"height,omitempty"`
	Radius  float64 `yaml:"radius,omitempty"`
	RadiusX float64 `yaml:"radius_x,omitempty"`
	RadiusZ float64 `yaml:"radius_z,omitempty"`
	Width   float64 `yaml:"width,omitempty"`
	Depth   float64 `yaml:"depth,omitempty"`
	Falloff float64 `yaml:"falloff,omitempty"`
}

// NoiseConfig is one detail layer: sine, simplex or perlin.
type NoiseConfig struct {
	Kind        string  `yaml:"kind"`
	Amplitude   float64 `yaml:"amplitude"` // sine: 0 = built-in four-octave table
	Frequency   float64 `yaml:"frequency"`
	Octaves     int     `yaml:"octaves"`
	Seed        int64   `yaml:"seed"`
	Persistence float64 `yaml:"persistence"`
}

// BaseAreaConfig flattens the village.
type BaseAreaConfig struct {
	Enabled   bool    `yaml:"enabled"`
	StartZ    float64 `yaml:"start_z"`
	FullZ     float64 `yaml:"full_z"`
	Elevation float64 `yaml:"elevation"`
	HalfWidth float64 `yaml:"half_width"`
	SideBlend float64 `yaml:"side_blend"`
}

// EdgeFalloffConfig lowers terrain near the domain boundary.
type EdgeFalloffConfig struct {
	Margin float64 `yaml:"margin"`
	Floor  float64 `yaml:"floor"`
}

// ForestConfig holds tree placement parameters.
type ForestConfig struct {
	Spacing       float64          `yaml:"spacing"`
	ExtraChance   float64          `yaml:"extra_chance"`
	TreeLine      float64          `yaml:"tree_line"`
	MinElevation  float64          `yaml:"min_elevation"`
	TreeLineBand  float64          `yaml:"tree_line_band"`
	SlopeDelta    float64          `yaml:"slope_delta"`
	ModerateSlope float64          `yaml:"moderate_slope"`
	SteepSlope    float64          `yaml:"steep_slope"`
	TypeCount     int              `yaml:"type_count"`
	ScaleMin      float64          `yaml:"scale_min"`
	ScaleMax      float64          `yaml:"scale_max"`
	Corridors     []CorridorConfig `yaml:"corridors"`
}

// CorridorConfig is a cleared box centred on (x, z).
type CorridorConfig struct {
	Name  string  `yaml:"name"`
	X     float64 `yaml:"x"`
	Z     float64 `yaml:"z"`
	Width float64 `yaml:"width"`
	Depth float64 `yaml:"depth"`
}

// RunsConfig holds ski run parameters.
type RunsConfig struct {
	Clearance       float64         `yaml:"clearance"`
	MinSamples      int             `yaml:"min_samples"`
	SamplesPerPoint int             `yaml:"samples_per_point"`
	Widths          runs.WidthTable `yaml:"widths"`
	CorridorPadding float64         `yaml:"corridor_padding"` // Negative disables auto corridors
	Table           []RunConfig     `yaml:"table"`
}

// RunConfig is one run. Points are [x, z] pairs from top to bottom.
type RunConfig struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Difficulty string       `yaml:"difficulty"`
	Points     [][2]float64 `yaml:"points,flow"`
}

// LiftsConfig holds lift parameters.
type LiftsConfig struct {
	MinTowerHeight float64      `yaml:"min_tower_height"`
	Clearance      float64      `yaml:"clearance"`
	StationHeight  float64      `yaml:"station_height"`
	LateralOffset  float64      `yaml:"lateral_offset"`
	CabinClearance float64      `yaml:"cabin_clearance"`
	SpeedJitter    float64      `yaml:"speed_jitter"`
	CorridorWidth  float64      `yaml:"corridor_width"` // 0 disables lift-line clearings
	Table          []LiftConfig `yaml:"table"`
}

// LiftConfig is one lift. Positions are [x, z] pairs.
type LiftConfig struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Capacity int         `yaml:"capacity"`
	Base     [2]float64  `yaml:"base,flow"`
	Summit   [2]float64  `yaml:"summit,flow"`
	Mid      *[2]float64 `yaml:"mid,flow,omitempty"`
	Towers   int         `yaml:"towers"`
	Cabins   int         `yaml:"cabins"`
}

// SkyConfig holds day/night cycle parameters.
type SkyConfig struct {
	DayLengthSec float64 `yaml:"day_length_sec"`
	InitialHour  float64 `yaml:"initial_hour"`
	OrbitRadius  float64 `yaml:"orbit_radius"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
	StatsWindow float64 `yaml:"stats_window"` // Simulated seconds per stats window
	CabinSample int     `yaml:"cabin_sample"` // Ticks between cabins.csv samples; 0 disables
}

// ViewerConfig holds graphics-mode parameters.
type ViewerConfig struct {
	GridResolution int     `yaml:"grid_resolution"`
	TimeScale      float64 `yaml:"time_scale"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Bounds    terrain.Bounds    // Terrain domain centred on the origin
	Runs      []runs.Run        // Parsed run table
	Lifts     []lifts.Lift      // Parsed lift table
	Corridors []forest.Corridor // Configured plus automatic corridors
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse is like Load but takes the user overlay from memory.
func Parse(overlay []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	// Only fields present in the overlay are overwritten; lists are replaced.
	if err := yaml.Unmarshal(overlay, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived parses the run and lift tables and builds the corridor list.
func (c *Config) computeDerived() error {
	c.Derived.Bounds = terrain.Bounds{
		MinX: -c.Terrain.Width / 2, MinZ: -c.Terrain.Depth / 2,
		MaxX: c.Terrain.Width / 2, MaxZ: c.Terrain.Depth / 2,
	}

	c.Derived.Runs = make([]runs.Run, 0, len(c.Runs.Table))
	for _, rc := range c.Runs.Table {
		d, err := runs.ParseDifficulty(rc.Difficulty)
		if err != nil {
			return fmt.Errorf("%w: run %q: %v", ErrInvalid, rc.ID, err)
		}
		r := runs.Run{ID: rc.ID, Name: rc.Name, Difficulty: d, Points: make([]runs.Point, len(rc.Points))}
		for i, p := range rc.Points {
			r.Points[i] = runs.Point{X: p[0], Z: p[1]}
		}
		c.Derived.Runs = append(c.Derived.Runs, r)
	}

	c.Derived.Lifts = make([]lifts.Lift, 0, len(c.Lifts.Table))
	for _, lc := range c.Lifts.Table {
		t, err := lifts.ParseType(lc.Type)
		if err != nil {
			return fmt.Errorf("%w: lift %q: %v", ErrInvalid, lc.ID, err)
		}
		l := lifts.Lift{
			ID:       lc.ID,
			Name:     lc.Name,
			Type:     t,
			Capacity: lc.Capacity,
			Base:     lifts.Point{X: lc.Base[0], Z: lc.Base[1]},
			Summit:   lifts.Point{X: lc.Summit[0], Z: lc.Summit[1]},
			Towers:   lc.Towers,
			Cabins:   lc.Cabins,
		}
		if lc.Mid != nil {
			l.Mid = &lifts.Point{X: lc.Mid[0], Z: lc.Mid[1]}
		}
		c.Derived.Lifts = append(c.Derived.Lifts, l)
	}

	c.Derived.Corridors = make([]forest.Corridor, 0, len(c.Forest.Corridors))
	for _, cc := range c.Forest.Corridors {
		c.Derived.Corridors = append(c.Derived.Corridors, forest.Corridor{
			Name: cc.Name, X: cc.X, Z: cc.Z, Width: cc.Width, Depth: cc.Depth,
		})
	}
	if c.Runs.CorridorPadding >= 0 {
		for _, r := range c.Derived.Runs {
			span := c.Runs.Widths.For(r.Difficulty) + 2*c.Runs.CorridorPadding
			for i := 1; i < len(r.Points); i++ {
				a, b := r.Points[i-1], r.Points[i]
				c.Derived.Corridors = append(c.Derived.Corridors,
					legCorridor(fmt.Sprintf("run:%s:%d", r.ID, i), a.X, a.Z, b.X, b.Z, span))
			}
		}
	}
	if c.Lifts.CorridorWidth > 0 {
		for _, l := range c.Derived.Lifts {
			stops := []lifts.Point{l.Base}
			if l.Mid != nil {
				stops = append(stops, *l.Mid)
			}
			stops = append(stops, l.Summit)
			for i := 1; i < len(stops); i++ {
				a, b := stops[i-1], stops[i]
				c.Derived.Corridors = append(c.Derived.Corridors,
					legCorridor(fmt.Sprintf("lift:%s:%d", l.ID, i), a.X, a.Z, b.X, b.Z, c.Lifts.CorridorWidth))
			}
		}
	}
	return nil
}

// legCorridor returns the axis-aligned box around the segment (ax, az)-(bx, bz)
// grown by span in both directions.
func legCorridor(name string, ax, az, bx, bz, span float64) forest.Corridor {
	w := bx - ax
	if w < 0 {
		w = -w
	}
	d := bz - az
	if d < 0 {
		d = -d
	}
	return forest.Corridor{
		Name:  name,
		X:     (ax + bx) / 2,
		Z:     (az + bz) / 2,
		Width: w + span,
		Depth: d + span,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
