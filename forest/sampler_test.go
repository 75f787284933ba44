package forest

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/skiresort/terrain"
)

var testBounds = terrain.Bounds{MinX: -100, MinZ: -100, MaxX: 100, MaxZ: 100}

func testOptions() Options {
	o := DefaultOptions()
	o.MinElevation = 1
	o.TreeLine = 50
	o.TreeLineBand = 0
	return o
}

// rampSurface rises along X with the given gradient. Unlike terrain.Flat it
// reports no ceiling, so tree-line checks against the surface are skipped.
type rampSurface struct{ grad, base float64 }

func (r rampSurface) Height(x, _ float64) float64 { return r.base + r.grad*x }

func mustSampler(t *testing.T, s terrain.Surface, opts Options, seed int64) *Sampler {
	t.Helper()
	sm, err := NewSampler(s, testBounds, opts, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	return sm
}

func TestSampler_CoversFlatGround(t *testing.T) {
	trees := mustSampler(t, rampSurface{base: 10}, testOptions(), 1).Generate()

	cells := int(math.Ceil(200/6.0)) * int(math.Ceil(200/6.0))
	if len(trees) < cells {
		t.Errorf("expected at least one tree per cell (%d), got %d", cells, len(trees))
	}
	for _, tr := range trees {
		if tr.Y != 10 {
			t.Fatalf("expected tree elevation 10, got %f", tr.Y)
		}
		if !testBounds.Contains(tr.X, tr.Z) {
			t.Fatalf("tree at (%f, %f) outside bounds", tr.X, tr.Z)
		}
	}
}

func TestSampler_CorridorExclusion(t *testing.T) {
	opts := testOptions()
	opts.Corridors = []Corridor{
		{Name: "main", X: 0, Z: 0, Width: 20, Depth: 180},
		{Name: "base", X: 60, Z: 80, Width: 50, Depth: 30},
		{Name: "edge", X: -100, Z: -100, Width: 30, Depth: 30},
	}

	for seed := int64(0); seed < 5; seed++ {
		trees := mustSampler(t, rampSurface{base: 10}, opts, seed).Generate()
		if len(trees) == 0 {
			t.Fatal("expected some trees outside the corridors")
		}
		for _, tr := range trees {
			for _, c := range opts.Corridors {
				if c.Contains(tr.X, tr.Z) {
					t.Fatalf("seed %d: tree at (%.2f, %.2f) inside corridor %q", seed, tr.X, tr.Z, c.Name)
				}
			}
		}
	}
}

func TestCorridor_BoundaryIsInside(t *testing.T) {
	c := Corridor{X: 10, Z: -10, Width: 4, Depth: 8}
	for _, p := range [][2]float64{{8, -10}, {12, -10}, {10, -14}, {10, -6}, {12, -6}} {
		if !c.Contains(p[0], p[1]) {
			t.Errorf("expected boundary point %v inside", p)
		}
	}
	if c.Contains(12.001, -10) {
		t.Error("expected point just outside to be excluded")
	}
}

func TestSampler_DeterministicForSeed(t *testing.T) {
	surface := rampSurface{grad: 0.2, base: 25}
	a := mustSampler(t, surface, testOptions(), 99).Generate()
	b := mustSampler(t, surface, testOptions(), 99).Generate()

	if len(a) != len(b) {
		t.Fatalf("expected equal counts for equal seeds, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tree %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := mustSampler(t, surface, testOptions(), 100).Generate()
	same := len(a) == len(c)
	for i := 0; same && i < len(a); i++ {
		same = a[i] == c[i]
	}
	if same {
		t.Error("expected a different forest for a different seed")
	}
}

func TestSampler_ElevationWindow(t *testing.T) {
	// Heights run from 0 at x=-100 to 60 at x=100; gentle enough to pass the slope test.
	surface := rampSurface{grad: 0.3, base: 30}
	opts := testOptions()
	opts.MinElevation = 10
	opts.TreeLine = 40

	trees := mustSampler(t, surface, opts, 3).Generate()
	if len(trees) == 0 {
		t.Fatal("expected trees inside the elevation window")
	}
	for _, tr := range trees {
		if tr.Y < opts.MinElevation || tr.Y > opts.TreeLine {
			t.Fatalf("tree elevation %f outside [%f, %f]", tr.Y, opts.MinElevation, opts.TreeLine)
		}
	}
}

func TestSampler_TreeLineThinning(t *testing.T) {
	surface := rampSurface{grad: 0.3, base: 30}
	opts := testOptions()
	opts.MinElevation = 0
	opts.TreeLine = 60
	opts.TreeLineBand = 30

	trees := mustSampler(t, surface, opts, 4).Generate()
	var low, high int
	for _, tr := range trees {
		switch {
		case tr.Y < 30:
			low++
		case tr.Y > 45:
			high++
		}
	}
	// The band [30, 60] thins linearly, so [45, 60] keeps at most a quarter
	// of the density of an unthinned strip of the same width.
	if high*2 >= low {
		t.Errorf("expected thinning near the tree line, got %d low and %d high", low, high)
	}
}

func TestSampler_RejectsSteepSlopes(t *testing.T) {
	opts := testOptions()
	opts.TreeLine = 1000
	opts.ModerateSlope = 0.5
	opts.SteepSlope = 1.0

	steep := rampSurface{grad: 2.0, base: 500}
	if trees := mustSampler(t, steep, opts, 5).Generate(); len(trees) != 0 {
		t.Errorf("expected no trees on a 2:1 slope, got %d", len(trees))
	}

	moderate := rampSurface{grad: 0.75, base: 500}
	gentle := rampSurface{grad: 0.1, base: 500}
	nm := len(mustSampler(t, moderate, opts, 5).Generate())
	ng := len(mustSampler(t, gentle, opts, 5).Generate())
	if nm == 0 || nm >= ng {
		t.Errorf("expected partial thinning on moderate slope, got %d moderate vs %d gentle", nm, ng)
	}
}

func TestSampler_TypesAndScales(t *testing.T) {
	surface := rampSurface{grad: 0.2, base: 25}
	opts := testOptions()
	trees := mustSampler(t, surface, opts, 8).Generate()

	seen := make(map[int]bool)
	for _, tr := range trees {
		if tr.Type < 0 || tr.Type >= opts.TypeCount {
			t.Fatalf("type %d outside [0, %d)", tr.Type, opts.TypeCount)
		}
		if tr.Scale < opts.ScaleMin || tr.Scale > opts.ScaleMax {
			t.Fatalf("scale %f outside [%f, %f]", tr.Scale, opts.ScaleMin, opts.ScaleMax)
		}
		seen[tr.Type] = true
	}
	if len(seen) != opts.TypeCount {
		t.Errorf("expected all %d types to appear, got %d", opts.TypeCount, len(seen))
	}
}

func TestNewSampler_Validation(t *testing.T) {
	field, err := terrain.New(terrain.Spec{
		Width:     200,
		Depth:     200,
		Landforms: []terrain.Landform{terrain.Peak{Height: 40, Radius: 50}},
	})
	if err != nil {
		t.Fatalf("terrain.New: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"tree line below min elevation", func(o *Options) { o.TreeLine = 0.5 }},
		{"zero spacing", func(o *Options) { o.Spacing = 0 }},
		{"tree line above ceiling", func(o *Options) { o.TreeLine = 41 }},
		{"empty corridor", func(o *Options) { o.Corridors = []Corridor{{Name: "x", Width: 0, Depth: 3}} }},
		{"corridor outside terrain", func(o *Options) {
			o.Corridors = []Corridor{{Name: "far", X: 500, Z: 0, Width: 10, Depth: 10}}
		}},
		{"inverted slopes", func(o *Options) { o.SteepSlope = 0.1 }},
		{"no types", func(o *Options) { o.TypeCount = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := testOptions()
			opts.TreeLine = 35
			tc.mutate(&opts)
			_, err := NewSampler(field, testBounds, opts, rand.New(rand.NewSource(1)))
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}

	opts := testOptions()
	opts.TreeLine = 35
	if _, err := NewSampler(field, testBounds, opts, rand.New(rand.NewSource(1))); err != nil {
		t.Errorf("expected valid options to pass, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	trees := []Tree{
		{Y: 10, Type: 0, Scale: 1},
		{Y: 20, Type: 1, Scale: 1},
		{Y: 30, Type: 1, Scale: 1},
	}
	s := Summarize(trees)

	if s.Count != 3 {
		t.Errorf("expected count 3, got %d", s.Count)
	}
	if s.PerType[1] != 2 {
		t.Errorf("expected 2 trees of type 1, got %d", s.PerType[1])
	}
	if math.Abs(s.MeanY-20) > 1e-12 {
		t.Errorf("expected mean 20, got %f", s.MeanY)
	}
	if math.Abs(s.StdDevY-10) > 1e-12 {
		t.Errorf("expected sample std-dev 10, got %f", s.StdDevY)
	}
	if s.MinY != 10 || s.MaxY != 30 || s.MedianY != 20 {
		t.Errorf("expected min/median/max 10/20/30, got %f/%f/%f", s.MinY, s.MedianY, s.MaxY)
	}

	if empty := Summarize(nil); empty.Count != 0 {
		t.Errorf("expected empty summary, got %+v", empty)
	}
}
