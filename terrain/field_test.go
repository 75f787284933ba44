package terrain

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func testSpec() Spec {
	return Spec{
		Width:         400,
		Depth:         400,
		BaseElevation: 0,
		Landforms: []Landform{
			Peak{X: 0, Z: -110, Height: 120, Radius: 70},
			Peak{X: -110, Z: -80, Height: 85, Radius: 55},
			Peak{X: 0, Z: -60, Height: 60, Radius: 150},
			Plateau{X: 60, Z: -20, RadiusX: 40, RadiusZ: 30, Height: 45},
			Ridge{X1: -110, Z1: -80, X2: 0, Z2: -110, Height: 70, Width: 25},
			Bowl{X: -40, Z: -40, Radius: 35, Depth: 30},
		},
		Noise:    DefaultSineNoise(),
		BaseArea: BaseArea{Enabled: true, StartZ: 120, FullZ: 160, Elevation: 2, HalfWidth: 120, SideBlend: 40},
		Edge:     EdgeFalloff{Margin: 30, Floor: 0.08},
	}
}

func mustField(t *testing.T, spec Spec) *Field {
	t.Helper()
	f, err := New(spec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestField_NonNegative(t *testing.T) {
	f := mustField(t, testSpec())

	// Cover the domain and a generous margin outside it.
	for x := -300.0; x <= 300; x += 3.7 {
		for z := -300.0; z <= 300; z += 3.7 {
			if h := f.Height(x, z); h < 0 {
				t.Fatalf("expected non-negative height at (%.1f, %.1f), got %f", x, z, h)
			}
		}
	}
}

func TestField_NonNegativeWithDeepBowl(t *testing.T) {
	spec := testSpec()
	spec.Landforms = []Landform{Bowl{X: 0, Z: 0, Radius: 50, Depth: 500}}
	f := mustField(t, spec)

	if h := f.Height(0, 0); h != 0 {
		t.Errorf("expected bowl floor clamped to 0, got %f", h)
	}
}

func TestField_BoundedByCeiling(t *testing.T) {
	f := mustField(t, testSpec())
	ceiling := f.Ceiling()

	var maxH float64
	for x := -220.0; x <= 220; x += 2.5 {
		for z := -220.0; z <= 220; z += 2.5 {
			h := f.Height(x, z)
			if h > ceiling {
				t.Fatalf("height %f at (%.1f, %.1f) exceeds ceiling %f", h, x, z, ceiling)
			}
			maxH = math.Max(maxH, h)
		}
	}
	if maxH <= 0 {
		t.Error("expected some terrain above zero")
	}
}

func TestField_Deterministic(t *testing.T) {
	a := mustField(t, testSpec())
	b := mustField(t, testSpec())

	points := [][2]float64{{0, 0}, {12.5, -98.25}, {-180, 190}, {1e6, -1e6}, {0.001, 73.3}}

	// Query b in reverse order to make sure results don't depend on call history.
	first := make([]float64, len(points))
	for i, p := range points {
		first[i] = a.Height(p[0], p[1])
	}
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		if got := b.Height(p[0], p[1]); got != first[i] {
			t.Errorf("expected bit-identical height at %v: %v vs %v", p, first[i], got)
		}
		if got := a.Height(p[0], p[1]); got != first[i] {
			t.Errorf("expected repeated query at %v to match: %v vs %v", p, first[i], got)
		}
	}
}

func TestField_ConcurrentReaders(t *testing.T) {
	f := mustField(t, testSpec())
	want := f.Height(33, -71)

	var wg sync.WaitGroup
	errs := make(chan float64, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := f.Height(33, -71); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("expected %v from concurrent reader, got %v", want, got)
	}
}

func TestField_Smooth(t *testing.T) {
	f := mustField(t, testSpec())

	const delta = 0.01
	// Generous Lipschitz bound: steepest primitive flank plus base-area and
	// edge ramps stay well below this for the test spec.
	const maxSlope = 25.0

	for x := -210.0; x <= 210; x += 1.3 {
		for z := -210.0; z <= 210; z += 1.3 {
			h := f.Height(x, z)
			dx := math.Abs(f.Height(x+delta, z) - h)
			dz := math.Abs(f.Height(x, z+delta) - h)
			if dx > maxSlope*delta || dz > maxSlope*delta {
				t.Fatalf("discontinuity near (%.2f, %.2f): dx=%f dz=%f", x, z, dx, dz)
			}
		}
	}
}

func TestField_FarFieldDegradesGracefully(t *testing.T) {
	f := mustField(t, testSpec())

	for _, p := range [][2]float64{{1e9, 0}, {0, -1e9}, {-5e4, 5e4}} {
		h := f.Height(p[0], p[1])
		if math.IsNaN(h) || math.IsInf(h, 0) {
			t.Errorf("expected finite height at %v, got %v", p, h)
		}
		// Only noise survives far away, scaled by the edge floor.
		if h > DefaultSineNoise().Amplitude() {
			t.Errorf("expected far-field height below noise amplitude at %v, got %f", p, h)
		}
	}
}

func TestField_BaseAreaIsFlat(t *testing.T) {
	f := mustField(t, testSpec())

	for x := -100.0; x <= 100; x += 10 {
		for z := 160.0; z <= 165; z += 1 {
			h := f.Height(x, z)
			if h > 2.0001 {
				t.Errorf("expected flattened village at (%.0f, %.0f), got %f", x, z, h)
			}
		}
	}
}

func TestField_EdgeFalloffFloor(t *testing.T) {
	spec := Spec{
		Width:     100,
		Depth:     100,
		Landforms: []Landform{Plateau{X: 0, Z: 0, RadiusX: 500, RadiusZ: 500, Height: 10}},
		Edge:      EdgeFalloff{Margin: 10, Floor: 0.1},
	}
	f := mustField(t, spec)

	if h := f.Height(0, 0); math.Abs(h-10) > 1e-12 {
		t.Errorf("expected full height in the interior, got %f", h)
	}
	if h := f.Height(50, 0); math.Abs(h-1) > 1e-12 {
		t.Errorf("expected floor-scaled height at the boundary, got %f", h)
	}
	if h := f.Height(400, 0); math.Abs(h-1) > 1e-12 {
		t.Errorf("expected floor-scaled height outside, got %f", h)
	}
}

func TestNew_RejectsInvalidSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"zero width", Spec{Width: 0, Depth: 10}},
		{"bad floor", Spec{Width: 10, Depth: 10, Edge: EdgeFalloff{Margin: 1, Floor: 0}}},
		{"negative margin", Spec{Width: 10, Depth: 10, Edge: EdgeFalloff{Margin: -1, Floor: 0.5}}},
		{"zero radius peak", Spec{Width: 10, Depth: 10, Landforms: []Landform{Peak{Height: 1}}}},
		{"zero length ridge", Spec{Width: 10, Depth: 10, Landforms: []Landform{Ridge{X1: 1, Z1: 1, X2: 1, Z2: 1, Width: 2}}}},
		{"nil landform", Spec{Width: 10, Depth: 10, Landforms: []Landform{nil}}},
		{"degenerate base area", Spec{Width: 10, Depth: 10, BaseArea: BaseArea{Enabled: true, StartZ: 3, FullZ: 3}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.spec)
			if !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("expected ErrInvalidSpec, got %v", err)
			}
		})
	}
}

func TestSlope_FlatAndInclined(t *testing.T) {
	if s := Slope(Flat(5), 10, 10, 0.5); s != 0 {
		t.Errorf("expected zero slope on flat ground, got %f", s)
	}

	incline := surfaceFunc(func(x, z float64) float64 { return 0.5*x + 2 })
	if s := Slope(incline, 3, 4, 0.25); math.Abs(s-0.5) > 1e-9 {
		t.Errorf("expected slope 0.5, got %f", s)
	}

	n := Normal(Flat(1), 0, 0, 1)
	if math.Abs(n.Y-1) > 1e-12 || n.X != 0 || n.Z != 0 {
		t.Errorf("expected straight-up normal on flat ground, got %+v", n)
	}
}

func TestSample_GridMatchesField(t *testing.T) {
	f := mustField(t, testSpec())
	g := f.Sample(16)

	if len(g.Heights) != 17*17 {
		t.Fatalf("expected 289 heights, got %d", len(g.Heights))
	}
	for _, ij := range [][2]int{{0, 0}, {16, 16}, {8, 3}, {5, 12}} {
		x, z := g.Position(ij[0], ij[1])
		if got, want := g.At(ij[0], ij[1]), f.Height(x, z); got != want {
			t.Errorf("expected grid vertex %v = %f, got %f", ij, want, got)
		}
	}
	if g.Min > g.Max {
		t.Errorf("expected min <= max, got %f > %f", g.Min, g.Max)
	}
}

type surfaceFunc func(x, z float64) float64

func (f surfaceFunc) Height(x, z float64) float64 { return f(x, z) }
