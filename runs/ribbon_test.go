package runs

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/skiresort/terrain"
)

func mustFitter(t *testing.T, s terrain.Surface) *Fitter {
	t.Helper()
	f, err := NewFitter(s, DefaultOptions())
	if err != nil {
		t.Fatalf("NewFitter: %v", err)
	}
	return f
}

func TestBuildRibbon_StraightRunOnFlatGround(t *testing.T) {
	opts := DefaultOptions()
	opts.Widths = WidthTable{Green: 10, Blue: 10, Black: 10, DoubleBlack: 10}
	f, err := NewFitter(terrain.Flat(5), opts)
	if err != nil {
		t.Fatalf("NewFitter: %v", err)
	}

	rb, err := f.BuildRibbon(Run{
		ID:     "straight",
		Points: []Point{{X: 0, Z: -50}, {X: 0, Z: 0}, {X: 0, Z: 50}},
	})
	if err != nil {
		t.Fatalf("BuildRibbon: %v", err)
	}

	if len(rb.Vertices)%2 != 0 {
		t.Fatalf("expected paired edge vertices, got %d", len(rb.Vertices))
	}
	for i := 0; i < len(rb.Vertices); i += 2 {
		left, right := rb.Vertices[i], rb.Vertices[i+1]
		if left.Y != 5.5 || right.Y != 5.5 {
			t.Fatalf("expected y = 5.5 at row %d, got %f and %f", i/2, left.Y, right.Y)
		}
		// The path runs along Z, so the perpendicular separation is the X gap.
		if d := math.Abs(left.X - right.X); math.Abs(d-10) > 1e-9 {
			t.Fatalf("expected edges 10 apart at row %d, got %f", i/2, d)
		}
		if math.Abs(left.Z-right.Z) > 1e-9 {
			t.Fatalf("expected edges level across the path at row %d, got dz %f", i/2, left.Z-right.Z)
		}
	}
}

func TestBuildRibbon_DiagonalWidth(t *testing.T) {
	opts := DefaultOptions()
	f, err := NewFitter(terrain.Flat(0), opts)
	if err != nil {
		t.Fatalf("NewFitter: %v", err)
	}
	rb, err := f.BuildRibbon(Run{ID: "diag", Difficulty: Blue, Points: []Point{{0, 0}, {30, 40}, {60, 80}}})
	if err != nil {
		t.Fatalf("BuildRibbon: %v", err)
	}
	dir := r3.Unit(r3.Vec{X: 3, Z: 4})
	for i := 0; i < len(rb.Vertices); i += 2 {
		gap := r3.Sub(rb.Vertices[i], rb.Vertices[i+1])
		if math.Abs(r3.Norm(gap)-12) > 1e-6 {
			t.Fatalf("expected width 12, got %f", r3.Norm(gap))
		}
		if math.Abs(r3.Dot(gap, dir)) > 1e-6 {
			t.Fatalf("expected edge gap perpendicular to the path, got dot %f", r3.Dot(gap, dir))
		}
	}
	if math.Abs(rb.Length-100) > 1e-6 {
		t.Errorf("expected centerline length 100, got %f", rb.Length)
	}
}

func TestBuildRibbon_MeshLayout(t *testing.T) {
	f := mustFitter(t, terrain.Flat(2))
	rb, err := f.BuildRibbon(Run{ID: "r", Points: []Point{{0, 0}, {10, 20}, {-5, 40}, {0, 60}}})
	if err != nil {
		t.Fatalf("BuildRibbon: %v", err)
	}

	n := f.Samples(4)
	if n != 40 {
		t.Fatalf("expected 40 samples for 4 points, got %d", n)
	}
	if len(rb.Vertices) != 2*(n+1) || len(rb.UVs) != 2*(n+1) || len(rb.Centerline) != n+1 {
		t.Errorf("expected %d vertices and UVs, got %d and %d", 2*(n+1), len(rb.Vertices), len(rb.UVs))
	}
	if len(rb.Indices) != 6*n {
		t.Errorf("expected %d indices, got %d", 6*n, len(rb.Indices))
	}
	for _, idx := range rb.Indices {
		if int(idx) >= len(rb.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}
	if rb.UVs[0] != [2]float64{0, 0} || rb.UVs[len(rb.UVs)-1] != [2]float64{1, 1} {
		t.Errorf("expected UVs to span [0,1], got %v and %v", rb.UVs[0], rb.UVs[len(rb.UVs)-1])
	}

	// The curve interpolates its first and last control points.
	first, last := rb.Centerline[0], rb.Centerline[n]
	if math.Abs(first.X) > 1e-9 || math.Abs(first.Z) > 1e-9 {
		t.Errorf("expected centerline to start at (0, 0), got %+v", first)
	}
	if math.Abs(last.X) > 1e-9 || math.Abs(last.Z-60) > 1e-9 {
		t.Errorf("expected centerline to end at (0, 60), got %+v", last)
	}
}

func TestBuildRibbon_MinimumSamples(t *testing.T) {
	f := mustFitter(t, terrain.Flat(0))
	rb, err := f.BuildRibbon(Run{ID: "short", Points: []Point{{0, 0}, {0, 5}}})
	if err != nil {
		t.Fatalf("BuildRibbon: %v", err)
	}
	if len(rb.Centerline) != 21 {
		t.Errorf("expected 21 centerline samples, got %d", len(rb.Centerline))
	}
}

func TestBuildRibbon_TooFewPoints(t *testing.T) {
	f := mustFitter(t, terrain.Flat(0))
	for _, pts := range [][]Point{nil, {{1, 1}}} {
		_, err := f.BuildRibbon(Run{ID: "bad", Points: pts})
		if !errors.Is(err, ErrTooFewPoints) {
			t.Errorf("expected ErrTooFewPoints for %d points, got %v", len(pts), err)
		}
	}
}

func TestBuildRibbon_CoincidentPoints(t *testing.T) {
	f := mustFitter(t, terrain.Flat(0))
	rb, err := f.BuildRibbon(Run{ID: "dup", Points: []Point{{0, 0}, {0, 0}, {0, 30}}})
	if err != nil {
		t.Fatalf("BuildRibbon: %v", err)
	}
	for _, v := range rb.Vertices {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
			t.Fatalf("expected finite vertices, got %+v", v)
		}
	}
}

func TestBuildRibbon_FollowsTerrain(t *testing.T) {
	slope := slopeSurface(0.5)
	f := mustFitter(t, slope)
	rb, err := f.BuildRibbon(Run{ID: "s", Points: []Point{{0, 0}, {0, 40}, {0, 80}}})
	if err != nil {
		t.Fatalf("BuildRibbon: %v", err)
	}
	for _, v := range rb.Vertices {
		if want := slope.Height(v.X, v.Z) + 0.5; math.Abs(v.Y-want) > 1e-9 {
			t.Fatalf("expected vertex draped at %f, got %f", want, v.Y)
		}
	}
}

func TestDifficultyWidthOrdering(t *testing.T) {
	f := mustFitter(t, terrain.Flat(3))
	pts := []Point{{0, 0}, {20, 30}, {0, 60}}

	widths := make([]float64, len(Difficulties))
	for i, d := range Difficulties {
		rb, err := f.BuildRibbon(Run{ID: d.String(), Difficulty: d, Points: pts})
		if err != nil {
			t.Fatalf("BuildRibbon(%s): %v", d, err)
		}
		widths[i] = rb.Width
	}
	for i := range widths {
		for j := i + 1; j < len(widths); j++ {
			if widths[i] < widths[j] {
				t.Errorf("expected %s width %f >= %s width %f", Difficulties[i], widths[i], Difficulties[j], widths[j])
			}
		}
	}
}

func TestWidthTable_Validate(t *testing.T) {
	if err := DefaultWidths().Validate(); err != nil {
		t.Errorf("expected default widths to validate, got %v", err)
	}
	bad := []WidthTable{
		{Green: 10, Blue: 12, Black: 8, DoubleBlack: 6},
		{Green: 10, Blue: 8, Black: 6, DoubleBlack: 0},
		{Green: 10, Blue: 10, Black: 11, DoubleBlack: 4},
	}
	for _, w := range bad {
		if err := w.Validate(); !errors.Is(err, ErrInvalidWidths) {
			t.Errorf("expected ErrInvalidWidths for %+v, got %v", w, err)
		}
	}
	if _, err := NewFitter(terrain.Flat(0), Options{Widths: bad[0]}); !errors.Is(err, ErrInvalidWidths) {
		t.Errorf("expected NewFitter to reject bad widths, got %v", err)
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
	}{
		{"green", Green},
		{"Blue", Blue},
		{" black ", Black},
		{"double-black", DoubleBlack},
		{"double_black", DoubleBlack},
	}
	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseDifficulty(%q): expected %s, got %s (%v)", tc.in, tc.want, got, err)
		}
	}
	if _, err := ParseDifficulty("orange"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
	if !(Green < Blue && Blue < Black && Black < DoubleBlack) {
		t.Error("expected difficulties to be totally ordered")
	}
}

type slopeSurface float64

func (s slopeSurface) Height(_, z float64) float64 { return 10 + float64(s)*z }
