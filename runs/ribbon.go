// Package runs fits smooth ski-run paths through sparse control points and
// drapes ground-conforming ribbon meshes along them.
package runs

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/skiresort/terrain"
)

// ErrTooFewPoints is returned for runs with fewer than two control points.
var ErrTooFewPoints = errors.New("runs: at least two control points required")

// Point is a 2D control point on the XZ plane.
type Point struct {
	X, Z float64
}

// Run describes one ski run. Points are ordered top to bottom.
type Run struct {
	ID         string
	Name       string
	Difficulty Difficulty
	Points     []Point
}

// Options tune ribbon construction.
type Options struct {
	Clearance       float64 // Height above the terrain
	MinSamples      int
	SamplesPerPoint int
	Widths          WidthTable
}

// DefaultOptions returns the bundled ribbon settings.
func DefaultOptions() Options {
	return Options{
		Clearance:       0.5,
		MinSamples:      20,
		SamplesPerPoint: 10,
		Widths:          DefaultWidths(),
	}
}

// Ribbon is a triangle-strip mesh following a run. Vertex 2i is the left
// edge and 2i+1 the right edge of sample i.
type Ribbon struct {
	RunID      string
	Name       string
	Difficulty Difficulty
	Width      float64
	Vertices   []r3.Vec
	Indices    []uint32
	UVs        [][2]float64
	Centerline []r3.Vec
	Length     float64
}

// Fitter builds ribbons on a surface.
type Fitter struct {
	surface terrain.Surface
	opts    Options
}

// NewFitter creates a fitter. The width table must be positive and
// non-increasing with difficulty.
func NewFitter(surface terrain.Surface, opts Options) (*Fitter, error) {
	if err := opts.Widths.Validate(); err != nil {
		return nil, err
	}
	if opts.MinSamples < 1 {
		opts.MinSamples = 1
	}
	return &Fitter{surface: surface, opts: opts}, nil
}

// Width returns the ribbon width used for d.
func (f *Fitter) Width(d Difficulty) float64 {
	return f.opts.Widths.For(d)
}

// Samples returns the number of curve steps used for a run with n control points.
func (f *Fitter) Samples(n int) int {
	return max(f.opts.MinSamples, f.opts.SamplesPerPoint*n)
}

// BuildRibbon fits a spline through the run's control points and builds
// its ribbon mesh.
func (f *Fitter) BuildRibbon(run Run) (*Ribbon, error) {
	if len(run.Points) < 2 {
		return nil, fmt.Errorf("run %q has %d points: %w", run.ID, len(run.Points), ErrTooFewPoints)
	}

	pts := make([]r3.Vec, len(run.Points))
	for i, p := range run.Points {
		pts[i] = r3.Vec{X: p.X, Y: f.surface.Height(p.X, p.Z), Z: p.Z}
	}
	spline := NewSpline(pts)

	n := f.Samples(len(run.Points))
	width := f.Width(run.Difficulty)
	half := width / 2

	rb := &Ribbon{
		RunID:      run.ID,
		Name:       run.Name,
		Difficulty: run.Difficulty,
		Width:      width,
		Vertices:   make([]r3.Vec, 0, 2*(n+1)),
		Indices:    make([]uint32, 0, 6*n),
		UVs:        make([][2]float64, 0, 2*(n+1)),
		Centerline: make([]r3.Vec, 0, n+1),
	}

	h := 0.5 / float64(n)
	perp := r3.Vec{X: 1}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		c := spline.At(t)

		tangent := r3.Sub(spline.At(t+h), spline.At(t-h))
		// Horizontal perpendicular: tangent x up.
		if p := (r3.Vec{X: -tangent.Z, Z: tangent.X}); r3.Norm(p) > 1e-12 {
			perp = r3.Unit(p)
		}

		center := f.drape(c.X, c.Z)
		if i > 0 {
			rb.Length += r3.Norm(r3.Sub(center, rb.Centerline[i-1]))
		}
		rb.Centerline = append(rb.Centerline, center)

		left := f.drape(c.X+perp.X*half, c.Z+perp.Z*half)
		right := f.drape(c.X-perp.X*half, c.Z-perp.Z*half)
		rb.Vertices = append(rb.Vertices, left, right)
		rb.UVs = append(rb.UVs, [2]float64{0, t}, [2]float64{1, t})
	}

	for i := 0; i < n; i++ {
		a := uint32(2 * i)
		rb.Indices = append(rb.Indices, a, a+2, a+1, a+1, a+2, a+3)
	}
	return rb, nil
}

// drape places (x, z) on the terrain plus clearance.
func (f *Fitter) drape(x, z float64) r3.Vec {
	return r3.Vec{X: x, Y: f.surface.Height(x, z) + f.opts.Clearance, Z: z}
}
