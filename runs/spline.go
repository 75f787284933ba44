package runs

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// knotEpsilon keeps knot intervals non-zero when control points coincide.
const knotEpsilon = 1e-6

// Spline is a centripetal Catmull-Rom curve through a set of points.
// It passes through every point; the ends use reflected phantom points.
type Spline struct {
	pts   []r3.Vec // Control points with a phantom at each end
	alpha float64
}

// NewSpline builds a centripetal (alpha = 0.5) spline. points must hold at
// least two entries.
func NewSpline(points []r3.Vec) *Spline {
	n := len(points)
	pts := make([]r3.Vec, 0, n+2)
	pts = append(pts, r3.Sub(r3.Scale(2, points[0]), points[1]))
	pts = append(pts, points...)
	pts = append(pts, r3.Sub(r3.Scale(2, points[n-1]), points[n-2]))
	return &Spline{pts: pts, alpha: 0.5}
}

// Segments returns the number of curve segments.
func (s *Spline) Segments() int { return len(s.pts) - 3 }

// At evaluates the curve at global parameter t in [0, 1].
func (s *Spline) At(t float64) r3.Vec {
	segs := s.Segments()
	t = math.Max(0, math.Min(1, t))
	f := t * float64(segs)
	i := int(f)
	if i >= segs {
		i = segs - 1
	}
	return s.segment(i, f-float64(i))
}

// segment evaluates segment i (between control points i and i+1) at local
// parameter u in [0, 1] using the Barry-Goldman pyramid.
func (s *Spline) segment(i int, u float64) r3.Vec {
	p0, p1, p2, p3 := s.pts[i], s.pts[i+1], s.pts[i+2], s.pts[i+3]

	t0 := 0.0
	t1 := t0 + s.knot(p0, p1)
	t2 := t1 + s.knot(p1, p2)
	t3 := t2 + s.knot(p2, p3)
	t := t1 + u*(t2-t1)

	a1 := lerp(p0, p1, (t-t0)/(t1-t0))
	a2 := lerp(p1, p2, (t-t1)/(t2-t1))
	a3 := lerp(p2, p3, (t-t2)/(t3-t2))
	b1 := lerp(a1, a2, (t-t0)/(t2-t0))
	b2 := lerp(a2, a3, (t-t1)/(t3-t1))
	return lerp(b1, b2, (t-t1)/(t2-t1))
}

func (s *Spline) knot(a, b r3.Vec) float64 {
	return math.Max(math.Pow(r3.Norm(r3.Sub(b, a)), s.alpha), knotEpsilon)
}

// lerp returns a + (b-a)*w.
func lerp(a, b r3.Vec, w float64) r3.Vec {
	return r3.Add(a, r3.Scale(w, r3.Sub(b, a)))
}
