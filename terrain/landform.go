package terrain

import (
	"fmt"
	"math"
)

// Falloff cutoffs in multiples of a primitive's nominal radius.
// Every window reaches zero with zero slope at its cutoff.
const (
	peakCutoff   = 1.6
	bowlCutoff   = 1.5
	ridgeCutoff  = 3.0 // in lateral standard deviations
	gaussianRate = 2.0 // exp(-rate * r^2) core for peaks and bowls

	DefaultRidgeDamping   = 0.4
	DefaultBowlDamping    = 0.65
	DefaultPlateauFalloff = 0.6
)

// Landform is a single additive height contribution.
// The set of implementations is closed: Peak, Plateau, Ridge and Bowl.
type Landform interface {
	// Contribution returns the signed height this landform adds at (x, z).
	Contribution(x, z float64) float64
	// Ceiling returns the largest positive value Contribution can take.
	Ceiling() float64

	validate() error
	withDefaults(ridgeDamping, bowlDamping float64) Landform
}

// Peak is a smooth radial bump.
type Peak struct {
	X, Z   float64
	Height float64
	Radius float64
}

func (p Peak) Contribution(x, z float64) float64 {
	r := math.Hypot(x-p.X, z-p.Z) / p.Radius
	if r >= peakCutoff {
		return 0
	}
	return p.Height * math.Exp(-gaussianRate*r*r) * window(r, peakCutoff)
}

func (p Peak) Ceiling() float64 { return math.Max(0, p.Height) }

func (p Peak) validate() error {
	if p.Radius <= 0 {
		return fmt.Errorf("peak at (%g, %g): radius must be positive, got %g", p.X, p.Z, p.Radius)
	}
	return nil
}

func (p Peak) withDefaults(_, _ float64) Landform { return p }

// Plateau holds full height inside an elliptical inner radius and falls off
// with a cosine-squared profile over Falloff (a fraction of the radius).
type Plateau struct {
	X, Z             float64
	RadiusX, RadiusZ float64
	Height           float64
	Falloff          float64
}

func (p Plateau) Contribution(x, z float64) float64 {
	dx := (x - p.X) / p.RadiusX
	dz := (z - p.Z) / p.RadiusZ
	d := math.Sqrt(dx*dx + dz*dz)
	if d <= 1 {
		return p.Height
	}
	if d >= 1+p.Falloff {
		return 0
	}
	c := math.Cos((d - 1) / p.Falloff * math.Pi / 2)
	return p.Height * c * c
}

func (p Plateau) Ceiling() float64 { return math.Max(0, p.Height) }

func (p Plateau) validate() error {
	if p.RadiusX <= 0 || p.RadiusZ <= 0 {
		return fmt.Errorf("plateau at (%g, %g): radii must be positive, got (%g, %g)", p.X, p.Z, p.RadiusX, p.RadiusZ)
	}
	if p.Falloff <= 0 {
		return fmt.Errorf("plateau at (%g, %g): falloff must be positive, got %g", p.X, p.Z, p.Falloff)
	}
	return nil
}

func (p Plateau) withDefaults(_, _ float64) Landform {
	if p.Falloff == 0 {
		p.Falloff = DefaultPlateauFalloff
	}
	return p
}

// Ridge raises terrain along the segment (X1,Z1)-(X2,Z2).
// The profile is zero at both endpoints, maximal at the midpoint and Gaussian
// across the segment with Width as two standard deviations.
type Ridge struct {
	X1, Z1  float64
	X2, Z2  float64
	Height  float64
	Width   float64
	Damping float64
}

func (r Ridge) Contribution(x, z float64) float64 {
	ax, az := r.X2-r.X1, r.Z2-r.Z1
	lenSq := ax*ax + az*az
	t := ((x-r.X1)*ax + (z-r.Z1)*az) / lenSq
	t = clamp(t, 0, 1)

	px := r.X1 + ax*t
	pz := r.Z1 + az*t
	sigma := r.Width / 2
	d := math.Hypot(x-px, z-pz) / sigma
	if d >= ridgeCutoff {
		return 0
	}

	lateral := math.Exp(-0.5*d*d) * window(d, ridgeCutoff)
	along := math.Sin(math.Pi * t)
	return r.Height * r.Damping * lateral * along
}

func (r Ridge) Ceiling() float64 { return math.Max(0, r.Height*r.Damping) }

func (r Ridge) validate() error {
	if r.X1 == r.X2 && r.Z1 == r.Z2 {
		return fmt.Errorf("ridge at (%g, %g): endpoints coincide", r.X1, r.Z1)
	}
	if r.Width <= 0 {
		return fmt.Errorf("ridge (%g, %g)-(%g, %g): width must be positive, got %g", r.X1, r.Z1, r.X2, r.Z2, r.Width)
	}
	return nil
}

func (r Ridge) withDefaults(ridgeDamping, _ float64) Landform {
	if r.Damping == 0 {
		r.Damping = ridgeDamping
	}
	return r
}

// Bowl is a depression. Depth is positive and is subtracted.
type Bowl struct {
	X, Z    float64
	Radius  float64
	Depth   float64
	Damping float64
}

func (b Bowl) Contribution(x, z float64) float64 {
	r := math.Hypot(x-b.X, z-b.Z) / b.Radius
	if r >= bowlCutoff {
		return 0
	}
	return -b.Depth * b.Damping * math.Exp(-gaussianRate*r*r) * window(r, bowlCutoff)
}

func (b Bowl) Ceiling() float64 { return 0 }

func (b Bowl) validate() error {
	if b.Radius <= 0 {
		return fmt.Errorf("bowl at (%g, %g): radius must be positive, got %g", b.X, b.Z, b.Radius)
	}
	if b.Depth < 0 {
		return fmt.Errorf("bowl at (%g, %g): depth must not be negative, got %g", b.X, b.Z, b.Depth)
	}
	return nil
}

func (b Bowl) withDefaults(_, bowlDamping float64) Landform {
	if b.Damping == 0 {
		b.Damping = bowlDamping
	}
	return b
}

// window is (1 - (r/c)^2)^2 inside c and zero outside. Value and slope are
// both zero at r = c.
func window(r, c float64) float64 {
	if r >= c {
		return 0
	}
	s := r / c
	w := 1 - s*s
	return w * w
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func smoothstep(t float64) float64 {
	t = clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}
