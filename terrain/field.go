// Package terrain synthesises the resort height field from landform
// primitives, deterministic noise, a flattened base area and edge falloff.
package terrain

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidSpec is returned by New when the terrain specification is unusable.
var ErrInvalidSpec = errors.New("terrain: invalid spec")

// Surface is anything that can report a terrain height at an arbitrary point.
type Surface interface {
	Height(x, z float64) float64
}

// Ceilinged is implemented by surfaces that know an upper bound on their height.
type Ceilinged interface {
	Ceiling() float64
}

// Flat is a constant-height surface.
type Flat float64

func (f Flat) Height(_, _ float64) float64 { return float64(f) }

func (f Flat) Ceiling() float64 { return float64(f) }

// Bounds is an axis-aligned rectangle in the XZ plane.
type Bounds struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// Contains reports whether (x, z) lies inside the bounds, edges included.
func (b Bounds) Contains(x, z float64) bool {
	return x >= b.MinX && x <= b.MaxX && z >= b.MinZ && z <= b.MaxZ
}

// Width returns the X extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Depth returns the Z extent.
func (b Bounds) Depth() float64 { return b.MaxZ - b.MinZ }

// BaseArea flattens the village region toward a constant elevation.
// Heights blend linearly from StartZ (untouched) to FullZ (fully flattened);
// FullZ may be on either side of StartZ. When HalfWidth is positive the area
// is limited to |x| <= HalfWidth with a SideBlend-wide linear transition.
type BaseArea struct {
	Enabled   bool
	StartZ    float64
	FullZ     float64
	Elevation float64
	HalfWidth float64
	SideBlend float64
}

func (a BaseArea) weight(x, z float64) float64 {
	if !a.Enabled {
		return 0
	}
	t := clamp((z-a.StartZ)/(a.FullZ-a.StartZ), 0, 1)
	if a.HalfWidth > 0 {
		t *= clamp((a.HalfWidth+a.SideBlend-math.Abs(x))/a.SideBlend, 0, 1)
	}
	return t
}

// EdgeFalloff scales heights down inside Margin of the domain boundary.
// The scale factor never drops below Floor.
type EdgeFalloff struct {
	Margin float64
	Floor  float64
}

// Spec is the full, static description of a height field.
type Spec struct {
	Width, Depth  float64
	BaseElevation float64
	RidgeDamping  float64
	BowlDamping   float64
	Landforms     []Landform
	Noise         Noise
	BaseArea      BaseArea
	Edge          EdgeFalloff
}

// Field is an immutable height field. All methods are safe for concurrent use.
type Field struct {
	halfW, halfD float64
	base         float64
	landforms    []Landform
	noise        Noise
	baseArea     BaseArea
	edge         EdgeFalloff
	ceiling      float64
}

// New validates spec and builds the field.
func New(spec Spec) (*Field, error) {
	if spec.Width <= 0 || spec.Depth <= 0 {
		return nil, fmt.Errorf("%w: extent must be positive, got %gx%g", ErrInvalidSpec, spec.Width, spec.Depth)
	}
	if spec.Edge.Margin < 0 {
		return nil, fmt.Errorf("%w: edge margin must not be negative, got %g", ErrInvalidSpec, spec.Edge.Margin)
	}
	if spec.Edge.Margin > 0 && (spec.Edge.Floor <= 0 || spec.Edge.Floor > 1) {
		return nil, fmt.Errorf("%w: edge floor must be in (0, 1], got %g", ErrInvalidSpec, spec.Edge.Floor)
	}
	if spec.BaseArea.Enabled {
		if spec.BaseArea.StartZ == spec.BaseArea.FullZ {
			return nil, fmt.Errorf("%w: base area start_z and full_z coincide", ErrInvalidSpec)
		}
		if spec.BaseArea.HalfWidth > 0 && spec.BaseArea.SideBlend <= 0 {
			return nil, fmt.Errorf("%w: base area side blend must be positive when half width is set", ErrInvalidSpec)
		}
	}

	ridgeDamping := spec.RidgeDamping
	if ridgeDamping == 0 {
		ridgeDamping = DefaultRidgeDamping
	}
	bowlDamping := spec.BowlDamping
	if bowlDamping == 0 {
		bowlDamping = DefaultBowlDamping
	}

	f := &Field{
		halfW:     spec.Width / 2,
		halfD:     spec.Depth / 2,
		base:      spec.BaseElevation,
		landforms: make([]Landform, 0, len(spec.Landforms)),
		noise:     spec.Noise,
		baseArea:  spec.BaseArea,
		edge:      spec.Edge,
	}

	f.ceiling = math.Max(0, spec.BaseElevation)
	for i, lf := range spec.Landforms {
		if lf == nil {
			return nil, fmt.Errorf("%w: landform %d is nil", ErrInvalidSpec, i)
		}
		lf = lf.withDefaults(ridgeDamping, bowlDamping)
		if err := lf.validate(); err != nil {
			return nil, fmt.Errorf("%w: landform %d: %v", ErrInvalidSpec, i, err)
		}
		f.landforms = append(f.landforms, lf)
		f.ceiling += lf.Ceiling()
	}
	if f.noise != nil {
		f.ceiling += f.noise.Amplitude()
	}
	if f.baseArea.Enabled {
		f.ceiling += math.Max(0, f.baseArea.Elevation)
	}

	return f, nil
}

// Height returns the terrain elevation at (x, z). It is defined everywhere,
// deterministic and never negative.
func (f *Field) Height(x, z float64) float64 {
	h := f.base
	for _, lf := range f.landforms {
		h += lf.Contribution(x, z)
	}
	if f.noise != nil {
		h += f.noise.Eval(x, z)
	}
	if w := f.baseArea.weight(x, z); w > 0 {
		h += (f.baseArea.Elevation - h) * w
	}
	h *= f.edgeFactor(x, z)
	if h < 0 {
		return 0
	}
	return h
}

func (f *Field) edgeFactor(x, z float64) float64 {
	if f.edge.Margin == 0 {
		return 1
	}
	rx := smoothstep((f.halfW - math.Abs(x)) / f.edge.Margin)
	rz := smoothstep((f.halfD - math.Abs(z)) / f.edge.Margin)
	return f.edge.Floor + (1-f.edge.Floor)*rx*rz
}

// Ceiling returns an upper bound on Height: base elevation plus every
// primitive's peak contribution plus the noise amplitude and base-area elevation.
func (f *Field) Ceiling() float64 { return f.ceiling }

// Bounds returns the terrain domain, centred on the origin.
func (f *Field) Bounds() Bounds {
	return Bounds{MinX: -f.halfW, MinZ: -f.halfD, MaxX: f.halfW, MaxZ: f.halfD}
}

// Landforms returns a copy of the configured primitives with defaults applied.
func (f *Field) Landforms() []Landform {
	out := make([]Landform, len(f.landforms))
	copy(out, f.landforms)
	return out
}

// Gradient estimates the height gradient with forward differences.
func Gradient(s Surface, x, z, delta float64) (gx, gz float64) {
	h := s.Height(x, z)
	gx = (s.Height(x+delta, z) - h) / delta
	gz = (s.Height(x, z+delta) - h) / delta
	return gx, gz
}

// Slope returns the gradient magnitude (rise over run) at (x, z).
func Slope(s Surface, x, z, delta float64) float64 {
	gx, gz := Gradient(s, x, z, delta)
	return math.Hypot(gx, gz)
}

// Normal returns the unit surface normal at (x, z).
func Normal(s Surface, x, z, delta float64) r3.Vec {
	gx, gz := Gradient(s, x, z, delta)
	return r3.Unit(r3.Vec{X: -gx, Y: 1, Z: -gz})
}
