// Package camera provides an orbit camera for the 3D resort view.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/pthm-cable/skiresort/terrain"
)

// Orbit circles a target point. Yaw turns about the vertical axis (0 looks
// toward -Z), pitch tilts down from the horizon.
type Orbit struct {
	// Target is the orbit centre in world coordinates
	TargetX, TargetY, TargetZ float32

	Yaw, Pitch float32 // radians
	Distance   float32

	// Constraints
	MinDistance, MaxDistance float32
	MinPitch, MaxPitch       float32

	// Ground extent the target is kept inside
	Bounds terrain.Bounds
}

// New creates a camera looking at the centre of bounds from the overview
// distance.
func New(bounds terrain.Bounds) *Orbit {
	span := float32(max(bounds.Width(), bounds.Depth()))
	if span <= 0 {
		span = 100
	}
	c := &Orbit{
		MinDistance: 10,
		MaxDistance: span * 3,
		MinPitch:    0.05,
		MaxPitch:    1.5,
		Bounds:      bounds,
	}
	c.Reset()
	return c
}

// Position returns the eye position.
func (c *Orbit) Position() (x, y, z float32) {
	cp := math32.Cos(c.Pitch)
	x = c.TargetX - math32.Sin(c.Yaw)*cp*c.Distance
	y = c.TargetY + math32.Sin(c.Pitch)*c.Distance
	z = c.TargetZ + math32.Cos(c.Yaw)*cp*c.Distance
	return x, y, z
}

// Rotate turns the camera by the given angles in radians.
func (c *Orbit) Rotate(dYaw, dPitch float32) {
	c.Yaw = mod(c.Yaw+dYaw, 2*math32.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Orbit) SetDistance(d float32) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy multiplies the current distance by the given factor.
func (c *Orbit) ZoomBy(factor float32) {
	c.SetDistance(c.Distance * factor)
}

// Pan moves the target in the ground plane. Positive right moves to the
// viewer's right and positive forward away from the viewer.
func (c *Orbit) Pan(right, forward float32) {
	s, co := math32.Sin(c.Yaw), math32.Cos(c.Yaw)
	c.TargetX += co*right + s*forward
	c.TargetZ += s*right - co*forward
	b := c.Bounds
	if b.Width() > 0 && b.Depth() > 0 {
		c.TargetX = clamp(c.TargetX, float32(b.MinX), float32(b.MaxX))
		c.TargetZ = clamp(c.TargetZ, float32(b.MinZ), float32(b.MaxZ))
	}
}

// Reset returns the camera to the overview.
func (c *Orbit) Reset() {
	c.Apply(Overview(c.Bounds))
}

// Preset is a named camera placement.
type Preset struct {
	Name                      string
	TargetX, TargetY, TargetZ float32
	Yaw, Pitch, Distance      float32
}

// Overview looks across the whole terrain from the village side.
func Overview(b terrain.Bounds) Preset {
	span := float32(max(b.Width(), b.Depth()))
	return Preset{
		Name:     "overview",
		TargetX:  float32(b.MinX+b.MaxX) / 2,
		TargetZ:  float32(b.MinZ+b.MaxZ) / 2,
		Pitch:    0.6,
		Distance: span * 1.1,
	}
}

// Presets returns the overview, a view down from the highest point and a
// view up the mountain from the village at (vx, vz).
func Presets(f *terrain.Field, vx, vz float64) []Preset {
	b := f.Bounds()
	g := f.Sample(32)
	var sx, sz float64
	best := -1.0
	for j := 0; j <= g.Resolution; j++ {
		for i := 0; i <= g.Resolution; i++ {
			if h := g.At(i, j); h > best {
				best = h
				sx, sz = g.Position(i, j)
			}
		}
	}
	span := float32(max(b.Width(), b.Depth()))
	return []Preset{
		Overview(b),
		{
			Name:     "summit",
			TargetX:  float32(sx),
			TargetY:  float32(best),
			TargetZ:  float32(sz),
			Yaw:      math32.Pi,
			Pitch:    0.35,
			Distance: span * 0.35,
		},
		{
			Name:     "village",
			TargetX:  float32(vx),
			TargetY:  float32(f.Height(vx, vz)),
			TargetZ:  float32(vz),
			Pitch:    0.25,
			Distance: span * 0.3,
		},
	}
}

// Apply moves the camera to p, respecting the constraints.
func (c *Orbit) Apply(p Preset) {
	c.TargetX, c.TargetY, c.TargetZ = p.TargetX, p.TargetY, p.TargetZ
	c.Yaw = mod(p.Yaw, 2*math32.Pi)
	c.Pitch = clamp(p.Pitch, c.MinPitch, c.MaxPitch)
	c.SetDistance(p.Distance)
}

// March walks a ray from (ox, oy, oz) along (dx, dy, dz) until it passes
// below the surface, then refines the crossing by bisection. It reports the
// ground point hit within maxDist.
func March(s terrain.Surface, ox, oy, oz, dx, dy, dz, maxDist, step float64) (x, z float64, ok bool) {
	if step <= 0 || maxDist <= 0 {
		return 0, 0, false
	}
	above := func(t float64) bool {
		return oy+dy*t > s.Height(ox+dx*t, oz+dz*t)
	}
	if !above(0) {
		return 0, 0, false
	}
	lo := 0.0
	for hi := step; lo < maxDist; hi += step {
		hi = min(hi, maxDist)
		if !above(hi) {
			for i := 0; i < 32; i++ {
				mid := (lo + hi) / 2
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return ox + dx*hi, oz + dz*hi, true
		}
		lo = hi
	}
	return 0, 0, false
}

// mod computes the positive modulo.
func mod(x, m float32) float32 {
	r := math32.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
