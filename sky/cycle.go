// Package sky drives the resort's day/night cycle: time of day, sun
// position, light intensities and sky colour.
package sky

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Phase names a part of the day.
type Phase string

const (
	Dawn  Phase = "dawn"
	Day   Phase = "day"
	Dusk  Phase = "dusk"
	Night Phase = "night"
)

// Color is an 8-bit RGB colour.
type Color struct {
	R, G, B uint8
}

var (
	nightSky    = Color{12, 16, 38}
	twilightSky = Color{232, 146, 96}
	daySky      = Color{138, 192, 236}
)

// State is a snapshot of the cycle.
type State struct {
	TimeOfDay        float64 // Hours in [0, 24)
	Progress         float64 // Fraction of the day in [0, 1)
	Phase            Phase
	SunPosition      r3.Vec
	SunDirection     r3.Vec // Unit vector toward the sun
	SunIntensity     float64
	AmbientIntensity float64
	SkyColor         Color
}

// Cycle advances a simulated day. The zero value is not usable; use New.
type Cycle struct {
	dayLength       float64 // Seconds per full day
	initialFraction float64
	orbitRadius     float64
	elapsed         float64
}

// New creates a cycle starting at initialHour. Non-positive day lengths
// fall back to twenty minutes and non-positive radii to 2000.
func New(dayLengthSec, initialHour, orbitRadius float64) *Cycle {
	if dayLengthSec <= 0 {
		dayLengthSec = 20 * 60
	}
	if orbitRadius <= 0 {
		orbitRadius = 2000
	}
	f := math.Mod(initialHour/24, 1)
	if f < 0 {
		f += 1
	}
	return &Cycle{dayLength: dayLengthSec, initialFraction: f, orbitRadius: orbitRadius}
}

// Advance moves the clock forward by dt seconds. Negative dt is ignored.
func (c *Cycle) Advance(dt float64) {
	if dt > 0 {
		c.elapsed += dt
	}
}

// SetHour jumps the clock to the given hour without changing the day length.
func (c *Cycle) SetHour(hour float64) {
	*c = *New(c.dayLength, hour, c.orbitRadius)
}

// State returns the current snapshot.
func (c *Cycle) State() State {
	progress := math.Mod(c.initialFraction+c.elapsed/c.dayLength, 1)
	timeOfDay := progress * 24

	// The sun rises at 06:00 and peaks at noon.
	orbital := math.Mod(progress+0.75, 1) * 2 * math.Pi
	pos := r3.Vec{
		X: math.Cos(orbital) * c.orbitRadius,
		Y: math.Sin(orbital) * c.orbitRadius,
		Z: -0.25 * c.orbitRadius,
	}
	elevation := math.Sin(orbital)
	e := math.Max(0, elevation)

	return State{
		TimeOfDay:        timeOfDay,
		Progress:         progress,
		Phase:            PhaseForHour(timeOfDay),
		SunPosition:      pos,
		SunDirection:     r3.Unit(pos),
		SunIntensity:     0.15 + 0.85*e,
		AmbientIntensity: 0.2 + 0.6*e,
		SkyColor:         skyColor(elevation),
	}
}

// PhaseForHour maps an hour of the day to its phase.
func PhaseForHour(hour float64) Phase {
	switch {
	case hour >= 5 && hour < 7:
		return Dawn
	case hour >= 7 && hour < 18:
		return Day
	case hour >= 18 && hour < 21:
		return Dusk
	default:
		return Night
	}
}

// skyColor blends night to twilight as the sun nears the horizon and
// twilight to day as it climbs.
func skyColor(elevation float64) Color {
	switch {
	case elevation <= -0.2:
		return nightSky
	case elevation < 0:
		return blend(nightSky, twilightSky, (elevation+0.2)/0.2)
	case elevation < 0.3:
		return blend(twilightSky, daySky, elevation/0.3)
	default:
		return daySky
	}
}

func blend(a, b Color, t float64) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Color{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B)}
}
