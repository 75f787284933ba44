package renderer

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/runs"
	"github.com/pthm-cable/skiresort/sky"
)

// Ground colours by elevation band.
var (
	meadowColor = rl.Color{R: 118, G: 150, B: 84, A: 255}
	forestColor = rl.Color{R: 74, G: 112, B: 66, A: 255}
	rockColor   = rl.Color{R: 128, G: 120, B: 112, A: 255}
	snowColor   = rl.Color{R: 236, G: 240, B: 246, A: 255}
	villageTint = rl.Color{R: 170, G: 160, B: 128, A: 255}
)

// Foliage colours; valley types first, alpine types after.
var treePalette = []rl.Color{
	{R: 46, G: 96, B: 52, A: 255},
	{R: 62, G: 116, B: 58, A: 255},
	{R: 36, G: 74, B: 60, A: 255},
	{R: 52, G: 86, B: 78, A: 255},
}

// GroundColor picks the unlit colour of a terrain vertex at height h with
// surface normal n. Steep faces show rock and the upper part of the band
// above the tree line is snow-capped.
func GroundColor(h, treeLine, ceiling float64, n r3.Vec) rl.Color {
	if n.Y < 0.7 && h > treeLine*0.5 {
		return rockColor
	}
	switch {
	case h > treeLine+(ceiling-treeLine)*0.45:
		return snowColor
	case h > treeLine:
		t := float32((h - treeLine) / ((ceiling - treeLine) * 0.45))
		return lerpColor(rockColor, snowColor, t*t)
	case h < 3:
		return villageTint
	case h < treeLine*0.3:
		return lerpColor(meadowColor, forestColor, float32(h/(treeLine*0.3)))
	}
	return forestColor
}

// DifficultyColor is the trail-map colour of a run.
func DifficultyColor(d runs.Difficulty) rl.Color {
	switch d {
	case runs.Green:
		return rl.Color{R: 60, G: 170, B: 80, A: 255}
	case runs.Blue:
		return rl.Color{R: 50, G: 110, B: 210, A: 255}
	case runs.Black:
		return rl.Color{R: 30, G: 30, B: 34, A: 255}
	}
	return rl.Color{R: 200, G: 40, B: 40, A: 255}
}

// TreeColor returns the foliage colour of a tree type.
func TreeColor(typ, typeCount int) rl.Color {
	if typeCount <= 0 {
		return treePalette[0]
	}
	if forest.IsAlpine(typ, typeCount) {
		return treePalette[2+typ%2]
	}
	return treePalette[typ%2]
}

// SkyColor converts the cycle's sky colour.
func SkyColor(c sky.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

// Light scales c by ambient plus diffuse sun light on normal n.
func Light(c rl.Color, n r3.Vec, st sky.State) rl.Color {
	diffuse := math32.Max(0, float32(r3.Dot(n, st.SunDirection)))
	k := float32(st.AmbientIntensity) + float32(st.SunIntensity)*diffuse
	return shade(c, k)
}

func shade(c rl.Color, k float32) rl.Color {
	k = math32.Min(k, 1.2)
	ch := func(v uint8) uint8 {
		return uint8(math32.Min(255, float32(v)*k))
	}
	return rl.Color{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	t = math32.Max(0, math32.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
