package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/skiresort/sky"
)

// SunRenderer draws the sky background and the sun disc.
type SunRenderer struct {
	distance float32 // Distance of the disc from the eye
	radius   float32
}

// NewSunRenderer creates a sun renderer placing the disc distance units
// from the eye, inside the far clip plane.
func NewSunRenderer(distance float32) *SunRenderer {
	return &SunRenderer{distance: distance, radius: distance * 0.04}
}

// Clear fills the frame with the sky colour.
func (r *SunRenderer) Clear(st sky.State) {
	rl.ClearBackground(SkyColor(st.SkyColor))
}

// Draw renders the sun disc and its glow in the sun's direction from eye.
// Must be called inside BeginMode3D.
func (r *SunRenderer) Draw(st sky.State, eye rl.Vector3) {
	dir := vec3(st.SunDirection)
	if dir.Y < -0.05 {
		return
	}
	pos := rl.Vector3{
		X: eye.X + dir.X*r.distance,
		Y: eye.Y + dir.Y*r.distance,
		Z: eye.Z + dir.Z*r.distance,
	}
	// Low suns are redder.
	warm := lerpColor(rl.Color{R: 255, G: 140, B: 70, A: 255}, rl.Color{R: 255, G: 244, B: 214, A: 255}, dir.Y*3)
	glow := warm
	glow.A = uint8(60 * st.SunIntensity)
	rl.DrawSphere(pos, r.radius*1.8, glow)
	rl.DrawSphere(pos, r.radius, warm)
}
