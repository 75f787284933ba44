package renderer

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/lifts"
	"github.com/pthm-cable/skiresort/runs"
	"github.com/pthm-cable/skiresort/sky"
)

var (
	trunkColor   = rl.Color{R: 92, G: 64, B: 44, A: 255}
	stationColor = rl.Color{R: 150, G: 70, B: 52, A: 255}
	towerColor   = rl.Color{R: 150, G: 154, B: 160, A: 255}
	cableColor   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	cabinColor   = rl.Color{R: 220, G: 60, B: 40, A: 255}
	selectColor  = rl.Color{R: 255, G: 220, B: 40, A: 255}
)

// ribbonLift raises ribbons off the terrain to avoid z-fighting.
const ribbonLift = 0.15

// ForestRenderer draws trees as a trunk and a foliage cone.
type ForestRenderer struct {
	typeCount int
}

// NewForestRenderer creates a forest renderer for typeCount tree types.
func NewForestRenderer(typeCount int) *ForestRenderer {
	return &ForestRenderer{typeCount: typeCount}
}

// Draw renders trees lit by st.
func (r *ForestRenderer) Draw(trees []forest.Tree, st sky.State) {
	up := r3.Vec{Y: 1}
	trunk := Light(trunkColor, up, st)
	for _, t := range trees {
		s := float32(t.Scale)
		base := rl.Vector3{X: float32(t.X), Y: float32(t.Y), Z: float32(t.Z)}
		rl.DrawCylinder(base, 0.25*s, 0.3*s, 1.2*s, 5, trunk)
		base.Y += 1.2 * s
		rl.DrawCylinder(base, 0, 1.6*s, 4.5*s, 7, Light(TreeColor(t.Type, r.typeCount), up, st))
	}
}

// RunRenderer draws run ribbons in their difficulty colour.
type RunRenderer struct{}

// NewRunRenderer creates a run renderer.
func NewRunRenderer() *RunRenderer { return &RunRenderer{} }

// Draw renders each ribbon's triangle list.
func (r *RunRenderer) Draw(ribbons []*runs.Ribbon, st sky.State) {
	for _, rb := range ribbons {
		col := Light(lerpColor(DifficultyColor(rb.Difficulty), snowColor, 0.35), r3.Vec{Y: 1}, st)
		for i := 0; i+2 < len(rb.Indices); i += 3 {
			a := rb.Vertices[rb.Indices[i]]
			b := rb.Vertices[rb.Indices[i+1]]
			c := rb.Vertices[rb.Indices[i+2]]
			rl.DrawTriangle3D(lifted(a), lifted(b), lifted(c), col)
		}
		// Edge markers along the centerline.
		edge := DifficultyColor(rb.Difficulty)
		for i := 1; i < len(rb.Centerline); i++ {
			rl.DrawLine3D(lifted(rb.Centerline[i-1]), lifted(rb.Centerline[i]), edge)
		}
	}
}

func lifted(v r3.Vec) rl.Vector3 {
	p := vec3(v)
	p.Y += ribbonLift
	return p
}

// LiftRenderer draws stations, towers, cables and cabins.
type LiftRenderer struct {
	stationSize float32
}

// NewLiftRenderer creates a lift renderer. stationHeight is the height of
// the cable above the station floor.
func NewLiftRenderer(stationHeight float64) *LiftRenderer {
	return &LiftRenderer{stationSize: float32(stationHeight)}
}

// Draw renders the lifts. simTime drives the cabin sway.
func (r *LiftRenderer) Draw(built []*lifts.Built, st sky.State, simTime float64) {
	up := r3.Vec{Y: 1}
	station := Light(stationColor, up, st)
	tower := Light(towerColor, up, st)
	cabin := Light(cabinColor, up, st)

	for _, b := range built {
		for _, s := range b.Stations {
			p := vec3(s)
			p.Y -= r.stationSize / 2
			rl.DrawCube(p, 8, r.stationSize, 8, station)
		}
		for _, tw := range b.Towers {
			rl.DrawCylinder(vec3(tw.Position), 0.35, 0.5, float32(tw.Height), 6, tower)
		}
		for i := 1; i < len(b.Cable); i++ {
			rl.DrawLine3D(vec3(b.Cable[i-1]), vec3(b.Cable[i]), cableColor)
		}
		for i, c := range b.Cabins {
			p := vec3(c.Position)
			sway := math32.Sin(float32(simTime)*1.7+float32(i)) * 0.15
			p.X += sway
			rl.DrawLine3D(p, rl.Vector3{X: p.X - sway, Y: p.Y + 1.5, Z: p.Z}, cableColor)
			rl.DrawCube(p, 1.2, 1.1, 1.2, cabin)
		}
	}
}

// DrawSelection outlines a picked position.
func DrawSelection(pos r3.Vec, size float32) {
	p := vec3(pos)
	p.Y += size / 2
	rl.DrawCubeWires(p, size, size, size, selectColor)
}
