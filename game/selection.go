package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/skiresort/camera"
)

// Ground ray marching step and range in world units.
const (
	marchStep  = 1.0
	marchRange = 3000.0
)

// camera3D converts the orbit into a raylib camera.
func (g *Game) camera3D() rl.Camera3D {
	x, y, z := g.camera.Position()
	return rl.Camera3D{
		Position:   rl.Vector3{X: x, Y: y, Z: z},
		Target:     rl.Vector3{X: g.camera.TargetX, Y: g.camera.TargetY, Z: g.camera.TargetZ},
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

// selectAt picks the entity under the screen point. The pick radius grows
// with the camera distance so small objects stay selectable from afar.
func (g *Game) selectAt(mouse rl.Vector2) {
	ray := rl.GetScreenToWorldRay(mouse, g.camera3D())
	x, z, ok := camera.March(g.scene.Field(),
		float64(ray.Position.X), float64(ray.Position.Y), float64(ray.Position.Z),
		float64(ray.Direction.X), float64(ray.Direction.Y), float64(ray.Direction.Z),
		marchRange, marchStep,
	)
	if !ok {
		g.view.Selected = nil
		return
	}
	radius := math.Max(2, float64(g.camera.Distance)*0.015)
	if hit, found := g.scene.Pick(x, z, radius); found {
		g.view.Selected = &hit
	} else {
		g.view.Selected = nil
	}
}
