package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/skiresort/renderer"
	"github.com/pthm-cable/skiresort/scene"
	"github.com/pthm-cable/skiresort/ui"
)

// Draw renders the scene and the UI.
func (g *Game) Draw() {
	st := g.scene.Sky().State()
	cam := g.camera3D()

	rl.BeginDrawing()
	g.sunRenderer.Clear(st)

	rl.BeginMode3D(cam)
	g.sunRenderer.Draw(st, cam.Position)
	if g.view.Visible(scene.KindTerrain) {
		g.terrainRenderer.Draw(st, g.view.ShowWireframe)
	}
	if g.view.Visible(scene.KindRun) {
		g.runRenderer.Draw(g.scene.Ribbons(), st)
	}
	if g.view.Visible(scene.KindDecoration) {
		g.forestRenderer.Draw(g.scene.Trees(), st)
	}
	if g.view.Visible(scene.KindLift) {
		g.liftRenderer.Draw(g.scene.Lifts(), st, g.scene.SimTime())
	}
	if sel := g.view.Selected; sel != nil && sel.Tag.Kind != scene.KindTerrain {
		renderer.DrawSelection(sel.Position, selectionSize(sel.Tag.Part))
	}
	rl.EndMode3D()

	g.drawUI()
	rl.EndDrawing()
}

func (g *Game) drawUI() {
	st := g.scene.Sky().State()
	g.hud.Draw(ui.HUDData{
		Title:     "Ski Resort",
		TimeOfDay: st.TimeOfDay,
		Phase:     string(st.Phase),
		Tick:      g.scene.TickCount(),
		TimeScale: g.view.TimeScale,
		FPS:       rl.GetFPS(),
		Paused:    g.view.Paused,
		Trees:     len(g.scene.Trees()),
		Runs:      len(g.scene.Ribbons()),
		Lifts:     len(g.scene.Lifts()),
	})

	if p, ok := g.controls.Draw(g.view, g.presets); ok {
		g.camera.Apply(p)
	}
	if sel := g.view.Selected; sel != nil {
		g.info.Draw(int32(g.screenWidth), g.scene.Describe(*sel))
	}
	if g.showPerf {
		g.perfPanel.Draw(g.scene.Perf().Stats())
	}
	g.hud.DrawControls(int32(g.screenHeight), controlsText)
}

func selectionSize(p scene.Part) float32 {
	switch p {
	case scene.PartCabin:
		return 2
	case scene.PartTree:
		return 4
	case scene.PartTower:
		return 3
	}
	return 10
}
