package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/skiresort/ui"
)

// Controls legend shown at the bottom of the screen.
const controlsText = "RMB: rotate | MMB/arrows: pan | Wheel: zoom | LMB: select | T/F/R/L/G: layers | Space: pause | Tab: panel | P: perf | Home: reset"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.view.Paused = !g.view.Paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}

	// Layer toggles
	if rl.IsKeyPressed(rl.KeyT) {
		g.view.ShowTerrain = !g.view.ShowTerrain
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.view.ShowForest = !g.view.ShowForest
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.view.ShowRuns = !g.view.ShowRuns
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.view.ShowLifts = !g.view.ShowLifts
	}
	if rl.IsKeyPressed(rl.KeyG) {
		g.view.ShowWireframe = !g.view.ShowWireframe
	}

	g.handleCameraInput()

	mouse := rl.GetMousePosition()
	if ui.Contains(g.controls.Bounds(), mouse.X, mouse.Y) {
		return
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.selectAt(mouse)
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		g.view.Selected = nil
	}
}

// handleResize checks for window resize and repositions panels.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.perfPanel.SetPosition(int32(w)-300, int32(h)-160)
}

// handleCameraInput processes orbit, pan and zoom controls.
func (g *Game) handleCameraInput() {
	c := g.camera
	moved := false

	delta := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		c.Rotate(-delta.X*0.005, delta.Y*0.005)
		moved = true
	}

	// Pan speed scales with distance for natural feel
	panSpeed := c.Distance * 0.01
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		c.Pan(-delta.X*panSpeed*0.2, delta.Y*panSpeed*0.2)
		moved = true
	}
	if rl.IsKeyDown(rl.KeyRight) {
		c.Pan(panSpeed, 0)
		moved = true
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		c.Pan(-panSpeed, 0)
		moved = true
	}
	if rl.IsKeyDown(rl.KeyUp) {
		c.Pan(0, panSpeed)
		moved = true
	}
	if rl.IsKeyDown(rl.KeyDown) {
		c.Pan(0, -panSpeed)
		moved = true
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.ZoomBy(1 - wheel*0.1)
		moved = true
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		c.ZoomBy(0.8)
		moved = true
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		c.ZoomBy(1.25)
		moved = true
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		c.Reset()
		g.view.Preset = "overview"
		return
	}
	if moved {
		g.view.Preset = ""
	}
}
