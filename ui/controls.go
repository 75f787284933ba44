package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/skiresort/camera"
	"github.com/pthm-cable/skiresort/scene"
)

// Time scale slider range.
const (
	MinTimeScale = 0.1
	MaxTimeScale = 60
)

// ControlsPanel renders the left-side panel with layer toggles, camera
// presets and time controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Bounds returns the screen area covered by the panel.
func (c *ControlsPanel) Bounds() rl.Rectangle {
	if !c.visible {
		return rl.Rectangle{}
	}
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(c.height)}
}

// Draw renders the panel and applies the user's changes to view. It returns
// the preset the user picked, if any.
func (c *ControlsPanel) Draw(view *scene.ViewState, presets []camera.Preset) (camera.Preset, bool) {
	if !c.visible {
		return camera.Preset{}, false
	}
	r := c.renderer
	pad := r.Theme.Padding
	line := r.Theme.LineHeight
	inner := float32(c.width - pad*2)

	c.height = line*18 + pad*2
	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := float32(c.x + pad)
	y := c.y + pad

	y = r.DrawSectionHeader(int32(x), y, "Layers")
	toggle := func(label string, v *bool) {
		*v = gui.CheckBox(rl.Rectangle{X: x, Y: float32(y), Width: 12, Height: 12}, label, *v)
		y += line
	}
	toggle("Terrain", &view.ShowTerrain)
	toggle("Forest", &view.ShowForest)
	toggle("Runs", &view.ShowRuns)
	toggle("Lifts", &view.ShowLifts)
	toggle("Wireframe", &view.ShowWireframe)
	y += 4

	y = r.DrawSectionHeader(int32(x), y, "Camera")
	var picked camera.Preset
	clicked := false
	for _, p := range presets {
		label := p.Name
		if p.Name == view.Preset {
			label = "> " + label
		}
		if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: float32(line - 2)}, label) {
			picked, clicked = p, true
			view.Preset = p.Name
		}
		y += line
	}
	y += 4

	y = r.DrawSectionHeader(int32(x), y, "Time")
	scale := gui.SliderBar(
		rl.Rectangle{X: x + 30, Y: float32(y), Width: inner - 60, Height: float32(line - 4)},
		"0.1", "60",
		float32(view.TimeScale), MinTimeScale, MaxTimeScale,
	)
	view.TimeScale = float64(scale)
	y += line
	rl.DrawText(fmt.Sprintf("%.1fx", view.TimeScale), int32(x), y, r.Theme.FontSize, r.Theme.ValueColor)
	y += line
	pauseLabel := "Pause"
	if view.Paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: float32(line - 2)}, pauseLabel) {
		view.Paused = !view.Paused
	}

	return picked, clicked
}
