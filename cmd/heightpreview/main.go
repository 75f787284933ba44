// Height field preview tool - interactive top-down view of the terrain with
// sliders for the damping, noise and edge parameters.
//
// Usage: go run ./cmd/heightpreview [-config resort.yaml]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/skiresort/config"
	"github.com/pthm-cable/skiresort/renderer"
	"github.com/pthm-cable/skiresort/sky"
	"github.com/pthm-cable/skiresort/terrain"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

// previewLight is a fixed low afternoon sun from the south-west.
var previewLight = sky.State{
	SunDirection:     r3.Unit(r3.Vec{X: -0.6, Y: 0.7, Z: 0.4}),
	SunIntensity:     0.9,
	AmbientIntensity: 0.35,
}

// slider is one adjustable parameter.
type slider struct {
	label    string
	min, max float32
	format   string
	value    func(*config.Config) *float64
}

func main() {
	configPath := flag.String("config", "", "Path to resort YAML overlay (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := clone(base)
	noise := simplexLayer(cfg)

	sliders := []slider{
		{"Ridge damping", 0, 1, "%.2f", func(c *config.Config) *float64 { return &c.Terrain.RidgeDamping }},
		{"Bowl damping", 0, 1, "%.2f", func(c *config.Config) *float64 { return &c.Terrain.BowlDamping }},
		{"Simplex amplitude", 0, 8, "%.2f", func(c *config.Config) *float64 { return &c.Terrain.Noise[noise].Amplitude }},
		{"Simplex frequency", 0.005, 0.1, "%.3f", func(c *config.Config) *float64 { return &c.Terrain.Noise[noise].Frequency }},
		{"Simplex persistence", 0.1, 0.9, "%.2f", func(c *config.Config) *float64 { return &c.Terrain.Noise[noise].Persistence }},
		{"Edge margin", 0, 80, "%.0f", func(c *config.Config) *float64 { return &c.Terrain.Edge.Margin }},
		{"Edge floor", 0, 1, "%.2f", func(c *config.Config) *float64 { return &c.Terrain.Edge.Floor }},
	}

	rl.InitWindow(windowWidth, windowHeight, "Height Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var grid *terrain.Grid
	var ceiling float64
	var buildErr error
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			grid, ceiling, buildErr = sample(cfg)
			if buildErr == nil {
				updateTexture(texture, grid, cfg.Forest.TreeLine, ceiling)
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		if buildErr != nil {
			rl.DrawText(buildErr.Error(), 15, statsY, 16, rl.Red)
		} else {
			rl.DrawText(fmt.Sprintf("Min: %.1f  Max: %.1f  Ceiling: %.1f  Tree line: %.0f", grid.Min, grid.Max, ceiling, cfg.Forest.TreeLine), 15, statsY, 16, rl.DarkGray)
		}

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Terrain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		for _, s := range sliders {
			v := s.value(cfg)
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			nv := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				float32(*v), s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, *v), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if nv != float32(*v) {
				*v = float64(nv)
				needsRegen = true
			}
			panelY += 35
		}

		octaves := &cfg.Terrain.Noise[noise].Octaves
		rl.DrawText("Simplex octaves", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		no := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "8",
			float32(*octaves), 1, 8,
		)
		rl.DrawText(fmt.Sprintf("%d", *octaves), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(no) != *octaves {
			*octaves = int(no)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			cfg.Terrain.Noise[noise].Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			cfg = clone(base)
			noise = simplexLayer(cfg)
			needsRegen = true
		}

		rl.DrawText("Press C to copy the terrain YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			if out, err := yaml.Marshal(map[string]any{"terrain": cfg.Terrain}); err == nil {
				rl.SetClipboardText(string(out))
			}
		}

		rl.EndDrawing()
	}
}

// clone deep-copies a configuration through YAML.
func clone(c *config.Config) *config.Config {
	data, err := yaml.Marshal(c)
	if err != nil {
		panic(err)
	}
	out, err := config.Parse(data)
	if err != nil {
		panic(err)
	}
	return out
}

// simplexLayer returns the index of the first simplex noise layer, adding
// a silent one when the configuration has none.
func simplexLayer(c *config.Config) int {
	for i, n := range c.Terrain.Noise {
		if n.Kind == "simplex" {
			return i
		}
	}
	c.Terrain.Noise = append(c.Terrain.Noise, config.NoiseConfig{Kind: "simplex", Frequency: 0.03, Octaves: 3, Persistence: 0.5})
	return len(c.Terrain.Noise) - 1
}

// sample builds the height field and samples it at preview resolution.
func sample(c *config.Config) (*terrain.Grid, float64, error) {
	spec, err := c.TerrainSpec()
	if err != nil {
		return nil, 0, err
	}
	f, err := terrain.New(spec)
	if err != nil {
		return nil, 0, err
	}
	return f.Sample(gridSize - 1), f.Ceiling(), nil
}

// updateTexture shades the grid with the viewer's ground palette.
func updateTexture(texture rl.Texture2D, g *terrain.Grid, treeLine, ceiling float64) {
	pixels := make([]color.RGBA, gridSize*gridSize)
	n := g.Resolution
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			i0, i1 := max(i-1, 0), min(i+1, n)
			j0, j1 := max(j-1, 0), min(j+1, n)
			dx := (g.At(i1, j) - g.At(i0, j)) / (float64(i1-i0) * g.StepX)
			dz := (g.At(i, j1) - g.At(i, j0)) / (float64(j1-j0) * g.StepZ)
			normal := r3.Unit(r3.Vec{X: -dx, Y: 1, Z: -dz})

			h := g.At(i, j)
			c := renderer.Light(renderer.GroundColor(h, treeLine, ceiling, normal), normal, previewLight)
			pixels[j*gridSize+i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
	}
	rl.UpdateTexture(texture, pixels)
}
