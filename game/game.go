// Package game runs the resort viewer: it owns the scene, advances it each
// frame and draws it with the renderer and UI packages. A headless game
// advances the scene at a fixed step without touching raylib.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/skiresort/camera"
	"github.com/pthm-cable/skiresort/config"
	"github.com/pthm-cable/skiresort/renderer"
	"github.com/pthm-cable/skiresort/scene"
	"github.com/pthm-cable/skiresort/telemetry"
	"github.com/pthm-cable/skiresort/ui"
)

// DT is the fixed headless step in seconds.
const DT = 1.0 / 60.0

// Options configures a game.
type Options struct {
	Seed           int64
	LogStats       bool   // Log window stats via slog
	OutputDir      string // CSV, YAML and JSON output; empty disables
	ExportJSON     bool   // Write a JSON scene snapshot at start and exit
	Headless       bool
	StepsPerUpdate int // Headless ticks per UpdateHeadless call
}

// Game holds the scene and, in graphics mode, everything needed to draw it.
type Game struct {
	opts   Options
	scene  *scene.Scene
	view   *scene.ViewState
	output *telemetry.OutputManager

	// Graphics mode only
	camera          *camera.Orbit
	presets         []camera.Preset
	terrainRenderer *renderer.TerrainRenderer
	sunRenderer     *renderer.SunRenderer
	forestRenderer  *renderer.ForestRenderer
	runRenderer     *renderer.RunRenderer
	liftRenderer    *renderer.LiftRenderer
	hud             *ui.HUD
	perfPanel       *ui.PerfPanel
	controls        *ui.ControlsPanel
	info            *ui.InfoPanel
	showPerf        bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions builds the scene from cfg and prepares outputs. In
// graphics mode the raylib window must already be open.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	sc, err := scene.Build(cfg, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}
	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:   opts,
		scene:  sc,
		view:   scene.NewViewState(cfg),
		output: om,
	}
	if om != nil || opts.LogStats {
		sc.EnableTelemetry(om, DT, opts.LogStats)
	}
	if err := sc.WriteOutputs(om, opts.ExportJSON); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing outputs: %w", err)
	}

	if !opts.Headless {
		g.initGraphics()
	}
	return g, nil
}

func (g *Game) initGraphics() {
	cfg := g.scene.Config()
	field := g.scene.Field()

	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())

	g.camera = camera.New(field.Bounds())
	village := cfg.Derived.Bounds
	vz := village.MaxZ - village.Depth()*0.1
	g.presets = camera.Presets(field, 0, vz)

	g.terrainRenderer = renderer.NewTerrainRenderer(g.scene.Grid(), cfg.Forest.TreeLine, field.Ceiling())
	g.sunRenderer = renderer.NewSunRenderer(800)
	g.forestRenderer = renderer.NewForestRenderer(cfg.Forest.TypeCount)
	g.runRenderer = renderer.NewRunRenderer()
	g.liftRenderer = renderer.NewLiftRenderer(cfg.Lifts.StationHeight)

	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-300, int32(g.screenHeight)-160)
	g.controls = ui.NewControlsPanel(10, 100, 180)
	g.info = ui.NewInfoPanel(240)

	slog.Info("viewer ready",
		"terrain_triangles", g.terrainRenderer.Triangles(),
		"presets", len(g.presets),
	)
}

// Update handles input and advances the scene by one frame.
func (g *Game) Update() {
	g.handleInput()
	g.scene.Perf().RecordFrame()
	g.scene.Tick(g.view.Step(float64(rl.GetFrameTime())))
	if g.view.Selected != nil {
		g.view.Selected = g.scene.Refresh(*g.view.Selected)
	}
}

// UpdateHeadless advances the scene by StepsPerUpdate fixed ticks.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.opts.StepsPerUpdate; i++ {
		g.scene.Tick(DT)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.scene.TickCount()
}

// Unload writes the final snapshot, closes outputs and frees renderers.
func (g *Game) Unload() {
	if g.opts.ExportJSON && g.output != nil {
		if path, err := g.output.WriteSnapshot(g.scene.Snapshot()); err != nil {
			slog.Error("failed to write final snapshot", "error", err)
		} else {
			slog.Info("final snapshot written", "path", path)
		}
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close outputs", "error", err)
	}
	if g.terrainRenderer != nil {
		g.terrainRenderer.Unload()
	}

	slog.Info("forest", "summary", g.scene.ForestSummary())
	g.scene.BuildStats().LogStats()
}
