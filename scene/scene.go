// Package scene composes the resort: it builds the height field, forest,
// runs and lifts from configuration, registers every placed object as a
// tagged ECS entity and advances the animated parts each frame.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/skiresort/config"
	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/lifts"
	"github.com/pthm-cable/skiresort/runs"
	"github.com/pthm-cable/skiresort/sky"
	"github.com/pthm-cable/skiresort/telemetry"
	"github.com/pthm-cable/skiresort/terrain"
)

// ErrNoConfig is returned by Build when no configuration is given.
var ErrNoConfig = errors.New("scene: nil config")

// cabinRef links a cabin entity to the cabin it mirrors.
type cabinRef struct {
	entity ecs.Entity
	cabin  *lifts.Cabin
}

// Scene holds the complete resort state.
type Scene struct {
	cfg  *config.Config
	seed int64

	field   *terrain.Field
	grid    *terrain.Grid
	trees   []forest.Tree
	summary forest.Summary
	ribbons []*runs.Ribbon
	planner *lifts.Planner
	cycle   *sky.Cycle

	world    *ecs.World
	mapper   *ecs.Map2[Position, Tag]
	filter   *ecs.Filter2[Position, Tag]
	posMap   *ecs.Map1[Position]
	cabins   []cabinRef
	entities int

	buildStats telemetry.PerfStats
	perf       *telemetry.PerfCollector

	tick    int32
	simTime float64

	// Telemetry, enabled by EnableTelemetry
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool
}

// Build generates the scene. The forest and the cabin speeds draw from
// independent random streams derived from seed, so the same seed and
// configuration always produce the same scene.
func Build(cfg *config.Config, seed int64) (*Scene, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	master := rand.New(rand.NewSource(seed))
	forestSeed, liftSeed := master.Int63(), master.Int63()

	s := &Scene{
		cfg:   cfg,
		seed:  seed,
		cycle: cfg.SkyCycle(),
		perf:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
	}

	build := telemetry.NewBuildTimer()

	build.Phase(telemetry.PhaseHeightfield)
	spec, err := cfg.TerrainSpec()
	if err != nil {
		return nil, fmt.Errorf("terrain spec: %w", err)
	}
	if s.field, err = terrain.New(spec); err != nil {
		return nil, fmt.Errorf("building terrain: %w", err)
	}
	s.grid = s.field.Sample(cfg.Viewer.GridResolution)

	build.Phase(telemetry.PhaseForest)
	sampler, err := forest.NewSampler(s.field, s.field.Bounds(), cfg.ForestOptions(), rand.New(rand.NewSource(forestSeed)))
	if err != nil {
		return nil, fmt.Errorf("building forest: %w", err)
	}
	s.trees = sampler.Generate()
	s.summary = forest.Summarize(s.trees)

	build.Phase(telemetry.PhaseRuns)
	fitter, err := runs.NewFitter(s.field, cfg.RunOptions())
	if err != nil {
		return nil, fmt.Errorf("building runs: %w", err)
	}
	for _, r := range cfg.Derived.Runs {
		rb, err := fitter.BuildRibbon(r)
		if err != nil {
			return nil, fmt.Errorf("building runs: %w", err)
		}
		s.ribbons = append(s.ribbons, rb)
	}

	build.Phase(telemetry.PhaseLifts)
	s.planner = lifts.NewPlanner(s.field, cfg.LiftOptions(), rand.New(rand.NewSource(liftSeed)))
	for _, l := range cfg.Derived.Lifts {
		if _, err := s.planner.BuildLift(l); err != nil {
			return nil, fmt.Errorf("building lifts: %w", err)
		}
	}
	s.buildStats = build.Done()

	s.register()

	slog.Info("scene built",
		"seed", seed,
		"ceiling", s.field.Ceiling(),
		"trees", len(s.trees),
		"runs", len(s.ribbons),
		"lifts", len(s.planner.Lifts()),
		"entities", s.entities,
		"build_ms", s.buildStats.AvgTickDuration.Milliseconds(),
	)
	return s, nil
}

// register creates one tagged entity per placed object.
func (s *Scene) register() {
	s.world = ecs.NewWorld()
	s.mapper = ecs.NewMap2[Position, Tag](s.world)
	s.filter = ecs.NewFilter2[Position, Tag](s.world)
	s.posMap = ecs.NewMap1[Position](s.world)

	add := func(p Position, t Tag) ecs.Entity {
		s.entities++
		return s.mapper.NewEntity(&p, &t)
	}

	add(Position{Y: s.field.Height(0, 0)}, Tag{Kind: KindTerrain})

	for i, t := range s.trees {
		add(Position{X: t.X, Y: t.Y, Z: t.Z}, Tag{Kind: KindDecoration, Part: PartTree, Index: i})
	}

	for i, rb := range s.ribbons {
		top := rb.Centerline[0]
		add(Position{X: top.X, Y: top.Y, Z: top.Z}, Tag{Kind: KindRun, ID: rb.RunID, Index: i})
	}

	for i, b := range s.planner.Lifts() {
		id := b.Lift.ID
		base := b.Stations[0]
		add(Position{X: base.X, Y: base.Y, Z: base.Z}, Tag{Kind: KindLift, ID: id, Index: i})
		for j, st := range b.Stations {
			add(Position{X: st.X, Y: st.Y, Z: st.Z}, Tag{Kind: KindLift, Part: PartStation, ID: id, Index: j})
		}
		for j, tw := range b.Towers {
			p := tw.Position
			add(Position{X: p.X, Y: p.Y, Z: p.Z}, Tag{Kind: KindLift, Part: PartTower, ID: id, Index: j})
		}
		for j, c := range b.Cabins {
			p := c.Position
			e := add(Position{X: p.X, Y: p.Y, Z: p.Z}, Tag{Kind: KindLift, Part: PartCabin, ID: id, Index: j})
			s.cabins = append(s.cabins, cabinRef{entity: e, cabin: c})
		}
	}
}

// Tick advances lifts and sky by dt simulated seconds. Non-positive dt is a
// no-op.
func (s *Scene) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseCabins)
	s.planner.Tick(dt)

	s.perf.StartPhase(telemetry.PhaseSky)
	s.cycle.Advance(dt)

	s.perf.StartPhase(telemetry.PhaseSceneTick)
	s.syncCabins()

	s.tick++
	s.simTime += dt

	if s.collector != nil {
		s.perf.StartPhase(telemetry.PhaseTelemetry)
		s.flushTelemetry()
	}
	s.perf.EndTick()
}

// syncCabins copies cabin positions into their entities.
func (s *Scene) syncCabins() {
	for _, ref := range s.cabins {
		p := s.posMap.Get(ref.entity)
		p.X, p.Y, p.Z = ref.cabin.Position.X, ref.cabin.Position.Y, ref.cabin.Position.Z
	}
}

// Count returns the number of entities of kind k.
func (s *Scene) Count(k Kind) int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		_, tag := query.Get()
		if tag.Kind == k {
			n++
		}
	}
	return n
}

// Config returns the configuration the scene was built from.
func (s *Scene) Config() *config.Config { return s.cfg }

// Seed returns the build seed.
func (s *Scene) Seed() int64 { return s.seed }

// Field returns the height field.
func (s *Scene) Field() *terrain.Field { return s.field }

// Grid returns the sampled terrain grid.
func (s *Scene) Grid() *terrain.Grid { return s.grid }

// Trees returns the placed trees.
func (s *Scene) Trees() []forest.Tree { return s.trees }

// ForestSummary returns statistics over the placed trees.
func (s *Scene) ForestSummary() forest.Summary { return s.summary }

// Ribbons returns one ribbon per run, in configuration order.
func (s *Scene) Ribbons() []*runs.Ribbon { return s.ribbons }

// Lifts returns the built lifts, in configuration order.
func (s *Scene) Lifts() []*lifts.Built { return s.planner.Lifts() }

// Sky returns the day/night cycle.
func (s *Scene) Sky() *sky.Cycle { return s.cycle }

// Entities returns the number of registered entities.
func (s *Scene) Entities() int { return s.entities }

// TickCount returns the number of non-empty ticks so far.
func (s *Scene) TickCount() int32 { return s.tick }

// SimTime returns the simulated seconds so far.
func (s *Scene) SimTime() float64 { return s.simTime }

// BuildStats returns the phase timings of Build.
func (s *Scene) BuildStats() telemetry.PerfStats { return s.buildStats }

// Perf returns the per-tick performance collector.
func (s *Scene) Perf() *telemetry.PerfCollector { return s.perf }
