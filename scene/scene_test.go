package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/skiresort/config"
	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/telemetry"
)

// smallResort has one straight run at x=-100 and one quad at x=100.
const smallResort = `
forest:
  spacing: 20
runs:
  table:
    - {id: solo, name: Solo, difficulty: blue, points: [[-100, -50], [-100, 50]]}
lifts:
  table:
    - {id: chair, name: Chair, type: quad, base: [100, 60], summit: [100, -60], towers: 5, cabins: 6}
telemetry:
  stats_window: 0.5
  cabin_sample: 10
viewer:
  grid_resolution: 40
`

func buildSmall(t *testing.T) *Scene {
	t.Helper()
	cfg, err := config.Parse([]byte(smallResort))
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	s, err := Build(cfg, 11)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestBuild_RegistersEntities(t *testing.T) {
	s := buildSmall(t)

	if got := s.Count(KindTerrain); got != 1 {
		t.Errorf("expected 1 terrain entity, got %d", got)
	}
	if got := s.Count(KindRun); got != 1 {
		t.Errorf("expected 1 run entity, got %d", got)
	}
	// Whole lift, two stations, three towers, six cabins.
	if got := s.Count(KindLift); got != 12 {
		t.Errorf("expected 12 lift entities, got %d", got)
	}
	if len(s.Trees()) == 0 {
		t.Fatal("expected some trees")
	}
	if got := s.Count(KindDecoration); got != len(s.Trees()) {
		t.Errorf("expected %d decoration entities, got %d", len(s.Trees()), got)
	}
	if s.Entities() != 1+1+12+len(s.Trees()) {
		t.Errorf("unexpected entity total %d", s.Entities())
	}
	if s.ForestSummary().Count != len(s.Trees()) {
		t.Errorf("expected summary over all trees, got %d", s.ForestSummary().Count)
	}
	if s.Grid().Resolution != 40 {
		t.Errorf("expected grid resolution 40, got %d", s.Grid().Resolution)
	}
	for _, phase := range []string{telemetry.PhaseHeightfield, telemetry.PhaseForest, telemetry.PhaseRuns, telemetry.PhaseLifts} {
		if _, ok := s.BuildStats().PhaseAvg[phase]; !ok {
			t.Errorf("expected build phase %s to be timed", phase)
		}
	}
}

func TestBuild_DeterministicPerSeed(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	a, err := Build(cfg, 7)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(cfg, 7)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(a.Trees(), b.Trees()) {
		t.Error("expected identical forests for equal seeds")
	}
	for i := range a.Lifts() {
		for j, c := range a.Lifts()[i].Cabins {
			if c.Speed != b.Lifts()[i].Cabins[j].Speed {
				t.Fatalf("lift %d cabin %d: speeds differ for equal seeds", i, j)
			}
		}
	}

	c, err := Build(cfg, 8)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if reflect.DeepEqual(a.Trees(), c.Trees()) {
		t.Error("expected different forests for different seeds")
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, err := Build(nil, 1); !errors.Is(err, ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}

	cfg, err := config.Parse([]byte("forest:\n  tree_line: 5000\n"))
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	if _, err := Build(cfg, 1); !errors.Is(err, forest.ErrInvalidOptions) {
		t.Errorf("expected tree line above the terrain to fail, got %v", err)
	}
}

func TestScene_TickSyncsCabins(t *testing.T) {
	s := buildSmall(t)

	s.Tick(0)
	s.Tick(-1)
	if s.TickCount() != 0 || s.SimTime() != 0 {
		t.Errorf("expected non-positive ticks to be ignored, got %d ticks", s.TickCount())
	}

	hour := s.Sky().State().TimeOfDay
	for i := 0; i < 30; i++ {
		s.Tick(1.0 / 60)
	}
	if s.TickCount() != 30 || math.Abs(s.SimTime()-0.5) > 1e-9 {
		t.Errorf("expected 30 ticks over 0.5s, got %d over %f", s.TickCount(), s.SimTime())
	}
	if s.Sky().State().TimeOfDay <= hour {
		t.Error("expected the sky to advance")
	}

	cab := s.Lifts()[0].Cabins[0]
	hit, ok := s.Pick(cab.Position.X, cab.Position.Z, 0.01)
	if !ok || hit.Tag.Part != PartCabin || hit.Tag.Index != 0 {
		t.Fatalf("expected to pick cabin 0, got %+v", hit)
	}
	if hit.Position.X != cab.Position.X || hit.Position.Y != cab.Position.Y || hit.Position.Z != cab.Position.Z {
		t.Errorf("expected entity position %+v to follow cabin %+v", hit.Position, cab.Position)
	}

	for i := 0; i < 30; i++ {
		s.Tick(1.0 / 60)
	}
	moved := s.Refresh(hit)
	if moved == nil || moved.Position.X != cab.Position.X || moved.Position.Z != cab.Position.Z {
		t.Errorf("expected refreshed hit to follow cabin to %+v, got %+v", cab.Position, moved)
	}
	if s.Perf().Stats().AvgTickDuration <= 0 {
		t.Error("expected tick timings")
	}
}

func TestScene_Pick(t *testing.T) {
	s := buildSmall(t)

	tests := []struct {
		name string
		x, z float64
		kind Kind
		part Part
		line string
	}{
		{"run ribbon", -100, 0, KindRun, PartWhole, "Difficulty blue"},
		{"lift line", 100, 10, KindLift, PartWhole, "Type quad"},
		{"tower on the line", 100, 30, KindLift, PartTower, "Tower 1"},
		{"village terrain", 0, 195, KindTerrain, PartWhole, "Terrain"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hit, ok := s.Pick(tc.x, tc.z, 0.5)
			if !ok {
				t.Fatal("expected a hit")
			}
			if hit.Tag.Kind != tc.kind || hit.Tag.Part != tc.part {
				t.Fatalf("expected %s/%s, got %s/%s", tc.kind, tc.part, hit.Tag.Kind, hit.Tag.Part)
			}
			lines := s.Describe(hit)
			if !strings.Contains(strings.Join(lines, "\n"), tc.line) {
				t.Errorf("expected description to contain %q, got %q", tc.line, lines)
			}
		})
	}

	tr := s.Trees()[0]
	hit, ok := s.Pick(tr.X, tr.Z, 0.01)
	if !ok || hit.Tag.Kind != KindDecoration || hit.Tag.Index != 0 {
		t.Errorf("expected to pick tree 0, got %+v", hit)
	}

	if _, ok := s.Pick(500, 500, 1); ok {
		t.Error("expected no hit outside the terrain")
	}
}

func TestScene_TelemetryAndOutputs(t *testing.T) {
	s := buildSmall(t)
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	s.EnableTelemetry(om, 1.0/60, false)
	for i := 0; i < 60; i++ {
		s.Tick(1.0 / 60)
	}
	if err := s.WriteOutputs(om, true); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lineCount := func(name string) int {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return len(strings.Split(strings.TrimSpace(string(data)), "\n"))
	}
	if n := lineCount("telemetry.csv"); n != 3 {
		t.Errorf("expected header plus 2 windows in telemetry.csv, got %d lines", n)
	}
	if n := lineCount("perf.csv"); n != 3 {
		t.Errorf("expected header plus 2 windows in perf.csv, got %d lines", n)
	}
	if n := lineCount("cabins.csv"); n != 1+6*6 {
		t.Errorf("expected header plus 36 cabin samples, got %d lines", n)
	}
	if n := lineCount("trees.csv"); n != 1+len(s.Trees()) {
		t.Errorf("expected one row per tree, got %d lines", n)
	}

	snap, err := telemetry.LoadSnapshot(filepath.Join(dir, "scene_60.json"))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.Seed != 11 || len(snap.Trees) != len(s.Trees()) || len(snap.Lifts) != 1 {
		t.Errorf("unexpected snapshot contents: seed %d, %d trees, %d lifts", snap.Seed, len(snap.Trees), len(snap.Lifts))
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config snapshot to reload, got %v", err)
	}
}

func TestViewState(t *testing.T) {
	cfg, err := config.Parse([]byte("viewer:\n  time_scale: 2\n"))
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	v := NewViewState(cfg)

	if got := v.Step(0.5); got != 1 {
		t.Errorf("expected scaled step 1, got %f", got)
	}
	v.Paused = true
	if got := v.Step(0.5); got != 0 {
		t.Errorf("expected paused step 0, got %f", got)
	}

	for _, k := range Kinds {
		if !v.Visible(k) {
			t.Errorf("expected %s visible by default", k)
		}
	}
	v.ShowForest = false
	if v.Visible(KindDecoration) {
		t.Error("expected hidden forest")
	}
}
