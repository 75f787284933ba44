package telemetry

import (
	"log/slog"
	"time"
)

// Phase names. The first four are timed once while a scene is built, the
// rest on every frame tick.
const (
	PhaseHeightfield = "heightfield"
	PhaseForest      = "forest"
	PhaseRuns        = "runs"
	PhaseLifts       = "lifts"
	PhaseCabins      = "cabins"
	PhaseSky         = "sky"
	PhaseSceneTick   = "scene_tick"
	PhaseTelemetry   = "telemetry"
)

// Phases lists every phase in reporting order.
var Phases = []string{
	PhaseHeightfield, PhaseForest, PhaseRuns, PhaseLifts,
	PhaseCabins, PhaseSky, PhaseSceneTick, PhaseTelemetry,
}

// PerfSample is the timing of one unit of work split into phases.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// phaseTimer splits one unit of work into consecutive phases. Starting a
// phase closes the previous one.
type phaseTimer struct {
	now     func() time.Time
	start   time.Time
	mark    time.Time
	current string
	phases  map[string]time.Duration
}

func (t *phaseTimer) begin() {
	t.start = t.now()
	t.mark = t.start
	t.current = ""
	t.phases = make(map[string]time.Duration)
}

func (t *phaseTimer) phase(name string) {
	now := t.now()
	if t.current != "" {
		t.phases[t.current] += now.Sub(t.mark)
	}
	t.mark, t.current = now, name
}

func (t *phaseTimer) end() PerfSample {
	t.phase("")
	return PerfSample{TickDuration: t.mark.Sub(t.start), Phases: t.phases}
}

// BuildTimer times the one-off build phases of a scene.
type BuildTimer struct {
	timer phaseTimer
}

// NewBuildTimer starts timing a build.
func NewBuildTimer() *BuildTimer {
	b := &BuildTimer{timer: phaseTimer{now: time.Now}}
	b.timer.begin()
	return b
}

// Phase closes the running phase and starts the named one.
func (b *BuildTimer) Phase(name string) { b.timer.phase(name) }

// Done stops the timer and returns the build as a single-sample summary.
func (b *BuildTimer) Done() PerfStats {
	return summarize([]PerfSample{b.timer.end()})
}

// PerfCollector keeps the last windowSize tick samples.
type PerfCollector struct {
	timer   phaseTimer
	ring    []PerfSample
	next    int
	filled  int
	inTick  bool
	lastFrm time.Time
	frame   time.Duration
}

// NewPerfCollector creates a collector averaging over the last windowSize
// ticks; 60 when windowSize is not positive.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		timer: phaseTimer{now: time.Now},
		ring:  make([]PerfSample, windowSize),
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.timer.begin()
	p.inTick = true
}

// StartPhase closes the running phase and starts the named one.
func (p *PerfCollector) StartPhase(phase string) {
	if p.inTick {
		p.timer.phase(phase)
	}
}

// EndTick finishes the tick and records it.
func (p *PerfCollector) EndTick() {
	if !p.inTick {
		return
	}
	p.inTick = false
	p.Record(p.timer.end())
}

// Record adds a finished sample, evicting the oldest once the window is full.
func (p *PerfCollector) Record(s PerfSample) {
	p.ring[p.next] = s
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

// RecordFrame marks a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := p.timer.now()
	if !p.lastFrm.IsZero() {
		p.frame = now.Sub(p.lastFrm)
	}
	p.lastFrm = now
}

// PerfStats aggregates tick samples.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of the average tick

	TicksPerSecond float64

	// Viewer only
	FrameDuration time.Duration
	FPS           float64
}

// Stats summarizes the samples in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := summarize(p.ring[:p.filled])
	if p.frame > 0 {
		s.FrameDuration = p.frame
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	return s
}

func summarize(samples []PerfSample) PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if len(samples) == 0 {
		return s
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i, smp := range samples {
		total += smp.TickDuration
		if i == 0 || smp.TickDuration < s.MinTickDuration {
			s.MinTickDuration = smp.TickDuration
		}
		s.MaxTickDuration = max(s.MaxTickDuration, smp.TickDuration)
		for phase, d := range smp.Phases {
			sums[phase] += d
		}
	}

	n := time.Duration(len(samples))
	s.AvgTickDuration = total / n
	for phase, sum := range sums {
		s.PhaseAvg[phase] = sum / n
		if total > 0 {
			s.PhasePct[phase] = float64(sum) / float64(total) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases below 0.1% are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	HeightfieldPct float64 `csv:"heightfield_pct"`
	ForestPct      float64 `csv:"forest_pct"`
	RunsPct        float64 `csv:"runs_pct"`
	LiftsPct       float64 `csv:"lifts_pct"`
	CabinsPct      float64 `csv:"cabins_pct"`
	SkyPct         float64 `csv:"sky_pct"`
	SceneTickPct   float64 `csv:"scene_tick_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row ending at tick windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		HeightfieldPct: pct[PhaseHeightfield],
		ForestPct:      pct[PhaseForest],
		RunsPct:        pct[PhaseRuns],
		LiftsPct:       pct[PhaseLifts],
		CabinsPct:      pct[PhaseCabins],
		SkyPct:         pct[PhaseSky],
		SceneTickPct:   pct[PhaseSceneTick],
		TelemetryPct:   pct[PhaseTelemetry],
	}
}
