package scene

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/skiresort/telemetry"
)

// EnableTelemetry starts collecting window stats for fixed ticks of dt
// seconds. Stats are logged when logStats is set and written to om when it
// is non-nil.
func (s *Scene) EnableTelemetry(om *telemetry.OutputManager, dt float64, logStats bool) {
	s.output = om
	s.logStats = logStats
	s.collector = telemetry.NewCollector(s.cfg.Telemetry.StatsWindow, dt)
	s.collector.ObserveCabins(s.Lifts())
}

// flushTelemetry samples cabins and closes the stats window when due.
func (s *Scene) flushTelemetry() {
	built := s.Lifts()
	s.collector.ObserveCabins(built)

	if every := s.cfg.Telemetry.CabinSample; every > 0 && s.tick%int32(every) == 0 {
		if err := s.output.WriteCabins(telemetry.CabinRecords(s.tick, built)); err != nil {
			slog.Error("failed to write cabins", "error", err)
		}
	}

	if !s.collector.ShouldFlush(s.tick) {
		return
	}
	stats := s.collector.Flush(s.tick, s.cycle.State(), built)
	perfStats := s.perf.Stats()

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// Snapshot captures the scene at the current tick.
func (s *Scene) Snapshot() *telemetry.Snapshot {
	return telemetry.NewSnapshot(telemetry.SceneParts{
		Seed:    s.seed,
		Tick:    s.tick,
		Bounds:  s.field.Bounds(),
		Ceiling: s.field.Ceiling(),
		Grid:    s.grid,
		Sky:     s.cycle.State(),
		Trees:   s.trees,
		Ribbons: s.ribbons,
		Lifts:   s.Lifts(),
	})
}

// WriteOutputs writes the configuration snapshot and the generated
// placements to om, plus the JSON scene when exportJSON is set.
func (s *Scene) WriteOutputs(om *telemetry.OutputManager, exportJSON bool) error {
	if om == nil {
		return nil
	}
	if err := om.WriteConfig(s.cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := om.WriteTrees(telemetry.TreeRecords(s.trees)); err != nil {
		return err
	}
	if err := om.WriteRuns(telemetry.RunRecords(s.ribbons)); err != nil {
		return err
	}
	if err := om.WriteTowers(telemetry.TowerRecords(s.Lifts())); err != nil {
		return err
	}
	if exportJSON {
		path, err := om.WriteSnapshot(s.Snapshot())
		if err != nil {
			return err
		}
		slog.Info("scene exported", "path", path)
	}
	return nil
}
