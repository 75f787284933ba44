package telemetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/skiresort/lifts"
	"github.com/pthm-cable/skiresort/sky"
	"github.com/pthm-cable/skiresort/terrain"
)

func TestComputeDistribution(t *testing.T) {
	d := ComputeDistribution([]float64{5, 1, 4, 2, 3})

	if math.Abs(d.Mean-3) > 1e-9 {
		t.Errorf("expected mean 3, got %v", d.Mean)
	}
	if math.Abs(d.Std-math.Sqrt(2.5)) > 1e-9 {
		t.Errorf("expected sample std %v, got %v", math.Sqrt(2.5), d.Std)
	}
	if d.P50 != 3 {
		t.Errorf("expected median 3, got %v", d.P50)
	}
	if d.P10 != 1 || d.P90 != 5 {
		t.Errorf("expected p10 1 and p90 5, got %v and %v", d.P10, d.P90)
	}
}

func TestComputeDistribution_Degenerate(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("expected zero distribution for empty input, got %+v", d)
	}
	d := ComputeDistribution([]float64{7})
	if d.Mean != 7 || d.Std != 0 || d.P50 != 7 {
		t.Errorf("expected single value distribution, got %+v", d)
	}
}

func testLifts(t *testing.T) []*lifts.Built {
	t.Helper()
	p := lifts.NewPlanner(terrain.Flat(0), lifts.DefaultOptions(), rand.New(rand.NewSource(3)))
	b, err := p.BuildLift(lifts.Lift{
		ID: "test", Type: lifts.Quad,
		Base: lifts.Point{X: 0, Z: 0}, Summit: lifts.Point{X: 20, Z: 0},
		Towers: 4, Cabins: 4,
	})
	if err != nil {
		t.Fatalf("BuildLift: %v", err)
	}
	return []*lifts.Built{b}
}

func TestCollector_CountsArrivals(t *testing.T) {
	built := testLifts(t)
	c := NewCollector(10, 0.5)
	if c.WindowDurationTicks() != 20 {
		t.Fatalf("expected 20 ticks per window, got %d", c.WindowDurationTicks())
	}

	c.ObserveCabins(built)
	var tick int32
	for !c.ShouldFlush(tick) {
		for _, b := range built {
			b.Tick(0.5)
		}
		c.ObserveCabins(built)
		tick++
	}

	st := sky.New(600, 12, 1000).State()
	stats := c.Flush(tick, st, built)

	// At 2.3 m/s on a 20 m line every cabin reaches a station within ten
	// seconds.
	if stats.SummitArrivals+stats.BaseArrivals < 4 {
		t.Errorf("expected every cabin to arrive somewhere, got %d summit and %d base",
			stats.SummitArrivals, stats.BaseArrivals)
	}
	if stats.Cabins != 4 || stats.Ascending+stats.Descending != 4 {
		t.Errorf("expected 4 cabins split by direction, got %+v", stats)
	}
	if stats.HourlyCapacity != lifts.Quad.Spec().Capacity {
		t.Errorf("expected quad capacity, got %d", stats.HourlyCapacity)
	}
	if stats.SkyPhase != string(sky.Day) || stats.SimTimeSec != 10 {
		t.Errorf("expected day at 10s, got %s at %v", stats.SkyPhase, stats.SimTimeSec)
	}
	if stats.ProgressMean < 0 || stats.ProgressMean > 1 {
		t.Errorf("progress mean %v outside [0, 1]", stats.ProgressMean)
	}
	if stats.ArrivalsPerMin <= 0 {
		t.Errorf("expected positive arrival rate, got %v", stats.ArrivalsPerMin)
	}

	next := c.Flush(tick, st, built)
	if next.SummitArrivals != 0 || next.BaseArrivals != 0 || next.ArrivalsPerMin != 0 {
		t.Errorf("expected counters reset after flush, got %+v", next)
	}
	if c.ShouldFlush(tick + 1) {
		t.Error("expected new window to start at the flush tick")
	}
}
