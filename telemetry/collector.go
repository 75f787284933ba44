package telemetry

import (
	"github.com/pthm-cable/skiresort/lifts"
	"github.com/pthm-cable/skiresort/sky"
)

// Collector accumulates station arrivals within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Last observed direction per cabin; a flip is a station arrival.
	directions map[*lifts.Cabin]int

	summitArrivals int
	baseArrivals   int
}

// NewCollector creates a new stats collector.
// windowDurationSec is the window length in simulated seconds and dt the
// seconds per tick.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = max(int32(windowDurationSec/dt), 1)
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		directions:          make(map[*lifts.Cabin]int),
	}
}

// ObserveCabins records direction flips since the previous observation.
// The first observation of a cabin only remembers its direction.
func (c *Collector) ObserveCabins(built []*lifts.Built) {
	for _, b := range built {
		for _, cab := range b.Cabins {
			prev, seen := c.directions[cab]
			c.directions[cab] = cab.Direction
			if !seen || prev == cab.Direction {
				continue
			}
			if cab.Direction < 0 {
				c.summitArrivals++
			} else {
				c.baseArrivals++
			}
		}
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the current lift and sky state and
// resets the arrival counters for the next window.
func (c *Collector) Flush(currentTick int32, st sky.State, built []*lifts.Built) WindowStats {
	var progress, heights []float64
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		TimeOfDay:       st.TimeOfDay,
		SkyPhase:        string(st.Phase),
		SunIntensity:    st.SunIntensity,
		Lifts:           len(built),
		SummitArrivals:  c.summitArrivals,
		BaseArrivals:    c.baseArrivals,
	}
	for _, b := range built {
		stats.HourlyCapacity += b.Lift.Capacity
		for _, cab := range b.Cabins {
			stats.Cabins++
			if cab.Direction > 0 {
				stats.Ascending++
			} else {
				stats.Descending++
			}
			progress = append(progress, cab.Progress)
			heights = append(heights, cab.Position.Y)
		}
	}

	if elapsed := float64(currentTick-c.windowStartTick) * c.dt; elapsed > 0 {
		stats.ArrivalsPerMin = float64(c.summitArrivals+c.baseArrivals) / elapsed * 60
	}

	pd := ComputeDistribution(progress)
	stats.ProgressMean, stats.ProgressStd = pd.Mean, pd.Std
	stats.ProgressP10, stats.ProgressP50, stats.ProgressP90 = pd.P10, pd.P50, pd.P90
	hd := ComputeDistribution(heights)
	stats.CabinYMean, stats.CabinYP90 = hd.Mean, hd.P90

	c.windowStartTick = currentTick
	c.summitArrivals = 0
	c.baseArrivals = 0
	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
