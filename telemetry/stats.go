package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated lift and sky statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Sky at window end
	TimeOfDay    float64 `csv:"time_of_day"`
	SkyPhase     string  `csv:"sky_phase"`
	SunIntensity float64 `csv:"sun_intensity"`

	// Lift network at window end
	Lifts      int `csv:"lifts"`
	Cabins     int `csv:"cabins"`
	Ascending  int `csv:"ascending"`
	Descending int `csv:"descending"`

	// Station events during window
	SummitArrivals int     `csv:"summit_arrivals"`
	BaseArrivals   int     `csv:"base_arrivals"`
	ArrivalsPerMin float64 `csv:"arrivals_per_min"`

	// Uplift capacity of the whole network in riders per hour
	HourlyCapacity int `csv:"hourly_capacity"`

	// Cabin progress distribution (sampled at window end)
	ProgressMean float64 `csv:"progress_mean"`
	ProgressStd  float64 `csv:"progress_std"`
	ProgressP10  float64 `csv:"progress_p10"`
	ProgressP50  float64 `csv:"progress_p50"`
	ProgressP90  float64 `csv:"progress_p90"`

	// Cabin height distribution
	CabinYMean float64 `csv:"cabin_y_mean"`
	CabinYP90  float64 `csv:"cabin_y_p90"`
}

// Distribution summarises a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, standard deviation and empirical
// percentiles. Empty input yields the zero value; the standard deviation of
// a single value is zero.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if len(sorted) == 1 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("time_of_day", s.TimeOfDay),
		slog.String("sky_phase", s.SkyPhase),
		slog.Float64("sun_intensity", s.SunIntensity),
		slog.Int("lifts", s.Lifts),
		slog.Int("cabins", s.Cabins),
		slog.Int("ascending", s.Ascending),
		slog.Int("descending", s.Descending),
		slog.Int("summit_arrivals", s.SummitArrivals),
		slog.Int("base_arrivals", s.BaseArrivals),
		slog.Float64("arrivals_per_min", s.ArrivalsPerMin),
		slog.Int("hourly_capacity", s.HourlyCapacity),
		slog.Float64("progress_mean", s.ProgressMean),
		slog.Float64("progress_std", s.ProgressStd),
		slog.Float64("progress_p50", s.ProgressP50),
		slog.Float64("cabin_y_mean", s.CabinYMean),
		slog.Float64("cabin_y_p90", s.CabinYP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"time_of_day", s.TimeOfDay,
		"sky_phase", s.SkyPhase,
		"cabins", s.Cabins,
		"ascending", s.Ascending,
		"descending", s.Descending,
		"summit_arrivals", s.SummitArrivals,
		"base_arrivals", s.BaseArrivals,
		"arrivals_per_min", s.ArrivalsPerMin,
		"progress_mean", s.ProgressMean,
		"cabin_y_mean", s.CabinYMean,
	)
}
