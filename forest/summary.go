package forest

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a generated forest.
type Summary struct {
	Count      int
	PerType    map[int]int
	MeanY      float64
	StdDevY    float64
	MinY, MaxY float64
	MedianY    float64
	MeanScale  float64
}

// Summarize computes elevation and type statistics for trees.
func Summarize(trees []Tree) Summary {
	s := Summary{Count: len(trees), PerType: make(map[int]int)}
	if len(trees) == 0 {
		return s
	}

	ys := make([]float64, len(trees))
	scales := make([]float64, len(trees))
	for i, t := range trees {
		ys[i] = t.Y
		scales[i] = t.Scale
		s.PerType[t.Type]++
	}

	s.MeanY, s.StdDevY = stat.MeanStdDev(ys, nil)
	if len(ys) == 1 {
		s.StdDevY = 0
	}
	s.MinY = floats.Min(ys)
	s.MaxY = floats.Max(ys)
	s.MeanScale = stat.Mean(scales, nil)

	// Quantile needs sorted input; ys is a private copy.
	floats.Argsort(ys, make([]int, len(ys)))
	s.MedianY = stat.Quantile(0.5, stat.Empirical, ys, nil)
	return s
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", s.Count),
		slog.Int("types", len(s.PerType)),
		slog.Float64("mean_y", s.MeanY),
		slog.Float64("std_y", s.StdDevY),
		slog.Float64("min_y", s.MinY),
		slog.Float64("max_y", s.MaxY),
		slog.Float64("median_y", s.MedianY),
	)
}
