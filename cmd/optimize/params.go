// Package main tunes forest placement parameters with CMA-ES so that the
// generated forest matches a target tree count and alpine share.
package main

import (
	"github.com/pthm-cable/skiresort/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "spacing", Path: "forest.spacing", Min: 3, Max: 14, Default: 6},
			{Name: "extra_chance", Path: "forest.extra_chance", Min: 0, Max: 0.9, Default: 0.35},
			{Name: "tree_line_band", Path: "forest.tree_line_band", Min: 2, Max: 30, Default: 12},
			// Must stay below steep_slope.
			{Name: "moderate_slope", Path: "forest.moderate_slope", Min: 0.2, Max: 1.1, Default: 0.6},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Forest.Spacing = clamped[0]
	cfg.Forest.ExtraChance = clamped[1]
	cfg.Forest.TreeLineBand = clamped[2]
	cfg.Forest.ModerateSlope = min(clamped[3], cfg.Forest.SteepSlope*0.95)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Forest.Spacing,
		cfg.Forest.ExtraChance,
		cfg.Forest.TreeLineBand,
		cfg.Forest.ModerateSlope,
	}
}
