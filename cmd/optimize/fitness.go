package main

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/skiresort/config"
	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/terrain"
)

// Targets describes the forest the optimizer aims for.
type Targets struct {
	Trees  int     // Tree count
	Alpine float64 // Share of alpine types in [0, 1]
}

// EvalRecord is one optimize_log.csv row.
type EvalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	Trees         float64 `csv:"trees"`
	Alpine        float64 `csv:"alpine"`
	Spacing       float64 `csv:"spacing"`
	ExtraChance   float64 `csv:"extra_chance"`
	TreeLineBand  float64 `csv:"tree_line_band"`
	ModerateSlope float64 `csv:"moderate_slope"`
}

// FitnessEvaluator generates forests on a fixed height field and scores
// them against the targets.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	field      *terrain.Field
	targets    Targets

	mu         sync.Mutex
	lastTrees  float64 // mean tree count from the most recent Evaluate call
	lastAlpine float64
}

// NewFitnessEvaluator builds the height field once for all evaluations.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config, targets Targets) (*FitnessEvaluator, error) {
	spec, err := baseCfg.TerrainSpec()
	if err != nil {
		return nil, fmt.Errorf("terrain spec: %w", err)
	}
	field, err := terrain.New(spec)
	if err != nil {
		return nil, fmt.Errorf("building terrain: %w", err)
	}
	return &FitnessEvaluator{
		params:     params,
		seeds:      seeds,
		baseConfig: baseCfg,
		field:      field,
		targets:    targets,
	}, nil
}

// Last returns the mean tree count and alpine share of the most recent
// evaluation.
func (fe *FitnessEvaluator) Last() (trees, alpine float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastTrees, fe.lastAlpine
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	trees  int
	alpine float64
	err    error
}

// Evaluate computes fitness for a parameter vector (lower = better): the
// squared relative tree count error plus the squared alpine share error,
// averaged over seeds. Invalid options score +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	opts := cfg.ForestOptions()

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runForest(opts, s)
		}(i, seed)
	}
	wg.Wait()

	var fitness, trees, alpine float64
	for _, r := range results {
		if r.err != nil {
			return math.Inf(1)
		}
		fitness += fe.score(r.trees, r.alpine)
		trees += float64(r.trees)
		alpine += r.alpine
	}
	n := float64(len(results))

	fe.mu.Lock()
	fe.lastTrees, fe.lastAlpine = trees/n, alpine/n
	fe.mu.Unlock()
	return fitness / n
}

func (fe *FitnessEvaluator) runForest(opts forest.Options, seed int64) seedResult {
	sampler, err := forest.NewSampler(fe.field, fe.field.Bounds(), opts, rand.New(rand.NewSource(seed)))
	if err != nil {
		return seedResult{err: err}
	}
	trees := sampler.Generate()
	return seedResult{trees: len(trees), alpine: alpineShare(trees, opts.TypeCount)}
}

// score is the error of one forest against the targets.
func (fe *FitnessEvaluator) score(trees int, alpine float64) float64 {
	target := math.Max(1, float64(fe.targets.Trees))
	countErr := (float64(trees) - target) / target
	alpineErr := alpine - fe.targets.Alpine
	return countErr*countErr + alpineErr*alpineErr
}

// alpineShare is the fraction of trees of an alpine type.
func alpineShare(trees []forest.Tree, typeCount int) float64 {
	if len(trees) == 0 {
		return 0
	}
	n := 0
	for _, t := range trees {
		if forest.IsAlpine(t.Type, typeCount) {
			n++
		}
	}
	return float64(n) / float64(len(trees))
}
