package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Noise is a deterministic detail layer. Eval must be a pure function of
// (x, z) and stay within [-Amplitude(), Amplitude()].
type Noise interface {
	Eval(x, z float64) float64
	Amplitude() float64
}

// SineOctave is one sine*cosine product term.
type SineOctave struct {
	Amplitude float64
	Frequency float64
}

// SineNoise sums sine*cosine product octaves. It holds no state beyond its
// coefficients, so it is trivially position-keyed.
type SineNoise struct {
	Octaves []SineOctave
}

// DefaultSineNoise returns four octaves of decreasing amplitude and
// increasing frequency.
func DefaultSineNoise() SineNoise {
	return SineNoise{Octaves: []SineOctave{
		{Amplitude: 3.0, Frequency: 0.021},
		{Amplitude: 1.5, Frequency: 0.047},
		{Amplitude: 0.75, Frequency: 0.093},
		{Amplitude: 0.35, Frequency: 0.19},
	}}
}

func (n SineNoise) Eval(x, z float64) float64 {
	var sum float64
	for i, o := range n.Octaves {
		// Per-octave phase keeps the octaves from lining up on the axes.
		phase := float64(i) * 1.7
		sum += o.Amplitude * math.Sin(x*o.Frequency+phase) * math.Cos(z*o.Frequency*1.3+phase*0.5)
	}
	return sum
}

func (n SineNoise) Amplitude() float64 {
	var a float64
	for _, o := range n.Octaves {
		a += math.Abs(o.Amplitude)
	}
	return a
}

// SimplexNoise is an octave sum of OpenSimplex noise with a fixed seed.
type SimplexNoise struct {
	amplitude   float64
	frequency   float64
	weights     []float64
	weightTotal float64
	os          opensimplex.Noise
}

// NewSimplexNoise creates a simplex layer. Octave i samples at frequency*2^i
// with weight persistence^i; the sum is normalised to [-1, 1] before scaling.
func NewSimplexNoise(seed int64, amplitude, frequency float64, octaves int, persistence float64) *SimplexNoise {
	if octaves < 1 {
		octaves = 1
	}
	n := &SimplexNoise{
		amplitude: amplitude,
		frequency: frequency,
		weights:   make([]float64, octaves),
		os:        opensimplex.New(seed),
	}
	for i := range n.weights {
		n.weights[i] = math.Pow(persistence, float64(i))
		n.weightTotal += n.weights[i]
	}
	return n
}

func (n *SimplexNoise) Eval(x, z float64) float64 {
	var sum float64
	freq := n.frequency
	for _, w := range n.weights {
		sum += w * n.os.Eval2(x*freq, z*freq)
		freq *= 2
	}
	return clamp(sum/n.weightTotal, -1, 1) * n.amplitude
}

func (n *SimplexNoise) Amplitude() float64 { return math.Abs(n.amplitude) }

// PerlinNoise wraps go-perlin with a fixed seed.
type PerlinNoise struct {
	amplitude float64
	frequency float64
	p         *perlin.Perlin
}

// NewPerlinNoise creates a Perlin layer with alpha = beta = 2.
func NewPerlinNoise(seed int64, amplitude, frequency float64, octaves int) *PerlinNoise {
	if octaves < 1 {
		octaves = 1
	}
	return &PerlinNoise{
		amplitude: amplitude,
		frequency: frequency,
		p:         perlin.NewPerlin(2, 2, octaves, seed),
	}
}

func (n *PerlinNoise) Eval(x, z float64) float64 {
	return clamp(n.p.Noise2D(x*n.frequency, z*n.frequency), -1, 1) * n.amplitude
}

func (n *PerlinNoise) Amplitude() float64 { return math.Abs(n.amplitude) }

// Layers sums several noise layers.
type Layers []Noise

func (l Layers) Eval(x, z float64) float64 {
	var sum float64
	for _, n := range l {
		sum += n.Eval(x, z)
	}
	return sum
}

func (l Layers) Amplitude() float64 {
	var a float64
	for _, n := range l {
		a += n.Amplitude()
	}
	return a
}
