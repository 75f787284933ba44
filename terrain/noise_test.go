package terrain

import (
	"math"
	"testing"
)

func TestNoise_WithinAmplitude(t *testing.T) {
	layers := []struct {
		name  string
		noise Noise
	}{
		{"sine", DefaultSineNoise()},
		{"simplex", NewSimplexNoise(7, 1.5, 0.03, 3, 0.5)},
		{"perlin", NewPerlinNoise(11, 2.0, 0.02, 3)},
		{"layers", Layers{DefaultSineNoise(), NewSimplexNoise(3, 1, 0.05, 2, 0.5)}},
	}

	for _, tc := range layers {
		t.Run(tc.name, func(t *testing.T) {
			amp := tc.noise.Amplitude()
			if amp <= 0 {
				t.Fatalf("expected positive amplitude, got %f", amp)
			}
			for x := -250.0; x <= 250; x += 6.1 {
				for z := -250.0; z <= 250; z += 6.1 {
					v := tc.noise.Eval(x, z)
					if math.Abs(v) > amp+1e-9 {
						t.Fatalf("noise %f at (%.1f, %.1f) exceeds amplitude %f", v, x, z, amp)
					}
				}
			}
		})
	}
}

func TestNoise_PositionKeyed(t *testing.T) {
	a := NewSimplexNoise(42, 2, 0.04, 4, 0.5)
	b := NewSimplexNoise(42, 2, 0.04, 4, 0.5)

	// Interleave calls in different orders; values must only depend on position.
	va := []float64{a.Eval(1, 2), a.Eval(-30, 7), a.Eval(1, 2)}
	vb := []float64{b.Eval(-30, 7), b.Eval(1, 2)}
	if va[0] != va[2] || va[0] != vb[1] || va[1] != vb[0] {
		t.Errorf("expected position-keyed simplex noise, got %v and %v", va, vb)
	}

	p := NewPerlinNoise(5, 1, 0.02, 3)
	q := NewPerlinNoise(5, 1, 0.02, 3)
	if p.Eval(12.3, -4.5) != q.Eval(12.3, -4.5) {
		t.Error("expected identical perlin layers for equal seeds")
	}
}

func TestSineNoise_Amplitude(t *testing.T) {
	n := SineNoise{Octaves: []SineOctave{{Amplitude: 2, Frequency: 0.1}, {Amplitude: -1, Frequency: 0.2}}}
	if got := n.Amplitude(); got != 3 {
		t.Errorf("expected amplitude 3, got %f", got)
	}
	if got := (SineNoise{}).Eval(10, 10); got != 0 {
		t.Errorf("expected zero from empty noise, got %f", got)
	}
}
