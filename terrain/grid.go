package terrain

import (
	"math"
	"runtime"
	"sync"
)

// Grid is a regular sampling of a surface over some bounds, used to build
// the visible terrain mesh. Heights are row-major with (Resolution+1)^2 entries;
// row j runs along X at Z = MinZ + j*StepZ.
type Grid struct {
	Bounds     Bounds
	Resolution int
	StepX      float64
	StepZ      float64
	Heights    []float64
	Min, Max   float64
}

// At returns the height at vertex (i, j).
func (g *Grid) At(i, j int) float64 {
	return g.Heights[j*(g.Resolution+1)+i]
}

// Position returns the world X and Z of vertex (i, j).
func (g *Grid) Position(i, j int) (x, z float64) {
	return g.Bounds.MinX + float64(i)*g.StepX, g.Bounds.MinZ + float64(j)*g.StepZ
}

// SampleGrid evaluates s on a (resolution+1)^2 vertex grid over b.
// Rows are evaluated in parallel; s must be safe for concurrent use.
func SampleGrid(s Surface, b Bounds, resolution int) *Grid {
	if resolution < 1 {
		resolution = 1
	}
	n := resolution + 1
	g := &Grid{
		Bounds:     b,
		Resolution: resolution,
		StepX:      b.Width() / float64(resolution),
		StepZ:      b.Depth() / float64(resolution),
		Heights:    make([]float64, n*n),
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	rows := make(chan int, n)
	for j := 0; j < n; j++ {
		rows <- j
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range rows {
				for i := 0; i < n; i++ {
					x, z := g.Position(i, j)
					g.Heights[j*n+i] = s.Height(x, z)
				}
			}
		}()
	}
	wg.Wait()

	g.Min, g.Max = math.Inf(1), math.Inf(-1)
	for _, h := range g.Heights {
		g.Min = math.Min(g.Min, h)
		g.Max = math.Max(g.Max, h)
	}
	return g
}

// Sample evaluates the field over its own bounds.
func (f *Field) Sample(resolution int) *Grid {
	return SampleGrid(f, f.Bounds(), resolution)
}
