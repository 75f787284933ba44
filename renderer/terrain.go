package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/skiresort/sky"
	"github.com/pthm-cable/skiresort/terrain"
)

// terrainTri is one flat-shaded face of the terrain mesh.
type terrainTri struct {
	a, b, c rl.Vector3
	normal  r3.Vec
	base    rl.Color
}

// TerrainRenderer draws the sampled height field as flat-shaded triangles.
// Lit colours are cached and recomputed only when the light changes.
type TerrainRenderer struct {
	tris []terrainTri
	lit  []rl.Color

	lastSun       r3.Vec
	lastIntensity float64
	lastAmbient   float64
	valid         bool
}

// NewTerrainRenderer builds the triangle list for grid. Faces are coloured
// by elevation band relative to treeLine and the field ceiling.
func NewTerrainRenderer(grid *terrain.Grid, treeLine, ceiling float64) *TerrainRenderer {
	r := &TerrainRenderer{}
	n := grid.Resolution
	vertex := func(i, j int) r3.Vec {
		x, z := grid.Position(i, j)
		return r3.Vec{X: x, Y: grid.At(i, j), Z: z}
	}
	add := func(a, b, c r3.Vec) {
		nrm := r3.Unit(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
		h := (a.Y + b.Y + c.Y) / 3
		r.tris = append(r.tris, terrainTri{
			a: vec3(a), b: vec3(b), c: vec3(c),
			normal: nrm,
			base:   GroundColor(h, treeLine, ceiling, nrm),
		})
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			p00, p10 := vertex(i, j), vertex(i+1, j)
			p01, p11 := vertex(i, j+1), vertex(i+1, j+1)
			// Counter-clockwise seen from above.
			add(p00, p01, p10)
			add(p10, p01, p11)
		}
	}
	r.lit = make([]rl.Color, len(r.tris))
	return r
}

// Draw renders the terrain lit by st. Wireframe draws triangle outlines on
// top of the faces.
func (r *TerrainRenderer) Draw(st sky.State, wireframe bool) {
	r.relight(st)
	for i, t := range r.tris {
		rl.DrawTriangle3D(t.a, t.b, t.c, r.lit[i])
	}
	if !wireframe {
		return
	}
	edge := rl.Color{R: 20, G: 20, B: 20, A: 90}
	for _, t := range r.tris {
		rl.DrawLine3D(t.a, t.b, edge)
		rl.DrawLine3D(t.b, t.c, edge)
		rl.DrawLine3D(t.c, t.a, edge)
	}
}

func (r *TerrainRenderer) relight(st sky.State) {
	const eps = 1e-3
	if r.valid &&
		r3.Norm(r3.Sub(st.SunDirection, r.lastSun)) < eps &&
		math.Abs(st.SunIntensity-r.lastIntensity) < eps &&
		math.Abs(st.AmbientIntensity-r.lastAmbient) < eps {
		return
	}
	for i, t := range r.tris {
		r.lit[i] = Light(t.base, t.normal, st)
	}
	r.lastSun, r.lastIntensity, r.lastAmbient = st.SunDirection, st.SunIntensity, st.AmbientIntensity
	r.valid = true
}

// Triangles returns the number of faces drawn.
func (r *TerrainRenderer) Triangles() int { return len(r.tris) }

// Unload releases renderer resources.
func (r *TerrainRenderer) Unload() {
	r.tris, r.lit = nil, nil
}
