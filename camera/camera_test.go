package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/skiresort/terrain"
)

var testBounds = terrain.Bounds{MinX: -200, MinZ: -200, MaxX: 200, MaxZ: 200}

func TestNew(t *testing.T) {
	cam := New(testBounds)

	if cam.TargetX != 0 || cam.TargetZ != 0 {
		t.Errorf("expected camera target at origin, got (%f, %f)", cam.TargetX, cam.TargetZ)
	}
	if math.Abs(float64(cam.Distance)-440) > 1e-3 {
		t.Errorf("expected overview distance 440, got %f", cam.Distance)
	}
}

func TestPosition_DistanceAndSide(t *testing.T) {
	cam := New(testBounds)
	cam.Apply(Preset{TargetY: 10, Pitch: 0.5, Distance: 100})

	x, y, z := cam.Position()
	d := math.Sqrt(float64(x*x + (y-10)*(y-10) + z*z))
	if math.Abs(d-100) > 0.01 {
		t.Errorf("expected eye 100 from target, got %f", d)
	}
	if y <= 10 || z <= 0 {
		t.Errorf("expected eye above and south of the target at yaw 0, got (%f, %f, %f)", x, y, z)
	}
}

func TestRotate_WrapsAndClamps(t *testing.T) {
	cam := New(testBounds)

	cam.Rotate(-0.5, 10)
	if cam.Yaw < 0 || cam.Yaw >= 2*math.Pi {
		t.Errorf("expected yaw wrapped into [0, 2pi), got %f", cam.Yaw)
	}
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("expected pitch clamped to %f, got %f", cam.MaxPitch, cam.Pitch)
	}
	cam.Rotate(0, -10)
	if cam.Pitch != cam.MinPitch {
		t.Errorf("expected pitch clamped to %f, got %f", cam.MinPitch, cam.Pitch)
	}
}

func TestZoomBy_Clamps(t *testing.T) {
	cam := New(testBounds)

	cam.ZoomBy(0.0001)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected min distance, got %f", cam.Distance)
	}
	cam.ZoomBy(1e6)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected max distance, got %f", cam.Distance)
	}
}

func TestPan_FollowsYawAndBounds(t *testing.T) {
	cam := New(testBounds)

	cam.Pan(0, 10)
	if math.Abs(float64(cam.TargetZ+10)) > 1e-4 || math.Abs(float64(cam.TargetX)) > 1e-4 {
		t.Errorf("expected forward pan toward -Z at yaw 0, got (%f, %f)", cam.TargetX, cam.TargetZ)
	}

	cam.Reset()
	cam.Yaw = math.Pi / 2
	cam.Pan(0, 10)
	if math.Abs(float64(cam.TargetX-10)) > 1e-4 {
		t.Errorf("expected forward pan toward +X at quarter yaw, got (%f, %f)", cam.TargetX, cam.TargetZ)
	}

	cam.Pan(1000, 1000)
	if cam.TargetX > 200 || cam.TargetZ < -200 {
		t.Errorf("expected target clamped to bounds, got (%f, %f)", cam.TargetX, cam.TargetZ)
	}
}

func TestPresets(t *testing.T) {
	f, err := terrain.New(terrain.Spec{
		Width: 400, Depth: 400,
		Landforms: []terrain.Landform{terrain.Peak{X: 50, Z: -60, Height: 80, Radius: 40}},
	})
	if err != nil {
		t.Fatalf("terrain.New: %v", err)
	}

	presets := Presets(f, 0, 175)
	if len(presets) != 3 {
		t.Fatalf("expected 3 presets, got %d", len(presets))
	}
	names := map[string]Preset{}
	for _, p := range presets {
		names[p.Name] = p
	}
	summit, ok := names["summit"]
	if !ok {
		t.Fatal("expected a summit preset")
	}
	// Grid spacing is 12.5, so the highest vertex is within one cell of the peak.
	if math.Abs(float64(summit.TargetX-50)) > 12.5 || math.Abs(float64(summit.TargetZ+60)) > 12.5 {
		t.Errorf("expected summit target near the peak, got (%f, %f)", summit.TargetX, summit.TargetZ)
	}
	if village := names["village"]; village.TargetZ != 175 {
		t.Errorf("expected village target at z=175, got %f", village.TargetZ)
	}

	cam := New(f.Bounds())
	cam.Apply(summit)
	if cam.TargetY != summit.TargetY || cam.Pitch != summit.Pitch {
		t.Errorf("expected camera at the summit preset, got %+v", cam)
	}
}

func TestMarch(t *testing.T) {
	ground := terrain.Flat(5)

	x, z, ok := March(ground, 0, 105, 0, 0.6, -0.8, 0, 500, 1)
	if !ok {
		t.Fatal("expected the ray to hit the ground")
	}
	// 100 units of drop at 0.8 per unit length is 125 along the ray.
	if math.Abs(x-75) > 1e-6 || z != 0 {
		t.Errorf("expected hit at (75, 0), got (%f, %f)", x, z)
	}

	if _, _, ok := March(ground, 0, 105, 0, 0, 1, 0, 500, 1); ok {
		t.Error("expected an upward ray to miss")
	}
	if _, _, ok := March(ground, 0, 1, 0, 1, 0, 0, 500, 1); ok {
		t.Error("expected a ray starting underground to miss")
	}
}
