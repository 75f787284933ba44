package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/skiresort/forest"
	"github.com/pthm-cable/skiresort/lifts"
	"github.com/pthm-cable/skiresort/runs"
	"github.com/pthm-cable/skiresort/sky"
	"github.com/pthm-cable/skiresort/terrain"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Vectors are written as compact [x, y, z] arrays.
var json = func() jsoniter.API {
	neverEmpty := func(unsafe.Pointer) bool { return false }
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(r3.Vec{}).String(), encodeVec, neverEmpty)
	jsoniter.RegisterTypeDecoderFunc(reflect.TypeOf(r3.Vec{}).String(), decodeVec)

	return jsoniter.Config{
		IndentionStep:           2,
		MarshalFloatWith6Digits: true,
		EscapeHTML:              false,
		SortMapKeys:             true,
		TagKey:                  "json",
		CaseSensitive:           true,
	}.Froze()
}()

func encodeVec(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	v := (*r3.Vec)(ptr)
	stream.WriteArrayStart()
	stream.WriteFloat64Lossy(v.X)
	stream.WriteMore()
	stream.WriteFloat64Lossy(v.Y)
	stream.WriteMore()
	stream.WriteFloat64Lossy(v.Z)
	stream.WriteArrayEnd()
}

func decodeVec(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	var xyz [3]float64
	i := 0
	for iter.ReadArray() {
		if i < len(xyz) {
			xyz[i] = iter.ReadFloat64()
		} else {
			iter.Skip()
		}
		i++
	}
	*(*r3.Vec)(ptr) = r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
}

// Snapshot is the complete generated scene, for external renderers and
// offline inspection.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int32 `json:"tick"`

	Bounds  terrain.Bounds `json:"bounds"`
	Ceiling float64        `json:"ceiling"`
	Terrain *GridState     `json:"terrain,omitempty"`

	Sky SkyState `json:"sky"`

	Trees []TreeRecord `json:"trees"`
	Runs  []RunState   `json:"runs"`
	Lifts []LiftState  `json:"lifts"`
}

// GridState is the sampled height grid.
type GridState struct {
	Resolution int       `json:"resolution"`
	Heights    []float64 `json:"heights"`
}

// SkyState holds the lighting at the snapshot tick.
type SkyState struct {
	TimeOfDay    float64   `json:"time_of_day"`
	Phase        sky.Phase `json:"phase"`
	SunDirection r3.Vec    `json:"sun_direction"`
	SunIntensity float64   `json:"sun_intensity"`
	Ambient      float64   `json:"ambient"`
	Color        [3]uint8  `json:"color"`
}

// RunState holds one run's mesh.
type RunState struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Difficulty runs.Difficulty `json:"difficulty"`
	Width      float64         `json:"width"`
	Length     float64         `json:"length"`
	Centerline []r3.Vec        `json:"centerline"`
	Vertices   []r3.Vec        `json:"vertices"`
	Indices    []uint32        `json:"indices"`
}

// LiftState holds one lift's layout and cabins.
type LiftState struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Capacity int           `json:"capacity"`
	Stations []r3.Vec      `json:"stations"`
	Towers   []TowerRecord `json:"towers"`
	Cable    []r3.Vec      `json:"cable"`
	Cabins   []CabinRecord `json:"cabins"`
}

// SceneParts is everything a snapshot is assembled from.
type SceneParts struct {
	Seed    int64
	Tick    int32
	Bounds  terrain.Bounds
	Ceiling float64
	Grid    *terrain.Grid // Optional
	Sky     sky.State
	Trees   []forest.Tree
	Ribbons []*runs.Ribbon
	Lifts   []*lifts.Built
}

// NewSnapshot assembles a snapshot.
func NewSnapshot(p SceneParts) *Snapshot {
	c := p.Sky.SkyColor
	s := &Snapshot{
		Version: SnapshotVersion,
		Seed:    p.Seed,
		Tick:    p.Tick,
		Bounds:  p.Bounds,
		Ceiling: p.Ceiling,
		Sky: SkyState{
			TimeOfDay:    p.Sky.TimeOfDay,
			Phase:        p.Sky.Phase,
			SunDirection: p.Sky.SunDirection,
			SunIntensity: p.Sky.SunIntensity,
			Ambient:      p.Sky.AmbientIntensity,
			Color:        [3]uint8{c.R, c.G, c.B},
		},
		Trees: TreeRecords(p.Trees),
	}
	if p.Grid != nil {
		s.Terrain = &GridState{Resolution: p.Grid.Resolution, Heights: p.Grid.Heights}
	}
	for _, r := range p.Ribbons {
		s.Runs = append(s.Runs, RunState{
			ID:         r.RunID,
			Name:       r.Name,
			Difficulty: r.Difficulty,
			Width:      r.Width,
			Length:     r.Length,
			Centerline: r.Centerline,
			Vertices:   r.Vertices,
			Indices:    r.Indices,
		})
	}
	towers := TowerRecords(p.Lifts)
	cabins := CabinRecords(p.Tick, p.Lifts)
	for _, b := range p.Lifts {
		ls := LiftState{
			ID:       b.Lift.ID,
			Name:     b.Lift.Name,
			Type:     b.Lift.Type.String(),
			Capacity: b.Lift.Capacity,
			Stations: b.Stations,
			Cable:    b.Cable,
		}
		for _, t := range towers {
			if t.LiftID == b.Lift.ID && !t.Station {
				ls.Towers = append(ls.Towers, t)
			}
		}
		for _, c := range cabins {
			if c.LiftID == b.Lift.ID {
				ls.Cabins = append(ls.Cabins, c)
			}
		}
		s.Lifts = append(s.Lifts, ls)
	}
	return s
}

// SaveSnapshot writes a snapshot to dir as scene_<tick>.json.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("scene_%d.json", snapshot.Tick))

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
