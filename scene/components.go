package scene

// Kind classifies a placed entity.
type Kind uint8

const (
	KindTerrain Kind = iota
	KindRun
	KindLift
	KindDecoration
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindTerrain, KindRun, KindLift, KindDecoration}

func (k Kind) String() string {
	switch k {
	case KindTerrain:
		return "terrain"
	case KindRun:
		return "run"
	case KindLift:
		return "lift"
	case KindDecoration:
		return "decoration"
	}
	return "unknown"
}

// Part says which piece of a run or lift an entity stands for.
type Part uint8

const (
	PartWhole Part = iota
	PartTree
	PartStation
	PartTower
	PartCabin
)

func (p Part) String() string {
	switch p {
	case PartWhole:
		return "whole"
	case PartTree:
		return "tree"
	case PartStation:
		return "station"
	case PartTower:
		return "tower"
	case PartCabin:
		return "cabin"
	}
	return "unknown"
}

// Tag is attached to every entity at creation.
type Tag struct {
	Kind  Kind
	Part  Part
	ID    string // Run or lift ID; empty for terrain and trees
	Index int    // Position in the owning slice (tree, station, tower, cabin)
}

// Position is an entity's world position. Runs and lifts sit at their
// top and base respectively.
type Position struct {
	X, Y, Z float64
}
