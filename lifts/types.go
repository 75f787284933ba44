package lifts

import (
	"fmt"
	"strings"
)

// Type is the kind of lift.
type Type int

const (
	Gondola Type = iota
	HighSpeedQuad
	HighSpeedSix
	Quad
	Triple
	Double
)

// TypeSpec holds per-type defaults.
type TypeSpec struct {
	Name     string
	Capacity int     // Riders per hour
	Cabins   int     // Default cabin or chair count shown
	Speed    float64 // Line speed in metres per second
}

var typeSpecs = [...]TypeSpec{
	Gondola:       {Name: "gondola", Capacity: 2400, Cabins: 12, Speed: 5.0},
	HighSpeedQuad: {Name: "high-speed-quad", Capacity: 2400, Cabins: 16, Speed: 5.0},
	HighSpeedSix:  {Name: "high-speed-six", Capacity: 3000, Cabins: 16, Speed: 5.5},
	Quad:          {Name: "quad", Capacity: 1800, Cabins: 20, Speed: 2.3},
	Triple:        {Name: "triple", Capacity: 1500, Cabins: 20, Speed: 2.1},
	Double:        {Name: "double", Capacity: 1200, Cabins: 24, Speed: 1.8},
}

// Spec returns the defaults for t.
func (t Type) Spec() TypeSpec {
	if t < Gondola || t > Double {
		return typeSpecs[Double]
	}
	return typeSpecs[t]
}

func (t Type) String() string {
	if t < Gondola || t > Double {
		return fmt.Sprintf("lift-type(%d)", int(t))
	}
	return typeSpecs[t].Name
}

// ParseType parses a lift type name such as "gondola" or "high-speed-quad".
func ParseType(s string) (Type, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, spec := range typeSpecs {
		if spec.Name == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lift type %q", s)
}
