package runs

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty grades a run. Higher values are harder.
type Difficulty int

const (
	Green Difficulty = iota
	Blue
	Black
	DoubleBlack
)

// Difficulties lists every grade from easiest to hardest.
var Difficulties = []Difficulty{Green, Blue, Black, DoubleBlack}

var difficultyNames = [...]string{"green", "blue", "black", "double-black"}

func (d Difficulty) String() string {
	if d < Green || d > DoubleBlack {
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// ParseDifficulty accepts "green", "blue", "black" and "double-black"
// (case-insensitive; "double_black" and "doubleblack" are also accepted).
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	case "black":
		return Black, nil
	case "double-black", "double_black", "doubleblack":
		return DoubleBlack, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(b []byte) error {
	v, err := ParseDifficulty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ErrInvalidWidths is returned when a width table is not usable.
var ErrInvalidWidths = errors.New("runs: invalid width table")

// WidthTable maps difficulty to ribbon width.
type WidthTable struct {
	Green       float64 `yaml:"green"`
	Blue        float64 `yaml:"blue"`
	Black       float64 `yaml:"black"`
	DoubleBlack float64 `yaml:"double_black"`
}

// DefaultWidths returns the bundled width policy.
func DefaultWidths() WidthTable {
	return WidthTable{Green: 14, Blue: 12, Black: 10, DoubleBlack: 8}
}

// For returns the width for d. Unknown grades get the narrowest width.
func (w WidthTable) For(d Difficulty) float64 {
	switch d {
	case Green:
		return w.Green
	case Blue:
		return w.Blue
	case Black:
		return w.Black
	default:
		return w.DoubleBlack
	}
}

// Validate checks widths are positive and never grow with difficulty.
func (w WidthTable) Validate() error {
	prev := w.For(Green)
	for _, d := range Difficulties {
		width := w.For(d)
		if width <= 0 {
			return fmt.Errorf("%w: %s width must be positive, got %g", ErrInvalidWidths, d, width)
		}
		if width > prev {
			return fmt.Errorf("%w: %s width %g exceeds easier grade width %g", ErrInvalidWidths, d, width, prev)
		}
		prev = width
	}
	return nil
}
