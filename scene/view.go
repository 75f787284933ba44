package scene

import "github.com/pthm-cable/skiresort/config"

// ViewState is the viewer's mutable presentation state. Core packages never
// see it; the renderer and UI share it by pointer.
type ViewState struct {
	ShowTerrain   bool
	ShowForest    bool
	ShowRuns      bool
	ShowLifts     bool
	ShowWireframe bool

	Paused    bool
	TimeScale float64

	Preset   string
	Selected *Hit
}

// NewViewState returns everything visible at the configured time scale.
func NewViewState(cfg *config.Config) *ViewState {
	scale := cfg.Viewer.TimeScale
	if scale <= 0 {
		scale = 1
	}
	return &ViewState{
		ShowTerrain: true,
		ShowForest:  true,
		ShowRuns:    true,
		ShowLifts:   true,
		TimeScale:   scale,
		Preset:      "overview",
	}
}

// Visible reports whether entities of kind k are drawn.
func (v *ViewState) Visible(k Kind) bool {
	switch k {
	case KindTerrain:
		return v.ShowTerrain
	case KindRun:
		return v.ShowRuns
	case KindLift:
		return v.ShowLifts
	case KindDecoration:
		return v.ShowForest
	}
	return false
}

// Step returns the simulated seconds for a frame of dt wall seconds.
func (v *ViewState) Step(dt float64) float64 {
	if v.Paused {
		return 0
	}
	return dt * v.TimeScale
}
