package interaction

import (
	"CandleScope/internal/format"
	"CandleScope/internal/model"
	"CandleScope/internal/render"
	"CandleScope/internal/scale"
)

// State is everything one surface displays. Handlers take a State and return
// the next one; a returned State never shares a mutable Scene with its input.
type State struct {
	Series model.Series
	// Base scales are derived once on load and are the zoom basis.
	Base scale.Set
	// View holds X and Y rescaled by Transform. Z always equals Base.Z.
	View      scale.Set
	Transform Transform
	Cursor    Cursor
	Tooltip   Tooltip
	Scene     *render.Scene
}

// Cursor is the crosshair, in plot coordinates.
type Cursor struct {
	Visible bool              `json:"visible"`
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	Hovered *model.PricePoint `json:"-"`
}

// Tooltip is the hover panel, positioned in page coordinates.
type Tooltip struct {
	Visible bool         `json:"visible"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Quote   format.Quote `json:"quote"`
}

func (s State) clone() State {
	next := s
	if s.Scene != nil {
		next.Scene = s.Scene.Clone()
	} else {
		next.Scene = render.NewScene()
	}
	return next
}
