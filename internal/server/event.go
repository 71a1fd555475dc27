package server

import (
	"errors"
	"fmt"
	"math"

	"CandleScope/internal/interaction"
	"CandleScope/internal/render"
)

const (
	evPointerEnter = "pointerenter"
	evPointerMove  = "pointermove"
	evPointerLeave = "pointerleave"
	evZoom         = "zoom"
	evWheel        = "wheel"
	evPan          = "pan"
)

// eventRequest is the body of POST /events. Pointer coordinates are page
// coordinates; zoom x/y are the requested translation.
type eventRequest struct {
	Type   string   `json:"type"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	K      *float64 `json:"k,omitempty"`
	Factor *float64 `json:"factor,omitempty"`
	DX     *float64 `json:"dx,omitempty"`
	DY     *float64 `json:"dy,omitempty"`
}

var errMissingField = errors.New("missing field")

func (r eventRequest) validate() error {
	for name, v := range map[string]*float64{"x": r.X, "y": r.Y, "k": r.K, "factor": r.Factor, "dx": r.DX, "dy": r.DY} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("field %s: not a finite number", name)
		}
	}
	switch r.Type {
	case evPointerEnter, evPointerMove:
		if r.X == nil || r.Y == nil {
			return fmt.Errorf("%s needs x and y: %w", r.Type, errMissingField)
		}
	case evPointerLeave:
	case evZoom:
		if r.K == nil {
			return fmt.Errorf("zoom needs k: %w", errMissingField)
		}
	case evWheel:
		if r.Factor == nil {
			return fmt.Errorf("wheel needs factor: %w", errMissingField)
		}
		if *r.Factor <= 0 {
			return fmt.Errorf("wheel factor must be positive, got %v", *r.Factor)
		}
	case evPan:
		if r.DX == nil && r.DY == nil {
			return fmt.Errorf("pan needs dx or dy: %w", errMissingField)
		}
	case "":
		return fmt.Errorf("type: %w", errMissingField)
	default:
		return fmt.Errorf("unknown event type %q", r.Type)
	}
	return nil
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// view is the JSON shape of the session state.
type view struct {
	Transform interaction.Transform `json:"transform"`
	Crosshair interaction.Cursor    `json:"crosshair"`
	Tooltip   interaction.Tooltip   `json:"tooltip"`
	Patch     patchCounts           `json:"patch"`
}

type patchCounts struct {
	Enter      int `json:"enter"`
	Update     int `json:"update"`
	Exit       int `json:"exit"`
	Transforms int `json:"transforms"`
}

func newView(st interaction.State, p render.Patch) view {
	return view{
		Transform: st.Transform,
		Crosshair: st.Cursor,
		Tooltip:   st.Tooltip,
		Patch: patchCounts{
			Enter:      len(p.Enter),
			Update:     len(p.Update),
			Exit:       len(p.Exit),
			Transforms: len(p.Transforms),
		},
	}
}
