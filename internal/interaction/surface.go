package interaction

import "CandleScope/internal/render"

// Handlers are the callbacks a surface delivers events to. Nil handlers are
// skipped by surfaces.
type Handlers struct {
	OnPointerMove  func(PointerEvent)
	OnPointerLeave func()
	OnZoom         func(ZoomEvent)
}

// SurfaceEvents is anything that produces pointer and zoom events, one at a time.
type SurfaceEvents interface {
	Subscribe(h Handlers)
}

// Session binds a controller to one surface and holds its current State.
// It is not safe for concurrent use; surfaces deliver events serially.
type Session struct {
	ctrl  *Controller
	state State
	last  render.Patch

	// OnChange, when set, observes every transition.
	OnChange func(State, render.Patch)
}

// Attach subscribes a new session to the surface.
func (c *Controller) Attach(surface SurfaceEvents, initial State) *Session {
	s := &Session{ctrl: c, state: initial}
	surface.Subscribe(Handlers{
		OnPointerMove: func(ev PointerEvent) {
			s.apply(c.PointerMove(s.state, ev))
		},
		OnPointerLeave: func() {
			s.apply(c.PointerLeave(s.state))
		},
		OnZoom: func(ev ZoomEvent) {
			s.apply(c.Zoom(s.state, ev))
		},
	})
	return s
}

func (s *Session) apply(next State, p render.Patch) {
	s.state, s.last = next, p
	if s.OnChange != nil {
		s.OnChange(next, p)
	}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// LastPatch is the patch produced by the most recent transition.
func (s *Session) LastPatch() render.Patch { return s.last }

// Controller returns the controller driving the session.
func (s *Session) Controller() *Controller { return s.ctrl }

// Reset swaps in a freshly initialised state, e.g. after the series was
// reloaded. The current zoom is carried over; hover state is dropped.
func (s *Session) Reset(fresh State) {
	prev := s.state
	next := fresh
	if prev.Transform != Identity && prev.Transform != (Transform{}) {
		next, _ = s.ctrl.Zoom(fresh, ZoomEvent{Transform: prev.Transform})
	}
	s.apply(next, render.Reconcile(prev.Scene, next.Scene))
}
