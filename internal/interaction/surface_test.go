package interaction

import (
	"testing"

	"CandleScope/internal/render"
)

type fakeSurface struct {
	h Handlers
}

func (f *fakeSurface) Subscribe(h Handlers) { f.h = h }

func TestSession(t *testing.T) {
	c, s0 := setup(t)
	surface := &fakeSurface{}
	sess := c.Attach(surface, s0)

	var seen int
	sess.OnChange = func(State, render.Patch) { seen++ }

	surface.h.OnPointerMove(PointerEvent{X: 50, Y: 50})
	if st := sess.State(); !st.Cursor.Visible || st.Cursor.X != 3 {
		t.Errorf("cursor after move = %+v", st.Cursor)
	}
	if len(sess.LastPatch().Update) == 0 {
		t.Error("expected a non-empty patch")
	}

	surface.h.OnZoom(ZoomEvent{Transform: Transform{K: 3, X: -100}})
	if got := sess.State().Transform; got != (Transform{K: 3, X: -100}) {
		t.Errorf("transform = %+v", got)
	}

	surface.h.OnPointerLeave()
	if sess.State().Cursor.Visible {
		t.Error("cursor still visible after leave")
	}
	if seen != 3 {
		t.Errorf("OnChange called %d times, want 3", seen)
	}

	fresh, err := c.Init(scenario())
	if err != nil {
		t.Fatal(err)
	}
	sess.Reset(fresh)
	if got := sess.State().Transform; got != (Transform{K: 3, X: -100}) {
		t.Errorf("zoom not carried over reset: %+v", got)
	}
	if got := sess.State().Scene.Transform(render.GroupDates); got != (render.Affine{K: 3, X: -100}) {
		t.Errorf("dates transform after reset = %+v", got)
	}
}
