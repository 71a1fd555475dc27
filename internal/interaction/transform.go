package interaction

import (
	"math"

	"CandleScope/internal/render"
)

// Transform is the zoom/pan view: scale K followed by translation (X, Y),
// in plot pixels.
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the rest transform.
var Identity = Transform{K: 1}

// Zoomed reports whether the view is magnified.
func (t Transform) Zoomed() bool { return t.K > 1 }

// Affine converts the view into a group transform.
func (t Transform) Affine() render.Affine {
	return render.Affine{K: t.K, X: t.X, Y: t.Y}
}

// Invert maps a plot point back to unzoomed coordinates.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

// TranslateBy pans by (dx, dy) plot pixels.
func (t Transform) TranslateBy(dx, dy float64) Transform {
	return Transform{K: t.K, X: t.X + dx, Y: t.Y + dy}
}

// Bounds limit the scale factor and keep the viewport inside the extent.
type Bounds struct {
	MinK, MaxK float64
	// Extent is [[X0, Y0], [X1, Y1]] in plot pixels.
	X0, Y0, X1, Y1 float64
}

// NewBounds covers a plot of w×h pixels.
func NewBounds(minK, maxK, w, h float64) Bounds {
	return Bounds{MinK: minK, MaxK: maxK, X1: w, Y1: h}
}

// Constrain clamps K into [MinK, MaxK] and shifts the translation so the
// extent always covers the viewport. Constrain(Constrain(t)) == Constrain(t).
func (b Bounds) Constrain(t Transform) Transform {
	if math.IsNaN(t.K) || t.K <= 0 {
		t.K = b.MinK
	}
	t.K = math.Min(math.Max(t.K, b.MinK), b.MaxK)
	if math.IsNaN(t.X) {
		t.X = 0
	}
	if math.IsNaN(t.Y) {
		t.Y = 0
	}
	t.X = constrainAxis(t.X, t.K, b.X0, b.X1)
	t.Y = constrainAxis(t.Y, t.K, b.Y0, b.Y1)
	return t
}

// ScaleBy multiplies K by factor, keeping the plot point (px, py) fixed.
// K is clamped before anchoring, so a wheel past the limit leaves the view where it is.
func (b Bounds) ScaleBy(t Transform, factor, px, py float64) Transform {
	k := math.Min(math.Max(t.K*factor, b.MinK), b.MaxK)
	x0, y0 := t.Invert(px, py)
	return b.Constrain(Transform{K: k, X: px - x0*k, Y: py - y0*k})
}

// constrainAxis mirrors the usual zoom behaviour: when the zoomed extent is
// smaller than the viewport it is centred, otherwise the nearest edge is pinned.
func constrainAxis(t, k, lo, hi float64) float64 {
	d0 := (lo-t)/k - lo
	d1 := (hi-t)/k - hi
	var d float64
	switch {
	case d1 > d0:
		d = (d0 + d1) / 2
	case d0 < 0:
		d = d0
	default:
		d = math.Max(0, d1)
	}
	return t + k*d
}
