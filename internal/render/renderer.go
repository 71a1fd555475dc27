package render

import (
	"math"
	"time"

	"CandleScope/internal/model"
	"CandleScope/internal/scale"
)

// KeyLayout formats the per-date key shared by every shape of one trading day.
const KeyLayout = "02-01-2006"

const (
	ClassBullishCandle = "greenCandle"
	ClassBearishCandle = "redCandle"
	ClassBullishLine   = "greenLine"
	ClassBearishLine   = "redLine"
	ClassBullishBar    = "greenBar"
	ClassBearishBar    = "redBar"
	ClassHitTarget     = "backgroundBar"
	ClassMouseLine     = "mouseLine"
	ClassDomain        = "domain"
	ClassTick          = "tick"
	ClassGrid          = "grid"
	ClassLabel         = "label"
	ClassTitle         = "title"
)

// Options controls candle geometry and axis formatting.
type Options struct {
	// CandleRatio is the share of the plot width all candle bodies may take together.
	CandleRatio float64
	// HitRatio widens the invisible hover target relative to the candle body.
	HitRatio float64
	XTicks   int
	YTicks   int
	// XLayout is the tick label layout at rest, XLayoutZoomed once zoomed in.
	XLayout       string
	XLayoutZoomed string
	Title         string
}

// DefaultOptions gives non-overlapping candles and month labels at rest.
var DefaultOptions = Options{
	CandleRatio:   0.45,
	HitRatio:      1.25,
	XTicks:        10,
	YTicks:        10,
	XLayout:       "Jan 2006",
	XLayoutZoomed: "02 Jan",
}

// Renderer turns a series and its scales into a scene.
type Renderer struct {
	layout model.Layout
	opts   Options
}

// NewRenderer creates a Renderer for a fixed surface.
func NewRenderer(layout model.Layout, opts Options) *Renderer {
	if opts.CandleRatio <= 0 {
		opts.CandleRatio = DefaultOptions.CandleRatio
	}
	if opts.HitRatio < 1 {
		opts.HitRatio = DefaultOptions.HitRatio
	}
	if opts.XTicks <= 0 {
		opts.XTicks = DefaultOptions.XTicks
	}
	if opts.YTicks <= 0 {
		opts.YTicks = DefaultOptions.YTicks
	}
	if opts.XLayout == "" {
		opts.XLayout = DefaultOptions.XLayout
	}
	if opts.XLayoutZoomed == "" {
		opts.XLayoutZoomed = DefaultOptions.XLayoutZoomed
	}
	return &Renderer{layout: layout, opts: opts}
}

// Layout returns the surface the renderer draws on.
func (r *Renderer) Layout() model.Layout { return r.layout }

// DateKey is the reconciliation key of a trading day.
func DateKey(t time.Time) string { return t.Format(KeyLayout) }

// CandleWidth keeps n candles within CandleRatio of the plot width.
func (r *Renderer) CandleWidth(n int) float64 {
	if n <= 0 {
		return 0
	}
	return r.opts.CandleRatio * r.layout.PlotWidth() / float64(n)
}

// Render draws the full scene: candles, volume, axes, hidden crosshair and title.
func (r *Renderer) Render(series model.Series, scales scale.Set) *Scene {
	sc := NewScene()
	if r.opts.Title != "" {
		sc.Add(Shape{
			Key: "title", Group: GroupTitle, Kind: Text, Class: ClassTitle,
			X: r.layout.Width - 20, Y: r.layout.Height - 80,
			Text: r.opts.Title, Anchor: AnchorEnd, Opacity: 1,
		})
	}
	sc.Add(r.Dates(series, scales)...)
	sc.Add(r.Crosshair(false, 0, 0)...)
	sc.Add(r.XAxis(scales.X, false)...)
	sc.Add(r.YAxis(scales.Y)...)
	return sc
}

// Dates draws, per trading day, the hover target, whisker, body and volume bar.
// The hover target comes first so it sits beneath the visible shapes.
func (r *Renderer) Dates(series model.Series, scales scale.Set) []Shape {
	cw := r.CandleWidth(len(series))
	hw := r.opts.HitRatio * cw
	plotH := r.layout.PlotHeight()

	out := make([]Shape, 0, 4*len(series))
	for _, p := range series {
		key := DateKey(p.Date)
		x := scales.X.Apply(p.Date)
		bearish := p.Class() == model.Bearish

		out = append(out, Shape{
			Key: key + "/hit", Group: GroupDates, Kind: Rect, Class: ClassHitTarget,
			X: x - hw/2, Y: 0, W: hw, H: r.layout.Height,
			Opacity: 0,
		})

		out = append(out, Shape{
			Key: key + "/whisker", Group: GroupDates, Kind: Line, Class: pick(bearish, ClassBearishLine, ClassBullishLine),
			X1: x, Y1: scales.Y.Apply(p.High), X2: x, Y2: scales.Y.Apply(p.Low),
			Opacity: 1,
		})

		yo, yc := scales.Y.Apply(p.Open), scales.Y.Apply(p.Close)
		out = append(out, Shape{
			Key: key + "/body", Group: GroupDates, Kind: Rect, Class: pick(bearish, ClassBearishCandle, ClassBullishCandle),
			X: x - cw/2, Y: scales.Y.Apply(math.Max(p.Open, p.Close)), W: cw, H: math.Abs(yo - yc),
			Opacity: 1,
		})

		yv := scales.Z.Apply(float64(p.Volume))
		out = append(out, Shape{
			Key: key + "/volume", Group: GroupDates, Kind: Rect, Class: pick(bearish, ClassBearishBar, ClassBullishBar),
			X: x - cw/2, Y: yv, W: cw, H: plotH - yv,
			Opacity: 1,
		})
	}
	return out
}

// Crosshair draws the horizontal and vertical guide lines in plot coordinates.
func (r *Renderer) Crosshair(visible bool, x, y float64) []Shape {
	return []Shape{
		{
			Key: "mouse/h", Group: GroupMouse, Kind: Line, Class: ClassMouseLine,
			X1: 0, Y1: y, X2: r.layout.PlotWidth(), Y2: y,
			Opacity: 1, Hidden: !visible,
		},
		{
			Key: "mouse/v", Group: GroupMouse, Kind: Line, Class: ClassMouseLine,
			X1: x, Y1: 0, X2: x, Y2: r.layout.PlotHeight(),
			Opacity: 1, Hidden: !visible,
		},
	}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
