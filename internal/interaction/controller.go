package interaction

import (
	"fmt"
	"sort"

	"CandleScope/internal/format"
	"CandleScope/internal/model"
	"CandleScope/internal/render"
	"CandleScope/internal/scale"
)

// Options configures zoom limits, pointer offsets and the nested renderer.
type Options struct {
	Scale   scale.Options
	Render  render.Options
	MinZoom float64
	MaxZoom float64

	// PointerOffset is subtracted from the margin-adjusted page position.
	PointerOffset float64
	TooltipDX     float64
	TooltipDY     float64
	Currency      string
}

var DefaultOptions = Options{
	Scale:         scale.DefaultOptions,
	Render:        render.DefaultOptions,
	MinZoom:       1,
	MaxZoom:       5,
	PointerOffset: 7,
	TooltipDX:     15,
	TooltipDY:     30,
	Currency:      format.DefaultCurrency,
}

// PointerEvent carries page coordinates of the pointer.
type PointerEvent struct {
	X, Y float64
}

// ZoomEvent requests a view transform. The controller constrains it.
type ZoomEvent struct {
	Transform Transform
}

// Controller owns the pure state transitions of one chart.
type Controller struct {
	layout   model.Layout
	opts     Options
	renderer *render.Renderer
	bounds   Bounds
}

func NewController(layout model.Layout, opts Options) *Controller {
	if opts.MinZoom <= 0 {
		opts.MinZoom = DefaultOptions.MinZoom
	}
	if opts.MaxZoom < opts.MinZoom {
		opts.MaxZoom = DefaultOptions.MaxZoom
	}
	if opts.Currency == "" {
		opts.Currency = DefaultOptions.Currency
	}
	return &Controller{
		layout:   layout,
		opts:     opts,
		renderer: render.NewRenderer(layout, opts.Render),
		bounds:   NewBounds(opts.MinZoom, opts.MaxZoom, layout.PlotWidth(), layout.PlotHeight()),
	}
}

// Layout returns the surface dimensions.
func (c *Controller) Layout() model.Layout { return c.layout }

// Bounds returns the zoom limits in force.
func (c *Controller) Bounds() Bounds { return c.bounds }

// Init derives the base scales and draws the initial scene.
func (c *Controller) Init(series model.Series) (State, error) {
	if err := series.Validate(); err != nil {
		return State{}, fmt.Errorf("init chart: %w", err)
	}
	base, err := scale.Derive(series, c.layout, c.opts.Scale)
	if err != nil {
		return State{}, fmt.Errorf("init chart: %w", err)
	}
	return State{
		Series:    series,
		Base:      base,
		View:      base,
		Transform: Identity,
		Scene:     c.renderer.Render(series, base),
	}, nil
}

// PointerMove shows the crosshair at the pointer and the tooltip when the
// pointer is over a trading day. Pointer enter is handled the same way.
func (c *Controller) PointerMove(s State, ev PointerEvent) (State, render.Patch) {
	next := s.clone()
	m := c.layout.Margin
	lx := ev.X - (m.Left + c.opts.PointerOffset)
	ly := ev.Y - (m.Top + c.opts.PointerOffset)
	next.Cursor = Cursor{Visible: true, X: lx, Y: ly}
	next.Scene.ReplaceGroup(render.GroupMouse, c.renderer.Crosshair(true, lx, ly))

	if p, ok := c.hit(next, ev.X-m.Left, ev.Y-m.Top); ok {
		next.Cursor.Hovered = &p
		next.Tooltip = Tooltip{
			Visible: true,
			X:       ev.X + c.opts.TooltipDX,
			Y:       ev.Y + c.opts.TooltipDY,
			Quote:   format.NewQuote(p, c.opts.Currency),
		}
	} else {
		next.Tooltip = Tooltip{}
	}
	return next, render.Reconcile(s.Scene, next.Scene)
}

// PointerLeave hides the crosshair and the tooltip.
func (c *Controller) PointerLeave(s State) (State, render.Patch) {
	next := s.clone()
	next.Cursor.Visible = false
	next.Cursor.Hovered = nil
	next.Tooltip = Tooltip{}
	next.Scene.ReplaceGroup(render.GroupMouse, c.renderer.Crosshair(false, s.Cursor.X, s.Cursor.Y))
	return next, render.Reconcile(s.Scene, next.Scene)
}

// Zoom applies a constrained transform: X and Y are rescaled from the base
// scales, axes are redrawn and the dates group is moved as a whole.
func (c *Controller) Zoom(s State, ev ZoomEvent) (State, render.Patch) {
	t := c.bounds.Constrain(ev.Transform)
	next := s.clone()
	next.Transform = t
	next.View = scale.Set{
		X: s.Base.X.Rescale(t.K, t.X),
		Y: s.Base.Y.Rescale(t.K, t.Y),
		Z: s.Base.Z,
	}
	next.Scene.ReplaceGroup(render.GroupXAxis, c.renderer.XAxis(next.View.X, t.Zoomed()))
	next.Scene.ReplaceGroup(render.GroupYAxis, c.renderer.YAxis(next.View.Y))
	next.Scene.SetTransform(render.GroupDates, t.Affine())
	return next, render.Reconcile(s.Scene, next.Scene)
}

// hit finds the trading day whose hover target contains the plot point.
// The point is taken back through the group transform first.
func (c *Controller) hit(s State, px, py float64) (model.PricePoint, bool) {
	if len(s.Series) == 0 || s.Scene == nil {
		return model.PricePoint{}, false
	}
	gx, gy := s.Transform.Invert(px, py)
	x := s.Base.X
	i := sort.Search(len(s.Series), func(i int) bool {
		return x.Apply(s.Series[i].Date) >= gx
	})
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(s.Series) {
			continue
		}
		p := s.Series[j]
		if sh, ok := s.Scene.Get(render.DateKey(p.Date) + "/hit"); ok && sh.Contains(gx, gy) {
			return p, true
		}
	}
	return model.PricePoint{}, false
}
