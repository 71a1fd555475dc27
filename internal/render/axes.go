package render

import (
	"strconv"

	"CandleScope/internal/scale"

	"github.com/dustin/go-humanize"
)

const (
	tickSize    = 6
	tickPadding = 3
	fontSize    = 10.0
)

// XAxis draws the bottom axis. Labels switch to day granularity once zoomed.
func (r *Renderer) XAxis(x scale.Time, zoomed bool) []Shape {
	w := r.layout.PlotWidth()
	layout := r.opts.XLayout
	if zoomed {
		layout = r.opts.XLayoutZoomed
	}

	out := []Shape{{
		Key: "x/domain", Group: GroupXAxis, Kind: Line, Class: ClassDomain,
		X1: 0, Y1: 0, X2: w, Y2: 0, Opacity: 1,
	}}
	for _, t := range x.Ticks(r.opts.XTicks) {
		px := x.Apply(t)
		if px < 0 || px > w {
			continue
		}
		key := "x/" + strconv.FormatInt(t.Unix(), 10)
		out = append(out,
			Shape{
				Key: key + "/tick", Group: GroupXAxis, Kind: Line, Class: ClassTick,
				X1: px, Y1: 0, X2: px, Y2: tickSize, Opacity: 1,
			},
			Shape{
				Key: key + "/label", Group: GroupXAxis, Kind: Text, Class: ClassLabel,
				X: px, Y: tickSize + tickPadding + fontSize, Text: t.Format(layout),
				Anchor: AnchorMiddle, Opacity: 1,
			},
		)
	}
	return out
}

// YAxis draws the left axis with grid lines spanning the plot width.
func (r *Renderer) YAxis(y scale.Linear) []Shape {
	w, h := r.layout.PlotWidth(), r.layout.PlotHeight()

	out := []Shape{{
		Key: "y/domain", Group: GroupYAxis, Kind: Line, Class: ClassDomain,
		X1: 0, Y1: 0, X2: 0, Y2: h, Opacity: 1,
	}}
	for _, v := range y.Ticks(r.opts.YTicks) {
		py := y.Apply(v)
		if py < 0 || py > h {
			continue
		}
		key := "y/" + strconv.FormatFloat(v, 'f', -1, 64)
		out = append(out,
			Shape{
				Key: key + "/grid", Group: GroupYAxis, Kind: Line, Class: ClassGrid,
				X1: 0, Y1: py, X2: w, Y2: py, Opacity: 1,
			},
			Shape{
				Key: key + "/label", Group: GroupYAxis, Kind: Text, Class: ClassLabel,
				X: -(tickSize + tickPadding), Y: py + fontSize/3, Text: humanize.Commaf(v),
				Anchor: AnchorEnd, Opacity: 1,
			},
		)
	}
	return out
}
