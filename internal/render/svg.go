package render

import (
	"fmt"
	"html"
	"io"
	"math"

	"CandleScope/internal/model"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Style maps shape classes to colours.
type Style struct {
	Bullish    drawing.Color
	Bearish    drawing.Color
	Axis       drawing.Color
	Grid       drawing.Color
	MouseLine  drawing.Color
	Label      drawing.Color
	Title      drawing.Color
	FontSize   float64
	TitleSize  float64
	LineWidth  float64
	MouseWidth float64
}

// DefaultStyle mirrors the classic green/red candlestick palette.
var DefaultStyle = Style{
	Bullish:    drawing.ColorFromHex("2ca02c"),
	Bearish:    drawing.ColorFromHex("d62728"),
	Axis:       drawing.ColorFromHex("000000"),
	Grid:       drawing.ColorFromHex("e0e0e0"),
	MouseLine:  drawing.ColorFromHex("808080"),
	Label:      drawing.ColorFromHex("333333"),
	Title:      drawing.ColorFromHex("c8c8c8"),
	FontSize:   fontSize,
	TitleSize:  48,
	LineWidth:  1,
	MouseWidth: 0.5,
}

func (st Style) color(class string) drawing.Color {
	switch class {
	case ClassBullishCandle, ClassBullishLine, ClassBullishBar:
		return st.Bullish
	case ClassBearishCandle, ClassBearishLine, ClassBearishBar:
		return st.Bearish
	case ClassGrid:
		return st.Grid
	case ClassMouseLine:
		return st.MouseLine
	case ClassLabel:
		return st.Label
	case ClassTitle:
		return st.Title
	default:
		return st.Axis
	}
}

// groupOrigin is where a group's (0,0) sits on the surface.
func groupOrigin(l model.Layout, g Group) (float64, float64) {
	switch g {
	case GroupTitle:
		return 0, 0
	case GroupXAxis:
		return l.Margin.Left, l.Height - l.Margin.Bottom
	default:
		return l.Margin.Left, l.Margin.Top
	}
}

// WriteSVG serialises the scene. Hidden and fully transparent shapes are skipped,
// and the dates group is clipped horizontally to the plot.
func WriteSVG(w io.Writer, sc *Scene, l model.Layout, st Style) error {
	r, err := chart.SVG(int(l.Width), int(l.Height))
	if err != nil {
		return fmt.Errorf("create svg renderer: %w", err)
	}

	for _, g := range drawOrder {
		ox, oy := groupOrigin(l, g)
		tf := sc.Transform(g)
		for _, s := range sc.Group(g) {
			if s.Hidden || s.Opacity == 0 {
				continue
			}
			s = transformShape(s, tf)
			if g == GroupDates && outsidePlot(s, l.PlotWidth()) {
				continue
			}
			drawShape(r, s, ox, oy, st)
		}
	}

	if err := r.Save(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func transformShape(s Shape, a Affine) Shape {
	if a == Identity {
		return s
	}
	s.X, s.Y = a.Apply(s.X, s.Y)
	s.W, s.H = s.W*a.K, s.H*a.K
	s.X1, s.Y1 = a.Apply(s.X1, s.Y1)
	s.X2, s.Y2 = a.Apply(s.X2, s.Y2)
	return s
}

func outsidePlot(s Shape, plotW float64) bool {
	switch s.Kind {
	case Rect:
		return s.X+s.W < 0 || s.X > plotW
	case Line:
		return math.Max(s.X1, s.X2) < 0 || math.Min(s.X1, s.X2) > plotW
	default:
		return s.X < 0 || s.X > plotW
	}
}

func round(v float64) int { return int(math.Round(v)) }

func drawShape(r chart.Renderer, s Shape, ox, oy float64, st Style) {
	c := st.color(s.Class)
	if s.Opacity < 1 {
		c = c.WithAlpha(uint8(math.Round(s.Opacity * 255)))
	}
	r.ResetStyle()

	switch s.Kind {
	case Rect:
		x0, y0 := round(ox+s.X), round(oy+s.Y)
		x1, y1 := round(ox+s.X+s.W), round(oy+s.Y+s.H)
		if y1 == y0 {
			// keep doji bodies visible as a one-pixel bar
			y1 = y0 + 1
		}
		r.SetFillColor(c)
		r.SetStrokeColor(c)
		r.SetStrokeWidth(0)
		r.MoveTo(x0, y0)
		r.LineTo(x1, y0)
		r.LineTo(x1, y1)
		r.LineTo(x0, y1)
		r.LineTo(x0, y0)
		r.Close()
		r.Fill()
	case Line:
		width := st.LineWidth
		if s.Class == ClassMouseLine {
			width = st.MouseWidth
			r.SetStrokeDashArray([]float64{4, 4})
		}
		r.SetStrokeColor(c)
		r.SetStrokeWidth(width)
		r.MoveTo(round(ox+s.X1), round(oy+s.Y1))
		r.LineTo(round(ox+s.X2), round(oy+s.Y2))
		r.Stroke()
	case Text:
		size := st.FontSize
		if s.Class == ClassTitle {
			size = st.TitleSize
		}
		r.SetFontColor(c)
		r.SetFontSize(size)
		x := ox + s.X
		// no font metrics are loaded, so estimate the advance width
		est := float64(len([]rune(s.Text))) * size * 0.6
		switch s.Anchor {
		case AnchorMiddle:
			x -= est / 2
		case AnchorEnd:
			x -= est
		}
		// the renderer writes text bodies verbatim
		r.Text(html.EscapeString(s.Text), round(x), round(oy+s.Y))
	}
}
