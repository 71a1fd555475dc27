package model

// Margin reserves space around the plot for the axes.
type Margin struct {
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
}

// Layout is the fixed logical resolution of the chart surface.
type Layout struct {
	Width  float64
	Height float64
	Margin Margin
}

// DefaultMargin is the margin band used by both variants.
var DefaultMargin = Margin{Top: 10, Bottom: 40, Left: 40, Right: 10}

// Variants maps a layout name to its surface size.
var Variants = map[string]Layout{
	"compact": {Width: 1100, Height: 600, Margin: DefaultMargin},
	"wide":    {Width: 1200, Height: 700, Margin: DefaultMargin},
}

// PlotWidth is the width left for the plot once the margins are removed.
func (l Layout) PlotWidth() float64 {
	return l.Width - l.Margin.Left - l.Margin.Right
}

// PlotHeight is the height left for the plot once the margins are removed.
func (l Layout) PlotHeight() float64 {
	return l.Height - l.Margin.Top - l.Margin.Bottom
}
