package scale

import (
	"fmt"

	"CandleScope/internal/model"
)

// Options tune how domains are derived from a series.
type Options struct {
	// PricePadding is subtracted from the lowest low so candles clear the volume band.
	PricePadding float64
	// VolumeBand is the fraction of the plot height the volume bars may occupy.
	VolumeBand float64
}

// DefaultOptions matches the stock index chart: 200 points of padding, bottom 15% for volume.
var DefaultOptions = Options{PricePadding: 200, VolumeBand: 0.15}

// Set holds the time (x), price (y) and volume (z) scales for one chart.
type Set struct {
	X Time
	Y Linear
	Z Linear
}

// Derive computes the base scales for a series laid out on the given surface.
func Derive(series model.Series, layout model.Layout, opts Options) (Set, error) {
	first, last, err := DateExtent(series)
	if err != nil {
		return Set{}, fmt.Errorf("date extent: %w", err)
	}
	low, high, err := PriceExtent(series)
	if err != nil {
		return Set{}, fmt.Errorf("price extent: %w", err)
	}
	vlo, vhi, err := VolumeExtent(series)
	if err != nil {
		return Set{}, fmt.Errorf("volume extent: %w", err)
	}

	w, h := layout.PlotWidth(), layout.PlotHeight()
	return Set{
		X: NewTime(first, last, 0, w),
		Y: NewLinear(low-opts.PricePadding, high, h, 0),
		Z: NewLinear(float64(vlo), float64(vhi), h, h*(1-opts.VolumeBand)),
	}, nil
}
