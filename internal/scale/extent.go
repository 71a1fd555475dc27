package scale

import (
	"errors"
	"math"
	"time"

	"CandleScope/internal/model"
)

// ErrEmptySeries is returned when no points are available to derive a domain from.
var ErrEmptySeries = errors.New("series is empty")

// PriceExtent scans the series and returns the lowest low and the highest high.
func PriceExtent(series model.Series) (low, high float64, err error) {
	if len(series) == 0 {
		return 0, 0, ErrEmptySeries
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, p := range series {
		if p.Low < low {
			low = p.Low
		}
		if p.High > high {
			high = p.High
		}
	}
	return low, high, nil
}

// VolumeExtent returns the smallest and largest traded volume.
func VolumeExtent(series model.Series) (lo, hi int64, err error) {
	if len(series) == 0 {
		return 0, 0, ErrEmptySeries
	}
	lo, hi = series[0].Volume, series[0].Volume
	for _, p := range series[1:] {
		if p.Volume < lo {
			lo = p.Volume
		}
		if p.Volume > hi {
			hi = p.Volume
		}
	}
	return lo, hi, nil
}

// DateExtent returns the first and last trading day. The series need not be sorted.
func DateExtent(series model.Series) (first, last time.Time, err error) {
	if len(series) == 0 {
		return time.Time{}, time.Time{}, ErrEmptySeries
	}
	first, last = series[0].Date, series[0].Date
	for _, p := range series[1:] {
		if p.Date.Before(first) {
			first = p.Date
		}
		if p.Date.After(last) {
			last = p.Date
		}
	}
	return first, last, nil
}
