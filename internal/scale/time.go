package scale

import (
	"math"
	"time"
)

// Time maps dates onto a pixel range by linear interpolation of their timestamps.
type Time struct {
	lin Linear
}

// NewTime creates a time scale. A zero-span domain is widened to one day.
func NewTime(d0, d1 time.Time, r0, r1 float64) Time {
	if d0.Equal(d1) {
		d1 = d0.Add(24 * time.Hour)
	}
	return Time{lin: NewLinear(millis(d0), millis(d1), r0, r1)}
}

// Domain returns the date interval.
func (s Time) Domain() (time.Time, time.Time) {
	return fromMillis(s.lin.d0), fromMillis(s.lin.d1)
}

// Range returns the pixel interval.
func (s Time) Range() (float64, float64) { return s.lin.Range() }

// Apply maps a date to a pixel.
func (s Time) Apply(t time.Time) float64 {
	return s.lin.Apply(millis(t))
}

// Invert maps a pixel back to a date.
func (s Time) Invert(r float64) time.Time {
	return fromMillis(s.lin.Invert(r))
}

// Rescale returns a copy whose domain is what the range shows under x' = k*x + t.
func (s Time) Rescale(k, t float64) Time {
	return Time{lin: s.lin.Rescale(k, t)}
}

// Ticks returns calendar-aligned dates across the domain, about count of them.
func (s Time) Ticks(count int) []time.Time {
	d0, d1 := s.Domain()
	return timeTicks(d0, d1, count)
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func fromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}
