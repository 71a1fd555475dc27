package scale

// Linear maps a continuous domain onto a pixel range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale. A zero-span domain is widened to one unit.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	if d0 == d1 {
		d1 = d0 + 1
	}
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the input interval.
func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the output interval.
func (s Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Apply maps a domain value to the range. Extremes map exactly onto the range ends.
func (s Linear) Apply(v float64) float64 {
	return lerp(s.r0, s.r1, (v-s.d0)/(s.d1-s.d0))
}

// Invert maps a range value back to the domain.
func (s Linear) Invert(r float64) float64 {
	if s.r0 == s.r1 {
		return s.d0
	}
	return lerp(s.d0, s.d1, (r-s.r0)/(s.r1-s.r0))
}

// Rescale returns a copy whose domain is what the range shows under x' = k*x + t.
func (s Linear) Rescale(k, t float64) Linear {
	lo := s.Invert((s.r0 - t) / k)
	hi := s.Invert((s.r1 - t) / k)
	return NewLinear(lo, hi, s.r0, s.r1)
}

// Ticks returns round values across the domain, about count of them.
func (s Linear) Ticks(count int) []float64 {
	return ticks(s.d0, s.d1, count)
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
