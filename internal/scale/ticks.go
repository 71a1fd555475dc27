package scale

import (
	"math"
	"sort"
	"time"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickSpec picks a 1, 2 or 5 * 10^n step. A negative inc means ticks are i / -inc,
// which keeps fractional ticks free of rounding noise.
func tickSpec(start, stop float64, count int) (i1, i2, inc float64) {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		return i1, i2, -inc
	}
	inc = math.Pow(10, power) * factor
	i1 = math.Round(start / inc)
	i2 = math.Round(stop / inc)
	if i1*inc < start {
		i1++
	}
	if i2*inc > stop {
		i2--
	}
	return i1, i2, inc
}

func ticks(start, stop float64, count int) []float64 {
	if count <= 0 || start == stop || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	i1, i2, inc := tickSpec(start, stop, count)
	if i2 < i1 || math.IsInf(inc, 0) || inc == 0 {
		return nil
	}
	n := int(i2 - i1 + 1)
	out := make([]float64, n)
	for i := range out {
		if inc < 0 {
			out[i] = (i1 + float64(i)) / -inc
		} else {
			out[i] = (i1 + float64(i)) * inc
		}
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

type interval struct {
	approx time.Duration
	days   int
	weeks  bool
	months int
	years  int
}

const oneDay = 24 * time.Hour

var intervals = []interval{
	{approx: oneDay, days: 1},
	{approx: 2 * oneDay, days: 2},
	{approx: 7 * oneDay, weeks: true},
	{approx: 30 * oneDay, months: 1},
	{approx: 91 * oneDay, months: 3},
	{approx: 182 * oneDay, months: 6},
	{approx: 365 * oneDay, years: 1},
}

// timeTicks returns calendar boundaries (UTC) inside [d0, d1].
func timeTicks(d0, d1 time.Time, count int) []time.Time {
	if count <= 0 || !d1.After(d0) {
		return nil
	}
	target := d1.Sub(d0) / time.Duration(count)
	// Pick the interval whose duration is closest (by ratio) to the target step.
	i := sort.Search(len(intervals), func(i int) bool { return intervals[i].approx > target })
	var iv interval
	switch {
	case i == 0:
		iv = intervals[0]
	case i == len(intervals):
		iv = interval{years: int(math.Max(1, math.Round(float64(target)/float64(365*oneDay))))}
	case float64(target)/float64(intervals[i-1].approx) < float64(intervals[i].approx)/float64(target):
		iv = intervals[i-1]
	default:
		iv = intervals[i]
	}

	d0, d1 = d0.UTC(), d1.UTC()
	var out []time.Time
	switch {
	case iv.days > 0:
		t := time.Date(d0.Year(), d0.Month(), d0.Day(), 0, 0, 0, 0, time.UTC)
		for ; !t.After(d1); t = t.AddDate(0, 0, iv.days) {
			if !t.Before(d0) {
				out = append(out, t)
			}
		}
	case iv.weeks:
		t := time.Date(d0.Year(), d0.Month(), d0.Day(), 0, 0, 0, 0, time.UTC)
		t = t.AddDate(0, 0, -int(t.Weekday()))
		for ; !t.After(d1); t = t.AddDate(0, 0, 7) {
			if !t.Before(d0) {
				out = append(out, t)
			}
		}
	case iv.months > 0:
		m := (int(d0.Month()) - 1) / iv.months * iv.months
		t := time.Date(d0.Year(), time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
		for ; !t.After(d1); t = t.AddDate(0, iv.months, 0) {
			if !t.Before(d0) {
				out = append(out, t)
			}
		}
	default:
		y := d0.Year() / iv.years * iv.years
		t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		for ; !t.After(d1); t = t.AddDate(iv.years, 0, 0) {
			if !t.Before(d0) {
				out = append(out, t)
			}
		}
	}
	return out
}
