package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotAscending is returned when a series has out-of-order or duplicate trading days.
var ErrNotAscending = errors.New("series dates must be strictly increasing")

// PricePoint represents a single trading day.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Class is the colour classification shared by candles, volume bars and the tooltip.
type Class int

const (
	Bullish Class = iota
	Bearish
)

func (c Class) String() string {
	if c == Bearish {
		return "bearish"
	}
	return "bullish"
}

// Class returns Bearish when the day closed below its open; ties are bullish.
func (p PricePoint) Class() Class {
	if p.Open > p.Close {
		return Bearish
	}
	return Bullish
}

// Change is close minus open.
func (p PricePoint) Change() float64 {
	return p.Close - p.Open
}

// ChangePercent is (close/open - 1) * 100.
func (p PricePoint) ChangePercent() float64 {
	if p.Open == 0 {
		return 0
	}
	return (p.Close/p.Open - 1) * 100
}

// Series is an ordered list of trading days. Once loaded it is never mutated.
type Series []PricePoint

// Validate checks that dates are strictly increasing.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return fmt.Errorf("row %d (%s): %w", i+1, s[i].Date.Format("2006-01-02"), ErrNotAscending)
		}
	}
	return nil
}

// Last returns the most recent point.
func (s Series) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}
