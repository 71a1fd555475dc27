package model

import (
	"errors"
	"testing"
	"time"
)

func day(d, m, y int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestClass_TieIsBullish(t *testing.T) {
	tests := []struct {
		open, close float64
		want        Class
	}{
		{100, 105, Bullish},
		{105, 102, Bearish},
		{100, 100, Bullish},
	}
	for _, tt := range tests {
		p := PricePoint{Open: tt.open, Close: tt.close}
		if got := p.Class(); got != tt.want {
			t.Errorf("open=%.0f close=%.0f: expected %v, got %v", tt.open, tt.close, tt.want, got)
		}
	}
}

func TestChangePercent(t *testing.T) {
	p := PricePoint{Open: 100, Close: 105}
	if p.Change() != 5 {
		t.Errorf("expected change 5, got %.2f", p.Change())
	}
	if got := p.ChangePercent(); got < 4.9999 || got > 5.0001 {
		t.Errorf("expected 5%%, got %.4f", got)
	}
}

func TestSeriesValidate(t *testing.T) {
	ok := Series{{Date: day(1, 1, 2021)}, {Date: day(2, 1, 2021)}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := Series{{Date: day(1, 1, 2021)}, {Date: day(1, 1, 2021)}}
	if err := dup.Validate(); !errors.Is(err, ErrNotAscending) {
		t.Errorf("expected ErrNotAscending for duplicate day, got %v", err)
	}

	back := Series{{Date: day(2, 1, 2021)}, {Date: day(1, 1, 2021)}}
	if err := back.Validate(); !errors.Is(err, ErrNotAscending) {
		t.Errorf("expected ErrNotAscending for descending days, got %v", err)
	}
}

func TestLayoutPlotSize(t *testing.T) {
	l := Variants["compact"]
	if l.PlotWidth() != 1050 || l.PlotHeight() != 550 {
		t.Errorf("expected 1050x550 plot, got %.0fx%.0f", l.PlotWidth(), l.PlotHeight())
	}
}
