package recorder

import "time"

// RenderEvent describes one successful chart refresh.
type RenderEvent struct {
	Source    string
	Points    int
	FirstDate time.Time
	LastDate  time.Time
	LastClose float64
	SVGPath   string
	Bytes     int
	Duration  time.Duration
}

// LoadFailure records a refresh that could not load or render the series.
type LoadFailure struct {
	Source string
	Err    string
}

// Recorder persists refresh history.
type Recorder interface {
	RecordRender(evt *RenderEvent) error
	RecordLoadFailure(evt *LoadFailure) error
	// LastRender returns the most recent render, or nil when none was recorded.
	LastRender() (*RenderEvent, error)
	Close() error
}
