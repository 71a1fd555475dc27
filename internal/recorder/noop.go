package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRender(_ *RenderEvent) error      { return nil }
func (n *NoopRecorder) RecordLoadFailure(_ *LoadFailure) error { return nil }
func (n *NoopRecorder) LastRender() (*RenderEvent, error)      { return nil, nil }
func (n *NoopRecorder) Close() error                           { return nil }
