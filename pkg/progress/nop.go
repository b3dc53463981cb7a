package progress

// NopReporter is a no-op reporter intended for tests and quiet output.
type NopReporter struct{}

// NewNopReporter creates a new no-op reporter.
func NewNopReporter() *NopReporter {
	return &NopReporter{}
}

// Start is a no-op.
func (n *NopReporter) Start(_ string, _ int64) {}

// Update is a no-op.
func (n *NopReporter) Update(_ int64) {}

// Finish is a no-op.
func (n *NopReporter) Finish() {}
