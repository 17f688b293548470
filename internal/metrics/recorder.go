package metrics

import "time"

// ResultLabel enumerates per-target result categories for counters.
type ResultLabel string

const (
	ResultPassed ResultLabel = "passed"
	ResultFailed ResultLabel = "failed"
)

// Recorder defines observability hooks for lint runs. Implementations may
// forward to Prometheus, OpenTelemetry, etc. All methods must be safe for
// nil receivers when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	ObserveTargetDuration(kind string, d time.Duration)
	IncRunOutcome(outcome string) // outcome: passed|violations|canceled
	IncTargetResult(kind string, result ResultLabel)
	SetTargetsDiscovered(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)            {}
func (NoopRecorder) ObserveTargetDuration(string, time.Duration) {}
func (NoopRecorder) IncRunOutcome(string)                        {}
func (NoopRecorder) IncTargetResult(string, ResultLabel)         {}
func (NoopRecorder) SetTargetsDiscovered(int)                    {}
