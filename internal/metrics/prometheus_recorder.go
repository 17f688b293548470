package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	runDuration       prom.Histogram
	targetDuration    *prom.HistogramVec
	runOutcomes       *prom.CounterVec
	targetResults     *prom.CounterVec
	targetsDiscovered prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "doclint",
			Name:      "run_duration_seconds",
			Help:      "Total lint run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.targetDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "doclint",
			Name:      "target_duration_seconds",
			Help:      "Duration of individual target invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "doclint",
			Name:      "run_outcomes_total",
			Help:      "Lint run outcomes by final status",
		}, []string{"outcome"})
		pr.targetResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "doclint",
			Name:      "target_results_total",
			Help:      "Target result counts by kind and outcome",
		}, []string{"kind", "result"})
		pr.targetsDiscovered = prom.NewGauge(prom.GaugeOpts{
			Namespace: "doclint",
			Name:      "targets_discovered",
			Help:      "Target count from the most recent discovery",
		})
		reg.MustRegister(pr.runDuration, pr.targetDuration, pr.runOutcomes, pr.targetResults, pr.targetsDiscovered)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveTargetDuration(kind string, d time.Duration) {
	if p == nil || p.targetDuration == nil {
		return
	}
	p.targetDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	p.runOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncTargetResult(kind string, result ResultLabel) {
	if p == nil || p.targetResults == nil {
		return
	}
	p.targetResults.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) SetTargetsDiscovered(n int) {
	if p == nil || p.targetsDiscovered == nil {
		return
	}
	p.targetsDiscovered.Set(float64(n))
}
