package boolean

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for Boolean runs.
type Metrics struct {
	operations *prometheus.CounterVec
	phases     *prometheus.HistogramVec
	warnings   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kerf_boolean_operations_total",
			Help: "Boolean operations by operation and outcome",
		}, []string{"op", "outcome"}),
		phases: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kerf_boolean_phase_duration_seconds",
			Help:    "Duration of each pipeline phase in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		}, []string{"phase"}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kerf_boolean_warnings_total",
			Help: "Warnings raised by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phases.WithLabelValues(phase).Observe(d.Seconds())
}

func (m *Metrics) observeRun(op Operation, outcome string, warnings []Warning) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op.String(), outcome).Inc()
	for _, w := range warnings {
		m.warnings.WithLabelValues(w.Kind.String()).Inc()
	}
}
