package compliance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks audit persistence. A nil *Metrics is a no-op.
type Metrics struct {
	EventsEmitted   *prometheus.CounterVec
	PersistFailures *prometheus.CounterVec
	PersistLatency  prometheus.Histogram
}

// NewMetrics registers the audit publisher metrics with the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clms_audit_events_emitted_total",
			Help: "Audit events persisted by action",
		}, []string{"action"}),
		PersistFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clms_audit_persist_failures_total",
			Help: "Audit events that failed to persist by action",
		}, []string{"action"}),
		PersistLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clms_audit_persist_duration_seconds",
			Help:    "Duration of synchronous audit writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
	}
}

func (m *Metrics) IncEventsEmitted(action string) {
	if m != nil {
		m.EventsEmitted.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) IncPersistFailures(action string) {
	if m != nil {
		m.PersistFailures.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) ObservePersistDuration(d time.Duration) {
	if m != nil {
		m.PersistLatency.Observe(d.Seconds())
	}
}
