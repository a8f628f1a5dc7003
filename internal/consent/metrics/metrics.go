package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for consent tracking.
type Metrics struct {
	Checks   *prometheus.CounterVec
	Accepted *prometheus.CounterVec
	Resets   prometheus.Counter
}

// New creates a new Metrics instance with all consent metrics registered.
func New() *Metrics {
	return &Metrics{
		Checks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clms_consent_checks_total",
			Help: "Consent checks by result",
		}, []string{"needs_consent"}),
		Accepted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clms_consent_accepted_total",
			Help: "Terms acceptances by policy version",
		}, []string{"version"}),
		Resets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clms_consent_resets_total",
			Help: "Consent records removed",
		}),
	}
}

func (m *Metrics) ObserveCheck(needsConsent bool) {
	if m == nil {
		return
	}
	label := "false"
	if needsConsent {
		label = "true"
	}
	m.Checks.WithLabelValues(label).Inc()
}

func (m *Metrics) IncrementAccepted(version string) {
	if m != nil {
		m.Accepted.WithLabelValues(version).Inc()
	}
}

func (m *Metrics) IncrementResets() {
	if m != nil {
		m.Resets.Inc()
	}
}
