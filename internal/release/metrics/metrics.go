package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for release management.
type Metrics struct {
	ReleasesCreated *prometheus.CounterVec
	PolicyChanges   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ReleasesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clms_releases_created_total",
			Help: "Releases recorded, by release type",
		}, []string{"type"}),
		PolicyChanges: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clms_policy_changes_published_total",
			Help: "Policy changes published against the latest release",
		}),
	}
}

func (m *Metrics) IncrementReleasesCreated(releaseType string) {
	if m != nil {
		m.ReleasesCreated.WithLabelValues(releaseType).Inc()
	}
}

func (m *Metrics) IncrementPolicyChanges() {
	if m != nil {
		m.PolicyChanges.Inc()
	}
}
