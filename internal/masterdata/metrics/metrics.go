package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the master-data lifecycle.
type Metrics struct {
	DraftsCreated     *prometheus.CounterVec
	EntriesPublished  prometheus.Counter
	PublishOperations *prometheus.CounterVec
	PublishDuration   prometheus.Histogram
	EntriesDeleted    prometheus.Counter
}

// New creates a new Metrics instance with all master-data metrics registered.
func New() *Metrics {
	return &Metrics{
		DraftsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clms_masterdata_drafts_created_total",
			Help: "Draft entries created, by creation mode",
		}, []string{"mode"}),
		EntriesPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clms_masterdata_entries_published_total",
			Help: "Entries transitioned from draft to live",
		}),
		PublishOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clms_masterdata_publish_operations_total",
			Help: "Publish attempts by outcome",
		}, []string{"outcome"}),
		PublishDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clms_masterdata_publish_duration_seconds",
			Help:    "Duration of graph publish transactions",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clms_masterdata_entries_soft_deleted_total",
			Help: "Entries soft-deleted",
		}),
	}
}

func (m *Metrics) IncrementDraftsCreated(mode string, n int) {
	if m != nil {
		m.DraftsCreated.WithLabelValues(mode).Add(float64(n))
	}
}

// ObservePublish records one publish attempt. outcome is "published",
// "nothing_to_publish" or "failed".
func (m *Metrics) ObservePublish(outcome string, published int, d time.Duration) {
	if m == nil {
		return
	}
	m.PublishOperations.WithLabelValues(outcome).Inc()
	m.PublishDuration.Observe(d.Seconds())
	if published > 0 {
		m.EntriesPublished.Add(float64(published))
	}
}

func (m *Metrics) IncrementEntriesDeleted() {
	if m != nil {
		m.EntriesDeleted.Inc()
	}
}
