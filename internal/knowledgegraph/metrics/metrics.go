package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the knowledge graph module.
type Metrics struct {
	GraphsReplaced  prometheus.Counter
	IndexedSkills   *prometheus.GaugeVec
	SearchLatency   prometheus.Histogram
	FlattenDuration prometheus.Histogram
}

// New creates a new Metrics instance with all knowledge graph metrics registered.
func New() *Metrics {
	return &Metrics{
		GraphsReplaced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clms_knowledge_graphs_replaced_total",
			Help: "Knowledge graphs written or replaced",
		}),
		IndexedSkills: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "clms_knowledge_graph_indexed_skills",
			Help: "Flattened skills currently indexed per graph",
		}, []string{"graph_id"}),
		SearchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clms_skill_search_duration_seconds",
			Help:    "Duration of skill autocomplete searches",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		FlattenDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clms_knowledge_graph_flatten_duration_seconds",
			Help:    "Duration of full graph index rebuilds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
}

func (m *Metrics) IncrementGraphsReplaced() {
	if m != nil {
		m.GraphsReplaced.Inc()
	}
}

func (m *Metrics) SetIndexedSkills(graphID string, n int) {
	if m != nil {
		m.IndexedSkills.WithLabelValues(graphID).Set(float64(n))
	}
}

func (m *Metrics) ObserveSearch(d time.Duration) {
	if m != nil {
		m.SearchLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveFlatten(d time.Duration) {
	if m != nil {
		m.FlattenDuration.Observe(d.Seconds())
	}
}
