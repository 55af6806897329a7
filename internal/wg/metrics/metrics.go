package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the room registry.
type Metrics struct {
	// Current room counts per facility and status
	ZimmerStatus *prometheus.GaugeVec

	// Registry mutations by operation and outcome
	Mutations *prometheus.CounterVec
}

// New creates a new Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		ZimmerStatus: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "domusvita_zimmer_status",
			Help: "Current number of rooms per facility and status",
		}, []string{"wg", "status"}),

		Mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domusvita_zimmer_mutations_total",
			Help: "Total room registry mutations by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "conflict", "error"
	}
}

// SetZimmerStatusCount records the current room count for one facility/status pair.
func (m *Metrics) SetZimmerStatusCount(wg, status string, count int) {
	if m != nil {
		m.ZimmerStatus.WithLabelValues(wg, status).Set(float64(count))
	}
}

// IncrementMutation records one registry mutation attempt.
func (m *Metrics) IncrementMutation(operation, outcome string) {
	if m != nil {
		m.Mutations.WithLabelValues(operation, outcome).Inc()
	}
}
