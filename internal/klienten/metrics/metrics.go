package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the intake pipeline.
type Metrics struct {
	// Status transitions by previous and new status
	Transitions *prometheus.CounterVec

	// Klienten created
	Created prometheus.Counter

	// Rejected transitions by reason
	Rejections *prometheus.CounterVec
}

// New creates a new Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domusvita_klient_transitions_total",
			Help: "Total klient status transitions by previous and new status",
		}, []string{"vorher", "nachher"}),

		Created: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domusvita_klienten_created_total",
			Help: "Total klienten created",
		}),

		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domusvita_klient_transition_rejections_total",
			Help: "Total rejected status transitions by reason",
		}, []string{"reason"}), // reason: "invalid_state", "no_room", "terminal"
	}
}

// IncrementTransition records one successful status transition.
func (m *Metrics) IncrementTransition(vorher, nachher string) {
	if m != nil {
		m.Transitions.WithLabelValues(vorher, nachher).Inc()
	}
}

// IncrementCreated records one created klient.
func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.Created.Inc()
	}
}

// IncrementRejection records one rejected transition.
func (m *Metrics) IncrementRejection(reason string) {
	if m != nil {
		m.Rejections.WithLabelValues(reason).Inc()
	}
}
