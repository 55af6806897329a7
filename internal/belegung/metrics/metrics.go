package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the assignment coordinator.
type Metrics struct {
	// Assign/release attempts by operation and outcome
	Operations *prometheus.CounterVec

	// Time spent waiting for the per-room lock
	LockWait prometheus.Histogram

	// Compensating rollbacks after a half-applied assignment
	Rollbacks prometheus.Counter
}

// New creates a new Metrics instance with all coordinator metrics registered.
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "domusvita_belegung_operations_total",
			Help: "Total coordinator operations by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "conflict", "invalid", "timeout", "error"

		LockWait: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "domusvita_belegung_lock_wait_seconds",
			Help:    "Time spent waiting for the per-room lock",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		Rollbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "domusvita_belegung_rollbacks_total",
			Help: "Total compensating room rollbacks",
		}),
	}
}

// IncrementOperation records one coordinator operation.
func (m *Metrics) IncrementOperation(operation, outcome string) {
	if m != nil {
		m.Operations.WithLabelValues(operation, outcome).Inc()
	}
}

// ObserveLockWait records how long lock acquisition took.
func (m *Metrics) ObserveLockWait(d time.Duration) {
	if m != nil {
		m.LockWait.Observe(d.Seconds())
	}
}

// IncrementRollback records one compensating rollback.
func (m *Metrics) IncrementRollback() {
	if m != nil {
		m.Rollbacks.Inc()
	}
}
