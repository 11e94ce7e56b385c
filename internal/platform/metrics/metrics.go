package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the registration lifecycle.
type Metrics struct {
	Registrations        prometheus.Counter
	Confirmations        prometheus.Counter
	ExpiredRemoved       prometheus.Counter
	SweepDeletionFailure prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(nil)
}

// NewWithRegistry registers the metrics on the given registry. A nil registry
// uses the process-wide default. Tests pass their own registry so parallel
// suites don't collide on duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}
	return &Metrics{
		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrolld_registrations_total",
			Help: "Total number of accounts registered as pending",
		}),
		Confirmations: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrolld_confirmations_total",
			Help: "Total number of registrations confirmed to active",
		}),
		ExpiredRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrolld_expired_accounts_removed_total",
			Help: "Total number of expired pending accounts removed by sweeps",
		}),
		SweepDeletionFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrolld_sweep_deletion_failures_total",
			Help: "Total number of sweep deletions that failed and were skipped",
		}),
	}
}
