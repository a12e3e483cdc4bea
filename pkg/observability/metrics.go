package observability

import (
	"github.com/aretw0/vine/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records engine activity as Prometheus collectors.
type Metrics struct {
	Locks             *prometheus.CounterVec
	Emitted           *prometheus.CounterVec
	Supersteps        prometheus.Counter
	SuperstepMessages prometheus.Counter
	SuperstepDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Locks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vine",
			Name:      "traversals_locked_total",
			Help:      "Total number of traversals locked for execution.",
		}, []string{"mode"}),
		Emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vine",
			Name:      "traversers_emitted_total",
			Help:      "Total bulk emitted by root traversals, by end step.",
		}, []string{"step"}),
		Supersteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vine",
			Name:      "supersteps_total",
			Help:      "Total number of computer supersteps.",
		}),
		SuperstepMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vine",
			Name:      "superstep_messages_total",
			Help:      "Total number of traverser messages processed by supersteps.",
		}),
		SuperstepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vine",
			Name:      "superstep_duration_seconds",
			Help:      "Duration of computer supersteps.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Locks, m.Emitted, m.Supersteps, m.SuperstepMessages, m.SuperstepDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLock: func(e *domain.LockEvent) {
			m.Locks.WithLabelValues(e.Mode).Inc()
		},
		OnEmit: func(e *domain.EmitEvent) {
			m.Emitted.WithLabelValues(e.StepID).Add(float64(e.Bulk))
		},
		OnSuperstep: func(e *domain.SuperstepEvent) {
			m.Supersteps.Inc()
			m.SuperstepMessages.Add(float64(e.Messages))
			m.SuperstepDuration.Observe(e.Duration.Seconds())
		},
	}
}
