package event

import (
	"github.com/prometheus/client_golang/prometheus"
)

type busMetrics struct {
	published *prometheus.CounterVec
}

func newBusMetrics(registry *prometheus.Registry) *busMetrics {
	m := &busMetrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engine_events_total",
			Help: "Domain events published, by type.",
		}, []string{"type"}),
	}
	if registry != nil {
		registry.MustRegister(m.published)
	}
	return m
}

// WithRegistry registers the bus counters with the given registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(b *Bus) {
		b.metrics = newBusMetrics(registry)
	}
}
