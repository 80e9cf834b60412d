package model

import (
	"github.com/prometheus/client_golang/prometheus"
)

type providerMetrics struct {
	completions *prometheus.CounterVec
}

func newProviderMetrics(registry *prometheus.Registry, provider string) *providerMetrics {
	m := &providerMetrics{
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "model_completions_total",
			Help:        "Completion attempts by outcome.",
			ConstLabels: prometheus.Labels{"provider": provider},
		}, []string{"outcome"}),
	}
	if registry != nil {
		registry.MustRegister(m.completions)
	}
	return m
}

func (m *providerMetrics) record(outcome string) {
	m.completions.WithLabelValues(outcome).Inc()
}
