// Package observability provides the Prometheus metrics of the daemon.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the daemon.
type Metrics struct {
	TransfersTotal          *prometheus.CounterVec
	TransfersRejectedTotal  *prometheus.CounterVec
	TaxCollectedTotal       prometheus.Counter
	ConversionsTotal        prometheus.Counter
	ConversionFailuresTotal prometheus.Counter
}

// NewMetrics creates a Metrics instance registered on the default registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "liquifyd"
	}

	return &Metrics{
		TransfersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Number of executed transfers by kind.",
		}, []string{"kind"}),
		TransfersRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_rejected_total",
			Help:      "Number of rejected transfers by reason.",
		}, []string{"reason"}),
		TaxCollectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tax_collected_units_total",
			Help:      "Token units withheld as tax, in whole units.",
		}),
		ConversionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Number of completed swap-and-liquify runs.",
		}),
		ConversionFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_failures_total",
			Help:      "Number of swap-and-liquify runs aborted by router errors.",
		}),
	}
}
