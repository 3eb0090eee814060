package metrics

import (
	"lipidhq/fragrules/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks the revision catalog.
//
// Metrics:
//   - fragrules_catalog_revisions_total: Put calls by result (created, unchanged)
//   - fragrules_catalog_revisions_pruned_total: revisions removed by pruning
type CatalogMetrics struct {
	revisionsTotal *prometheus.CounterVec
	prunedTotal    prometheus.Counter
}

// NewCatalogMetrics creates and registers catalog metrics with the provided registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		revisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_revisions_total",
				Help:      "Revisions offered to the catalog, by result",
			},
			[]string{"result"},
		),
		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_revisions_pruned_total",
				Help:      "Total number of catalog revisions removed by retention pruning",
			},
		),
	}

	registry.MustRegister(cm.revisionsTotal, cm.prunedTotal)
	return cm
}

// RecordRevision counts one Put.
func (cm *CatalogMetrics) RecordRevision(created bool) {
	result := "unchanged"
	if created {
		result = "created"
	}
	cm.revisionsTotal.WithLabelValues(result).Inc()
}

// RecordPrune adds removed to the pruned counter.
func (cm *CatalogMetrics) RecordPrune(removed int64) {
	if removed > 0 {
		cm.prunedTotal.Add(float64(removed))
	}
}
