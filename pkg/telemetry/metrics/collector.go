package metrics

import (
	"time"

	"lipidhq/fragrules/pkg/config"
	"lipidhq/fragrules/pkg/rules/ast"
	rerrors "lipidhq/fragrules/pkg/rules/errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Compile outcomes used as the "outcome" label.
const (
	OutcomeSuccess     = "success"
	OutcomeRulesError  = "rules_error"
	OutcomeIOError     = "io_error"
	OutcomeUnspecified = "error"
)

// Collector owns every Prometheus metric exported by fragrules.
// A disabled collector accepts all calls and records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	compileMetrics *CompileMetrics
	catalogMetrics *CatalogMetrics
}

// NewCollector creates a collector and registers its metrics. If registry
// is nil a fresh registry is created.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Metrics, nil)
//	collector.RecordCompile(doc, err, time.Since(start))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:         cfg,
		registry:       registry,
		compileMetrics: NewCompileMetrics(cfg, registry),
		catalogMetrics: NewCatalogMetrics(cfg, registry),
	}
}

// Registry returns the registry the collector's metrics live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordCompile records one rule file compilation. doc is ignored when err
// is non-nil.
func (c *Collector) RecordCompile(doc *ast.RuleDocument, err error, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.compileMetrics.RecordDuration(duration)
	if err != nil {
		c.compileMetrics.RecordOutcome(Outcome(err))
		return
	}

	c.compileMetrics.RecordOutcome(OutcomeSuccess)
	if doc != nil {
		c.compileMetrics.RecordDocument(doc)
	}
}

// RecordPrune records revisions removed by one catalog prune run.
func (c *Collector) RecordPrune(removed int64) {
	if !c.config.Enabled {
		return
	}
	c.catalogMetrics.RecordPrune(removed)
}

// RecordRevision records a revision stored in the catalog. created is false
// when the content matched the latest revision and nothing was written.
func (c *Collector) RecordRevision(created bool) {
	if !c.config.Enabled {
		return
	}
	c.catalogMetrics.RecordRevision(created)
}

// Outcome maps a compile error to its outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	e, ok := rerrors.As(err)
	if !ok {
		return OutcomeUnspecified
	}
	if e.Type == rerrors.ErrorTypeIO {
		return OutcomeIOError
	}
	return OutcomeRulesError
}
