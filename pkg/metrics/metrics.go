// Package metrics exports engine activity as Prometheus metrics.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	engine := vdom.New(doc, vdom.WithObserver(metrics.New(metrics.WithRegistry(reg))))
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	cverrors "github.com/cv-dev/cv/internal/errors"
	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/module"
	"github.com/cv-dev/cv/pkg/vdom"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "cv").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for module load duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "cv",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer records engine events. It implements vdom.Observer.
type Observer struct {
	nodesRendered  *prometheus.CounterVec
	nodesReplaced  *prometheus.CounterVec
	effectsStopped *prometheus.CounterVec
	moduleLoads    *prometheus.CounterVec
	moduleDuration prometheus.Histogram
}

// New creates an Observer and registers its metrics.
//
// Metrics collected:
//   - cv_nodes_rendered_total: document nodes produced, by node type
//   - cv_nodes_replaced_total: in-place replacements, by focus outcome
//   - cv_effects_stopped_total: subscriptions cancelled on detach, by kind
//   - cv_module_loads_total: module loads, by status
//   - cv_module_load_duration_seconds: module load duration
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Observer{
		nodesRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_rendered_total",
			Help:        "Total number of document nodes produced by rendering",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		nodesReplaced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_replaced_total",
			Help:        "Total number of in-place node replacements by focus outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"focus"}),

		effectsStopped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_stopped_total",
			Help:        "Total number of reactive subscriptions stopped after detach",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		moduleLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "module_loads_total",
			Help:        "Total number of module loads by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		moduleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "module_load_duration_seconds",
			Help:        "Module load duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// NodeRendered implements vdom.Observer.
func (o *Observer) NodeRendered(t dom.NodeType) {
	o.nodesRendered.WithLabelValues(t.String()).Inc()
}

// NodeReplaced implements vdom.Observer.
func (o *Observer) NodeReplaced(outcome vdom.FocusOutcome) {
	o.nodesReplaced.WithLabelValues(outcome.String()).Inc()
}

// EffectStopped implements vdom.Observer.
func (o *Observer) EffectStopped(kind string) {
	o.effectsStopped.WithLabelValues(kind).Inc()
}

// ModuleLoaded implements vdom.Observer.
func (o *Observer) ModuleLoaded(_ string, elapsed time.Duration, err error) {
	o.moduleDuration.Observe(elapsed.Seconds())
	o.moduleLoads.WithLabelValues(loadStatus(err)).Inc()
}

// loadStatus maps a load result onto a low-cardinality label.
func loadStatus(err error) string {
	var ce *cverrors.Error
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, module.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &ce) && ce.Code != "":
		return ce.Code
	default:
		return "error"
	}
}

var _ vdom.Observer = (*Observer)(nil)
