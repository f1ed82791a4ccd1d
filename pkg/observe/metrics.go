package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/popover/pkg/popover"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "popover").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Registry receives the collectors.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "popover",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics counts popover transitions and positioning outcomes.
//
// Metrics collected:
//   - popover_transitions_total: open/close transitions by direction
//   - popover_position_requests_total: positioning requests sent
//   - popover_position_failures_total: requests that produced no handle
//   - popover_focus_restores_total: focus returned to a trigger
//   - popover_live_handles: positioning handles currently installed
type Metrics struct {
	transitions      *prometheus.CounterVec
	positionRequests prometheus.Counter
	positionFailures prometheus.Counter
	focusRestores    prometheus.Counter
	liveHandles      prometheus.Gauge
}

var _ popover.Observer = (*Metrics)(nil)

// NewMetrics registers the popover collectors and returns an observer that
// feeds them. Registering twice on the same registry panics, as with any
// promauto collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transitions_total",
			Help:        "Total number of popover open state transitions",
			ConstLabels: config.ConstLabels,
		}, []string{"to"}),

		positionRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "position_requests_total",
			Help:        "Total number of positioning requests",
			ConstLabels: config.ConstLabels,
		}),

		positionFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "position_failures_total",
			Help:        "Total number of positioning requests that produced no handle",
			ConstLabels: config.ConstLabels,
		}),

		focusRestores: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "focus_restores_total",
			Help:        "Total number of times focus returned to a trigger",
			ConstLabels: config.ConstLabels,
		}),

		liveHandles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_handles",
			Help:        "Number of installed positioning handles",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) OpenChanged(_ string, open bool) {
	to := "closed"
	if open {
		to = "open"
	}
	m.transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) PositionRequested(string) {
	m.positionRequests.Inc()
}

func (m *Metrics) PositionFailed(string, error) {
	m.positionFailures.Inc()
}

func (m *Metrics) HandleInstalled(string) {
	m.liveHandles.Inc()
}

func (m *Metrics) HandleDisposed(string) {
	m.liveHandles.Dec()
}

func (m *Metrics) FocusRestored(string) {
	m.focusRestores.Inc()
}
