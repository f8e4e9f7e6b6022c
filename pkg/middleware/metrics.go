package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/stocknav/pkg/router"
)

// Navigation outcomes used as the result label.
const (
	ResultFound      = "found"
	ResultNotFound   = "not_found"
	ResultError      = "error"
	ResultCancelled  = "cancelled"
	ResultRedirected = "redirected"
)

// routeNone labels outcomes without a matched route.
const routeNone = "none"

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "stocknav").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolve duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
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

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
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
		Namespace: "stocknav",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records navigation metrics. A nil *Metrics records nothing, so
// callers can leave metrics disabled without branching.
type Metrics struct {
	navigations     *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	liveSessions    prometheus.Gauge
	wsErrors        *prometheus.CounterVec
}

// NewMetrics registers the navigation metrics. Registering twice on the
// same registry panics, as with any Prometheus collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of resolutions and navigations by route and result",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "result"}),

		resolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolve_duration_seconds",
			Help:        "Location resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_sessions",
			Help:        "Number of open live navigation sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total live session errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// ObserveResolution records one resolution of a location.
func (m *Metrics) ObserveResolution(res *router.Resolution, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.resolveDuration.Observe(elapsed.Seconds())
	m.navigations.WithLabelValues(RouteLabel(res), ResolutionResult(res, err)).Inc()
}

// SessionOpened records a live session starting.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.liveSessions.Inc()
}

// SessionClosed records a live session ending.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.liveSessions.Dec()
}

// RecordWebSocketError records a live session failure of the given kind.
func (m *Metrics) RecordWebSocketError(kind string) {
	if m == nil {
		return
	}
	m.wsErrors.WithLabelValues(kind).Inc()
}

// Guard returns a navigation guard counting every navigation that passes
// through it, labeled with the outcome seen after the rest of the chain ran.
func (m *Metrics) Guard() router.Guard {
	return router.GuardFunc(func(ctx context.Context, nav *router.Navigation, next func() error) error {
		if m == nil {
			return next()
		}
		err := next()

		result := ResolutionResult(nav.To, nil)
		var redirect *router.RedirectError
		switch {
		case errors.As(err, &redirect):
			result = ResultRedirected
		case errors.Is(err, router.ErrNavigationCancelled):
			result = ResultCancelled
		case err != nil:
			result = ResultError
		}
		m.navigations.WithLabelValues(RouteLabel(nav.To), result).Inc()
		return err
	})
}

// RouteLabel returns the leaf route name of a resolution, or "none".
func RouteLabel(res *router.Resolution) string {
	if res == nil || !res.Found() {
		return routeNone
	}
	return res.Match.Leaf().Name()
}

// ResolutionResult classifies a resolution for the result label.
func ResolutionResult(res *router.Resolution, err error) string {
	switch {
	case err != nil:
		return ResultError
	case res == nil || !res.Found():
		return ResultNotFound
	default:
		return ResultFound
	}
}
