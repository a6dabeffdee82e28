package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/store/pkg/store"
)

// MetricsConfig configures the Prometheus observer wrapper.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "store").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for observer duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer wrapper.
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

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "store",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for observed stores.
type metrics struct {
	notificationsTotal   *prometheus.CounterVec
	notificationDuration *prometheus.HistogramVec
	notificationErrors   *prometheus.CounterVec
}

// metricsKey identifies one set of collectors. Wrappers that share a
// registry, namespace and subsystem share collectors; ConstLabels and Buckets
// are taken from the first wrapper created for a key.
type metricsKey struct {
	registry  prometheus.Registerer
	namespace string
	subsystem string
}

var (
	metricsCache   = map[metricsKey]*metrics{}
	metricsCacheMu sync.Mutex
)

// metricsFor returns the collectors for config, registering them on first use.
func metricsFor(config MetricsConfig) *metrics {
	key := metricsKey{
		registry:  config.Registry,
		namespace: config.Namespace,
		subsystem: config.Subsystem,
	}

	metricsCacheMu.Lock()
	defer metricsCacheMu.Unlock()

	m, ok := metricsCache[key]
	if !ok {
		m = initMetrics(config)
		metricsCache[key] = m
	}
	return m
}

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		notificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of store observer calls",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "status"}),

		notificationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notification_duration_seconds",
			Help:        "Store observer duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store"}),

		notificationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notification_errors_total",
			Help:        "Total number of store observer errors",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),
	}
}

// Prometheus wraps next so every call is counted and timed.
// The status label is "success", "error" or "panic".
func Prometheus[T any](name string, next store.Observer[T], opts ...MetricsOption) store.Observer[T] {
	if next == nil {
		return nil
	}

	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	m := metricsFor(config)

	return func(value, old T) error {
		start := time.Now()
		status := "panic"

		defer func() {
			m.notificationDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			m.notificationsTotal.WithLabelValues(name, status).Inc()
		}()

		err := next(value, old)
		if err != nil {
			status = "error"
			m.notificationErrors.WithLabelValues(name).Inc()
			return err
		}
		status = "success"
		return nil
	}
}
