package metrics

import (
	"time"

	"mercator-hq/saturn/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector manages the Prometheus metrics for the transform service.
// It owns its own registry so tests and embedders never collide with the
// global default registry.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Transform metrics
	transformsTotal   *prometheus.CounterVec
	transformDuration *prometheus.HistogramVec
	transformErrors   *prometheus.CounterVec
	documentSize      *prometheus.HistogramVec
	conversionCopies  prometheus.Histogram

	// HTTP metrics (serve mode)
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "saturn"
	}
	if len(cfg.DurationBuckets) == 0 {
		// In-memory tree walks: sub-millisecond for ordinary documents,
		// seconds for very large ones.
		cfg.DurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		transformsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "transforms_total",
				Help:      "Total number of transforms executed",
			},
			[]string{"mode", "status"},
		),

		transformDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "transform_duration_seconds",
				Help:      "Duration of transforms in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"mode"},
		),

		transformErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "transform_errors_total",
				Help:      "Total number of failed transforms by error kind",
			},
			[]string{"kind"},
		),

		documentSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "document_size_bytes",
				Help:      "Size of source and output documents in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 10), // 256B to 64MB
			},
			[]string{"direction"},
		),

		conversionCopies: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "conversion_copies",
				Help:      "Number of sibling copies produced per array conversion",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 to 16K copies
			},
		),

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"path", "method", "code"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"path", "method"},
		),

		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
	}

	registry.MustRegister(
		c.transformsTotal,
		c.transformDuration,
		c.transformErrors,
		c.documentSize,
		c.conversionCopies,
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.httpInFlight,
	)

	return c
}

// Registry returns the Prometheus registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordTransform records a completed transform.
//
// mode is "cli", "watch", or "serve"; status is "success" or "error".
func (c *Collector) RecordTransform(mode, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.transformsTotal.WithLabelValues(mode, status).Inc()
	c.transformDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordTransformError records a failed transform by error kind
// (e.g., "missing_field", "spread_length_mismatch", "template_syntax").
func (c *Collector) RecordTransformError(kind string) {
	if !c.config.Enabled {
		return
	}

	c.transformErrors.WithLabelValues(kind).Inc()
}

// RecordDocumentSize records source or output document sizes.
// direction is "source" or "output".
func (c *Collector) RecordDocumentSize(direction string, bytes int) {
	if !c.config.Enabled || bytes <= 0 {
		return
	}

	c.documentSize.WithLabelValues(direction).Observe(float64(bytes))
}

// RecordConversionCopies records how many sibling copies an array
// conversion produced.
func (c *Collector) RecordConversionCopies(n int) {
	if !c.config.Enabled || n < 0 {
		return
	}

	c.conversionCopies.Observe(float64(n))
}

// RecordHTTPRequest records a completed HTTP request.
func (c *Collector) RecordHTTPRequest(path, method, code string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	c.httpRequestsTotal.WithLabelValues(path, method, code).Inc()
	c.httpRequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// IncInFlight increments the in-flight request gauge.
func (c *Collector) IncInFlight() {
	if !c.config.Enabled {
		return
	}
	c.httpInFlight.Inc()
}

// DecInFlight decrements the in-flight request gauge.
func (c *Collector) DecInFlight() {
	if !c.config.Enabled {
		return
	}
	c.httpInFlight.Dec()
}
