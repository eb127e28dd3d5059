package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the application's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	snapshotHits       prometheus.Counter
	snapshotMisses     prometheus.Counter
	snapshotRecomputes *prometheus.CounterVec

	kpiDuration prometheus.Histogram
}

// NewCollector creates and registers all application metrics.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, path, and status",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and path",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "path"},
		),
		snapshotHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_hits_total",
			Help:      "Total number of KPI snapshot cache hits",
		}),
		snapshotMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_misses_total",
			Help:      "Total number of KPI snapshot cache misses",
		}),
		snapshotRecomputes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_recomputes_total",
				Help:      "Total number of KPI snapshot recomputations by trigger",
			},
			[]string{"trigger"},
		),
		kpiDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kpi_compute_duration_seconds",
			Help:      "Full KPI engine computation latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	c.registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.snapshotHits,
		c.snapshotMisses,
		c.snapshotRecomputes,
		c.kpiDuration,
	)
	return c
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (c *Collector) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}

// Middleware returns an Echo middleware recording request count and latency.
// The route path template is used, not the raw URL, to keep cardinality low.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			path := ctx.Path()
			if path == "" {
				path = "unmatched"
			}
			method := ctx.Request().Method
			status := ctx.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			c.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// RecordSnapshotRead records a snapshot cache lookup outcome.
func (c *Collector) RecordSnapshotRead(hit bool) {
	if hit {
		c.snapshotHits.Inc()
	} else {
		c.snapshotMisses.Inc()
	}
}

// RecordSnapshotRecompute records one snapshot recomputation.
// trigger is "read" (cache fill) or "write" (transaction created).
func (c *Collector) RecordSnapshotRecompute(trigger string) {
	c.snapshotRecomputes.WithLabelValues(trigger).Inc()
}

// RecordKpiCompute records the latency of one full KPI engine run.
func (c *Collector) RecordKpiCompute(duration time.Duration) {
	c.kpiDuration.Observe(duration.Seconds())
}
