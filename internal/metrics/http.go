// Package metrics instruments the HTTP surface (internal/httpapi) the way
// internal/conversion/metrics.go instruments the conversion worker: its own
// Prometheus registry, scraped by a dedicated /metrics route rather than the
// teacher's hand-rolled exposition format in internal/observability.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP tracks request counts, latency, and in-flight requests for every
// route registered on the gin.Engine built by internal/httpapi.
type HTTP struct {
	requestsTotal *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	inflight      prometheus.Gauge
	registry      *prometheus.Registry
}

func NewHTTP() *HTTP {
	registry := prometheus.NewRegistry()
	return &HTTP{
		requestsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Namespace: "api",
			Name:      "requests_total",
			Help:      "Count of HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		duration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Namespace: "api",
			Name:      "requests_inflight",
			Help:      "Number of HTTP requests currently being handled.",
		}),
		registry: registry,
	}
}

// Middleware records one observation per request. Route is c.FullPath(),
// which is the matched pattern (e.g. "/video/slice/:job_id"), not the raw
// path, so cardinality stays bounded regardless of path parameters.
func (h *HTTP) Middleware() gin.HandlerFunc {
	if h == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		h.inflight.Inc()
		defer h.inflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		h.requestsTotal.WithLabelValues(method, route, status).Inc()
		h.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (h *HTTP) Handler() gin.HandlerFunc {
	handler := promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
	return gin.WrapH(handler)
}
