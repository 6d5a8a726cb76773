package conversion

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Metrics exposes the per-file conversion counters named in spec.md §4.C
// step 8 plus the queue-depth gauge from §5's backpressure note. A metric
// exporter binds to its port once per process; a second bind attempt is
// tolerated and ignored rather than treated as fatal (spec.md §5 "Shared
// resources").
type Metrics struct {
	filesTotal *prometheus.CounterVec
	queueDepth *prometheus.GaugeVec
	registry   *prometheus.Registry
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		filesTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Namespace: "conversion_worker",
			Name:      "files_total",
			Help:      "Count of per-file conversion outcomes by status.",
		}, []string{"status"}),
		queueDepth: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "conversion_worker",
			Name:      "queue_depth",
			Help:      "Observed depth of a named task queue.",
		}, []string{"queue"}),
		registry: registry,
	}
	return m
}

func (m *Metrics) RecordFile(status string) {
	m.filesTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) SetQueueDepth(queue string, depth float64) {
	m.queueDepth.WithLabelValues(queue).Set(depth)
}

// Serve binds the /metrics endpoint on addr. A bind failure due to
// EADDRINUSE is logged and ignored (another process on the host already
// exports metrics on this port); any other bind error is fatal per
// spec.md §9's error taxonomy.
func (m *Metrics) Serve(addr string, log *logger.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			log.Warn("metrics port already bound, continuing without a second exporter", "addr", addr)
			return nil
		}
		return fmt.Errorf("bind metrics listener on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.Serve(ln, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", "error", err)
		}
	}()
	return nil
}
