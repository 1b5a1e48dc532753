// Package metrics exposes Prometheus instrumentation for the HTTP server.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/server"
)

// Compile-time interface check.
var _ module.Module = (*Metrics)(nil)

// Metrics registers request counters and latency histograms and serves
// the scrape endpoint at /metrics.
type Metrics struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// New creates the metrics module with its own registry, so tests can run
// multiple instances without collector collisions.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "limelight",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "limelight",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds, by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "limelight",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.inFlight)
	return m
}

func (m *Metrics) Name() string    { return "metrics" }
func (m *Metrics) Version() string { return "1.0.0" }

func (m *Metrics) Init(cfg *config.Config, logger *zap.Logger) error {
	m.logger = logger
	m.logger.Info("metrics module initialized")
	return nil
}

func (m *Metrics) Start(ctx context.Context) error { return nil }
func (m *Metrics) Stop() error                     { return nil }

func (m *Metrics) Routes() []module.Route {
	scrape := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return []module.Route{
		{Method: "GET", Path: "!/metrics", Handler: scrape.ServeHTTP},
	}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request passing through the server mux.
// The /metrics scrape itself is not counted.
func (m *Metrics) Middleware() server.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			m.inFlight.Inc()
			defer m.inFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			m.requests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
			m.duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
