package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/moti-registry/internal/registry"
)

// Metrics holds the Prometheus collectors of the API. It implements
// registry.Observer so the register gauges follow every dashboard read.
type Metrics struct {
	gatherer        prometheus.Gatherer
	requestsTotal   *prometheus.CounterVec
	recordsTotal    prometheus.Gauge
	recordsPending  prometheus.Gauge
	turnaroundAvg   prometheus.Gauge
	requestDuration *prometheus.HistogramVec
}

var _ registry.Observer = (*Metrics)(nil)

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry registers the collectors on reg.
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_http_requests_total",
				Help: "Total HTTP requests served by the register API",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "registry_http_request_duration_seconds",
				Help:    "Duration of register API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		recordsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "registry_records_total",
			Help: "Correspondence items in the register at the last read",
		}),
		recordsPending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "registry_records_pending",
			Help: "Correspondence items not yet completed at the last read",
		}),
		turnaroundAvg: factory.NewGauge(prometheus.GaugeOpts{
			Name: "registry_turnaround_days_avg",
			Help: "Average turnaround in days over completed items",
		}),
	}
}

// ObserveSummary publishes the register gauges.
func (m *Metrics) ObserveSummary(s registry.Summary) {
	m.recordsTotal.Set(float64(s.Total))
	m.recordsPending.Set(float64(s.Pending))
	m.turnaroundAvg.Set(s.AverageTAT)
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware counts requests and their duration. Paths are labelled by
// route pattern so ref ids do not explode the label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := newStatusRecorder(w)

		next.ServeHTTP(wrapped, r)

		path := routePattern(r)
		m.requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// statusRecorder captures the response status for metrics and logs.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the original writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
