package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/mandelcalc/internal/render"
)

const namespace = "mandelcalc"

// Metrics holds the Prometheus collectors of one process. Each instance owns
// a private registry, so several can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	framesTotal     prometheus.Counter
	pixelsTotal     prometheus.Counter
	renderDuration  prometheus.Histogram
	boundedRatio    prometheus.Gauge
	activeRequests  prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ render.Recorder = (*Metrics)(nil)

// NewMetrics creates and registers the collectors, including the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Number of frames rendered.",
		}),
		pixelsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pixels_total",
			Help:      "Number of pixels evaluated.",
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Wall time of frame renders.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		boundedRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bounded_ratio",
			Help:      "Fraction of bounded pixels in the last frame.",
		}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_requests",
			Help:      "HTTP requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	reg.MustRegister(
		m.framesTotal, m.pixelsTotal, m.renderDuration, m.boundedRatio,
		m.activeRequests, m.requestsTotal, m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// ObserveRender implements render.Recorder.
func (m *Metrics) ObserveRender(stats render.Stats, elapsed time.Duration) {
	m.framesTotal.Inc()
	m.pixelsTotal.Add(float64(stats.Pixels))
	m.renderDuration.Observe(elapsed.Seconds())
	m.boundedRatio.Set(stats.BoundedRatio())
}

// IncrementActiveRequests marks a request as started.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks a request as finished.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest records a finished request.
func (m *Metrics) ObserveRequest(path string, code int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// WritePrometheus serves the registry in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
