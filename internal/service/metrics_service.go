package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the escalation engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	passTotal       prometheus.Counter
	passDuration    prometheus.Observer
	escalatedTotal  prometheus.Counter
	skippedTotal    prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	passTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "escalation_passes_total",
		Help: "Total number of completed escalation passes",
	})

	passDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "escalation_pass_duration_seconds",
		Help:    "Duration of escalation passes",
		Buckets: prometheus.DefBuckets,
	})

	escalatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "complaints_escalated_total",
		Help: "Total complaints escalated by the engine",
	})

	skippedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "complaints_escalation_skipped_total",
		Help: "Total matched complaints skipped due to write failures or races",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, passTotal, passDuration, escalatedTotal, skippedTotal, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		passTotal:       passTotal,
		passDuration:    passDuration,
		escalatedTotal:  escalatedTotal,
		skippedTotal:    skippedTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveEscalationPass records the outcome of one engine pass.
func (m *MetricsService) ObserveEscalationPass(escalated, skipped int, duration time.Duration) {
	if m == nil {
		return
	}
	m.passTotal.Inc()
	m.passDuration.Observe(duration.Seconds())
	m.escalatedTotal.Add(float64(escalated))
	m.skippedTotal.Add(float64(skipped))
}
