// Package metrics exposes Prometheus metrics for dataset loading, report
// rendering and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	datasetRows       *prometheus.GaugeVec
	datasetReloads    *prometheus.CounterVec
	datasetLastReload prometheus.Gauge
	datasetReloadTime prometheus.Histogram

	reportRenders    *prometheus.CounterVec
	reportRenderTime *prometheus.HistogramVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates the metrics on a dedicated registry together with the Go
// runtime and process collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "hrbi",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.datasetRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "rows",
		Help:      "Rows loaded per workforce source",
	}, []string{"source"})

	m.datasetReloads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "reloads_total",
		Help:      "Dataset reloads by result",
	}, []string{"result"})

	m.datasetLastReload = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "last_reload_timestamp_seconds",
		Help:      "Unix time of the last successful reload",
	})

	m.datasetReloadTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "reload_duration_seconds",
		Help:      "Time spent loading all workforce sources",
		Buckets:   m.buckets,
	})

	m.reportRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "report",
		Name:      "renders_total",
		Help:      "Report renders by report id and result",
	}, []string{"report", "result"})

	m.reportRenderTime = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "report",
		Name:      "render_duration_seconds",
		Help:      "Time spent filtering and computing a report",
		Buckets:   m.buckets,
	}, []string{"report"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   m.buckets,
	}, []string{"method", "route"})
}

// Registry returns the registry the metrics live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordReload records one reload attempt. rows is only applied on success.
func (m *Manager) RecordReload(rows map[string]int, d time.Duration, err error) {
	m.datasetReloadTime.Observe(d.Seconds())
	if err != nil {
		m.datasetReloads.WithLabelValues(ResultFailure).Inc()
		return
	}
	m.datasetReloads.WithLabelValues(ResultSuccess).Inc()
	m.datasetLastReload.SetToCurrentTime()
	for source, n := range rows {
		m.datasetRows.WithLabelValues(source).Set(float64(n))
	}
}

// RecordRender records one report render.
func (m *Manager) RecordRender(reportID string, d time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.reportRenders.WithLabelValues(reportID, result).Inc()
	m.reportRenderTime.WithLabelValues(reportID).Observe(d.Seconds())
}

// Middleware records request counts and latency by chi route pattern.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
