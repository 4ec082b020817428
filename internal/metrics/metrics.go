package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "feedback"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	AnalyticsRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "analytics_requests_total", Help: "Analytics operations by outcome."},
		[]string{"operation", "outcome"}, // outcome: ok|not_found|forbidden|error
	)
	AnalyticsLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "analytics_duration_seconds",
			Help:    "Analytics operation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	ExportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "export_rows_total", Help: "Data rows written by exports."},
		[]string{"kind", "format"}, // kind: form|question
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, AnalyticsRequests, AnalyticsLatency, ExportRows)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveAnalytics(operation, outcome string, dur time.Duration) {
	AnalyticsRequests.WithLabelValues(operation, outcome).Inc()
	AnalyticsLatency.WithLabelValues(operation).Observe(dur.Seconds())
}

func ObserveExport(kind, format string, rows int) {
	ExportRows.WithLabelValues(kind, format).Add(float64(rows))
}

// Middleware records every request under its mux pattern.
func Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next(sw, r)

		route := r.Pattern
		if route == "" {
			route = r.URL.Path
		}
		ObserveHTTP(route, r.Method, sw.Status(), time.Since(start))
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
