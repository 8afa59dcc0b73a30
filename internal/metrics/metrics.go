// Package metrics holds the Prometheus collectors exposed on the health server's /metrics endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_catalog_http_requests_total",
			Help: "Total number of API requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "course_catalog_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "course_catalog_db_query_duration_seconds",
			Help:    "Duration of PostgreSQL statements in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_catalog_db_query_errors_total",
			Help: "Total number of failed PostgreSQL operations",
		},
		[]string{"operation", "table"},
	)

	AssociationReplacements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_catalog_association_replacements_total",
			Help: "Interest association replacements by owner side and outcome",
		},
		[]string{"side", "outcome"}, // outcome: "ok", "error"
	)

	PersonalizationDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "course_catalog_personalization_degraded_total",
			Help: "Course listings served without match data because an association read failed",
		},
	)
)

// RecordDBQuery observes the duration of a storage operation started at start and counts it as
// failed when err is non-nil.
func RecordDBQuery(operation, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordReplacement counts an association replacement for the given side.
func RecordReplacement(side string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	AssociationReplacements.WithLabelValues(side, outcome).Inc()
}

// Middleware instruments every request with the chi route pattern as label, keeping
// cardinality bounded by the number of registered routes.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }
