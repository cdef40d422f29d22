package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wxautomator_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	usersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wxautomator_users_created_total",
			Help: "Total user creation attempts by outcome",
		},
		[]string{"outcome"},
	)
	licenseAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wxautomator_license_assignments_total",
			Help: "Total license assignment attempts by license and outcome",
		},
		[]string{"license", "outcome"},
	)
)

// PrometheusMiddleware records request duration.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ww.Status())
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// RecordUserCreation records one creation attempt.
func RecordUserCreation(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	usersCreated.WithLabelValues(outcome).Inc()
}

// RecordLicenseAssignment records one assignment attempt.
func RecordLicenseAssignment(license string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	licenseAssignments.WithLabelValues(license, outcome).Inc()
}
