package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce           sync.Once
	requestsTotal          *prometheus.CounterVec
	latencySeconds         *prometheus.HistogramVec
	errorsTotal            *prometheus.CounterVec
	loginAttemptsTotal     *prometheus.CounterVec
	notificationsPublished *prometheus.CounterVec
	auditEntriesTotal      prometheus.Counter
	dashboardStatsRequests *prometheus.CounterVec
	storeFallbacksTotal    prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned.",
		}, []string{"method", "route", "status"})

		loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_login_attempts_total",
			Help: "Login attempts partitioned by outcome.",
		}, []string{"result"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_notifications_published_total",
			Help: "Notifications created, partitioned by triggering action.",
		}, []string{"action"})

		auditEntriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admin_audit_entries_total",
			Help: "Audit log entries written.",
		})

		dashboardStatsRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_dashboard_stats_requests_total",
			Help: "Dashboard stats requests partitioned by cache outcome.",
		}, []string{"result"})

		storeFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admin_store_fallbacks_total",
			Help: "Operations that fell back to the in-memory store.",
		})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			errorsTotal,
			loginAttemptsTotal,
			notificationsPublished,
			auditEntriesTotal,
			dashboardStatsRequests,
			storeFallbacksTotal,
		)
	})
}

// Requests exposes the counter for served requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the request latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// LoginAttempts exposes the login outcome counter.
func LoginAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return loginAttemptsTotal
}

// NotificationsPublished exposes the published-notification counter.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// AuditEntries exposes the audit entry counter.
func AuditEntries() prometheus.Counter {
	RegisterMetrics()
	return auditEntriesTotal
}

// DashboardStatsRequests exposes the dashboard cache outcome counter.
func DashboardStatsRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardStatsRequests
}

// StoreFallbacks exposes the in-memory fallback counter.
func StoreFallbacks() prometheus.Counter {
	RegisterMetrics()
	return storeFallbacksTotal
}

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
