package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalconnect_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentalconnect_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalconnect_auth_events_total",
		Help: "Registrations and logins by outcome",
	}, []string{"operation", "result"})

	listingOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalconnect_listing_operations_total",
		Help: "Listing create, update and delete calls by result",
	}, []string{"operation", "result"})

	bookmarkOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalconnect_bookmark_operations_total",
		Help: "Saved-property add and remove calls by result",
	}, []string{"operation", "result"})

	messagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalconnect_messages_total",
		Help: "Messages sent and marked read",
	}, []string{"operation", "result"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentalconnect_rate_limited_total",
		Help: "Requests rejected by the auth rate limiter",
	})
)

// Result labels
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveAuth counts a register or login attempt
func ObserveAuth(operation, result string) {
	authEvents.WithLabelValues(operation, result).Inc()
}

// ObserveListing counts a listing mutation
func ObserveListing(operation, result string) {
	listingOperations.WithLabelValues(operation, result).Inc()
}

// ObserveBookmark counts a bookmark add or remove
func ObserveBookmark(operation, result string) {
	bookmarkOperations.WithLabelValues(operation, result).Inc()
}

// ObserveMessage counts a message send or read transition
func ObserveMessage(operation, result string) {
	messagesSent.WithLabelValues(operation, result).Inc()
}

// IncRateLimited counts a throttled request
func IncRateLimited() {
	rateLimited.Inc()
}
