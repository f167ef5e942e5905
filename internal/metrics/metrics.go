package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking admission outcomes.
const (
	BookingAccepted     = "accepted"
	BookingConflict     = "conflict"
	BookingRaceLost     = "race_lost" // rejected by the exclusion constraint after passing the check
	BookingInvalid      = "invalid"
	BookingFailed       = "error"
	BookingCancelled    = "cancelled"
	BookingNotCancelled = "not_found_or_unauthorized"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "court_booking",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "court_booking",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "court_booking",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	bookingAdmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "court_booking",
			Subsystem: "bookings",
			Name:      "admissions_total",
			Help:      "Booking create and cancel outcomes.",
		},
		[]string{"outcome"},
	)

	membershipDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "court_booking",
			Subsystem: "memberships",
			Name:      "admission_decisions_total",
			Help:      "Initial membership statuses decided by whitelist admission.",
		},
		[]string{"status", "whitelisted"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "court_booking",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		},
		[]string{"route"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		bookingAdmissions,
		membershipDecisions,
		rateLimited,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency keyed by the matched route template,
// so path parameters do not explode label cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordBookingAdmission counts one booking outcome.
func RecordBookingAdmission(outcome string) {
	bookingAdmissions.WithLabelValues(outcome).Inc()
}

// RecordMembershipDecision counts one membership admission decision.
func RecordMembershipDecision(status string, whitelisted bool) {
	membershipDecisions.WithLabelValues(status, strconv.FormatBool(whitelisted)).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(route string) {
	if route == "" {
		route = "unmatched"
	}
	rateLimited.WithLabelValues(route).Inc()
}
