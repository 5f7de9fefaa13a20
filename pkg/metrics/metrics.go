package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "courses", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "courses", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	CourseOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "courses", Name: "operations_total", Help: "Course operations by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	CoursesStored = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "courses", Name: "stored", Help: "Number of courses currently in the collection."},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "courses", Name: "http_requests_total", Help: "HTTP requests by method, route and status class."},
		[]string{"method", "route", "status"},
	)
)

// Outcome labels for CourseOperations.
const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(CourseOperations)
	reg.MustRegister(CoursesStored)
	reg.MustRegister(HTTPRequests)
}
