package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests.
	// Labels: method, route (chi pattern), status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// AuthFailures counts admin requests rejected by the gate, by reason.
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_auth_failures_total",
			Help: "Admin requests rejected by the auth gate",
		},
		[]string{"reason"},
	)

	// Panics counts handler panics caught by Recoverer.
	Panics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_http_panics_total",
			Help: "Handler panics recovered and answered with 500",
		},
	)

	// RateLimited counts requests rejected by a rate limiter.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_rate_limited_total",
			Help: "Requests rejected by rate limiting",
		},
		[]string{"limiter"},
	)
)

// Metrics records request counts and latency per chi route pattern.
// Unmatched paths are labelled "unmatched" to bound cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
