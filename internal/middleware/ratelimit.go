// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit allows limit requests per window for each client IP. Rejected
// requests get a 429 error envelope and a Retry-After header. limit <= 0
// disables limiting.
func RateLimit(name string, limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			RateLimited.WithLabelValues(name).Inc()
			WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again later.", nil)
		}),
	)
}
