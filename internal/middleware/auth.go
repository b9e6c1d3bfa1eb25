// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"portfolio/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// IdentityKey is the context key for the authenticated identity.
	IdentityKey contextKey = "identity"
)

// Authenticator decides whether a request is authenticated. *auth.Gate
// satisfies it.
type Authenticator interface {
	Authenticate(r *http.Request) (*auth.Identity, error)
}

// RequireAuth rejects requests the gate does not accept with a 401 and
// never calls the next handler for them. Accepted requests carry the
// identity in their context.
func RequireAuth(gate Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := gate.Authenticate(r)
			if err != nil || id == nil {
				reason := auth.NoSessionReason
				var f *auth.Failure
				if errors.As(err, &f) {
					reason = f.Reason
				} else if err != nil {
					reason = err.Error()
				}
				slog.Warn("admin request rejected",
					"method", r.Method,
					"path", r.URL.Path,
					"reason", reason,
					"remote", r.RemoteAddr,
				)
				AuthFailures.WithLabelValues(reasonLabel(reason)).Inc()
				WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", reason)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity returns ctx carrying id.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromCtx extracts the identity stored by RequireAuth. Returns nil
// outside the gated routes.
func IdentityFromCtx(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(IdentityKey).(*auth.Identity)
	return id
}

// reasonLabel bounds the metric label set: collaborator error texts are
// folded into one value.
func reasonLabel(reason string) string {
	switch reason {
	case auth.NoSessionReason, "Malformed bearer token", "Token expired", "Invalid token", "Session expired or not found":
		return reason
	}
	return "lookup error"
}
