package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"portfolio/internal/identity"
	"portfolio/internal/session"
)

// TokenVerifier checks a bearer token. The identity provider satisfies it.
type TokenVerifier interface {
	Verify(token string) (*identity.Claims, error)
}

// SessionLookup loads a cookie session by id. The session store satisfies it.
type SessionLookup interface {
	CookieName() string
	Lookup(ctx context.Context, id string) (*session.Data, error)
}

// BearerResolver accepts "Authorization: Bearer <token>". It never reads
// cookies.
type BearerResolver struct {
	verifier TokenVerifier
}

// NewBearerResolver creates a bearer resolver.
func NewBearerResolver(v TokenVerifier) *BearerResolver {
	return &BearerResolver{verifier: v}
}

func (b *BearerResolver) Name() string { return string(MethodBearer) }

func (b *BearerResolver) Resolve(r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if header == "" || !strings.EqualFold(scheme, "Bearer") {
		return nil, ErrNotApplicable
	}
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return nil, &Failure{Reason: "Malformed bearer token"}
	}

	claims, err := b.verifier.Verify(token)
	switch {
	case errors.Is(err, identity.ErrTokenExpired):
		return nil, &Failure{Reason: "Token expired"}
	case err != nil:
		return nil, &Failure{Reason: "Invalid token"}
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, &Failure{Reason: "Invalid token"}
	}
	return &Identity{UserID: userID, Email: claims.Email, Method: MethodBearer}, nil
}

// CookieResolver accepts the session cookie.
type CookieResolver struct {
	sessions SessionLookup
}

// NewCookieResolver creates a cookie resolver.
func NewCookieResolver(s SessionLookup) *CookieResolver {
	return &CookieResolver{sessions: s}
}

func (c *CookieResolver) Name() string { return string(MethodCookie) }

func (c *CookieResolver) Resolve(r *http.Request) (*Identity, error) {
	cookie, err := r.Cookie(c.sessions.CookieName())
	if err != nil || cookie.Value == "" {
		return nil, ErrNotApplicable
	}

	data, err := c.sessions.Lookup(r.Context(), cookie.Value)
	if err != nil {
		return nil, &Failure{Reason: err.Error()}
	}
	if data == nil {
		return nil, &Failure{Reason: "Session expired or not found"}
	}
	return &Identity{UserID: data.UserID, Email: data.Email, Method: MethodCookie}, nil
}
