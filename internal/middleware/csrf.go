package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"portfolio/internal/auth"
)

const (
	// csrfTokenLength is the byte length of CSRF tokens (32 bytes = 64 hex chars).
	csrfTokenLength = 32

	// CSRFCookieName is the cookie that holds the CSRF token.
	CSRFCookieName = "pf_csrf"

	// CSRFHeaderName is the header the admin client echoes the token in.
	CSRFHeaderName = "X-CSRF-Token"
)

// NewCSRF provides double-submit cookie CSRF protection for cookie
// sessions. It issues a token cookie readable by the admin client and
// requires unsafe requests authenticated by the session cookie to echo it in
// CSRFHeaderName. Bearer requests carry no ambient credential and are
// exempt. Must run after RequireAuth.
func NewCSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := GetCSRFToken(r)
			if token == "" {
				var err error
				if token, err = IssueCSRFToken(w, secure); err != nil {
					WriteError(w, http.StatusInternalServerError, "internal", "Internal Server Error", nil)
					return
				}
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if id := IdentityFromCtx(r.Context()); id == nil || id.Method != auth.MethodCookie {
				next.ServeHTTP(w, r)
				return
			}

			submitted := r.Header.Get(CSRFHeaderName)
			if subtle.ConstantTimeCompare([]byte(token), []byte(submitted)) != 1 {
				WriteError(w, http.StatusForbidden, "csrf_mismatch", "CSRF token mismatch", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IssueCSRFToken sets a fresh CSRF cookie and returns its token. The login
// handler calls it so a new session starts with a token.
func IssueCSRFToken(w http.ResponseWriter, secure bool) (string, error) {
	token, err := generateCSRFToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false, // the admin client reads it to fill the header
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

// ClearCSRFToken expires the CSRF cookie, so the next session starts with
// a fresh token.
func ClearCSRFToken(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetCSRFToken extracts the current CSRF token from the request cookie.
func GetCSRFToken(r *http.Request) string {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// generateCSRFToken creates a cryptographically random token.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
