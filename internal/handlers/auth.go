package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/auth"
	"portfolio/internal/identity"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/normalize"
	"portfolio/internal/session"
)

// IdentityProvider signs the operator in and manages their second factor.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password, code string) (*models.User, error)
	Issue(user *models.User) (string, time.Time, error)
	BeginTOTP(ctx context.Context, userID uuid.UUID) (*identity.Enrollment, error)
	EnableTOTP(ctx context.Context, userID uuid.UUID, code string) error
	DisableTOTP(ctx context.Context, userID uuid.UUID, code string) error
}

var (
	emailField    = normalize.Field{Wire: "email", Storage: "email"}
	passwordField = normalize.Field{Wire: "password", Storage: "password"}
	codeField     = normalize.Field{Wire: "code", Storage: "code"}
)

// Auth groups the sign-in, sign-out and 2FA handlers.
type Auth struct {
	provider IdentityProvider
	sessions *session.Store
	secure   bool
}

// NewAuth creates the auth handler group. secure marks issued cookies
// Secure.
func NewAuth(provider IdentityProvider, sessions *session.Store, secure bool) *Auth {
	return &Auth{provider: provider, sessions: sessions, secure: secure}
}

type userView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	TOTPEnabled bool      `json:"totpEnabled"`
}

type loginResponse struct {
	Success     bool      `json:"success"`
	User        userView  `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CSRFToken   string    `json:"csrfToken"`
}

// Login verifies {email, password, code?}. On success it returns a bearer
// token and also starts a cookie session with its CSRF token, so both
// browser and API clients can use the admin API.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	body, ok := decode(w, r)
	if !ok {
		return
	}
	var form loginForm
	if err := errors.Join(
		body.SetString(emailField, &form.Email),
		body.SetString(passwordField, &form.Password),
		body.SetString(codeField, &form.Code),
	); err != nil {
		invalid(w, err)
		return
	}
	if details := validateStruct(&form); details != nil {
		writeInvalid(w, details)
		return
	}

	user, err := a.provider.SignIn(r.Context(), form.Email, form.Password, form.Code)
	switch {
	case errors.Is(err, identity.ErrTOTPRequired):
		middleware.WriteError(w, http.StatusUnauthorized, "totp_required", "Two-factor code required", nil)
		return
	case errors.Is(err, identity.ErrInvalidCredentials):
		slog.Warn("failed login attempt", "email", form.Email, "remote", r.RemoteAddr)
		middleware.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
		return
	case err != nil:
		storeFailed(w, r, "Sign-in failed", err)
		return
	}

	token, expires, err := a.provider.Issue(user)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "internal", "Failed to issue token", err.Error())
		return
	}
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   time.Now(),
	}); err != nil {
		storeFailed(w, r, "Failed to create session", err)
		return
	}
	csrf, err := middleware.IssueCSRFToken(w, a.secure)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "internal", "Failed to issue CSRF token", err.Error())
		return
	}

	slog.Info("operator signed in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		User: userView{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			TOTPEnabled: user.TOTPEnabled,
		},
		AccessToken: token,
		ExpiresAt:   expires.UTC(),
		CSRFToken:   csrf,
	})
}

// Logout destroys the cookie session. It succeeds without one.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	middleware.ClearCSRFToken(w, a.secure)
	writeSuccess(w)
}

// Session reports the identity the gate resolved for this request.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": id != nil,
		"identity":      id,
	})
}

// TwoFASetup starts TOTP enrollment for the signed-in operator. It is
// refused with 409 while 2FA is enabled.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		middleware.WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", auth.NoSessionReason)
		return
	}
	enrollment, err := a.provider.BeginTOTP(r.Context(), id.UserID)
	switch {
	case errors.Is(err, identity.ErrTOTPAlreadyEnabled):
		middleware.WriteError(w, http.StatusConflict, "totp_enabled",
			"Two-factor authentication is already enabled; disable it first", nil)
		return
	case err != nil:
		storeFailed(w, r, "Failed to start two-factor setup", err)
		return
	}
	writeJSON(w, http.StatusOK, enrollment)
}

// TwoFAEnable confirms enrollment with {code}.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	id, code, ok := a.totpRequest(w, r)
	if !ok {
		return
	}

	err := a.provider.EnableTOTP(r.Context(), id.UserID, code)
	switch {
	case errors.Is(err, identity.ErrTOTPNotStarted):
		badRequest(w, "Two-factor setup has not been started")
		return
	case errors.Is(err, identity.ErrInvalidCode):
		writeInvalid(w, []fieldMessage{{Field: codeField.Wire, Message: "is not a valid code"}})
		return
	case err != nil:
		storeFailed(w, r, "Failed to enable two-factor", err)
		return
	}
	slog.Info("two-factor enabled", "user_id", id.UserID)
	writeSuccess(w)
}

// TwoFADisable turns the second factor off given a current {code}.
func (a *Auth) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	id, code, ok := a.totpRequest(w, r)
	if !ok {
		return
	}

	err := a.provider.DisableTOTP(r.Context(), id.UserID, code)
	switch {
	case errors.Is(err, identity.ErrTOTPNotEnabled):
		badRequest(w, "Two-factor authentication is not enabled")
		return
	case errors.Is(err, identity.ErrInvalidCode):
		writeInvalid(w, []fieldMessage{{Field: codeField.Wire, Message: "is not a valid code"}})
		return
	case err != nil:
		storeFailed(w, r, "Failed to disable two-factor", err)
		return
	}
	slog.Info("two-factor disabled", "user_id", id.UserID)
	writeSuccess(w)
}

// totpRequest reads the identity and the required {code} body.
func (a *Auth) totpRequest(w http.ResponseWriter, r *http.Request) (*auth.Identity, string, bool) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		middleware.WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized", auth.NoSessionReason)
		return nil, "", false
	}
	body, ok := decode(w, r)
	if !ok {
		return nil, "", false
	}
	var code string
	if err := body.SetString(codeField, &code); err != nil {
		invalid(w, err)
		return nil, "", false
	}
	if code == "" {
		writeInvalid(w, []fieldMessage{{Field: codeField.Wire, Message: "is required"}})
		return nil, "", false
	}
	return id, code, true
}
