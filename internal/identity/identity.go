// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity is the in-process identity provider for the operator:
// password sign-in against the users table, an optional TOTP second factor,
// and HS256 bearer tokens for API clients.
package identity

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"portfolio/internal/models"
)

var (
	// ErrInvalidCredentials is returned for an unknown email, a wrong
	// password, or a wrong TOTP code.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTOTPRequired is returned when the operator has 2FA enabled and the
	// sign-in carried no code.
	ErrTOTPRequired = errors.New("two-factor code required")

	// ErrTokenExpired is returned by Verify for a well-formed token past its
	// expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken is returned by Verify for anything else it rejects.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTOTPNotStarted is returned by EnableTOTP before BeginTOTP.
	ErrTOTPNotStarted = errors.New("two-factor setup not started")

	// ErrInvalidCode is returned by EnableTOTP and DisableTOTP for a wrong code.
	ErrInvalidCode = errors.New("invalid two-factor code")

	// ErrTOTPAlreadyEnabled is returned by BeginTOTP while 2FA is on. The
	// operator disables it with a current code before enrolling again.
	ErrTOTPAlreadyEnabled = errors.New("two-factor authentication is already enabled")

	// ErrTOTPNotEnabled is returned by DisableTOTP when 2FA is off.
	ErrTOTPNotEnabled = errors.New("two-factor authentication is not enabled")
)

// DefaultTokenTTL is the bearer token lifetime when none is configured.
const DefaultTokenTTL = time.Hour

// Users is the slice of the user store the provider needs.
type Users interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
	SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, userID uuid.UUID) error
	ResetTOTP(ctx context.Context, userID uuid.UUID) error
}

// Claims are the bearer token claims. Subject holds the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Provider signs the operator in and issues and verifies bearer tokens.
type Provider struct {
	users  Users
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewProvider creates a provider. The secret must not be empty.
func NewProvider(users Users, secret string, ttl time.Duration, issuer string) (*Provider, error) {
	if secret == "" {
		return nil, fmt.Errorf("identity: JWT secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Provider{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// SignIn checks the email and password, then the TOTP code when the
// operator has enabled 2FA.
func (p *Provider) SignIn(ctx context.Context, email, password, code string) (*models.User, error) {
	user, err := p.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if user == nil || !p.users.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}

	if user.RequiresTOTP() {
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, ErrTOTPRequired
		}
		if !totp.Validate(code, *user.TOTPSecret) {
			return nil, ErrInvalidCredentials
		}
	}
	return user, nil
}

// Issue signs a bearer token for user.
func (p *Provider) Issue(user *models.User) (string, time.Time, error) {
	now := p.now()
	expires := now.Add(p.ttl)
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    p.issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify validates a bearer token and returns its claims.
func (p *Provider) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}

// Enrollment is a freshly generated TOTP secret awaiting confirmation.
type Enrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauthUrl"`
	QRCode string `json:"qrCode"` // base64 PNG
}

// BeginTOTP generates and stores a new TOTP secret for the user. 2FA is not
// enforced until EnableTOTP confirms a code. An enabled factor is never
// replaced here.
func (p *Provider) BeginTOTP(ctx context.Context, userID uuid.UUID) (*Enrollment, error) {
	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("begin totp: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.RequiresTOTP() {
		return nil, ErrTOTPAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      p.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}
	if err := p.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, fmt.Errorf("save totp secret: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	return &Enrollment{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// EnableTOTP confirms enrollment with a code from the authenticator app.
func (p *Provider) EnableTOTP(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	if user == nil || user.TOTPSecret == nil {
		return ErrTOTPNotStarted
	}
	if !totp.Validate(strings.TrimSpace(code), *user.TOTPSecret) {
		return ErrInvalidCode
	}
	if err := p.users.EnableTOTP(ctx, user.ID); err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// DisableTOTP turns 2FA off and drops the secret. The caller proves
// possession of the authenticator with a current code.
func (p *Provider) DisableTOTP(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("disable totp: %w", err)
	}
	if user == nil || !user.RequiresTOTP() {
		return ErrTOTPNotEnabled
	}
	if !totp.Validate(strings.TrimSpace(code), *user.TOTPSecret) {
		return ErrInvalidCode
	}
	if err := p.users.ResetTOTP(ctx, user.ID); err != nil {
		return fmt.Errorf("disable totp: %w", err)
	}
	return nil
}
