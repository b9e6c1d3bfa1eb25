package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"portfolio/internal/models"
)

type fakeUsers struct {
	byID map[uuid.UUID]*models.User
}

func newFakeUsers(t *testing.T, email, password string) (*fakeUsers, *models.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	return &fakeUsers{byID: map[uuid.UUID]*models.User{u.ID: u}}, u
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (f *fakeUsers) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	f.byID[id].TOTPSecret = &secret
	return nil
}

func (f *fakeUsers) EnableTOTP(_ context.Context, id uuid.UUID) error {
	f.byID[id].TOTPEnabled = true
	return nil
}

func (f *fakeUsers) ResetTOTP(_ context.Context, id uuid.UUID) error {
	f.byID[id].TOTPSecret = nil
	f.byID[id].TOTPEnabled = false
	return nil
}

func newProvider(t *testing.T, users Users) *Provider {
	t.Helper()
	p, err := NewProvider(users, "test-secret-0123456789abcdef", time.Hour, "Portfolio")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func TestNewProviderRequiresSecret(t *testing.T) {
	if _, err := NewProvider(&fakeUsers{}, "", time.Hour, "x"); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestSignIn(t *testing.T) {
	users, u := newFakeUsers(t, "op@example.com", "hunter22")
	p := newProvider(t, users)
	ctx := context.Background()

	got, err := p.SignIn(ctx, " op@example.com ", "hunter22", "")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("user id = %s, want %s", got.ID, u.ID)
	}

	if _, err := p.SignIn(ctx, "op@example.com", "wrong", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := p.SignIn(ctx, "nobody@example.com", "hunter22", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}
}

func TestTOTPEnrollmentAndSignIn(t *testing.T) {
	users, u := newFakeUsers(t, "op@example.com", "hunter22")
	p := newProvider(t, users)
	ctx := context.Background()

	if err := p.EnableTOTP(ctx, u.ID, "123456"); !errors.Is(err, ErrTOTPNotStarted) {
		t.Fatalf("EnableTOTP before setup = %v", err)
	}

	enr, err := p.BeginTOTP(ctx, u.ID)
	if err != nil {
		t.Fatalf("BeginTOTP: %v", err)
	}
	if enr.Secret == "" || enr.QRCode == "" || enr.URL == "" {
		t.Fatalf("incomplete enrollment: %+v", enr)
	}

	// Pending enrollment does not gate sign-in.
	if _, err := p.SignIn(ctx, "op@example.com", "hunter22", ""); err != nil {
		t.Fatalf("SignIn during pending enrollment: %v", err)
	}

	if err := p.EnableTOTP(ctx, u.ID, "000000x"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("EnableTOTP with bad code = %v", err)
	}
	code, err := totp.GenerateCode(enr.Secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	if err := p.EnableTOTP(ctx, u.ID, code); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	if _, err := p.SignIn(ctx, "op@example.com", "hunter22", ""); !errors.Is(err, ErrTOTPRequired) {
		t.Errorf("missing code err = %v, want ErrTOTPRequired", err)
	}
	if _, err := p.SignIn(ctx, "op@example.com", "hunter22", "abcdef"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong code err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := p.SignIn(ctx, "op@example.com", "hunter22", code); err != nil {
		t.Errorf("SignIn with code: %v", err)
	}

	// Re-enrolling while enabled must not swap the secret.
	if _, err := p.BeginTOTP(ctx, u.ID); !errors.Is(err, ErrTOTPAlreadyEnabled) {
		t.Fatalf("BeginTOTP while enabled = %v, want ErrTOTPAlreadyEnabled", err)
	}
	if u.TOTPSecret == nil || *u.TOTPSecret != enr.Secret || !u.TOTPEnabled {
		t.Fatalf("secret changed by refused enrollment")
	}
	if _, err := p.SignIn(ctx, "op@example.com", "hunter22", code); err != nil {
		t.Errorf("SignIn with original secret after refused enrollment: %v", err)
	}

	if err := p.DisableTOTP(ctx, u.ID, "abcdef"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("DisableTOTP with bad code = %v", err)
	}
	if err := p.DisableTOTP(ctx, u.ID, code); err != nil {
		t.Fatalf("DisableTOTP: %v", err)
	}
	if _, err := p.SignIn(ctx, "op@example.com", "hunter22", ""); err != nil {
		t.Errorf("SignIn after disable: %v", err)
	}
	if err := p.DisableTOTP(ctx, u.ID, code); !errors.Is(err, ErrTOTPNotEnabled) {
		t.Errorf("second DisableTOTP = %v, want ErrTOTPNotEnabled", err)
	}
}

func TestIssueAndVerify(t *testing.T) {
	users, u := newFakeUsers(t, "op@example.com", "pw")
	p := newProvider(t, users)

	token, expires, err := p.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if d := time.Until(expires); d < 59*time.Minute || d > time.Hour+time.Minute {
		t.Errorf("expiry %v out of range", d)
	}

	claims, err := p.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	id, _ := claims.UserID()
	if id != u.ID || claims.Email != u.Email {
		t.Errorf("claims = %s/%s, want %s/%s", id, claims.Email, u.ID, u.Email)
	}
}

func TestVerifyExpired(t *testing.T) {
	users, u := newFakeUsers(t, "op@example.com", "pw")
	p := newProvider(t, users)

	issued := time.Now().Add(-2 * time.Hour)
	p.now = func() time.Time { return issued }
	token, _, err := p.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	p.now = time.Now

	if _, err := p.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify expired = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyRejects(t *testing.T) {
	users, u := newFakeUsers(t, "op@example.com", "pw")
	p := newProvider(t, users)

	other, err := NewProvider(users, "a-different-secret", time.Hour, "Portfolio")
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, _ := other.Issue(u)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret-0123456789abcdef"))

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", foreign},
		{"alg none", none},
		{"bad subject", noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify = %v, want ErrInvalidToken", err)
			}
		})
	}
}
