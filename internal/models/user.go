// Package models defines the record kinds stored by the portfolio service
// and the operator account used to sign in to the admin API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the site operator. There is a single operator in practice, but
// the table allows more so the seed and tests can create throwaway users.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RequiresTOTP reports whether sign-in must present a valid TOTP code.
// A user that started enrollment but never confirmed a code is not gated.
func (u *User) RequiresTOTP() bool {
	return u.TOTPEnabled && u.TOTPSecret != nil
}
