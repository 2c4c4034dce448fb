// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"
)

// User represents an account in the user directory. Accounts are created on
// registration, on first login through an external identity provider, or
// auto-provisioned when an unknown email submits a comment.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Picture      *string   `json:"picture,omitempty"`
	IsAdmin      bool      `json:"is_admin"`
	PasswordHash *string   `json:"-"` // Never serialize the hash; nil for provisioned accounts
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA enrollment
	TOTPEnabled  bool      `json:"totp_enabled"`
	Locale       string    `json:"locale"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether the account can log in with a password.
// Auto-provisioned commenters and external-identity accounts have none.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
