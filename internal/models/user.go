// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"
)

// Role represents the role claim attached to a user by the identity
// provider and mirrored in the local users table.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleSeller Role = "SELLER"
	RoleUser   Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleUser:
		return true
	}
	return false
}

// User represents a marketplace account. Accounts created by the identity
// provider webhook carry the provider-issued id and no password; local
// dashboard accounts also carry a bcrypt hash and 2FA fields.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Picture      string    `json:"picture"`
	Role         Role      `json:"role"`
	PasswordHash *string   `json:"-"` // Nil for provider-managed accounts
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanLogin reports whether the account can sign in to the dashboard with a
// local password.
func (u *User) CanLogin() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// LocalIDPrefix marks ids of accounts created outside the identity
// provider. A provider sync for the same email replaces the id.
const LocalIDPrefix = "local_"

// ProviderManaged reports whether the account is known to the identity
// provider rather than only created locally.
func (u *User) ProviderManaged() bool {
	return !strings.HasPrefix(u.ID, LocalIDPrefix)
}

// Needs2FASetup returns true if the user has not completed 2FA enrollment.
// All dashboard users must set up 2FA on their first login.
func (u *User) Needs2FASetup() bool {
	return !u.TOTPEnabled
}
