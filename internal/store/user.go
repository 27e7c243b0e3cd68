// Package store provides database access methods for all storefront
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, name, picture, role, password_hash, totp_secret, totp_enabled, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := scanner.Scan(
		&u.ID, &u.Email, &u.Name, &u.Picture, &u.Role,
		&u.PasswordHash, &u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by id. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a local dashboard account with a bcrypt-hashed password.
func (s *UserStore) Create(ctx context.Context, email, password, name string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		database.LocalUserID(), email, string(hash), name, role,
	))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", translateConflict(err))
	}
	return u, nil
}

// UpsertByEmail syncs an account pushed by the identity provider. A new
// email creates a row with u.ID and role USER. An existing email keeps its
// role, refreshes the profile fields and adopts u.ID, which links a local
// account to its provider account; owned stores follow through
// ON UPDATE CASCADE.
func (s *UserStore) UpsertByEmail(ctx context.Context, u *models.User) (*models.User, error) {
	result, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, picture, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			id = EXCLUDED.id, name = EXCLUDED.name, picture = EXCLUDED.picture, updated_at = NOW()
		RETURNING `+userColumns,
		u.ID, u.Email, u.Name, u.Picture, models.RoleUser,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return result, nil
}

// SetRole changes a user's role.
func (s *UserStore) SetRole(ctx context.Context, id string, role models.Role) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound(apperr.KindUser)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(ctx context.Context, userID, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// Delete removes a user by id. Deleting an id that has no row returns
// apperr.NotFound(apperr.KindUser) and touches nothing.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return apperr.NotFound(apperr.KindUser)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
// Accounts without a local password never match.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	if !user.CanLogin() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) == nil
}
