// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

// LocalUserID returns a fresh id for an account created outside the
// identity provider.
func LocalUserID() string {
	return models.LocalIDPrefix + uuid.NewString()
}

type seedUser struct {
	email, password, name, role string
}

var devUsers = []seedUser{
	{"admin@storefront.local", "admin", "Admin", "ADMIN"},
	{"seller@storefront.local", "seller", "Demo Seller", "SELLER"},
}

// Seed populates the database with development accounts. It does nothing
// once any user exists. Accounts must set up 2FA on first login.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, u := range devUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password_hash, name, role, totp_enabled)
			VALUES ($1, $2, $3, $4, $5, FALSE)
			ON CONFLICT (email) DO NOTHING
		`, LocalUserID(), u.email, string(hash), u.name, u.role)
		if err != nil {
			return fmt.Errorf("seed insert %s: %w", u.role, err)
		}

		slog.Info("seeded development user", "email", u.email, "password", u.password, "role", u.role)
	}

	return nil
}
