// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity describes who is making a request and talks to the
// identity provider that owns user accounts and their role claim.
package identity

import (
	"context"
	"log/slog"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// Role is the role claim carried by a caller.
type Role = models.Role

const (
	RoleAdmin  = models.RoleAdmin
	RoleSeller = models.RoleSeller
	RoleUser   = models.RoleUser
)

// Caller is the authenticated identity of a request. Handlers build it from
// the session and pass it explicitly to every operation that needs it.
type Caller struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

// Require checks that c is present and holds role. A nil caller yields
// apperr.ErrUnauthenticated, a different role apperr.ErrUnauthorized.
func (c *Caller) Require(role Role) error {
	if c == nil || c.UserID == "" {
		return apperr.ErrUnauthenticated
	}
	if c.Role != role {
		return apperr.Unauthorized(string(role))
	}
	return nil
}

// MetadataUpdater pushes the locally stored role back to the provider.
type MetadataUpdater interface {
	UpdateRole(ctx context.Context, userID string, role Role) error
}

// NopUpdater is used when no provider is configured.
type NopUpdater struct{}

func (NopUpdater) UpdateRole(_ context.Context, userID string, role Role) error {
	slog.Debug("identity provider not configured, skipping role sync", "user_id", userID, "role", role)
	return nil
}
