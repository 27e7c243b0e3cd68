// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/identity"
	"storefront/internal/models"
)

// UpsertStore creates a store owned by the caller or updates one the
// caller already owns. Name, url, email and phone must be unique.
func (s *Service) UpsertStore(ctx context.Context, caller *identity.Caller, st *models.Store) (*models.Store, error) {
	if err := caller.Require(identity.RoleSeller); err != nil {
		return nil, err
	}

	if st.ID != uuid.Nil {
		existing, err := s.stores.FindByID(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.UserID != caller.UserID {
			return nil, apperr.Unauthorized(string(identity.RoleSeller))
		}
	}
	st.UserID = caller.UserID

	saved, err := s.stores.Upsert(ctx, st)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "store", saved.ID.String(), "upsert", StoresPath, StorePath(saved.URL))
	return saved, nil
}

// PatchStore applies a partial update to a store the caller owns.
func (s *Service) PatchStore(ctx context.Context, caller *identity.Caller, p *models.StorePatch) (*models.Store, error) {
	if err := caller.Require(identity.RoleSeller); err != nil {
		return nil, err
	}

	existing, err := s.stores.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound(apperr.KindStore)
	}
	if existing.UserID != caller.UserID {
		return nil, apperr.Unauthorized(string(identity.RoleSeller))
	}

	saved, err := s.stores.Patch(ctx, p)
	if err != nil {
		return nil, err
	}
	paths := []string{StoresPath, StorePath(saved.URL)}
	if existing.URL != saved.URL {
		paths = append(paths, StorePath(existing.URL))
	}
	s.invalidate(ctx, "store", saved.ID.String(), "upsert", paths...)
	return saved, nil
}

// ListSellerStores returns the caller's stores.
func (s *Service) ListSellerStores(ctx context.Context, caller *identity.Caller) ([]models.Store, error) {
	if err := caller.Require(identity.RoleSeller); err != nil {
		return nil, err
	}
	return s.stores.ListByUser(ctx, caller.UserID)
}

// GetStoreByURL returns one of the caller's stores by url.
func (s *Service) GetStoreByURL(ctx context.Context, caller *identity.Caller, url string) (*models.Store, error) {
	if err := caller.Require(identity.RoleSeller); err != nil {
		return nil, err
	}
	return s.ownedStore(ctx, caller, url)
}

// ownedStore loads a store by url and checks the caller owns it.
func (s *Service) ownedStore(ctx context.Context, caller *identity.Caller, url string) (*models.Store, error) {
	st, err := s.stores.FindByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperr.NotFound(apperr.KindStore)
	}
	if st.UserID != caller.UserID {
		return nil, apperr.Unauthorized(string(identity.RoleSeller))
	}
	return st, nil
}
