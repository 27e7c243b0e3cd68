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

// UpsertCategory creates or updates a category keyed by its ID. Only
// admins may call it. A name or url already used by another category
// fails with *apperr.DuplicateFieldError.
func (s *Service) UpsertCategory(ctx context.Context, caller *identity.Caller, c *models.Category) (*models.Category, error) {
	if err := caller.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}

	paths := []string{CategoriesPath, homePath, categoryPagePath(c.URL)}
	if c.ID != uuid.Nil {
		old, err := s.categories.FindByID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if old != nil && old.URL != c.URL {
			paths = append(paths, categoryPagePath(old.URL))
		}
	}

	saved, err := s.categories.Upsert(ctx, c)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "category", saved.ID.String(), "upsert", paths...)
	return saved, nil
}

// ListCategories returns every category with its sub-category count.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns one category for editing.
func (s *Service) GetCategory(ctx context.Context, caller *identity.Caller, id uuid.UUID) (*models.Category, error) {
	if err := caller.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound(apperr.KindCategory)
	}
	return c, nil
}

// DeleteCategory removes a category and its sub-categories.
func (s *Service) DeleteCategory(ctx context.Context, caller *identity.Caller, id uuid.UUID) error {
	c, err := s.GetCategory(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "category", id.String(), "delete", CategoriesPath, SubCategoriesPath, homePath, categoryPagePath(c.URL))
	return nil
}

// UpsertSubCategory creates or updates a sub-category. The parent category
// must exist.
func (s *Service) UpsertSubCategory(ctx context.Context, caller *identity.Caller, sc *models.SubCategory) (*models.SubCategory, error) {
	if err := caller.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}

	parent, err := s.categories.FindByID(ctx, sc.CategoryID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, apperr.NotFound(apperr.KindCategory)
	}

	saved, err := s.subCategories.Upsert(ctx, sc)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "sub_category", saved.ID.String(), "upsert", SubCategoriesPath, categoryPagePath(parent.URL))
	return saved, nil
}

// ListSubCategories returns every sub-category with its parent's name.
func (s *Service) ListSubCategories(ctx context.Context, caller *identity.Caller) ([]models.SubCategory, error) {
	if err := caller.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	return s.subCategories.List(ctx)
}

// ListSubCategoriesForCategory returns the sub-categories of one category.
// It backs the dependent select of the product form and the public
// category page.
func (s *Service) ListSubCategoriesForCategory(ctx context.Context, categoryID uuid.UUID) ([]models.SubCategory, error) {
	return s.subCategories.ListByCategory(ctx, categoryID)
}

// GetSubCategory returns one sub-category for editing.
func (s *Service) GetSubCategory(ctx context.Context, caller *identity.Caller, id uuid.UUID) (*models.SubCategory, error) {
	if err := caller.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	sc, err := s.subCategories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, apperr.NotFound(apperr.KindSubCategory)
	}
	return sc, nil
}

// DeleteSubCategory removes a sub-category.
func (s *Service) DeleteSubCategory(ctx context.Context, caller *identity.Caller, id uuid.UUID) error {
	sc, err := s.GetSubCategory(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.subCategories.Delete(ctx, id); err != nil {
		return err
	}
	paths := []string{SubCategoriesPath}
	if parent, err := s.categories.FindByID(ctx, sc.CategoryID); err == nil && parent != nil {
		paths = append(paths, categoryPagePath(parent.URL))
	}
	s.invalidate(ctx, "sub_category", id.String(), "delete", paths...)
	return nil
}
