// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// FeaturedCategories returns the categories shown on the home page.
func (s *Service) FeaturedCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListFeatured(ctx)
}

// CategoryPage returns a category by url with its sub-categories.
func (s *Service) CategoryPage(ctx context.Context, url string) (*models.Category, []models.SubCategory, error) {
	c, err := s.categories.FindByURL(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, apperr.NotFound(apperr.KindCategory)
	}
	subs, err := s.subCategories.ListByCategory(ctx, c.ID)
	if err != nil {
		return nil, nil, err
	}
	return c, subs, nil
}

// ProductByVariantSlug returns the product page data for a variant slug.
func (s *Service) ProductByVariantSlug(ctx context.Context, variantSlug string) (*models.Product, error) {
	p, err := s.products.FindVariantBySlug(ctx, variantSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound(apperr.KindProductVariant)
	}
	return p, nil
}
