// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/identity"
	"storefront/internal/models"
	"storefront/internal/slug"
)

// maxSlugWrites bounds how often a write is retried after losing a slug
// race to a concurrent submission.
const maxSlugWrites = 3

// UpsertProduct stores a product form submission for the seller's store at
// storeURL. When in.ProductID names an existing product only a new variant
// is attached to it; otherwise the product is created together with its
// first variant. Product and variant slugs are derived from the names and
// made unique within their own kind.
func (s *Service) UpsertProduct(ctx context.Context, caller *identity.Caller, storeURL string, in *models.ProductWithVariant) (*models.Product, error) {
	if err := caller.Require(identity.RoleSeller); err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound(apperr.KindCategory)
	}

	sub, err := s.subCategories.FindByID(ctx, in.SubCategoryID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperr.NotFound(apperr.KindSubCategory)
	}
	if sub.CategoryID != category.ID {
		return nil, apperr.Invalid("subCategoryId", "Sub category does not belong to the selected category.")
	}

	st, err := s.ownedStore(ctx, caller, storeURL)
	if err != nil {
		return nil, err
	}

	var existing *models.Product
	if in.ProductID != uuid.Nil {
		existing, err = s.products.FindByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.StoreID != st.ID {
			return nil, apperr.Unauthorized(string(identity.RoleSeller))
		}
	}

	var (
		product *models.Product
		variant *models.ProductVariant
	)
	for attempt := 1; ; attempt++ {
		variant, err = s.newVariant(ctx, in)
		if err != nil {
			return nil, err
		}

		if existing != nil {
			err = s.products.AddVariant(ctx, existing.ID, variant)
			product = existing
		} else {
			product, err = s.newProduct(ctx, in, st.ID)
			if err != nil {
				return nil, err
			}
			err = s.products.CreateWithVariant(ctx, product, variant)
		}

		if err == nil {
			break
		}
		if !apperr.IsSlugConflict(err) || attempt == maxSlugWrites {
			return nil, err
		}
	}

	if existing != nil {
		product.Variants = append(product.Variants, *variant)
	}

	s.invalidate(ctx, "product", product.ID.String(), "upsert",
		StoreProductsPath(st.URL), productPagePath(variant.Slug), categoryPagePath(category.URL))
	return product, nil
}

// newProduct builds the product row with a fresh unique slug.
func (s *Service) newProduct(ctx context.Context, in *models.ProductWithVariant, storeID uuid.UUID) (*models.Product, error) {
	productSlug, err := slug.Unique(ctx, s.slugs, slugBase(in.Name, "product"), slug.KindProduct)
	if err != nil {
		return nil, err
	}
	return &models.Product{
		ID:            in.ProductID,
		Name:          in.Name,
		Description:   in.Description,
		Slug:          productSlug,
		Brand:         in.Brand,
		StoreID:       storeID,
		CategoryID:    in.CategoryID,
		SubCategoryID: in.SubCategoryID,
	}, nil
}

// newVariant builds the variant row and its nested rows with a fresh unique
// slug.
func (s *Service) newVariant(ctx context.Context, in *models.ProductWithVariant) (*models.ProductVariant, error) {
	variantSlug, err := slug.Unique(ctx, s.slugs, slugBase(in.VariantName, "variant"), slug.KindProductVariant)
	if err != nil {
		return nil, err
	}

	v := &models.ProductVariant{
		ID:                 in.VariantID,
		VariantName:        in.VariantName,
		VariantDescription: in.VariantDescription,
		Slug:               variantSlug,
		IsSale:             in.IsSale,
		SKU:                in.SKU,
		Keywords:           strings.Join(in.Keywords, ","),
	}
	for i, url := range in.Images {
		v.Images = append(v.Images, models.VariantImage{URL: url, Alt: models.ImageAlt(url), Position: i})
	}
	for _, c := range in.Colors {
		v.Colors = append(v.Colors, models.VariantColor{Name: c})
	}
	for _, sz := range in.Sizes {
		v.Sizes = append(v.Sizes, models.VariantSize{
			Size:     sz.Size,
			Price:    sz.Price,
			Quantity: sz.Quantity,
			Discount: sz.Discount,
		})
	}
	return v, nil
}

// slugBase slugifies name, falling back when nothing URL-safe is left.
func slugBase(name, fallback string) string {
	if base := slug.Generate(name); base != "" {
		return base
	}
	return fallback
}

// GetProductMain returns the product fields used by the "new variant"
// page. The product must belong to one of the caller's stores.
func (s *Service) GetProductMain(ctx context.Context, caller *identity.Caller, productID uuid.UUID) (*models.ProductMain, error) {
	if err := caller.Require(identity.RoleSeller); err != nil {
		return nil, err
	}
	pm, err := s.products.FindMain(ctx, productID)
	if err != nil {
		return nil, err
	}
	if pm == nil {
		return nil, apperr.NotFound(apperr.KindProduct)
	}
	st, err := s.stores.FindByID(ctx, pm.StoreID)
	if err != nil {
		return nil, err
	}
	if st == nil || st.UserID != caller.UserID {
		return nil, apperr.Unauthorized(string(identity.RoleSeller))
	}
	return pm, nil
}

// ListStoreProducts returns the products of one of the caller's stores.
func (s *Service) ListStoreProducts(ctx context.Context, caller *identity.Caller, storeURL string) ([]models.Product, error) {
	if err := caller.Require(identity.RoleSeller); err != nil {
		return nil, err
	}
	st, err := s.ownedStore(ctx, caller, storeURL)
	if err != nil {
		return nil, err
	}
	return s.products.ListByStore(ctx, st.ID)
}

// DeleteProduct removes a product with all its variants from one of the
// caller's stores and purges the whole page cache.
func (s *Service) DeleteProduct(ctx context.Context, caller *identity.Caller, storeURL string, productID uuid.UUID) error {
	if err := caller.Require(identity.RoleSeller); err != nil {
		return err
	}
	st, err := s.ownedStore(ctx, caller, storeURL)
	if err != nil {
		return err
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil || p.StoreID != st.ID {
		return apperr.NotFound(apperr.KindProduct)
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	// Variant pages are keyed by slugs that are gone with the rows.
	s.purge(ctx, "product", productID.String(), "delete")
	return nil
}
