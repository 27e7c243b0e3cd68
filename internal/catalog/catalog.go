// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the role-checked write and read flows of the
// marketplace: categories and sub-categories for admins, stores and
// products for sellers. Every operation takes the caller explicitly.
package catalog

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/slug"
)

// CategoryRepo persists categories. Lookups return nil, nil when nothing
// matches.
type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	ListFeatured(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByURL(ctx context.Context, url string) (*models.Category, error)
	Upsert(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubCategoryRepo persists sub-categories.
type SubCategoryRepo interface {
	List(ctx context.Context) ([]models.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.SubCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error)
	Upsert(ctx context.Context, sc *models.SubCategory) (*models.SubCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StoreRepo persists sellers' stores.
type StoreRepo interface {
	ListByUser(ctx context.Context, userID string) ([]models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByURL(ctx context.Context, url string) (*models.Store, error)
	Upsert(ctx context.Context, st *models.Store) (*models.Store, error)
	Patch(ctx context.Context, p *models.StorePatch) (*models.Store, error)
}

// ProductRepo persists products and their variants.
type ProductRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindMain(ctx context.Context, id uuid.UUID) (*models.ProductMain, error)
	CreateWithVariant(ctx context.Context, p *models.Product, v *models.ProductVariant) error
	AddVariant(ctx context.Context, productID uuid.UUID, v *models.ProductVariant) error
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
	FindVariantBySlug(ctx context.Context, variantSlug string) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Invalidator is told about every successful write so stale pages can be
// dropped.
type Invalidator interface {
	Invalidate(ctx context.Context, c cache.Change)
}

// Dashboard listing paths refreshed after writes.
const (
	CategoriesPath    = "/dashboard/admin/categories"
	SubCategoriesPath = "/dashboard/admin/sub-categories"
	StoresPath        = "/dashboard/seller/stores"
)

// StorePath returns the dashboard path of one store.
func StorePath(storeURL string) string {
	return StoresPath + "/" + storeURL
}

// StoreProductsPath returns the dashboard product listing of a store.
func StoreProductsPath(storeURL string) string {
	return StorePath(storeURL) + "/products"
}

// Public page paths.
func categoryPagePath(url string) string { return "/category/" + url }
func productPagePath(slug string) string { return "/product/" + slug }

const homePath = "/"

// Repos groups the persistence dependencies of a Service.
type Repos struct {
	Categories    CategoryRepo
	SubCategories SubCategoryRepo
	Stores        StoreRepo
	Products      ProductRepo
}

// Service runs the catalog flows.
type Service struct {
	categories    CategoryRepo
	subCategories SubCategoryRepo
	stores        StoreRepo
	products      ProductRepo
	slugs         slug.Checker
	inv           Invalidator
}

// New builds a Service. slugs answers slug lookups for products and
// variants; inv may be nil.
func New(r Repos, slugs slug.Checker, inv Invalidator) *Service {
	return &Service{
		categories:    r.Categories,
		subCategories: r.SubCategories,
		stores:        r.Stores,
		products:      r.Products,
		slugs:         slugs,
		inv:           inv,
	}
}

func (s *Service) invalidate(ctx context.Context, entity, id, action string, paths ...string) {
	if s.inv == nil {
		return
	}
	s.inv.Invalidate(ctx, cache.Change{Entity: entity, ID: id, Action: action, Paths: paths})
}

// purge is invalidate for writes whose affected pages cannot be listed.
func (s *Service) purge(ctx context.Context, entity, id, action string) {
	if s.inv == nil {
		return
	}
	s.inv.Invalidate(ctx, cache.Change{Entity: entity, ID: id, Action: action, All: true})
}
