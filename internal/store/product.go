// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/slug"
)

// ProductStore manages products, their variants and the variants' images,
// colors and sizes.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, name, description, slug, brand, rating, store_id, category_id, sub_category_id, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Slug, &p.Brand, &p.Rating,
		&p.StoreID, &p.CategoryID, &p.SubCategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SlugExists implements slug.Checker. Products and variants are separate
// namespaces.
func (s *ProductStore) SlugExists(ctx context.Context, kind slug.Kind, value string) (bool, error) {
	var query string
	switch kind {
	case slug.KindProduct:
		query = `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`
	case slug.KindProductVariant:
		query = `SELECT EXISTS (SELECT 1 FROM product_variants WHERE slug = $1)`
	default:
		return false, fmt.Errorf("slug exists: unknown kind %q", kind)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, value).Scan(&exists); err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// FindByID retrieves a product without its variants. Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// FindMain returns the product-level fields used to prefill the "new
// variant" form. Returns nil if not found.
func (s *ProductStore) FindMain(ctx context.Context, id uuid.UUID) (*models.ProductMain, error) {
	var m models.ProductMain
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, brand, category_id, sub_category_id, store_id
		FROM products WHERE id = $1
	`, id).Scan(&m.ProductID, &m.Name, &m.Description, &m.Brand, &m.CategoryID, &m.SubCategoryID, &m.StoreID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product main: %w", err)
	}
	return &m, nil
}

// CreateWithVariant inserts a product together with its first variant in
// one transaction.
func (s *ProductStore) CreateWithVariant(ctx context.Context, p *models.Product, v *models.ProductVariant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO products (id, name, description, slug, brand, store_id, category_id, sub_category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING rating, created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Slug, p.Brand, p.StoreID, p.CategoryID, p.SubCategoryID,
	).Scan(&p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", translateConflict(err))
	}

	if err := insertVariant(ctx, tx, p.ID, v); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit product: %w", err)
	}
	p.Variants = []models.ProductVariant{*v}
	return nil
}

// AddVariant attaches a new variant to an existing product.
func (s *ProductStore) AddVariant(ctx context.Context, productID uuid.UUID, v *models.ProductVariant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertVariant(ctx, tx, productID, v); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE products SET updated_at = NOW() WHERE id = $1`, productID); err != nil {
		return fmt.Errorf("touch product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit variant: %w", err)
	}
	return nil
}

// insertVariant writes a variant row and its images, colors and sizes.
func insertVariant(ctx context.Context, tx *sql.Tx, productID uuid.UUID, v *models.ProductVariant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.ProductID = productID

	err := tx.QueryRowContext(ctx, `
		INSERT INTO product_variants (id, product_id, variant_name, variant_description, slug, is_sale, sku, keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, v.ID, productID, v.VariantName, v.VariantDescription, v.Slug, v.IsSale, v.SKU, v.Keywords,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create variant: %w", translateConflict(err))
	}

	for i := range v.Images {
		img := &v.Images[i]
		img.Position = i
		err := tx.QueryRowContext(ctx, `
			INSERT INTO product_variant_images (variant_id, url, alt, position)
			VALUES ($1, $2, $3, $4) RETURNING id
		`, v.ID, img.URL, img.Alt, img.Position).Scan(&img.ID)
		if err != nil {
			return fmt.Errorf("create variant image: %w", err)
		}
	}

	for i := range v.Colors {
		c := &v.Colors[i]
		err := tx.QueryRowContext(ctx, `
			INSERT INTO product_variant_colors (variant_id, name) VALUES ($1, $2) RETURNING id
		`, v.ID, c.Name).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("create variant color: %w", err)
		}
	}

	for i := range v.Sizes {
		sz := &v.Sizes[i]
		err := tx.QueryRowContext(ctx, `
			INSERT INTO product_variant_sizes (variant_id, size, price, quantity, discount)
			VALUES ($1, $2, $3, $4, $5) RETURNING id
		`, v.ID, sz.Size, sz.Price, sz.Quantity, sz.Discount).Scan(&sz.ID)
		if err != nil {
			return fmt.Errorf("create variant size: %w", err)
		}
	}
	return nil
}

// ListByStore returns the products of a store, newest first, each with its
// variants. Only the first image of every variant is loaded.
func (s *ProductStore) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.slug, p.brand, p.rating, p.store_id,
		       p.category_id, p.sub_category_id, p.created_at, p.updated_at,
		       v.id, v.variant_name, v.slug, v.is_sale, v.sku,
		       COALESCE((SELECT i.url FROM product_variant_images i
		                 WHERE i.variant_id = v.id ORDER BY i.position LIMIT 1), '')
		FROM products p
		JOIN product_variants v ON v.product_id = p.id
		WHERE p.store_id = $1
		ORDER BY p.updated_at DESC, p.id, v.created_at
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store products: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		var (
			p     models.Product
			v     models.ProductVariant
			image string
		)
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Slug, &p.Brand, &p.Rating, &p.StoreID,
			&p.CategoryID, &p.SubCategoryID, &p.CreatedAt, &p.UpdatedAt,
			&v.ID, &v.VariantName, &v.Slug, &v.IsSale, &v.SKU, &image,
		)
		if err != nil {
			return nil, fmt.Errorf("scan store product: %w", err)
		}
		v.ProductID = p.ID
		if image != "" {
			v.Images = []models.VariantImage{{URL: image, Alt: models.ImageAlt(image)}}
		}

		if n := len(items); n > 0 && items[n-1].ID == p.ID {
			items[n-1].Variants = append(items[n-1].Variants, v)
			continue
		}
		p.Variants = []models.ProductVariant{v}
		items = append(items, p)
	}
	return items, rows.Err()
}

// FindVariantBySlug returns the product owning the variant with the given
// slug, with that single variant fully loaded. Returns nil if not found.
func (s *ProductStore) FindVariantBySlug(ctx context.Context, variantSlug string) (*models.Product, error) {
	var v models.ProductVariant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, product_id, variant_name, variant_description, slug, is_sale, sku, keywords, created_at, updated_at
		FROM product_variants WHERE slug = $1
	`, variantSlug).Scan(
		&v.ID, &v.ProductID, &v.VariantName, &v.VariantDescription, &v.Slug,
		&v.IsSale, &v.SKU, &v.Keywords, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find variant by slug: %w", err)
	}

	p, err := s.FindByID(ctx, v.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	if err := s.loadVariantDetails(ctx, &v); err != nil {
		return nil, err
	}
	p.Variants = []models.ProductVariant{v}
	return p, nil
}

func (s *ProductStore) loadVariantDetails(ctx context.Context, v *models.ProductVariant) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, alt, position FROM product_variant_images WHERE variant_id = $1 ORDER BY position`, v.ID)
	if err != nil {
		return fmt.Errorf("load variant images: %w", err)
	}
	for rows.Next() {
		var img models.VariantImage
		if err := rows.Scan(&img.ID, &img.URL, &img.Alt, &img.Position); err != nil {
			rows.Close()
			return fmt.Errorf("scan variant image: %w", err)
		}
		v.Images = append(v.Images, img)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, name FROM product_variant_colors WHERE variant_id = $1`, v.ID)
	if err != nil {
		return fmt.Errorf("load variant colors: %w", err)
	}
	for rows.Next() {
		var c models.VariantColor
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			rows.Close()
			return fmt.Errorf("scan variant color: %w", err)
		}
		v.Colors = append(v.Colors, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, size, price, quantity, discount FROM product_variant_sizes WHERE variant_id = $1 ORDER BY price`, v.ID)
	if err != nil {
		return fmt.Errorf("load variant sizes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sz models.VariantSize
		if err := rows.Scan(&sz.ID, &sz.Size, &sz.Price, &sz.Quantity, &sz.Discount); err != nil {
			return fmt.Errorf("scan variant size: %w", err)
		}
		v.Sizes = append(v.Sizes, sz)
	}
	return rows.Err()
}

// Delete removes a product and, through cascading keys, its variants.
func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound(apperr.KindProduct)
	}
	return nil
}
