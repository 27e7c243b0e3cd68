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
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, image, url, featured, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Image, &c.URL, &c.Featured, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories, newest first, with sub-category counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.image, c.url, c.featured, c.created_at, c.updated_at,
		       COUNT(sc.id) AS sub_category_count
		FROM categories c
		LEFT JOIN sub_categories sc ON sc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Image, &c.URL, &c.Featured, &c.CreatedAt, &c.UpdatedAt,
			&c.SubCategoryCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListFeatured returns featured categories ordered by name.
func (s *CategoryStore) ListFeatured(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE featured ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list featured categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByURL retrieves a category by its URL segment. Returns nil if not found.
func (s *CategoryStore) FindByURL(ctx context.Context, url string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE url = $1`, url)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by url: %w", err)
	}
	return c, nil
}

// Upsert creates the category or, when a row with the same ID exists,
// updates it in place. A clash on name or url with another row yields a
// *apperr.DuplicateFieldError.
func (s *CategoryStore) Upsert(ctx context.Context, c *models.Category) (*models.Category, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, name, image, url, featured)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, image = EXCLUDED.image, url = EXCLUDED.url,
			featured = EXCLUDED.featured, updated_at = NOW()
		RETURNING `+categoryColumns,
		c.ID, c.Name, c.Image, c.URL, c.Featured,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("upsert category: %w", translateConflict(err))
	}
	return result, nil
}

// Delete removes a category by ID together with its sub-categories.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound(apperr.KindCategory)
	}
	return nil
}
