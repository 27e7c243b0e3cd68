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

// SubCategoryStore manages sub-categories in the database.
type SubCategoryStore struct {
	db *sql.DB
}

// NewSubCategoryStore returns a new SubCategoryStore.
func NewSubCategoryStore(db *sql.DB) *SubCategoryStore {
	return &SubCategoryStore{db: db}
}

const subCategoryColumns = `id, name, image, url, featured, category_id, created_at, updated_at`

func scanSubCategory(scanner interface{ Scan(...any) error }) (*models.SubCategory, error) {
	var sc models.SubCategory
	err := scanner.Scan(
		&sc.ID, &sc.Name, &sc.Image, &sc.URL, &sc.Featured, &sc.CategoryID,
		&sc.CreatedAt, &sc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// List returns all sub-categories with their parent category name.
func (s *SubCategoryStore) List(ctx context.Context) ([]models.SubCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sc.id, sc.name, sc.image, sc.url, sc.featured, sc.category_id,
		       sc.created_at, sc.updated_at, c.name
		FROM sub_categories sc
		JOIN categories c ON c.id = sc.category_id
		ORDER BY sc.updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sub-categories: %w", err)
	}
	defer rows.Close()

	var items []models.SubCategory
	for rows.Next() {
		var sc models.SubCategory
		err := rows.Scan(
			&sc.ID, &sc.Name, &sc.Image, &sc.URL, &sc.Featured, &sc.CategoryID,
			&sc.CreatedAt, &sc.UpdatedAt, &sc.CategoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sub-category: %w", err)
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}

// ListByCategory returns the sub-categories of one category ordered by name.
func (s *SubCategoryStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.SubCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subCategoryColumns+` FROM sub_categories WHERE category_id = $1 ORDER BY name`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sub-categories by category: %w", err)
	}
	defer rows.Close()

	var items []models.SubCategory
	for rows.Next() {
		sc, err := scanSubCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sub-category: %w", err)
		}
		items = append(items, *sc)
	}
	return items, rows.Err()
}

// FindByID retrieves a sub-category by ID. Returns nil if not found.
func (s *SubCategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+subCategoryColumns+` FROM sub_categories WHERE id = $1`, id)
	sc, err := scanSubCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sub-category by id: %w", err)
	}
	return sc, nil
}

// Upsert creates or updates a sub-category keyed by ID.
func (s *SubCategoryStore) Upsert(ctx context.Context, sc *models.SubCategory) (*models.SubCategory, error) {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO sub_categories (id, name, image, url, featured, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, image = EXCLUDED.image, url = EXCLUDED.url,
			featured = EXCLUDED.featured, category_id = EXCLUDED.category_id,
			updated_at = NOW()
		RETURNING `+subCategoryColumns,
		sc.ID, sc.Name, sc.Image, sc.URL, sc.Featured, sc.CategoryID,
	)
	result, err := scanSubCategory(row)
	if err != nil {
		return nil, fmt.Errorf("upsert sub-category: %w", translateConflict(err))
	}
	return result, nil
}

// Delete removes a sub-category by ID.
func (s *SubCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sub_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sub-category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound(apperr.KindSubCategory)
	}
	return nil
}
