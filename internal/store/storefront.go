// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// StoreStore manages sellers' stores in the database.
type StoreStore struct {
	db *sql.DB
}

// NewStoreStore returns a new StoreStore.
func NewStoreStore(db *sql.DB) *StoreStore {
	return &StoreStore{db: db}
}

const storeColumns = `id, name, description, email, phone, url, logo, cover, status, featured, user_id, created_at, updated_at`

func scanStore(scanner interface{ Scan(...any) error }) (*models.Store, error) {
	var st models.Store
	err := scanner.Scan(
		&st.ID, &st.Name, &st.Description, &st.Email, &st.Phone, &st.URL,
		&st.Logo, &st.Cover, &st.Status, &st.Featured, &st.UserID,
		&st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListByUser returns the stores owned by a user, newest first.
func (s *StoreStore) ListByUser(ctx context.Context, userID string) ([]models.Store, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var items []models.Store
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		items = append(items, *st)
	}
	return items, rows.Err()
}

// FindByID retrieves a store by ID. Returns nil if not found.
func (s *StoreStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	st, err := scanStore(s.db.QueryRowContext(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find store by id: %w", err)
	}
	return st, nil
}

// FindByURL retrieves a store by its URL segment. Returns nil if not found.
func (s *StoreStore) FindByURL(ctx context.Context, url string) (*models.Store, error) {
	st, err := scanStore(s.db.QueryRowContext(ctx, `SELECT `+storeColumns+` FROM stores WHERE url = $1`, url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find store by url: %w", err)
	}
	return st, nil
}

// Upsert creates the store for st.UserID or updates the existing row with
// the same ID. Ownership never changes: updating a store owned by another
// user matches no row and yields apperr.ErrUnauthorized.
func (s *StoreStore) Upsert(ctx context.Context, st *models.Store) (*models.Store, error) {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.Status == "" {
		st.Status = models.StoreStatusPending
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO stores (id, name, description, email, phone, url, logo, cover, status, featured, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			email = EXCLUDED.email, phone = EXCLUDED.phone, url = EXCLUDED.url,
			logo = EXCLUDED.logo, cover = EXCLUDED.cover, featured = EXCLUDED.featured,
			updated_at = NOW()
		WHERE stores.user_id = EXCLUDED.user_id
		RETURNING `+storeColumns,
		st.ID, st.Name, st.Description, st.Email, st.Phone, st.URL,
		st.Logo, st.Cover, st.Status, st.Featured, st.UserID,
	)
	result, err := scanStore(row)
	if err == sql.ErrNoRows {
		return nil, apperr.Unauthorized(string(models.RoleSeller))
	}
	if err != nil {
		return nil, fmt.Errorf("upsert store: %w", translateConflict(err))
	}
	return result, nil
}

// Patch applies the non-nil fields of p to the store with p.ID. It returns
// apperr.NotFound when the store does not exist.
func (s *StoreStore) Patch(ctx context.Context, p *models.StorePatch) (*models.Store, error) {
	if p.Empty() {
		st, err := s.FindByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if st == nil {
			return nil, apperr.NotFound(apperr.KindStore)
		}
		return st, nil
	}

	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.URL != nil {
		add("url", *p.URL)
	}
	if p.Logo != nil {
		add("logo", *p.Logo)
	}
	if p.Cover != nil {
		add("cover", *p.Cover)
	}
	if p.Featured != nil {
		add("featured", *p.Featured)
	}
	args = append(args, p.ID)

	query := `UPDATE stores SET ` + strings.Join(sets, ", ") + `, updated_at = NOW()
		WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + storeColumns

	st, err := scanStore(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound(apperr.KindStore)
	}
	if err != nil {
		return nil, fmt.Errorf("patch store: %w", translateConflict(err))
	}
	return st, nil
}
