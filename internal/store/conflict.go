// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"storefront/internal/apperr"
)

// pgUniqueViolation is the SQLSTATE of a unique constraint violation.
const pgUniqueViolation = "23505"

// uniqueConstraints maps the named UNIQUE constraints of the schema onto
// the entity field they protect.
var uniqueConstraints = map[string]apperr.DuplicateFieldError{
	"users_email_key":           {Entity: apperr.KindUser, Field: "email"},
	"categories_name_key":       {Entity: apperr.KindCategory, Field: "name"},
	"categories_url_key":        {Entity: apperr.KindCategory, Field: "url"},
	"sub_categories_name_key":   {Entity: apperr.KindSubCategory, Field: "name"},
	"sub_categories_url_key":    {Entity: apperr.KindSubCategory, Field: "url"},
	"stores_name_key":           {Entity: apperr.KindStore, Field: "name"},
	"stores_url_key":            {Entity: apperr.KindStore, Field: "url"},
	"stores_email_key":          {Entity: apperr.KindStore, Field: "email"},
	"stores_phone_key":          {Entity: apperr.KindStore, Field: "phone"},
	"products_slug_key":         {Entity: apperr.KindProduct, Field: "slug"},
	"product_variants_slug_key": {Entity: apperr.KindProductVariant, Field: "slug"},
}

// translateConflict turns a unique violation on a known constraint into a
// *apperr.DuplicateFieldError. Any other error is returned unchanged.
func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	dup, ok := uniqueConstraints[pgErr.ConstraintName]
	if !ok {
		return err
	}
	return &apperr.DuplicateFieldError{Entity: dup.Entity, Field: dup.Field}
}
