// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a top-level product category managed by admins.
// Name and URL are unique across all categories.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	URL       string    `json:"url"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Virtual field populated by store methods.
	SubCategoryCount int `json:"sub_category_count"`
}

// SubCategory belongs to exactly one Category.
type SubCategory struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Image      string    `json:"image"`
	URL        string    `json:"url"`
	Featured   bool      `json:"featured"`
	CategoryID uuid.UUID `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Virtual field populated by list queries that join the parent.
	CategoryName string `json:"category_name,omitempty"`
}
