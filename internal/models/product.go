// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product groups one or more variants sold by a store.
// The slug is generated once at creation and never regenerated.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Slug          string          `json:"slug"`
	Brand         string          `json:"brand"`
	Rating        decimal.Decimal `json:"rating"`
	StoreID       uuid.UUID       `json:"store_id"`
	CategoryID    uuid.UUID       `json:"category_id"`
	SubCategoryID uuid.UUID       `json:"sub_category_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Variants []ProductVariant `json:"variants,omitempty"`
}

// ProductVariant is one purchasable flavour of a product with its own
// slug, images, colors and size rows.
type ProductVariant struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          uuid.UUID `json:"product_id"`
	VariantName        string    `json:"variant_name"`
	VariantDescription string    `json:"variant_description"`
	Slug               string    `json:"slug"`
	IsSale             bool      `json:"is_sale"`
	SKU                string    `json:"sku"`
	Keywords           string    `json:"keywords"` // comma-joined
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Images []VariantImage `json:"images,omitempty"`
	Colors []VariantColor `json:"colors,omitempty"`
	Sizes  []VariantSize  `json:"sizes,omitempty"`
}

// KeywordList splits the stored comma-joined keywords.
func (v *ProductVariant) KeywordList() []string {
	if v.Keywords == "" {
		return nil
	}
	return strings.Split(v.Keywords, ",")
}

// VariantImage is an uploaded image attached to a variant.
type VariantImage struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Alt      string    `json:"alt"`
	Position int       `json:"position"`
}

// ImageAlt derives the alt text of an uploaded image from the last path
// segment of its URL.
func ImageAlt(url string) string {
	url = strings.TrimRight(url, "/")
	if url == "" {
		return ""
	}
	return path.Base(url)
}

// VariantColor is one color a variant is offered in.
type VariantColor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// VariantSize is one size/price/quantity/discount row of a variant.
type VariantSize struct {
	ID       uuid.UUID       `json:"id"`
	Size     string          `json:"size"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Discount decimal.Decimal `json:"discount"`
}

// ProductWithVariant is the product form submission: the product fields
// plus the first (or an additional) variant.
type ProductWithVariant struct {
	ProductID     uuid.UUID
	VariantID     uuid.UUID
	Name          string
	Description   string
	Brand         string
	CategoryID    uuid.UUID
	SubCategoryID uuid.UUID

	VariantName        string
	VariantDescription string
	IsSale             bool
	SKU                string
	Keywords           []string
	Images             []string
	Colors             []string
	Sizes              []VariantSize
}

// ProductMain is the main product data shown on the "new variant" page.
type ProductMain struct {
	ProductID     uuid.UUID
	Name          string
	Description   string
	Brand         string
	CategoryID    uuid.UUID
	SubCategoryID uuid.UUID
	StoreID       uuid.UUID
}
