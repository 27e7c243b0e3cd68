// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreStatus tracks the moderation state of a seller's store.
type StoreStatus string

const (
	StoreStatusPending  StoreStatus = "PENDING"
	StoreStatusActive   StoreStatus = "ACTIVE"
	StoreStatusBanned   StoreStatus = "BANNED"
	StoreStatusDisabled StoreStatus = "DISABLED"
)

// Store is a seller's shop. Name, URL, email and phone are each unique.
type Store struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	URL         string      `json:"url"`
	Logo        string      `json:"logo"`
	Cover       string      `json:"cover"`
	Status      StoreStatus `json:"status"`
	Featured    bool        `json:"featured"`
	UserID      string      `json:"user_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// StorePatch is a partial update of a store. Nil fields are left untouched.
type StorePatch struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Email       *string
	Phone       *string
	URL         *string
	Logo        *string
	Cover       *string
	Featured    *bool
}

// Empty reports whether the patch changes nothing.
func (p *StorePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Email == nil &&
		p.Phone == nil && p.URL == nil && p.Logo == nil && p.Cover == nil &&
		p.Featured == nil
}

// Apply returns a copy of s with the patch's non-nil fields applied.
func (p *StorePatch) Apply(s Store) Store {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.URL != nil {
		s.URL = *p.URL
	}
	if p.Logo != nil {
		s.Logo = *p.Logo
	}
	if p.Cover != nil {
		s.Cover = *p.Cover
	}
	if p.Featured != nil {
		s.Featured = *p.Featured
	}
	return s
}
