// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the catalog service,
// the stores and the HTTP handlers. Every error here carries a message that
// is safe to show to the dashboard user as a toast.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind names a persisted entity collection.
type Kind string

const (
	KindUser           Kind = "User"
	KindCategory       Kind = "Category"
	KindSubCategory    Kind = "SubCategory"
	KindStore          Kind = "Store"
	KindProduct        Kind = "Product"
	KindProductVariant Kind = "ProductVariant"
)

// label returns the human form of a kind used in messages.
func (k Kind) label() string {
	switch k {
	case KindSubCategory:
		return "Sub Category"
	case KindProductVariant:
		return "Product Variant"
	default:
		return string(k)
	}
}

var (
	// ErrUnauthenticated is returned when no caller identity is present.
	ErrUnauthenticated = errors.New("Unauthenticated")

	// ErrUnauthorized is returned when the caller's role claim does not
	// match the role the action requires.
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
)

// Unauthorized wraps ErrUnauthorized with the role that was required.
func Unauthorized(role string) error {
	return fmt.Errorf("%w. %s privileges required", ErrUnauthorized, role)
}

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Kind Kind
}

// NotFound returns a NotFoundError for kind.
func NotFound(kind Kind) error {
	return &NotFoundError{Kind: kind}
}

func (e *NotFoundError) Error() string {
	return e.Kind.label() + " not found"
}

// Is makes errors.Is(err, ErrNotFound) true for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateFieldError reports a uniqueness violation on one field
// (name, url, email, phone or slug) of an entity.
type DuplicateFieldError struct {
	Entity Kind
	Field  string
}

func (e *DuplicateFieldError) Error() string {
	field := e.Field
	switch field {
	case "url":
		field = "URL"
	case "email":
		field = "Email"
	case "phone":
		field = "Phone"
	}
	return fmt.Sprintf("%s %s already exists", e.Entity.label(), field)
}

// IsSlugConflict reports whether err is a duplicate slug of a product or
// variant.
func IsSlugConflict(err error) bool {
	var dup *DuplicateFieldError
	return errors.As(err, &dup) && dup.Field == "slug"
}

// ValidationError reports a schema rule violated by one form field.
type ValidationError struct {
	Field   string
	Message string
}

// Invalid returns a ValidationError for field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Message returns the text shown to the user for err. Errors outside the
// taxonomy collapse into a generic message so internals never leak.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		nf  *NotFoundError
		dup *DuplicateFieldError
		val *ValidationError
	)
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrUnauthorized):
		return err.Error()
	case errors.As(err, &nf):
		return nf.Error()
	case errors.As(err, &dup):
		return dup.Error()
	case errors.As(err, &val):
		return val.Error()
	default:
		return "Something went wrong."
	}
}

// HTTPStatus maps err onto the status code a handler should answer with.
func HTTPStatus(err error) int {
	var (
		dup *DuplicateFieldError
		val *ValidationError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &dup):
		return http.StatusConflict
	case errors.As(err, &val):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
