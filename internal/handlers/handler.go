// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the storefront: the
// dashboard (auth, admin, seller, uploads), the public catalog pages and the
// identity provider webhook. Handlers are grouped by concern and receive
// their dependencies through the group struct.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/identity"
	"storefront/internal/middleware"
	"storefront/internal/render"
)

// caller returns the identity of the signed-in dashboard user, or nil.
func caller(r *http.Request) *identity.Caller {
	return middleware.CallerFromCtx(r.Context())
}

// logFailure records err before it is surfaced. Errors outside the apperr
// taxonomy are logged at error level since their message is hidden from
// the user; expected outcomes (validation, conflicts, access) at warn.
func logFailure(err error, msg string, args ...any) {
	if msg == "" {
		msg = "request rejected"
	}
	args = append(args, "error", err)
	if apperr.HTTPStatus(err) == http.StatusInternalServerError {
		slog.Error(msg, args...)
		return
	}
	slog.Warn(msg, args...)
}

// errorFlash logs err and turns it into the toast shown above a form.
func errorFlash(err error, msg string, args ...any) []render.Flash {
	logFailure(err, msg, args...)
	return []render.Flash{{Type: "error", Message: apperr.Message(err)}}
}

// fail answers a non-form request with the status and message of err.
func fail(w http.ResponseWriter, err error, msg string, args ...any) {
	logFailure(err, msg, args...)
	http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
}

// redirect sends the browser to url, via HX-Redirect for HTMX requests.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// urlID parses a UUID path parameter.
func urlID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// formID parses an optional UUID form field. Empty or malformed input
// yields uuid.Nil.
func formID(r *http.Request, name string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(r.FormValue(name)))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// formBool reads a checkbox posted with value "true".
func formBool(r *http.Request, name string) bool {
	return r.FormValue(name) == "true"
}

func formText(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}
