// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"storefront/internal/apperr"
)

// Recoverer turns a handler panic into a 500 carrying the same generic
// message as any other internal error. HTMX requests also get
// HX-Reswap: none so the current dashboard fragment stays in place.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err := fmt.Errorf("panic: %v", rec)
			attrs := []any{
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", chimw.GetReqID(r.Context()),
				"stack", string(debug.Stack()),
			}
			if c := CallerFromCtx(r.Context()); c != nil {
				attrs = append(attrs, "user_id", c.UserID, "role", c.Role)
			}
			slog.Error("panic recovered", attrs...)

			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Reswap", "none")
			}
			http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		}()

		next.ServeHTTP(w, r)
	})
}
