// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// storefront. Routes are split into the public catalog, the identity
// webhook and the dashboard, where admin and seller areas sit behind role
// checks.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/web"
)

// Handlers bundles every handler group the router mounts. Webhook may be
// nil when no signing secret is configured.
type Handlers struct {
	Admin   *handlers.Admin
	Seller  *handlers.Seller
	Auth    *handlers.Auth
	Public  *handlers.Public
	Media   *handlers.Media
	Webhook *handlers.Webhook
}

// Rate limits per minute: login and 2FA attempts, provider deliveries and
// image uploads.
const (
	loginLimit    = 10
	webhookLimit  = 120
	uploadLimit   = 30
	limiterWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions middleware.SessionGetter, h *Handlers, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	r.Handle("/static/*", staticHandler())

	// Identity provider webhook: signed, so no session and no CSRF.
	if h.Webhook != nil {
		webhookLimiter := middleware.NewRateLimiter("webhook", webhookLimit, limiterWindow)
		r.With(webhookLimiter.Middleware).Post("/api/webhooks", h.Webhook.Receive)
	}

	loginLimiter := middleware.NewRateLimiter("login", loginLimit, limiterWindow)
	uploadLimiter := middleware.NewRateLimiter("uploads", uploadLimit, limiterWindow)

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.LoadSession(sessions))
		r.Use(middleware.NewCSRF(secureCookies))

		// Auth pages, accessible without a session.
		r.Get("/login", h.Auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", h.Auth.LoginSubmit)
		r.Post("/logout", h.Auth.Logout)

		// 2FA requires a session but not a completed second factor.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", h.Auth.TwoFASetupPage)
			r.Get("/2fa/verify", h.Auth.TwoFAVerifyPage)
			r.With(loginLimiter.Middleware).Post("/2fa/verify", h.Auth.TwoFASubmit)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", h.Admin.Dashboard)
			r.With(uploadLimiter.Middleware).Post("/uploads", h.Media.Upload)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", h.Admin.CategoriesList)
					r.Get("/new", h.Admin.CategoryNew)
					r.Post("/", h.Admin.CategorySave)
					r.Get("/{id}", h.Admin.CategoryEdit)
					r.Delete("/{id}", h.Admin.CategoryDelete)
				})

				r.Route("/sub-categories", func(r chi.Router) {
					r.Get("/", h.Admin.SubCategoriesList)
					r.Get("/new", h.Admin.SubCategoryNew)
					r.Post("/", h.Admin.SubCategorySave)
					r.Get("/{id}", h.Admin.SubCategoryEdit)
					r.Delete("/{id}", h.Admin.SubCategoryDelete)
				})
			})

			r.Route("/seller", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleSeller))

				r.Get("/sub-categories", h.Seller.SubCategoryOptions)

				r.Route("/stores", func(r chi.Router) {
					r.Get("/", h.Seller.StoresList)
					r.Get("/new", h.Seller.StoreNew)
					r.Post("/", h.Seller.StoreCreate)

					r.Route("/{store}", func(r chi.Router) {
						r.Get("/", h.Seller.StoreOverview)
						r.Get("/settings", h.Seller.StoreSettings)
						r.Post("/settings", h.Seller.StoreUpdate)

						r.Route("/products", func(r chi.Router) {
							r.Get("/", h.Seller.ProductsList)
							r.Get("/new", h.Seller.ProductNew)
							r.Post("/", h.Seller.ProductSave)
							r.Post("/rows", h.Seller.ProductRows)
							r.Get("/{productID}/variants/new", h.Seller.VariantNew)
							r.Delete("/{productID}", h.Seller.ProductDelete)
						})
					})
				})
			})
		})
	})

	// Public catalog, served from the page cache when possible.
	r.Get("/", h.Public.Home)
	r.Get("/category/{url}", h.Public.Category)
	r.Get("/product/{slug}", h.Public.Product)

	return r
}

// staticHandler serves the embedded CSS and images under /static/.
func staticHandler() http.Handler {
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("router: embedded static dir missing: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServerFS(static))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
