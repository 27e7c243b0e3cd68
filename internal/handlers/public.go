// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/render"
)

// PageStore caches rendered public pages by request path.
type PageStore interface {
	Get(ctx context.Context, path string) ([]byte, bool)
	Set(ctx context.Context, path string, html []byte)
}

// Public groups the handlers of the public catalog pages. It checks the
// Valkey page cache before rendering and stores the result on a miss.
type Public struct {
	renderer *render.Renderer
	catalog  *catalog.Service
	pages    PageStore
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, svc *catalog.Service, pages PageStore) *Public {
	return &Public{renderer: renderer, catalog: svc, pages: pages}
}

// Home renders the featured categories.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, func() (string, *render.PageData, error) {
		categories, err := p.catalog.FeaturedCategories(r.Context())
		if err != nil {
			return "", nil, err
		}
		return "public_home", &render.PageData{
			Title: "Storefront",
			Data:  map[string]any{"Categories": categories},
		}, nil
	})
}

// Category renders a category and its sub categories.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, func() (string, *render.PageData, error) {
		c, subs, err := p.catalog.CategoryPage(r.Context(), chi.URLParam(r, "url"))
		if err != nil {
			return "", nil, err
		}
		return "public_category", &render.PageData{
			Title: c.Name,
			Data:  map[string]any{"Category": c, "SubCategories": subs},
		}, nil
	})
}

// Product renders the page of one product variant.
func (p *Public) Product(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, func() (string, *render.PageData, error) {
		product, err := p.catalog.ProductByVariantSlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			return "", nil, err
		}
		return "public_product", &render.PageData{
			Title: product.Name,
			Data:  map[string]any{"Product": product},
		}, nil
	})
}

// cached serves r.URL.Path from the page cache, or renders it with build
// and caches the result. Not-found pages are never cached.
func (p *Public) cached(w http.ResponseWriter, r *http.Request, build func() (string, *render.PageData, error)) {
	ctx := r.Context()
	path := r.URL.Path

	if html, ok := p.pages.Get(ctx, path); ok {
		writeHTML(w, http.StatusOK, html)
		return
	}

	name, data, err := build()
	if errors.Is(err, apperr.ErrNotFound) {
		p.notFound(w, r, apperr.Message(err))
		return
	}
	if err != nil {
		slog.Error("public page failed", "path", path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := p.renderer.Bytes(r, name, data)
	if err != nil {
		slog.Error("public page render failed", "path", path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	p.pages.Set(ctx, path, html)
	writeHTML(w, http.StatusOK, html)
}

func (p *Public) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	p.renderer.PageStatus(w, r, http.StatusNotFound, "public_not_found", &render.PageData{
		Title: "Not Found",
		Data:  map[string]any{"Message": msg},
	})
}

func writeHTML(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}
