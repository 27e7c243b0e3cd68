// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/render"
	"storefront/internal/store"
)

// recentInvalidations is how many cache log rows the admin overview shows.
const recentInvalidations = 20

// CacheLog lists recent page cache invalidations.
type CacheLog interface {
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// Admin groups the dashboard overview and the admin-only category and sub
// category handlers.
type Admin struct {
	renderer *render.Renderer
	catalog  *catalog.Service
	cacheLog CacheLog
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(renderer *render.Renderer, svc *catalog.Service, cacheLog CacheLog) *Admin {
	return &Admin{
		renderer: renderer,
		catalog:  svc,
		cacheLog: cacheLog,
	}
}

// Dashboard renders the overview. Admins see recent cache invalidations,
// sellers their stores.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	c := caller(r)
	switch {
	case c == nil:
	case c.Role == models.RoleAdmin:
		entries, err := a.cacheLog.RecentEntries(r.Context(), recentInvalidations)
		if err != nil {
			slog.Error("list cache log failed", "error", err)
		}
		data["CacheLog"] = entries
	case c.Role == models.RoleSeller:
		stores, err := a.catalog.ListSellerStores(r.Context(), c)
		if err != nil {
			slog.Error("list stores failed", "error", err)
		}
		data["Stores"] = stores
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    data,
	})
}

// --- Categories ---

// CategoriesList renders the categories management page.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.catalog.ListCategories(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	a.renderer.Page(w, r, "categories_list", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data:    map[string]any{"Categories": categories},
	})
}

// CategoryNew renders an empty category form.
func (a *Admin) CategoryNew(w http.ResponseWriter, r *http.Request) {
	a.categoryForm(w, r, http.StatusOK, &models.Category{}, nil)
}

// CategoryEdit renders the category form for an existing category.
func (a *Admin) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		http.Error(w, "Invalid category id", http.StatusBadRequest)
		return
	}
	c, err := a.catalog.GetCategory(r.Context(), caller(r), id)
	if err != nil {
		fail(w, err, "get category failed", "id", id)
		return
	}
	a.categoryForm(w, r, http.StatusOK, c, nil)
}

// CategorySave creates or updates a category from the form.
func (a *Admin) CategorySave(w http.ResponseWriter, r *http.Request) {
	c := &models.Category{
		ID:       formID(r, "id"),
		Name:     formText(r, "name"),
		URL:      formText(r, "url"),
		Image:    formText(r, "image"),
		Featured: formBool(r, "featured"),
	}

	if verr := validateCategory(c); verr != nil {
		a.categoryForm(w, r, apperr.HTTPStatus(verr), c, errorFlash(verr, ""))
		return
	}

	if _, err := a.catalog.UpsertCategory(r.Context(), caller(r), c); err != nil {
		a.categoryForm(w, r, apperr.HTTPStatus(err), c, errorFlash(err, "upsert category failed"))
		return
	}
	redirect(w, r, catalog.CategoriesPath)
}

// CategoryDelete removes a category. HTMX callers get an empty body so the
// row disappears.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		http.Error(w, "Invalid category id", http.StatusBadRequest)
		return
	}
	if err := a.catalog.DeleteCategory(r.Context(), caller(r), id); err != nil {
		fail(w, err, "delete category failed", "id", id)
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, catalog.CategoriesPath, http.StatusSeeOther)
}

func (a *Admin) categoryForm(w http.ResponseWriter, r *http.Request, status int, c *models.Category, flashes []render.Flash) {
	title := "New Category"
	if c.ID != uuid.Nil {
		title = "Edit Category"
	}
	a.renderer.PageStatus(w, r, status, "category_form", &render.PageData{
		Title:   title,
		Section: "categories",
		Data:    map[string]any{"Category": c},
		Flashes: flashes,
	})
}

// --- Sub categories ---

// SubCategoriesList renders the sub categories management page.
func (a *Admin) SubCategoriesList(w http.ResponseWriter, r *http.Request) {
	subs, err := a.catalog.ListSubCategories(r.Context(), caller(r))
	if err != nil {
		fail(w, err, "list sub categories failed")
		return
	}

	a.renderer.Page(w, r, "sub_categories_list", &render.PageData{
		Title:   "Sub Categories",
		Section: "sub-categories",
		Data:    map[string]any{"SubCategories": subs},
	})
}

// SubCategoryNew renders an empty sub category form.
func (a *Admin) SubCategoryNew(w http.ResponseWriter, r *http.Request) {
	a.subCategoryForm(w, r, http.StatusOK, &models.SubCategory{}, nil)
}

// SubCategoryEdit renders the sub category form for an existing row.
func (a *Admin) SubCategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		http.Error(w, "Invalid sub category id", http.StatusBadRequest)
		return
	}
	sc, err := a.catalog.GetSubCategory(r.Context(), caller(r), id)
	if err != nil {
		fail(w, err, "get sub category failed", "id", id)
		return
	}
	a.subCategoryForm(w, r, http.StatusOK, sc, nil)
}

// SubCategorySave creates or updates a sub category from the form.
func (a *Admin) SubCategorySave(w http.ResponseWriter, r *http.Request) {
	sc := &models.SubCategory{
		ID:         formID(r, "id"),
		Name:       formText(r, "name"),
		URL:        formText(r, "url"),
		Image:      formText(r, "image"),
		Featured:   formBool(r, "featured"),
		CategoryID: formID(r, "categoryId"),
	}

	if verr := validateSubCategory(sc, formText(r, "categoryId")); verr != nil {
		a.subCategoryForm(w, r, apperr.HTTPStatus(verr), sc, errorFlash(verr, ""))
		return
	}

	if _, err := a.catalog.UpsertSubCategory(r.Context(), caller(r), sc); err != nil {
		a.subCategoryForm(w, r, apperr.HTTPStatus(err), sc, errorFlash(err, "upsert sub category failed"))
		return
	}
	redirect(w, r, catalog.SubCategoriesPath)
}

// SubCategoryDelete removes a sub category.
func (a *Admin) SubCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		http.Error(w, "Invalid sub category id", http.StatusBadRequest)
		return
	}
	if err := a.catalog.DeleteSubCategory(r.Context(), caller(r), id); err != nil {
		fail(w, err, "delete sub category failed", "id", id)
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, catalog.SubCategoriesPath, http.StatusSeeOther)
}

func (a *Admin) subCategoryForm(w http.ResponseWriter, r *http.Request, status int, sc *models.SubCategory, flashes []render.Flash) {
	categories, err := a.catalog.ListCategories(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	title := "New Sub Category"
	if sc.ID != uuid.Nil {
		title = "Edit Sub Category"
	}
	a.renderer.PageStatus(w, r, status, "sub_category_form", &render.PageData{
		Title:   title,
		Section: "sub-categories",
		Data:    map[string]any{"SubCategory": sc, "Categories": categories},
		Flashes: flashes,
	})
}
