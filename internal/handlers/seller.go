// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/fieldgroup"
	"storefront/internal/models"
	"storefront/internal/render"
)

// Seller groups the seller-only store and product handlers.
type Seller struct {
	renderer *render.Renderer
	catalog  *catalog.Service
}

// NewSeller creates a new Seller handler group.
func NewSeller(renderer *render.Renderer, svc *catalog.Service) *Seller {
	return &Seller{renderer: renderer, catalog: svc}
}

// --- Stores ---

// StoresList renders the seller's stores.
func (s *Seller) StoresList(w http.ResponseWriter, r *http.Request) {
	stores, err := s.catalog.ListSellerStores(r.Context(), caller(r))
	if err != nil {
		fail(w, err, "list stores failed")
		return
	}

	s.renderer.Page(w, r, "stores_list", &render.PageData{
		Title:   "Stores",
		Section: "stores",
		Data:    map[string]any{"Stores": stores},
	})
}

// StoreNew renders an empty store form.
func (s *Seller) StoreNew(w http.ResponseWriter, r *http.Request) {
	s.storeForm(w, r, http.StatusOK, "New Store", catalog.StoresPath, &models.Store{}, nil)
}

// StoreCreate creates a store owned by the caller.
func (s *Seller) StoreCreate(w http.ResponseWriter, r *http.Request) {
	st := parseStoreForm(r)
	st.ID = uuid.Nil

	if verr := validateStore(st); verr != nil {
		s.storeForm(w, r, apperr.HTTPStatus(verr), "New Store", catalog.StoresPath, st, errorFlash(verr, ""))
		return
	}

	saved, err := s.catalog.UpsertStore(r.Context(), caller(r), st)
	if err != nil {
		s.storeForm(w, r, apperr.HTTPStatus(err), "New Store", catalog.StoresPath, st, errorFlash(err, "create store failed"))
		return
	}
	redirect(w, r, catalog.StorePath(saved.URL))
}

// StoreOverview renders one of the caller's stores.
func (s *Seller) StoreOverview(w http.ResponseWriter, r *http.Request) {
	st, ok := s.ownedStore(w, r)
	if !ok {
		return
	}
	s.renderer.Page(w, r, "store_overview", &render.PageData{
		Title:   st.Name,
		Section: "stores",
		Data:    map[string]any{"Store": st},
	})
}

// StoreSettings renders the edit form of a store.
func (s *Seller) StoreSettings(w http.ResponseWriter, r *http.Request) {
	st, ok := s.ownedStore(w, r)
	if !ok {
		return
	}
	s.storeForm(w, r, http.StatusOK, "Store Settings", settingsPath(st.URL), st, nil)
}

// StoreUpdate saves the settings form as a partial update.
func (s *Seller) StoreUpdate(w http.ResponseWriter, r *http.Request) {
	current, ok := s.ownedStore(w, r)
	if !ok {
		return
	}
	action := settingsPath(current.URL)

	st := parseStoreForm(r)
	st.ID = current.ID
	st.Status = current.Status
	if verr := validateStore(st); verr != nil {
		s.storeForm(w, r, apperr.HTTPStatus(verr), "Store Settings", action, st, errorFlash(verr, ""))
		return
	}

	saved, err := s.catalog.PatchStore(r.Context(), caller(r), storePatch(st))
	if err != nil {
		s.storeForm(w, r, apperr.HTTPStatus(err), "Store Settings", action, st, errorFlash(err, "update store failed", "id", st.ID))
		return
	}
	redirect(w, r, catalog.StorePath(saved.URL))
}

func settingsPath(storeURL string) string {
	return catalog.StorePath(storeURL) + "/settings"
}

func (s *Seller) storeForm(w http.ResponseWriter, r *http.Request, status int, title, action string, st *models.Store, flashes []render.Flash) {
	s.renderer.PageStatus(w, r, status, "store_form", &render.PageData{
		Title:   title,
		Section: "stores",
		Data:    map[string]any{"Store": st, "Action": action},
		Flashes: flashes,
	})
}

// ownedStore loads the store named by the {store} URL parameter, answering
// the request itself when that fails.
func (s *Seller) ownedStore(w http.ResponseWriter, r *http.Request) (*models.Store, bool) {
	st, err := s.catalog.GetStoreByURL(r.Context(), caller(r), chi.URLParam(r, "store"))
	if err != nil {
		fail(w, err, "get store failed", "store", chi.URLParam(r, "store"))
		return nil, false
	}
	return st, true
}

// --- Products ---

// ProductsList renders the products of a store.
func (s *Seller) ProductsList(w http.ResponseWriter, r *http.Request) {
	st, ok := s.ownedStore(w, r)
	if !ok {
		return
	}
	products, err := s.catalog.ListStoreProducts(r.Context(), caller(r), st.URL)
	if err != nil {
		fail(w, err, "list products failed", "store", st.URL)
		return
	}

	s.renderer.Page(w, r, "products_list", &render.PageData{
		Title:   "Products",
		Section: "stores",
		Data:    map[string]any{"Store": st, "Products": products},
	})
}

// ProductNew renders an empty product form.
func (s *Seller) ProductNew(w http.ResponseWriter, r *http.Request) {
	st, ok := s.ownedStore(w, r)
	if !ok {
		return
	}
	form := &productForm{input: &models.ProductWithVariant{}, groups: emptyGroups()}
	s.productForm(w, r, http.StatusOK, st, nil, form, nil)
}

// VariantNew renders the product form for adding a variant to an existing
// product. The product fields are shown read-only.
func (s *Seller) VariantNew(w http.ResponseWriter, r *http.Request) {
	st, ok := s.ownedStore(w, r)
	if !ok {
		return
	}
	productID, ok := urlID(r, "productID")
	if !ok {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	main, err := s.catalog.GetProductMain(r.Context(), caller(r), productID)
	if err != nil {
		fail(w, err, "get product failed", "id", productID)
		return
	}
	if main.StoreID != st.ID {
		fail(w, apperr.NotFound(apperr.KindProduct), "")
		return
	}

	form := &productForm{
		input: &models.ProductWithVariant{
			ProductID:     main.ProductID,
			Name:          main.Name,
			Description:   main.Description,
			Brand:         main.Brand,
			CategoryID:    main.CategoryID,
			SubCategoryID: main.SubCategoryID,
		},
		groups: emptyGroups(),
	}
	s.productForm(w, r, http.StatusOK, st, main, form, nil)
}

// ProductSave stores a product form submission: a new product with its
// first variant, or a new variant of an existing product.
func (s *Seller) ProductSave(w http.ResponseWriter, r *http.Request) {
	st, ok := s.ownedStore(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := parseProductForm(r)

	var main *models.ProductMain
	if form.input.ProductID != uuid.Nil {
		var err error
		main, err = s.catalog.GetProductMain(r.Context(), caller(r), form.input.ProductID)
		if err != nil {
			fail(w, err, "get product failed", "id", form.input.ProductID)
			return
		}
		// Product fields are fixed once the product exists.
		form.input.Name = main.Name
		form.input.Description = main.Description
		form.input.Brand = main.Brand
		form.input.CategoryID = main.CategoryID
		form.input.SubCategoryID = main.SubCategoryID
	}

	verr := validateSizeRows(form.groups["sizes"])
	if verr == nil {
		verr = validateProduct(form.input)
	}
	if verr != nil {
		s.productForm(w, r, apperr.HTTPStatus(verr), st, main, form, errorFlash(verr, ""))
		return
	}

	if _, err := s.catalog.UpsertProduct(r.Context(), caller(r), st.URL, form.input); err != nil {
		s.productForm(w, r, apperr.HTTPStatus(err), st, main, form, errorFlash(err, "upsert product failed", "store", st.URL))
		return
	}
	redirect(w, r, catalog.StoreProductsPath(st.URL))
}

// ProductDelete removes a product and all its variants.
func (s *Seller) ProductDelete(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(r, "productID")
	if !ok {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return
	}
	storeURL := chi.URLParam(r, "store")
	if err := s.catalog.DeleteProduct(r.Context(), caller(r), storeURL, productID); err != nil {
		fail(w, err, "delete product failed", "id", productID)
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, catalog.StoreProductsPath(storeURL), http.StatusSeeOther)
}

// ProductRows applies an add/remove row action to one field group of the
// product form and returns the re-rendered group.
func (s *Seller) ProductRows(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	spec, ok := findGroup(r.PostForm.Get("group"))
	if !ok {
		http.Error(w, "Unknown field group", http.StatusBadRequest)
		return
	}

	rows := fieldgroup.ParseForm(r.PostForm, spec.prefix, spec.initial)
	ctrl := fieldgroup.New(
		func() []fieldgroup.Group { return rows },
		func(next []fieldgroup.Group) { rows = next },
		spec.initial,
	)

	index, _ := strconv.Atoi(r.PostForm.Get("index"))
	if err := fieldgroup.Apply(ctrl, r.PostForm.Get("action"), index); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rowsURL := catalog.StoreProductsPath(chi.URLParam(r, "store")) + "/rows"
	s.renderer.Partial(w, r, "product_form", "group_rows", groupView(spec, rows, rowsURL))
}

// SubCategoryOptions returns the <option> list of a category's sub
// categories for the product form's dependent select.
func (s *Seller) SubCategoryOptions(w http.ResponseWriter, r *http.Request) {
	var subs []models.SubCategory
	if id, err := uuid.Parse(r.URL.Query().Get("categoryId")); err == nil {
		subs, err = s.catalog.ListSubCategoriesForCategory(r.Context(), id)
		if err != nil {
			fail(w, err, "list sub categories failed", "category_id", id)
			return
		}
	}
	s.renderer.Partial(w, r, "product_form", "sub_category_options", subCategoryOptions(subs, ""))
}

func subCategoryOptions(subs []models.SubCategory, selected string) map[string]any {
	return map[string]any{"SubCategories": subs, "Selected": selected}
}

func (s *Seller) productForm(w http.ResponseWriter, r *http.Request, status int, st *models.Store, main *models.ProductMain, form *productForm, flashes []render.Flash) {
	ctx := r.Context()
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	var subs []models.SubCategory
	if form.input.CategoryID != uuid.Nil {
		subs, err = s.catalog.ListSubCategoriesForCategory(ctx, form.input.CategoryID)
		if err != nil {
			slog.Error("list sub categories failed", "error", err)
		}
	}
	selected := ""
	if form.input.SubCategoryID != uuid.Nil {
		selected = form.input.SubCategoryID.String()
	}

	title := "New Product"
	if main != nil {
		title = "New Variant of " + main.Name
	}

	s.renderer.PageStatus(w, r, status, "product_form", &render.PageData{
		Title:   title,
		Section: "stores",
		Data: map[string]any{
			"Store":              st,
			"Main":               main,
			"Form":               form.input,
			"Categories":         categories,
			"SubCategoryOptions": subCategoryOptions(subs, selected),
			"Groups":             groupViews(form.groups, catalog.StoreProductsPath(st.URL)+"/rows"),
		},
		Flashes: flashes,
	})
}
