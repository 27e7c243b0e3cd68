package handlers

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/render"
	"storefront/internal/session"
	"storefront/internal/slug"
	"storefront/internal/store"
)

// memRepos is a single in-memory backend for every catalog repository.
type memRepos struct {
	mu            sync.Mutex
	categories    map[uuid.UUID]models.Category
	subCategories map[uuid.UUID]models.SubCategory
	stores        map[uuid.UUID]models.Store
	products      map[uuid.UUID]models.Product
}

func newMemRepos() *memRepos {
	return &memRepos{
		categories:    map[uuid.UUID]models.Category{},
		subCategories: map[uuid.UUID]models.SubCategory{},
		stores:        map[uuid.UUID]models.Store{},
		products:      map[uuid.UUID]models.Product{},
	}
}

type memCategoryRepo struct{ *memRepos }

func (m memCategoryRepo) List(context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m memCategoryRepo) ListFeatured(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.categories {
		if c.Featured {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := m.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m memCategoryRepo) FindByURL(_ context.Context, url string) (*models.Category, error) {
	for _, c := range m.categories {
		if c.URL == url {
			return &c, nil
		}
	}
	return nil, nil
}

func (m memCategoryRepo) Upsert(_ context.Context, c *models.Category) (*models.Category, error) {
	for id, other := range m.categories {
		if id != c.ID && other.Name == c.Name {
			return nil, &apperr.DuplicateFieldError{Entity: apperr.KindCategory, Field: "name"}
		}
	}
	saved := *c
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	m.categories[saved.ID] = saved
	return &saved, nil
}

func (m memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return apperr.NotFound(apperr.KindCategory)
	}
	delete(m.categories, id)
	return nil
}

type memSubCategoryRepo struct{ *memRepos }

func (m memSubCategoryRepo) List(context.Context) ([]models.SubCategory, error) {
	var out []models.SubCategory
	for _, sc := range m.subCategories {
		out = append(out, sc)
	}
	return out, nil
}

func (m memSubCategoryRepo) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]models.SubCategory, error) {
	var out []models.SubCategory
	for _, sc := range m.subCategories {
		if sc.CategoryID == categoryID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (m memSubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.SubCategory, error) {
	if sc, ok := m.subCategories[id]; ok {
		return &sc, nil
	}
	return nil, nil
}

func (m memSubCategoryRepo) Upsert(_ context.Context, sc *models.SubCategory) (*models.SubCategory, error) {
	saved := *sc
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	m.subCategories[saved.ID] = saved
	return &saved, nil
}

func (m memSubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.subCategories[id]; !ok {
		return apperr.NotFound(apperr.KindSubCategory)
	}
	delete(m.subCategories, id)
	return nil
}

type memStoreRepo struct{ *memRepos }

func (m memStoreRepo) ListByUser(_ context.Context, userID string) ([]models.Store, error) {
	var out []models.Store
	for _, st := range m.stores {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m memStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	if st, ok := m.stores[id]; ok {
		return &st, nil
	}
	return nil, nil
}

func (m memStoreRepo) FindByURL(_ context.Context, url string) (*models.Store, error) {
	for _, st := range m.stores {
		if st.URL == url {
			return &st, nil
		}
	}
	return nil, nil
}

func (m memStoreRepo) Upsert(_ context.Context, st *models.Store) (*models.Store, error) {
	for id, other := range m.stores {
		if id != st.ID && other.URL == st.URL {
			return nil, &apperr.DuplicateFieldError{Entity: apperr.KindStore, Field: "url"}
		}
	}
	saved := *st
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	if saved.Status == "" {
		saved.Status = models.StoreStatusPending
	}
	m.stores[saved.ID] = saved
	return &saved, nil
}

func (m memStoreRepo) Patch(_ context.Context, p *models.StorePatch) (*models.Store, error) {
	st, ok := m.stores[p.ID]
	if !ok {
		return nil, apperr.NotFound(apperr.KindStore)
	}
	st = p.Apply(st)
	m.stores[st.ID] = st
	return &st, nil
}

type memProductRepo struct{ *memRepos }

func (m memProductRepo) SlugExists(_ context.Context, kind slug.Kind, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if kind == slug.KindProduct && p.Slug == value {
			return true, nil
		}
		for _, v := range p.Variants {
			if kind == slug.KindProductVariant && v.Slug == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m memProductRepo) FindMain(_ context.Context, id uuid.UUID) (*models.ProductMain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &models.ProductMain{
		ProductID:     p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Brand:         p.Brand,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		StoreID:       p.StoreID,
	}, nil
}

func (m memProductRepo) CreateWithVariant(_ context.Context, p *models.Product, v *models.ProductVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	v.ID = uuid.New()
	v.ProductID = p.ID
	p.Variants = []models.ProductVariant{*v}
	m.products[p.ID] = *p
	return nil
}

func (m memProductRepo) AddVariant(_ context.Context, productID uuid.UUID, v *models.ProductVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return apperr.NotFound(apperr.KindProduct)
	}
	v.ID = uuid.New()
	v.ProductID = productID
	p.Variants = append(p.Variants, *v)
	m.products[productID] = p
	return nil
}

func (m memProductRepo) ListByStore(_ context.Context, storeID uuid.UUID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memProductRepo) FindVariantBySlug(_ context.Context, variantSlug string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		for _, v := range p.Variants {
			if v.Slug == variantSlug {
				p.Variants = []models.ProductVariant{v}
				return &p, nil
			}
		}
	}
	return nil, nil
}

func (m memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

// memPages is an in-memory PageStore.
type memPages struct {
	pages map[string][]byte
	sets  int
}

func (m *memPages) Get(_ context.Context, path string) ([]byte, bool) {
	html, ok := m.pages[path]
	return html, ok
}

func (m *memPages) Set(_ context.Context, path string, html []byte) {
	if m.pages == nil {
		m.pages = map[string][]byte{}
	}
	m.pages[path] = html
	m.sets++
}

type stubCacheLog struct{ entries []store.CacheLogEntry }

func (s stubCacheLog) RecentEntries(context.Context, int) ([]store.CacheLogEntry, error) {
	return s.entries, nil
}

// stubUploader records the uploads it receives.
type stubUploader struct {
	keys   []string
	types  []string
	sizes  []int64
	bodies [][]byte
}

func (s *stubUploader) Upload(_ context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.bodies = append(s.bodies, data)
	s.keys = append(s.keys, key)
	s.types = append(s.types, contentType)
	s.sizes = append(s.sizes, size)
	return "https://cdn.example.com/" + key, nil
}

// unitEnv wires every dashboard and public handler against in-memory
// repositories.
type unitEnv struct {
	repos    *memRepos
	catalog  *catalog.Service
	pages    *memPages
	uploader *stubUploader
	router   chi.Router
}

var (
	adminSession  = &session.Data{UserID: "user_admin", Email: "admin@example.com", DisplayName: "Admin", Role: models.RoleAdmin, TwoFADone: true}
	sellerSession = &session.Data{UserID: "user_seller", Email: "seller@example.com", DisplayName: "Seller", Role: models.RoleSeller, TwoFADone: true}
)

// withSession injects sess the way middleware.LoadSession would.
func withSession(sess *session.Data) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess != nil {
				r = r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newUnitEnv(t *testing.T, sess *session.Data) *unitEnv {
	t.Helper()

	rn, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	repos := newMemRepos()
	products := memProductRepo{repos}
	svc := catalog.New(catalog.Repos{
		Categories:    memCategoryRepo{repos},
		SubCategories: memSubCategoryRepo{repos},
		Stores:        memStoreRepo{repos},
		Products:      products,
	}, products, nil)

	env := &unitEnv{
		repos:    repos,
		catalog:  svc,
		pages:    &memPages{},
		uploader: &stubUploader{},
	}

	admin := NewAdmin(rn, svc, stubCacheLog{})
	seller := NewSeller(rn, svc)
	public := NewPublic(rn, svc, env.pages)
	media := NewMedia(rn, env.uploader)

	r := chi.NewRouter()
	r.Get("/", public.Home)
	r.Get("/category/{url}", public.Category)
	r.Get("/product/{slug}", public.Product)
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(withSession(sess))
		r.Get("/", admin.Dashboard)
		r.Post("/uploads", media.Upload)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Get("/categories", admin.CategoriesList)
			r.Post("/categories", admin.CategorySave)
			r.Delete("/categories/{id}", admin.CategoryDelete)
			r.Post("/sub-categories", admin.SubCategorySave)
		})
		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleSeller))
			r.Get("/sub-categories", seller.SubCategoryOptions)
			r.Post("/stores", seller.StoreCreate)
			r.Get("/stores/{store}", seller.StoreOverview)
			r.Post("/stores/{store}/settings", seller.StoreUpdate)
			r.Get("/stores/{store}/products/new", seller.ProductNew)
			r.Get("/stores/{store}/products/{productID}/variants/new", seller.VariantNew)
			r.Post("/stores/{store}/products", seller.ProductSave)
			r.Post("/stores/{store}/products/rows", seller.ProductRows)
			r.Delete("/stores/{store}/products/{productID}", seller.ProductDelete)
		})
	})
	env.router = r
	return env
}

// seedCatalog adds one featured category with a sub category and a store
// owned by the seller session.
func (e *unitEnv) seedCatalog() (models.Category, models.SubCategory, models.Store) {
	c := models.Category{ID: uuid.New(), Name: "Clothing", URL: "clothing", Image: "c.webp", Featured: true}
	sc := models.SubCategory{ID: uuid.New(), Name: "Jackets", URL: "jackets", Image: "j.webp", CategoryID: c.ID}
	st := models.Store{ID: uuid.New(), Name: "Acme", URL: "acme", UserID: sellerSession.UserID, Status: models.StoreStatusActive}
	e.repos.categories[c.ID] = c
	e.repos.subCategories[sc.ID] = sc
	e.repos.stores[st.ID] = st
	return c, sc, st
}
