package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/identity"
	"storefront/internal/models"
	"storefront/internal/slug"
)

// memCategories is an in-memory CategoryRepo.
type memCategories struct {
	byID map[uuid.UUID]models.Category
}

func newMemCategories() *memCategories {
	return &memCategories{byID: make(map[uuid.UUID]models.Category)}
}

func (m *memCategories) List(context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCategories) ListFeatured(context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range m.byID {
		if c.Featured {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memCategories) FindByURL(_ context.Context, url string) (*models.Category, error) {
	for _, c := range m.byID {
		if c.URL == url {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memCategories) Upsert(_ context.Context, c *models.Category) (*models.Category, error) {
	for id, other := range m.byID {
		if id == c.ID {
			continue
		}
		if other.Name == c.Name {
			return nil, &apperr.DuplicateFieldError{Entity: apperr.KindCategory, Field: "name"}
		}
		if other.URL == c.URL {
			return nil, &apperr.DuplicateFieldError{Entity: apperr.KindCategory, Field: "url"}
		}
	}
	saved := *c
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	m.byID[saved.ID] = saved
	return &saved, nil
}

func (m *memCategories) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound(apperr.KindCategory)
	}
	delete(m.byID, id)
	return nil
}

// memSubCategories is an in-memory SubCategoryRepo.
type memSubCategories struct {
	byID map[uuid.UUID]models.SubCategory
}

func newMemSubCategories() *memSubCategories {
	return &memSubCategories{byID: make(map[uuid.UUID]models.SubCategory)}
}

func (m *memSubCategories) List(context.Context) ([]models.SubCategory, error) {
	var out []models.SubCategory
	for _, sc := range m.byID {
		out = append(out, sc)
	}
	return out, nil
}

func (m *memSubCategories) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]models.SubCategory, error) {
	var out []models.SubCategory
	for _, sc := range m.byID {
		if sc.CategoryID == categoryID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (m *memSubCategories) FindByID(_ context.Context, id uuid.UUID) (*models.SubCategory, error) {
	sc, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

func (m *memSubCategories) Upsert(_ context.Context, sc *models.SubCategory) (*models.SubCategory, error) {
	saved := *sc
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	m.byID[saved.ID] = saved
	return &saved, nil
}

func (m *memSubCategories) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound(apperr.KindSubCategory)
	}
	delete(m.byID, id)
	return nil
}

// memStores is an in-memory StoreRepo.
type memStores struct {
	byID map[uuid.UUID]models.Store
}

func newMemStores() *memStores {
	return &memStores{byID: make(map[uuid.UUID]models.Store)}
}

func (m *memStores) ListByUser(_ context.Context, userID string) ([]models.Store, error) {
	var out []models.Store
	for _, st := range m.byID {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *memStores) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	st, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (m *memStores) FindByURL(_ context.Context, url string) (*models.Store, error) {
	for _, st := range m.byID {
		if st.URL == url {
			return &st, nil
		}
	}
	return nil, nil
}

func (m *memStores) Upsert(_ context.Context, st *models.Store) (*models.Store, error) {
	for id, other := range m.byID {
		if id == st.ID {
			continue
		}
		if other.Phone == st.Phone {
			return nil, &apperr.DuplicateFieldError{Entity: apperr.KindStore, Field: "phone"}
		}
	}
	saved := *st
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	if saved.Status == "" {
		saved.Status = models.StoreStatusPending
	}
	m.byID[saved.ID] = saved
	return &saved, nil
}

func (m *memStores) Patch(_ context.Context, p *models.StorePatch) (*models.Store, error) {
	st, ok := m.byID[p.ID]
	if !ok {
		return nil, apperr.NotFound(apperr.KindStore)
	}
	st = p.Apply(st)
	m.byID[st.ID] = st
	return &st, nil
}

// memProducts is an in-memory ProductRepo that also answers slug lookups.
// failSlugWrites makes the next n writes fail with a slug conflict, as if a
// concurrent request had taken the slug between check and insert.
type memProducts struct {
	mu             sync.Mutex
	byID           map[uuid.UUID]models.Product
	productSlugs   map[string]bool
	variantSlugs   map[string]bool
	failSlugWrites int
	writes         int
}

func newMemProducts() *memProducts {
	return &memProducts{
		byID:         make(map[uuid.UUID]models.Product),
		productSlugs: make(map[string]bool),
		variantSlugs: make(map[string]bool),
	}
}

func (m *memProducts) SlugExists(_ context.Context, kind slug.Kind, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind == slug.KindProduct {
		return m.productSlugs[value], nil
	}
	return m.variantSlugs[value], nil
}

func (m *memProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	p.Variants = nil
	return &p, nil
}

func (m *memProducts) FindMain(_ context.Context, id uuid.UUID) (*models.ProductMain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
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

func (m *memProducts) conflict() error {
	m.writes++
	if m.failSlugWrites > 0 {
		m.failSlugWrites--
		return &apperr.DuplicateFieldError{Entity: apperr.KindProductVariant, Field: "slug"}
	}
	return nil
}

func (m *memProducts) CreateWithVariant(_ context.Context, p *models.Product, v *models.ProductVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conflict(); err != nil {
		return err
	}
	if m.productSlugs[p.Slug] {
		return &apperr.DuplicateFieldError{Entity: apperr.KindProduct, Field: "slug"}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.ProductID = p.ID
	p.Variants = []models.ProductVariant{*v}
	m.byID[p.ID] = *p
	m.productSlugs[p.Slug] = true
	m.variantSlugs[v.Slug] = true
	return nil
}

func (m *memProducts) AddVariant(_ context.Context, productID uuid.UUID, v *models.ProductVariant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conflict(); err != nil {
		return err
	}
	p, ok := m.byID[productID]
	if !ok {
		return apperr.NotFound(apperr.KindProduct)
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.ProductID = productID
	p.Variants = append(p.Variants, *v)
	m.byID[productID] = p
	m.variantSlugs[v.Slug] = true
	return nil
}

func (m *memProducts) ListByStore(_ context.Context, storeID uuid.UUID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.byID {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) FindVariantBySlug(_ context.Context, variantSlug string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		for _, v := range p.Variants {
			if v.Slug == variantSlug {
				p.Variants = []models.ProductVariant{v}
				return &p, nil
			}
		}
	}
	return nil, nil
}

func (m *memProducts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound(apperr.KindProduct)
	}
	delete(m.byID, id)
	return nil
}

// recordingInvalidator keeps every change it was told about.
type recordingInvalidator struct {
	changes []cache.Change
}

func (r *recordingInvalidator) Invalidate(_ context.Context, c cache.Change) {
	r.changes = append(r.changes, c)
}

func (r *recordingInvalidator) paths() []string {
	var out []string
	for _, c := range r.changes {
		out = append(out, c.Paths...)
	}
	return out
}

type fixture struct {
	svc           *Service
	categories    *memCategories
	subCategories *memSubCategories
	stores        *memStores
	products      *memProducts
	inv           *recordingInvalidator
}

func newFixture() *fixture {
	f := &fixture{
		categories:    newMemCategories(),
		subCategories: newMemSubCategories(),
		stores:        newMemStores(),
		products:      newMemProducts(),
		inv:           &recordingInvalidator{},
	}
	f.svc = New(Repos{
		Categories:    f.categories,
		SubCategories: f.subCategories,
		Stores:        f.stores,
		Products:      f.products,
	}, f.products, f.inv)
	return f
}

var (
	admin  = &identity.Caller{UserID: "user_admin", Email: "admin@example.com", Role: identity.RoleAdmin}
	seller = &identity.Caller{UserID: "user_seller", Email: "seller@example.com", Role: identity.RoleSeller}
	other  = &identity.Caller{UserID: "user_other", Email: "other@example.com", Role: identity.RoleSeller}
	buyer  = &identity.Caller{UserID: "user_buyer", Email: "buyer@example.com", Role: identity.RoleUser}
)
