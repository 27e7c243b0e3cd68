package handlers

import (
	"math"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"storefront/internal/fieldgroup"
	"storefront/internal/models"
	"storefront/internal/render"
)

// groupSpec describes one repeatable group on the product form.
type groupSpec struct {
	prefix  string
	label   string
	fields  []render.Field
	initial fieldgroup.Group
}

var productGroups = []groupSpec{
	{
		prefix:  "images",
		label:   "Images",
		fields:  []render.Field{{Name: "url", Label: "Image", Type: "image"}},
		initial: fieldgroup.Group{"url": fieldgroup.Text("")},
	},
	{
		prefix:  "colors",
		label:   "Colors",
		fields:  []render.Field{{Name: "color", Label: "Color", Type: "text"}},
		initial: fieldgroup.Group{"color": fieldgroup.Text("")},
	},
	{
		prefix: "sizes",
		label:  "Sizes",
		fields: []render.Field{
			{Name: "size", Label: "Size", Type: "text"},
			{Name: "price", Label: "Price", Type: "number", Step: "0.01"},
			{Name: "quantity", Label: "Quantity", Type: "number", Step: "1"},
			{Name: "discount", Label: "Discount %", Type: "number", Step: "0.01"},
		},
		initial: fieldgroup.Group{
			"size":     fieldgroup.Text(""),
			"price":    fieldgroup.Number(0),
			"quantity": fieldgroup.Number(1),
			"discount": fieldgroup.Number(0),
		},
	},
	{
		prefix:  "keywords",
		label:   "Keywords",
		fields:  []render.Field{{Name: "keyword", Label: "Keyword", Type: "text"}},
		initial: fieldgroup.Group{"keyword": fieldgroup.Text("")},
	},
}

func findGroup(prefix string) (groupSpec, bool) {
	for _, g := range productGroups {
		if g.prefix == prefix {
			return g, true
		}
	}
	return groupSpec{}, false
}

// productForm is the submitted state of the product form: the scalar
// fields plus every repeatable group.
type productForm struct {
	input  *models.ProductWithVariant
	groups map[string][]fieldgroup.Group
}

// parseProductForm reads the product form. r.ParseForm must have run.
func parseProductForm(r *http.Request) *productForm {
	f := &productForm{
		input: &models.ProductWithVariant{
			ProductID:          formID(r, "productId"),
			VariantID:          formID(r, "variantId"),
			Name:               formText(r, "name"),
			Description:        formText(r, "description"),
			Brand:              formText(r, "brand"),
			CategoryID:         formID(r, "categoryId"),
			SubCategoryID:      formID(r, "subCategoryId"),
			VariantName:        formText(r, "variantName"),
			VariantDescription: formText(r, "variantDescription"),
			SKU:                formText(r, "sku"),
			IsSale:             formBool(r, "isSale"),
		},
		groups: groupsFromValues(r.PostForm),
	}

	in := f.input
	for _, g := range f.groups["images"] {
		in.Images = append(in.Images, g["url"].String())
	}
	for _, g := range f.groups["colors"] {
		in.Colors = append(in.Colors, g["color"].String())
	}
	for _, g := range f.groups["keywords"] {
		if kw := g["keyword"].String(); kw != "" {
			in.Keywords = append(in.Keywords, kw)
		}
	}
	for _, g := range f.groups["sizes"] {
		in.Sizes = append(in.Sizes, models.VariantSize{
			Size:     g["size"].String(),
			Price:    decimal.NewFromFloat(g["price"].Float()).Round(2),
			Quantity: quantity(g["quantity"].Float()),
			Discount: decimal.NewFromFloat(g["discount"].Float()).Round(2),
		})
	}
	return f
}

// quantity converts a size row quantity. Values an int cannot hold exactly
// become 0; validateSizeRows reports them.
func quantity(q float64) int {
	if q != math.Trunc(q) || q < -maxSizeQuantity || q > maxSizeQuantity {
		return 0
	}
	return int(q)
}

// groupsFromValues parses every product group out of form values.
func groupsFromValues(values url.Values) map[string][]fieldgroup.Group {
	out := make(map[string][]fieldgroup.Group, len(productGroups))
	for _, g := range productGroups {
		out[g.prefix] = fieldgroup.ParseForm(values, g.prefix, g.initial)
	}
	return out
}

// emptyGroups returns one blank row per group for a fresh form.
func emptyGroups() map[string][]fieldgroup.Group {
	return groupsFromValues(nil)
}

// groupViews builds the template view of every group, in form order.
func groupViews(groups map[string][]fieldgroup.Group, rowsURL string) []render.GroupRows {
	views := make([]render.GroupRows, 0, len(productGroups))
	for _, g := range productGroups {
		views = append(views, groupView(g, groups[g.prefix], rowsURL))
	}
	return views
}

func groupView(g groupSpec, rows []fieldgroup.Group, rowsURL string) render.GroupRows {
	return render.GroupRows{
		Prefix:  g.prefix,
		Label:   g.label,
		Fields:  g.fields,
		Rows:    rows,
		RowsURL: rowsURL,
	}
}

// parseStoreForm reads the store form.
func parseStoreForm(r *http.Request) *models.Store {
	return &models.Store{
		ID:          formID(r, "id"),
		Name:        formText(r, "name"),
		Description: formText(r, "description"),
		Email:       formText(r, "email"),
		Phone:       formText(r, "phone"),
		URL:         formText(r, "url"),
		Logo:        formText(r, "logo"),
		Cover:       formText(r, "cover"),
		Featured:    formBool(r, "featured"),
	}
}

// storePatch turns a validated store form into a patch of every editable
// field.
func storePatch(st *models.Store) *models.StorePatch {
	return &models.StorePatch{
		ID:          st.ID,
		Name:        &st.Name,
		Description: &st.Description,
		Email:       &st.Email,
		Phone:       &st.Phone,
		URL:         &st.URL,
		Logo:        &st.Logo,
		Cover:       &st.Cover,
		Featured:    &st.Featured,
	}
}
