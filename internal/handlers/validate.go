package handlers

import (
	"math"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/apperr"
	"storefront/internal/fieldgroup"
	"storefront/internal/models"
)

// Length limits for catalog forms.
const (
	minNameLen         = 2
	maxNameLen         = 50
	maxProductNameLen  = 200
	maxVariantNameLen  = 100
	minStoreDescLen    = 30
	maxStoreDescLen    = 500
	minProductDescLen  = 200
	minProductImages   = 3
	maxProductImages   = 6
	minProductKeywords = 5
	maxProductKeywords = 10
	maxDiscountPercent = 100
	maxSizeQuantity    = 1_000_000
)

var (
	categoryNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)
	storeNamePattern    = regexp.MustCompile(`^[a-zA-Z0-9\s&_-]+$`)
	urlPattern          = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	doubledSeparator    = regexp.MustCompile(`[-_ ]{2,}`)
	phonePattern        = regexp.MustCompile(`^\+?\d{1,3}?[-.\s]?\d{9,10}$`)
)

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// validateName checks a 2-50 character name against pattern.
func validateName(label, value string, pattern *regexp.Regexp, allowed string) *apperr.ValidationError {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return apperr.Invalid("name", label+" Name is required")
	case runeLen(value) < minNameLen:
		return apperr.Invalid("name", label+" Name must be at least 2 characters long")
	case runeLen(value) > maxNameLen:
		return apperr.Invalid("name", label+" Name must be at most 50 characters long")
	case !pattern.MatchString(value):
		return apperr.Invalid("name", label+" Name must contain only "+allowed)
	}
	return nil
}

// validateURL checks the public url segment of a category, sub category or
// store.
func validateURL(label, value string) *apperr.ValidationError {
	switch {
	case value == "":
		return apperr.Invalid("url", label+" URL is required")
	case runeLen(value) < minNameLen:
		return apperr.Invalid("url", label+" URL must be at least 2 characters long")
	case runeLen(value) > maxNameLen:
		return apperr.Invalid("url", label+" URL must be at most 50 characters long")
	case !urlPattern.MatchString(value) || doubledSeparator.MatchString(value):
		return apperr.Invalid("url", "Only letters, numbers, hyphen, and underscore are allowed in the "+
			strings.ToLower(label)+" url, and consecutive hyphens or underscores are not permitted.")
	}
	return nil
}

// validateCategory checks the admin category form.
func validateCategory(c *models.Category) *apperr.ValidationError {
	if err := validateName("Category", c.Name, categoryNamePattern, "letters, numbers, and spaces"); err != nil {
		return err
	}
	if err := validateURL("Category", c.URL); err != nil {
		return err
	}
	if strings.TrimSpace(c.Image) == "" {
		return apperr.Invalid("image", "Choose a category image")
	}
	return nil
}

// validateSubCategory checks the admin sub category form. rawCategoryID is
// the submitted parent id before parsing.
func validateSubCategory(sc *models.SubCategory, rawCategoryID string) *apperr.ValidationError {
	if err := validateName("Sub Category", sc.Name, categoryNamePattern, "letters, numbers, and spaces"); err != nil {
		return err
	}
	if err := validateURL("Sub Category", sc.URL); err != nil {
		return err
	}
	if strings.TrimSpace(sc.Image) == "" {
		return apperr.Invalid("image", "Choose a sub category image")
	}
	if _, err := uuid.Parse(rawCategoryID); err != nil {
		return apperr.Invalid("categoryId", "Choose a category")
	}
	return nil
}

// validateStore checks the seller store form.
func validateStore(st *models.Store) *apperr.ValidationError {
	if err := validateName("Store", st.Name, storeNamePattern, "letters, numbers, spaces, &, - and _"); err != nil {
		return err
	}
	if err := validateURL("Store", st.URL); err != nil {
		return err
	}
	desc := strings.TrimSpace(st.Description)
	if runeLen(desc) < minStoreDescLen {
		return apperr.Invalid("description", "Store description must be at least 30 characters long")
	}
	if runeLen(desc) > maxStoreDescLen {
		return apperr.Invalid("description", "Store description must be at most 500 characters long")
	}
	if addr, err := mail.ParseAddress(st.Email); err != nil || addr.Address != st.Email {
		return apperr.Invalid("email", "Invalid email format")
	}
	if !phonePattern.MatchString(st.Phone) {
		return apperr.Invalid("phone", "Invalid phone number format")
	}
	if strings.TrimSpace(st.Logo) == "" {
		return apperr.Invalid("logo", "Upload a store logo")
	}
	if strings.TrimSpace(st.Cover) == "" {
		return apperr.Invalid("cover", "Upload a store cover")
	}
	return nil
}

// validateSizeRows checks the raw size rows before they are converted into
// variant sizes. Quantities must be whole numbers.
func validateSizeRows(rows []fieldgroup.Group) *apperr.ValidationError {
	for _, g := range rows {
		q := g["quantity"].Float()
		if q != math.Trunc(q) || q > maxSizeQuantity {
			return apperr.Invalid("sizes", "Quantity must be a whole number up to 1000000")
		}
	}
	return nil
}

// validateProduct checks the product form. Product fields are skipped when
// a variant is being added to an existing product.
func validateProduct(p *models.ProductWithVariant) *apperr.ValidationError {
	if p.ProductID == uuid.Nil {
		name := strings.TrimSpace(p.Name)
		if runeLen(name) < minNameLen || runeLen(name) > maxProductNameLen {
			return apperr.Invalid("name", "Product name must be between 2 and 200 characters long")
		}
		if runeLen(strings.TrimSpace(p.Description)) < minProductDescLen {
			return apperr.Invalid("description", "Product description must be at least 200 characters long")
		}
	}
	if p.CategoryID == uuid.Nil {
		return apperr.Invalid("categoryId", "Choose a category")
	}
	if p.SubCategoryID == uuid.Nil {
		return apperr.Invalid("subCategoryId", "Choose a sub category")
	}

	variantName := strings.TrimSpace(p.VariantName)
	if runeLen(variantName) < minNameLen || runeLen(variantName) > maxVariantNameLen {
		return apperr.Invalid("variantName", "Variant name must be between 2 and 100 characters long")
	}

	if n := len(p.Images); n < minProductImages || n > maxProductImages {
		return apperr.Invalid("images", "Upload between 3 and 6 images")
	}
	for _, img := range p.Images {
		if strings.TrimSpace(img) == "" {
			return apperr.Invalid("images", "Every image row needs an uploaded image")
		}
	}

	if n := len(p.Keywords); n < minProductKeywords || n > maxProductKeywords {
		return apperr.Invalid("keywords", "Add between 5 and 10 keywords")
	}

	if len(p.Colors) == 0 {
		return apperr.Invalid("colors", "Add at least one color")
	}
	for _, c := range p.Colors {
		if strings.TrimSpace(c) == "" {
			return apperr.Invalid("colors", "Color names cannot be empty")
		}
	}

	if len(p.Sizes) == 0 {
		return apperr.Invalid("sizes", "Add at least one size")
	}
	for _, s := range p.Sizes {
		switch {
		case strings.TrimSpace(s.Size) == "":
			return apperr.Invalid("sizes", "Every size needs a size label")
		case !s.Price.IsPositive():
			return apperr.Invalid("sizes", "Price must be greater than 0")
		case s.Quantity <= 0:
			return apperr.Invalid("sizes", "Quantity must be greater than 0")
		case s.Discount.IsNegative() || s.Discount.GreaterThan(decimal.NewFromInt(maxDiscountPercent)):
			return apperr.Invalid("sizes", "Discount must be between 0 and 100")
		}
	}
	return nil
}
