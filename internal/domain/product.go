package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/slug"
)

// Product is a catalog entry. Products are loaded once and never mutated.
type Product struct {
	ID          string           `json:"id"`
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Images      []string         `json:"images"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"old_price,omitempty"`
	Rating      float64          `json:"rating"`
	ReviewCount int              `json:"review_count"`
	Brand       string           `json:"brand"`
	CategoryID  string           `json:"category_id"`
	Colors      []string         `json:"colors"`
	Sizes       []string         `json:"sizes"`
	InStock     bool             `json:"in_stock"`
	Badges      []string         `json:"badges,omitempty"`
}

// Validate checks the catalog invariants of a single product.
func (p *Product) Validate() error {
	fail := func(format string, args ...any) error {
		return apperrors.InvalidInput(fmt.Sprintf("product %q: "+format, append([]any{p.ID}, args...)...))
	}

	switch {
	case p.ID == "":
		return apperrors.InvalidInput("product id is required")
	case !slug.Valid(p.Slug):
		return fail("slug %q is not url-safe", p.Slug)
	case len(p.Images) == 0:
		return fail("at least one image is required")
	case !p.Price.IsPositive():
		return fail("price must be positive")
	case p.OldPrice != nil && !p.OldPrice.GreaterThan(p.Price):
		return fail("old price %s must exceed price %s", p.OldPrice, p.Price)
	case p.Rating < 0 || p.Rating > 5:
		return fail("rating %.2f out of range [0,5]", p.Rating)
	case p.ReviewCount < 0:
		return fail("review count must not be negative")
	case len(p.Colors) == 0:
		return fail("at least one color is required")
	case len(p.Sizes) == 0:
		return fail("at least one size is required")
	}
	return nil
}

// OnSale reports whether the product carries a previous higher price.
func (p *Product) OnSale() bool {
	return p.OldPrice != nil && p.OldPrice.GreaterThan(p.Price)
}

// HasColor reports whether the product is offered in color.
func (p *Product) HasColor(color string) bool {
	return contains(p.Colors, color)
}

// HasSize reports whether the product is offered in size.
func (p *Product) HasSize(size string) bool {
	return contains(p.Sizes, size)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
