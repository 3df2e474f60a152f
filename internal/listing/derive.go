// Package listing computes the visible product list from the catalog, the
// filter criteria and the search query.
package listing

import (
	"slices"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
)

// DeriveVisibleProducts returns the products matching filters and query.
//
// With an empty query and default criteria the input slice is returned
// unchanged. Otherwise products are kept when the title contains the query
// (case-insensitive), the price lies in the inclusive range (the default
// range admits any price), the brand is
// one of the selected brands, any color and any size match the selections,
// the rating reaches the threshold and the category matches. The result is
// then ordered by filters.SortBy on a fresh slice; products is never
// reordered.
func DeriveVisibleProducts(products []domain.Product, filters domain.FilterState, query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" && filters.IsDefault() {
		return products
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(&p, &filters, query) {
			out = append(out, p)
		}
	}

	sortProducts(out, filters.SortBy)
	return out
}

func matches(p *domain.Product, f *domain.FilterState, query string) bool {
	if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
		return false
	}
	if f.PriceRange.Narrows() && !f.PriceRange.Contains(p.Price) {
		return false
	}
	if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Colors) > 0 && !slices.ContainsFunc(f.Colors, p.HasColor) {
		return false
	}
	if len(f.Sizes) > 0 && !slices.ContainsFunc(f.Sizes, p.HasSize) {
		return false
	}
	if f.Rating > 0 && p.Rating < f.Rating {
		return false
	}
	if f.Category != "" && p.CategoryID != f.Category {
		return false
	}
	return true
}

// sortProducts orders products in place. The sort is stable so equal keys
// keep catalog order; "popular" keeps catalog order entirely.
func sortProducts(products []domain.Product, by domain.SortBy) {
	switch by {
	case domain.SortPriceLow:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case domain.SortPriceHigh:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case domain.SortRating:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		})
	}
}
