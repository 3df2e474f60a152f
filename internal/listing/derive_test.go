package listing

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
)

// tenProducts has three products priced under 50: p-1, p-4 and p-8.
func tenProducts() []domain.Product {
	prices := []string{"120", "45", "80", "60", "10", "99", "75", "200", "30", "55"}
	out := make([]domain.Product, len(prices))
	for i, price := range prices {
		out[i] = domain.Product{
			ID:         fmt.Sprintf("p-%d", i),
			Title:      fmt.Sprintf("Item %d", i),
			Price:      decimal.RequireFromString(price),
			Rating:     float64(i%5) + 0.5,
			Brand:      []string{"Acme", "Globex"}[i%2],
			CategoryID: []string{"shirts", "shoes"}[i%2],
			Colors:     []string{[]string{"red", "blue", "green"}[i%3]},
			Sizes:      []string{"M", []string{"S", "L"}[i%2]},
		}
	}
	return out
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestDerive_FastPathReturnsInput(t *testing.T) {
	products := tenProducts()
	f := domain.DefaultFilterState()
	f.ViewMode = domain.ViewList

	got := DeriveVisibleProducts(products, f, "  ")
	require.Len(t, got, len(products))
	assert.Same(t, &products[0], &got[0])
}

func TestDerive_DefaultPriceRangeKeepsExpensiveProducts(t *testing.T) {
	products := []domain.Product{
		{ID: "cheap", Title: "Lamp", Price: decimal.NewFromInt(10), Brand: "A"},
		{ID: "sofa", Title: "Corner sofa", Price: decimal.NewFromInt(15000), Brand: "A"},
	}

	f := domain.DefaultFilterState()
	f.Brands = []string{"A"}
	assert.Equal(t, []string{"cheap", "sofa"}, ids(DeriveVisibleProducts(products, f, "")))

	assert.Equal(t, []string{"sofa"}, ids(DeriveVisibleProducts(products, domain.DefaultFilterState(), "sofa")))

	f.PriceRange = domain.PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(20000)}
	assert.Equal(t, []string{"cheap", "sofa"}, ids(DeriveVisibleProducts(products, f, "")))

	f.PriceRange = domain.PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(100)}
	assert.Equal(t, []string{"cheap"}, ids(DeriveVisibleProducts(products, f, "")))
}

func TestDerive_PriceRangeKeepsCatalogOrder(t *testing.T) {
	products := tenProducts()
	f := domain.DefaultFilterState()
	f.PriceRange = domain.PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(50)}

	got := DeriveVisibleProducts(products, f, "")
	assert.Equal(t, []string{"p-1", "p-4", "p-8"}, ids(got))

	f.SortBy = domain.SortPriceLow
	got = DeriveVisibleProducts(products, f, "")
	assert.Equal(t, []string{"p-4", "p-8", "p-1"}, ids(got))

	f.SortBy = domain.SortPriceHigh
	got = DeriveVisibleProducts(products, f, "")
	assert.Equal(t, []string{"p-1", "p-8", "p-4"}, ids(got))
}

func TestDerive_PriceBoundsInclusive(t *testing.T) {
	f := domain.DefaultFilterState()
	f.PriceRange = domain.PriceRange{Min: decimal.NewFromInt(45), Max: decimal.NewFromInt(55)}
	assert.Equal(t, []string{"p-1", "p-9"}, ids(DeriveVisibleProducts(tenProducts(), f, "")))
}

func TestDerive_SortDoesNotMutateSource(t *testing.T) {
	products := tenProducts()
	before := ids(products)
	f := domain.DefaultFilterState()
	f.SortBy = domain.SortPriceLow

	got := DeriveVisibleProducts(products, f, "")
	assert.Equal(t, before, ids(products))
	assert.Len(t, got, len(products))
	assert.Equal(t, "p-4", got[0].ID)
}

func TestDerive_SortByRatingStable(t *testing.T) {
	f := domain.DefaultFilterState()
	f.SortBy = domain.SortRating
	got := DeriveVisibleProducts(tenProducts(), f, "")
	// ratings cycle 0.5..4.5; ties keep catalog order
	assert.Equal(t, []string{"p-4", "p-9", "p-3", "p-8", "p-2", "p-7", "p-1", "p-6", "p-0", "p-5"}, ids(got))
}

func TestDerive_SetFilters(t *testing.T) {
	products := tenProducts()

	tests := []struct {
		name   string
		mutate func(*domain.FilterState)
		query  string
		want   []string
	}{
		{"query case-insensitive", nil, "ITEM 1", []string{"p-1"}},
		{"brand OR", func(f *domain.FilterState) { f.Brands = []string{"Globex", "Initech"} }, "", []string{"p-1", "p-3", "p-5", "p-7", "p-9"}},
		{"color ANY", func(f *domain.FilterState) { f.Colors = []string{"red", "green"} }, "", []string{"p-0", "p-2", "p-3", "p-5", "p-6", "p-8", "p-9"}},
		{"size ANY", func(f *domain.FilterState) { f.Sizes = []string{"L"} }, "", []string{"p-1", "p-3", "p-5", "p-7", "p-9"}},
		{"rating threshold", func(f *domain.FilterState) { f.Rating = 4 }, "", []string{"p-4", "p-9"}},
		{"category", func(f *domain.FilterState) { f.Category = "shirts" }, "", []string{"p-0", "p-2", "p-4", "p-6", "p-8"}},
		{"combined", func(f *domain.FilterState) {
			f.Brands = []string{"Acme"}
			f.Rating = 2
		}, "item", []string{"p-2", "p-4", "p-8"}},
		{"nothing matches", nil, "sofa", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := domain.DefaultFilterState()
			if tc.mutate != nil {
				tc.mutate(&f)
			}
			got := DeriveVisibleProducts(products, f, tc.query)
			assert.Equal(t, tc.want, ids(got))
			assert.LessOrEqual(t, len(got), len(products))
		})
	}
}

func TestSuggest(t *testing.T) {
	products := tenProducts()
	assert.Equal(t, []string{"Item 0", "Item 1", "Item 2", "Item 3", "Item 4"}, Suggest(products, "item", MaxSuggestions))
	assert.Equal(t, []string{"Item 7"}, Suggest(products, " 7", MaxSuggestions))
	assert.Empty(t, Suggest(products, "", MaxSuggestions))
}
