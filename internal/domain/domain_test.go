package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func validProduct() Product {
	return Product{
		ID:     "p-1",
		Slug:   "linen-shirt",
		Title:  "Linen Shirt",
		Images: []string{"/img/linen-1.jpg"},
		Price:  decimal.RequireFromString("49.90"),
		Rating: 4.2,
		Brand:  "Acme",
		Colors: []string{"white"},
		Sizes:  []string{"M"},
	}
}

func TestProduct_Validate(t *testing.T) {
	p := validProduct()
	require.NoError(t, p.Validate())

	old := decimal.RequireFromString("40")
	tests := []struct {
		name   string
		mutate func(*Product)
	}{
		{"missing id", func(p *Product) { p.ID = "" }},
		{"unsafe slug", func(p *Product) { p.Slug = "Linen Shirt" }},
		{"no images", func(p *Product) { p.Images = nil }},
		{"zero price", func(p *Product) { p.Price = decimal.Zero }},
		{"old price below price", func(p *Product) { p.OldPrice = &old }},
		{"rating above five", func(p *Product) { p.Rating = 5.5 }},
		{"negative reviews", func(p *Product) { p.ReviewCount = -1 }},
		{"no colors", func(p *Product) { p.Colors = []string{} }},
		{"no sizes", func(p *Product) { p.Sizes = nil }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validProduct()
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestProduct_OnSale(t *testing.T) {
	p := validProduct()
	assert.False(t, p.OnSale())
	old := decimal.RequireFromString("59.90")
	p.OldPrice = &old
	assert.True(t, p.OnSale())
	assert.NoError(t, p.Validate())
}

func TestVariantKey(t *testing.T) {
	assert.Equal(t, "navy-XL", VariantKey("navy", "XL"))
	item := CartItem{ProductID: "p", VariantKey: VariantKey("navy", "XL")}
	assert.True(t, item.Matches("p", "navy-XL"))
	assert.False(t, item.Matches("p", "navy-L"))
}

func TestOrderItem_LineTotal(t *testing.T) {
	item := OrderItem{Price: decimal.RequireFromString("12.50"), Quantity: 3}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("37.5")))
}

func TestDefaultFilterState(t *testing.T) {
	f := DefaultFilterState()
	assert.Equal(t, ViewGrid, f.ViewMode)
	assert.True(t, f.PriceRange.Min.IsZero())
	assert.True(t, f.PriceRange.Max.Equal(decimal.NewFromInt(10000)))
	assert.Empty(t, f.Brands)
	assert.Empty(t, f.Colors)
	assert.Empty(t, f.Sizes)
	assert.Zero(t, f.Rating)
	assert.Equal(t, SortPopular, f.SortBy)
	assert.True(t, f.IsDefault())

	f.ViewMode = ViewList
	assert.True(t, f.IsDefault(), "view mode does not narrow the listing")
	f.Category = "shoes"
	assert.False(t, f.IsDefault())
}

func TestFilterState_SetAndClone(t *testing.T) {
	f := DefaultFilterState()
	brands := []string{"Acme"}
	f.Set(FilterBrands, brands)
	brands[0] = "mutated"
	assert.Equal(t, []string{"Acme"}, f.Brands)

	c := f.Clone()
	c.Brands[0] = "other"
	assert.Equal(t, []string{"Acme"}, f.Brands)

	f.Set(FilterSortBy, SortRating)
	f.Set(FilterRating, 4.0)
	f.Set(FilterPriceRange, PriceRange{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(20)})
	assert.Equal(t, SortRating, f.SortBy)
	assert.Equal(t, 4.0, f.Rating)
	assert.False(t, f.IsDefault())
}

func TestFilterState_SetWrongTypePanics(t *testing.T) {
	f := DefaultFilterState()
	assert.Panics(t, func() { f.Set(FilterRating, "4") })
	assert.Panics(t, func() { f.Set(FilterKey("colour"), []string{}) })
}

func TestPriceRange_ContainsInclusive(t *testing.T) {
	r := PriceRange{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(50)}
	assert.True(t, r.Contains(decimal.NewFromInt(10)))
	assert.True(t, r.Contains(decimal.NewFromInt(50)))
	assert.False(t, r.Contains(decimal.RequireFromString("50.01")))
}

func TestPriceRange_DefaultDoesNotNarrow(t *testing.T) {
	assert.False(t, DefaultFilterState().PriceRange.Narrows())
	assert.True(t, PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(50)}.Narrows())
	assert.True(t, PriceRange{Min: decimal.NewFromInt(1), Max: DefaultMaxPrice}.Narrows())
}

func TestDecodeFilterValue(t *testing.T) {
	v, err := DecodeFilterValue(FilterPriceRange, json.RawMessage(`{"min":0,"max":50}`))
	require.NoError(t, err)
	assert.True(t, v.(PriceRange).Max.Equal(decimal.NewFromInt(50)))

	v, err = DecodeFilterValue(FilterColors, json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Equal(t, []string{}, v)

	v, err = DecodeFilterValue(FilterSortBy, json.RawMessage(`"price-high"`))
	require.NoError(t, err)
	assert.Equal(t, SortPriceHigh, v)

	for key, raw := range map[FilterKey]string{
		FilterSortBy:     `"cheapest"`,
		FilterViewMode:   `"table"`,
		FilterRating:     `7`,
		FilterPriceRange: `{"min":60,"max":50}`,
		FilterBrands:     `"Acme"`,
		FilterKey("x"):   `1`,
	} {
		_, err := DecodeFilterValue(key, json.RawMessage(raw))
		assert.True(t, apperrors.IsValidation(err), "key %s", key)
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderStatusPending.Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}
