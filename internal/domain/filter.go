package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ViewMode controls how the listing is laid out.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// SortBy selects the listing order.
type SortBy string

const (
	SortPopular   SortBy = "popular"
	SortPriceLow  SortBy = "price-low"
	SortPriceHigh SortBy = "price-high"
	SortRating    SortBy = "rating"
)

// Valid reports whether s is a known sort order.
func (s SortBy) Valid() bool {
	switch s {
	case SortPopular, SortPriceLow, SortPriceHigh, SortRating:
		return true
	}
	return false
}

// DefaultMaxPrice is the upper bound of the default price range. The
// default range is the slider's resting position and never narrows the
// listing; see PriceRange.Narrows.
var DefaultMaxPrice = decimal.NewFromInt(10000)

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains reports whether price lies within the inclusive bounds.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// Narrows reports whether the range filters anything. The default range
// matches every price, including prices above DefaultMaxPrice.
func (r PriceRange) Narrows() bool {
	return !r.Min.IsZero() || !r.Max.Equal(DefaultMaxPrice)
}

// Equal compares ranges by value.
func (r PriceRange) Equal(o PriceRange) bool {
	return r.Min.Equal(o.Min) && r.Max.Equal(o.Max)
}

// FilterState holds the listing criteria. Brands, colors and sizes match
// with OR semantics within each field.
type FilterState struct {
	ViewMode   ViewMode   `json:"view_mode"`
	PriceRange PriceRange `json:"price_range"`
	Brands     []string   `json:"brands"`
	Colors     []string   `json:"colors"`
	Sizes      []string   `json:"sizes"`
	Rating     float64    `json:"rating"`
	SortBy     SortBy     `json:"sort_by"`
	Category   string     `json:"category,omitempty"`
}

// DefaultFilterState returns the criteria restored by a filter reset.
func DefaultFilterState() FilterState {
	return FilterState{
		ViewMode:   ViewGrid,
		PriceRange: PriceRange{Min: decimal.Zero, Max: DefaultMaxPrice},
		Brands:     []string{},
		Colors:     []string{},
		Sizes:      []string{},
		Rating:     0,
		SortBy:     SortPopular,
	}
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	f.Brands = slices.Clone(f.Brands)
	f.Colors = slices.Clone(f.Colors)
	f.Sizes = slices.Clone(f.Sizes)
	return f
}

// IsDefault reports whether no criterion narrows or reorders the catalog.
// The view mode is presentation only and is ignored.
func (f FilterState) IsDefault() bool {
	d := DefaultFilterState()
	return !f.PriceRange.Narrows() &&
		len(f.Brands) == 0 &&
		len(f.Colors) == 0 &&
		len(f.Sizes) == 0 &&
		f.Rating == 0 &&
		f.SortBy == d.SortBy &&
		f.Category == ""
}

// FilterKey names one settable field of FilterState.
type FilterKey string

const (
	FilterViewMode   FilterKey = "view_mode"
	FilterPriceRange FilterKey = "price_range"
	FilterBrands     FilterKey = "brands"
	FilterColors     FilterKey = "colors"
	FilterSizes      FilterKey = "sizes"
	FilterRating     FilterKey = "rating"
	FilterSortBy     FilterKey = "sort_by"
	FilterCategory   FilterKey = "category"
)

// FilterKeys lists every settable key.
var FilterKeys = []FilterKey{
	FilterViewMode, FilterPriceRange, FilterBrands, FilterColors,
	FilterSizes, FilterRating, FilterSortBy, FilterCategory,
}

// Set assigns value to the field named by key. Values are trusted: a value
// of the wrong Go type or an unknown key is an integration bug and panics.
func (f *FilterState) Set(key FilterKey, value any) {
	switch key {
	case FilterViewMode:
		f.ViewMode = value.(ViewMode)
	case FilterPriceRange:
		f.PriceRange = value.(PriceRange)
	case FilterBrands:
		f.Brands = slices.Clone(value.([]string))
	case FilterColors:
		f.Colors = slices.Clone(value.([]string))
	case FilterSizes:
		f.Sizes = slices.Clone(value.([]string))
	case FilterRating:
		f.Rating = value.(float64)
	case FilterSortBy:
		f.SortBy = value.(SortBy)
	case FilterCategory:
		f.Category = value.(string)
	default:
		panic(fmt.Sprintf("domain: unknown filter key %q", key))
	}
}

// DecodeFilterValue converts a JSON wire value into the Go type Set expects
// for key. Unlike Set it reports malformed input as a validation error.
func DecodeFilterValue(key FilterKey, raw json.RawMessage) (any, error) {
	invalid := func(err error) error {
		return apperrors.InvalidFields("invalid filter value", map[string]string{string(key): err.Error()})
	}

	switch key {
	case FilterViewMode:
		var v ViewMode
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid(err)
		}
		if v != ViewGrid && v != ViewList {
			return nil, invalid(fmt.Errorf("must be one of grid list"))
		}
		return v, nil
	case FilterPriceRange:
		var v PriceRange
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid(err)
		}
		if v.Min.IsNegative() || v.Min.GreaterThan(v.Max) {
			return nil, invalid(fmt.Errorf("min must be non-negative and not exceed max"))
		}
		return v, nil
	case FilterBrands, FilterColors, FilterSizes:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid(err)
		}
		if v == nil {
			v = []string{}
		}
		return v, nil
	case FilterRating:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid(err)
		}
		if v < 0 || v > 5 {
			return nil, invalid(fmt.Errorf("must be between 0 and 5"))
		}
		return v, nil
	case FilterSortBy:
		var v SortBy
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid(err)
		}
		if !v.Valid() {
			return nil, invalid(fmt.Errorf("must be one of popular price-low price-high rating"))
		}
		return v, nil
	case FilterCategory:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, invalid(err)
		}
		return v, nil
	}
	return nil, apperrors.InvalidInput(fmt.Sprintf("unknown filter key %q", key))
}
