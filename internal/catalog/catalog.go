// Package catalog holds the immutable product catalog and its lookup indexes.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/slug"
)

// Catalog is a read-only product list indexed by id and slug. It is safe
// for concurrent use because nothing mutates it after construction.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
	bySlug   map[string]int
}

// New indexes products. Products without a slug get one generated from the
// title; every product must pass domain.Product.Validate and ids and slugs
// must be unique.
func New(products []domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
		bySlug:   make(map[string]int, len(products)),
	}

	for i, p := range products {
		if p.Slug == "" {
			p.Slug = slug.Generate(p.Title)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, apperrors.InvalidInput(fmt.Sprintf("catalog entry %d: duplicate product id %q", i, p.ID))
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, apperrors.InvalidInput(fmt.Sprintf("catalog entry %d: duplicate slug %q", i, p.Slug))
		}
		c.byID[p.ID] = len(c.products)
		c.bySlug[p.Slug] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// Load decodes a JSON array of products from r.
func Load(r io.Reader) (*Catalog, error) {
	var products []domain.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(products)
}

// LoadFile reads the catalog document at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// All returns the catalog in source order. Callers must not modify it.
func (c *Catalog) All() []domain.Product {
	return c.products
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// ByID looks up a product by id.
func (c *Catalog) ByID(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// BySlug looks up a product by slug.
func (c *Catalog) BySlug(s string) (domain.Product, bool) {
	i, ok := c.bySlug[s]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Price resolves the current catalog price of a product. It satisfies
// domain.PriceLookup.
func (c *Catalog) Price(id string) (decimal.Decimal, bool) {
	p, ok := c.ByID(id)
	if !ok {
		return decimal.Zero, false
	}
	return p.Price, true
}

// Facets are the distinct filter values present in the catalog.
type Facets struct {
	Brands     []string        `json:"brands"`
	Colors     []string        `json:"colors"`
	Sizes      []string        `json:"sizes"`
	Categories []string        `json:"categories"`
	MaxPrice   decimal.Decimal `json:"max_price"`
}

// Facets collects sorted distinct brands, colors, sizes and categories and
// the highest price.
func (c *Catalog) Facets() Facets {
	brands := map[string]struct{}{}
	colors := map[string]struct{}{}
	sizes := map[string]struct{}{}
	categories := map[string]struct{}{}

	for _, p := range c.products {
		if p.Brand != "" {
			brands[p.Brand] = struct{}{}
		}
		if p.CategoryID != "" {
			categories[p.CategoryID] = struct{}{}
		}
		for _, v := range p.Colors {
			colors[v] = struct{}{}
		}
		for _, v := range p.Sizes {
			sizes[v] = struct{}{}
		}
	}

	return Facets{
		Brands:     sortedKeys(brands),
		Colors:     sortedKeys(colors),
		Sizes:      sortedKeys(sizes),
		Categories: sortedKeys(categories),
		MaxPrice:   c.MaxPrice(),
	}
}

// MaxPrice returns the highest product price, or zero for an empty catalog.
func (c *Catalog) MaxPrice() decimal.Decimal {
	max := decimal.Zero
	for _, p := range c.products {
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
	}
	return max
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
