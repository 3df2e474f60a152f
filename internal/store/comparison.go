package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// MaxCompareItems bounds the comparison list.
const MaxCompareItems = 4

// Comparison is a bounded, duplicate-free list of product snapshots.
type Comparison struct {
	base

	mu       sync.RWMutex
	products []domain.Product
}

// NewComparison creates an empty comparison list.
func NewComparison(l *slog.Logger) *Comparison {
	return &Comparison{
		base:     newBase(NameComparison, l),
		products: []domain.Product{},
	}
}

// AddProduct appends a snapshot of p. It silently does nothing when the list
// is full or already holds p; callers check CanAdd first. The result reports
// whether p was added.
func (c *Comparison) AddProduct(ctx context.Context, p domain.Product) bool {
	c.mu.Lock()
	if len(c.products) >= MaxCompareItems || c.indexLocked(p.ID) >= 0 {
		c.mu.Unlock()
		return false
	}
	c.products = append(c.products, p)
	c.mu.Unlock()

	c.log(ctx).DebugContext(ctx, "product added to comparison", slog.String("product_id", p.ID))
	c.applied("add")
	return true
}

// RemoveProduct drops id from the list if present.
func (c *Comparison) RemoveProduct(ctx context.Context, id string) bool {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.products = slices.Delete(c.products, i, i+1)
	c.mu.Unlock()

	c.applied("remove")
	return true
}

// ClearComparison empties the list.
func (c *Comparison) ClearComparison(ctx context.Context) {
	c.mu.Lock()
	c.products = []domain.Product{}
	c.mu.Unlock()

	c.applied("clear")
}

// IsComparing reports whether id is in the list.
func (c *Comparison) IsComparing(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexLocked(id) >= 0
}

// CanAdd reports whether the list has room.
func (c *Comparison) CanAdd() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products) < MaxCompareItems
}

// Products returns the compared snapshots in insertion order.
func (c *Comparison) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

func (c *Comparison) indexLocked(id string) int {
	return slices.IndexFunc(c.products, func(p domain.Product) bool { return p.ID == id })
}

type comparisonSnapshot struct {
	Products []domain.Product `json:"products"`
}

// Serialize encodes the compared products.
func (c *Comparison) Serialize() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(comparisonSnapshot{Products: c.products})
}

// Hydrate replaces the list with a serialized snapshot, keeping the first
// four distinct products so the capacity bound holds for any blob.
func (c *Comparison) Hydrate(data []byte) error {
	var snap comparisonSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("hydrate comparison: %w", err)
	}

	c.mu.Lock()
	c.products = make([]domain.Product, 0, MaxCompareItems)
	for _, p := range snap.Products {
		if len(c.products) == MaxCompareItems {
			break
		}
		if c.indexLocked(p.ID) < 0 {
			c.products = append(c.products, p)
		}
	}
	c.mu.Unlock()

	c.notify()
	return nil
}
