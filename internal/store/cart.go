package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// DefaultHighlightDuration is how long LastAdded reports a freshly added product.
const DefaultHighlightDuration = time.Second

// Cart holds the visitor's cart lines, at most one per (product, variant).
type Cart struct {
	base

	mu        sync.RWMutex
	items     []domain.CartItem
	lastAdded string

	highlightFor time.Duration
	highlight    *time.Timer
	highlightGen uint64
	closed       bool
}

// CartOption configures a Cart.
type CartOption func(*Cart)

// WithHighlightDuration sets how long LastAdded stays set after an add.
func WithHighlightDuration(d time.Duration) CartOption {
	return func(c *Cart) {
		if d > 0 {
			c.highlightFor = d
		}
	}
}

// NewCart creates an empty cart.
func NewCart(l *slog.Logger, opts ...CartOption) *Cart {
	c := &Cart{
		base:         newBase(NameCart, l),
		items:        []domain.CartItem{},
		highlightFor: DefaultHighlightDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func validQuantity(q int) bool {
	return q >= 0 && q <= domain.MaxLineQuantity
}

func quantityError(q int) error {
	return apperrors.InvalidFields(
		fmt.Sprintf("quantity %d out of range [0,%d]", q, domain.MaxLineQuantity),
		map[string]string{"quantity": fmt.Sprintf("must be between 0 and %d", domain.MaxLineQuantity)},
	)
}

// AddItem adds quantity units of item. A quantity of 0 means 1. When a line
// for the same product and variant exists its quantity grows, capped at 99;
// otherwise a new line is appended. The product is reported by LastAdded
// until the highlight delay elapses or another add restarts it.
func (c *Cart) AddItem(ctx context.Context, item domain.CartItem, quantity int) error {
	if quantity == 0 {
		quantity = 1
	}
	if !validQuantity(quantity) {
		return c.reject(ctx, "add_item", quantityError(quantity))
	}
	if item.ProductID == "" {
		return c.reject(ctx, "add_item", apperrors.InvalidFields("product id is required",
			map[string]string{"product_id": "is required"}))
	}
	if item.VariantKey == "" {
		item.VariantKey = domain.VariantKey(item.Color, item.Size)
	}

	c.mu.Lock()
	if i := c.indexLocked(item.ProductID, item.VariantKey); i >= 0 {
		c.setQuantityLocked(i, min(c.items[i].Quantity+quantity, domain.MaxLineQuantity))
	} else {
		item.Quantity = quantity
		c.items = append(c.items, item)
	}
	c.lastAdded = item.ProductID
	c.restartHighlightLocked()
	c.mu.Unlock()

	c.log(ctx).DebugContext(ctx, "cart item added",
		slog.String("product_id", item.ProductID),
		slog.String("variant_key", item.VariantKey),
		slog.Int("quantity", quantity),
	)
	c.applied("add_item")
	return nil
}

// UpdateQuantity sets the quantity of an existing line. Values outside
// [0,99] are rejected and leave the cart unchanged. Zero keeps the line;
// only RemoveItem deletes it. A missing line is a no-op.
func (c *Cart) UpdateQuantity(ctx context.Context, productID, variantKey string, quantity int) error {
	if !validQuantity(quantity) {
		return c.reject(ctx, "update_quantity", quantityError(quantity))
	}

	c.mu.Lock()
	i := c.indexLocked(productID, variantKey)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	c.setQuantityLocked(i, quantity)
	c.mu.Unlock()

	c.applied("update_quantity")
	return nil
}

// RemoveItem deletes a line if present.
func (c *Cart) RemoveItem(ctx context.Context, productID, variantKey string) {
	c.mu.Lock()
	i := c.indexLocked(productID, variantKey)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.mu.Unlock()

	c.log(ctx).DebugContext(ctx, "cart item removed",
		slog.String("product_id", productID),
		slog.String("variant_key", variantKey),
	)
	c.applied("remove_item")
}

// ClearCart removes every line.
func (c *Cart) ClearCart(ctx context.Context) {
	c.mu.Lock()
	c.items = []domain.CartItem{}
	c.mu.Unlock()

	c.log(ctx).DebugContext(ctx, "cart cleared")
	c.applied("clear")
}

// TakeItems empties the cart and returns the lines it held, in one step.
// Lines added afterwards belong to the next checkout.
func (c *Cart) TakeItems(ctx context.Context) []domain.CartItem {
	c.mu.Lock()
	taken := c.items
	c.items = []domain.CartItem{}
	c.mu.Unlock()

	if len(taken) == 0 {
		return taken
	}
	c.log(ctx).DebugContext(ctx, "cart lines taken", slog.Int("lines", len(taken)))
	c.applied("take_items")
	return taken
}

// Restore puts lines returned by TakeItems back ahead of any lines added in
// the meantime. A line whose product and variant was re-added merges into
// it, capped at 99.
func (c *Cart) Restore(ctx context.Context, lines []domain.CartItem) {
	if len(lines) == 0 {
		return
	}

	c.mu.Lock()
	merged := slices.Clone(lines)
	for _, it := range c.items {
		if i := slices.IndexFunc(merged, func(m domain.CartItem) bool {
			return m.Matches(it.ProductID, it.VariantKey)
		}); i >= 0 {
			merged[i].Quantity = min(merged[i].Quantity+it.Quantity, domain.MaxLineQuantity)
			continue
		}
		merged = append(merged, it)
	}
	c.items = merged
	c.mu.Unlock()

	c.log(ctx).DebugContext(ctx, "cart lines restored", slog.Int("lines", len(lines)))
	c.applied("restore")
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []domain.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Item returns the line for a product and variant.
func (c *Cart) Item(productID, variantKey string) (domain.CartItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(productID, variantKey); i >= 0 {
		return c.items[i], true
	}
	return domain.CartItem{}, false
}

// TotalItems returns the sum of line quantities.
func (c *Cart) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// TotalPrice sums quantity × price with prices resolved through lookup. The
// snapshot price stored on the line is never used; products lookup cannot
// resolve contribute nothing.
func (c *Cart) TotalPrice(lookup domain.PriceLookup) decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.LinesTotal(c.items, lookup)
}

// LastAdded returns the product most recently added, or "" once the
// highlight has expired.
func (c *Cart) LastAdded() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastAdded
}

// Close stops the highlight timer. The cart remains readable.
func (c *Cart) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.highlight != nil {
		c.highlight.Stop()
		c.highlight = nil
	}
}

type cartSnapshot struct {
	Items []domain.CartItem `json:"items"`
}

// Serialize encodes the cart lines.
func (c *Cart) Serialize() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(cartSnapshot{Items: c.items})
}

// Hydrate replaces the cart lines with a serialized snapshot. The snapshot
// is trusted as-is; a blob that is not valid JSON leaves the cart unchanged.
func (c *Cart) Hydrate(data []byte) error {
	var snap cartSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("hydrate cart: %w", err)
	}
	if snap.Items == nil {
		snap.Items = []domain.CartItem{}
	}

	c.mu.Lock()
	c.items = snap.Items
	c.mu.Unlock()

	c.notify()
	return nil
}

func (c *Cart) indexLocked(productID, variantKey string) int {
	return slices.IndexFunc(c.items, func(it domain.CartItem) bool {
		return it.Matches(productID, variantKey)
	})
}

// setQuantityLocked is the single write path for line quantities.
func (c *Cart) setQuantityLocked(i, quantity int) {
	c.items[i].Quantity = quantity
}

func (c *Cart) restartHighlightLocked() {
	if c.closed {
		return
	}
	if c.highlight != nil {
		c.highlight.Stop()
	}
	c.highlightGen++
	gen := c.highlightGen
	c.highlight = time.AfterFunc(c.highlightFor, func() { c.expireHighlight(gen) })
}

func (c *Cart) expireHighlight(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.highlightGen {
		c.mu.Unlock()
		return
	}
	c.lastAdded = ""
	c.highlight = nil
	c.mu.Unlock()

	c.notify()
}
