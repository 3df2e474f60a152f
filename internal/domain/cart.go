package domain

import "github.com/shopspring/decimal"

// MaxLineQuantity is the upper bound for a single cart line.
const MaxLineQuantity = 99

// CartItem is one cart line. Title, image and price are a display snapshot
// taken when the line was added; totals re-resolve prices from the catalog.
type CartItem struct {
	ProductID  string          `json:"product_id"`
	VariantKey string          `json:"variant_key"`
	Color      string          `json:"color"`
	Size       string          `json:"size"`
	Title      string          `json:"title"`
	Image      string          `json:"image,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

// VariantKey builds the composite variant identifier for a color and size.
func VariantKey(color, size string) string {
	return color + "-" + size
}

// Matches reports whether the line belongs to productID and variantKey.
func (i *CartItem) Matches(productID, variantKey string) bool {
	return i.ProductID == productID && i.VariantKey == variantKey
}

// PriceLookup resolves the current price of a product. ok is false for
// products the resolver does not know.
type PriceLookup func(productID string) (price decimal.Decimal, ok bool)

// LinesTotal sums quantity × price over lines with prices resolved through
// lookup. Stored snapshot prices are ignored; lines lookup cannot resolve
// contribute nothing.
func LinesTotal(lines []CartItem, lookup PriceLookup) decimal.Decimal {
	total := decimal.Zero
	for _, it := range lines {
		price, ok := lookup(it.ProductID)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
