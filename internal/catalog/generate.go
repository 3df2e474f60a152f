package catalog

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/slug"
)

type categoryDef struct {
	ID    string
	Types []string
	Sizes []string
}

var (
	genBrands = []string{"Northwind", "Fjell", "Stride", "Basics Co", "Atelier", "Harbor", "Lumen", "Kestrel"}

	genCategories = []categoryDef{
		{ID: "shirts", Types: []string{"Shirt", "Tee", "Polo", "Blouse"}, Sizes: []string{"XS", "S", "M", "L", "XL"}},
		{ID: "trousers", Types: []string{"Chinos", "Jeans", "Trousers", "Joggers"}, Sizes: []string{"28", "30", "32", "34", "36"}},
		{ID: "knitwear", Types: []string{"Sweater", "Cardigan", "Hoodie"}, Sizes: []string{"S", "M", "L", "XL"}},
		{ID: "outerwear", Types: []string{"Jacket", "Coat", "Parka", "Vest"}, Sizes: []string{"S", "M", "L", "XL"}},
		{ID: "shoes", Types: []string{"Sneakers", "Boots", "Loafers", "Sandals"}, Sizes: []string{"39", "40", "41", "42", "43", "44"}},
		{ID: "accessories", Types: []string{"Scarf", "Beanie", "Belt", "Tote"}, Sizes: []string{"One Size"}},
	}

	genPrefixes = []string{"Classic", "Slim", "Relaxed", "Organic", "Merino", "Quilted", "Vintage", "Essential", "Premium", "Everyday"}

	genColors = []string{"white", "black", "navy", "grey", "beige", "olive", "red", "blue", "brown"}
)

// Generate builds n valid, deterministic products from seed. Ids run
// g-00001, g-00002, ...; slugs carry the id so they stay unique.
func Generate(n int, seed uint64) []domain.Product {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]domain.Product, 0, n)

	for i := 1; i <= n; i++ {
		cat := genCategories[rng.IntN(len(genCategories))]
		title := fmt.Sprintf("%s %s", genPrefixes[rng.IntN(len(genPrefixes))], cat.Types[rng.IntN(len(cat.Types))])
		id := fmt.Sprintf("g-%05d", i)
		s := slug.Generate(title + " " + id)

		// Prices in cents keep two decimal places.
		price := decimal.New(int64(999+rng.IntN(30000)), -2)
		var oldPrice *decimal.Decimal
		if rng.IntN(5) == 0 {
			op := price.Mul(decimal.NewFromFloat(1.25)).Round(2)
			oldPrice = &op
		}

		p := domain.Product{
			ID:          id,
			Slug:        s,
			Title:       title,
			Description: fmt.Sprintf("%s from the %s range.", title, cat.ID),
			Images:      []string{fmt.Sprintf("/images/%s-1.jpg", s), fmt.Sprintf("/images/%s-2.jpg", s)},
			Price:       price,
			OldPrice:    oldPrice,
			Rating:      float64(10+rng.IntN(41)) / 10,
			ReviewCount: rng.IntN(500),
			Brand:       genBrands[rng.IntN(len(genBrands))],
			CategoryID:  cat.ID,
			Colors:      pick(rng, genColors, 1+rng.IntN(3)),
			Sizes:       pick(rng, cat.Sizes, 1+rng.IntN(len(cat.Sizes))),
			InStock:     rng.IntN(10) != 0,
		}
		if oldPrice != nil {
			p.Badges = []string{"sale"}
		}
		out = append(out, p)
	}

	return out
}

// pick returns k distinct values from vals, keeping their original order.
func pick(rng *rand.Rand, vals []string, k int) []string {
	if k > len(vals) {
		k = len(vals)
	}
	chosen := rng.Perm(len(vals))[:k]
	keep := make([]bool, len(vals))
	for _, i := range chosen {
		keep[i] = true
	}
	out := make([]string, 0, k)
	for i, v := range vals {
		if keep[i] {
			out = append(out, v)
		}
	}
	return out
}
