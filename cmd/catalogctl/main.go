// Command catalogctl inspects catalog documents offline: it validates them
// before deployment and previews listings under a set of filters.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/listing"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var path string

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Validate and preview storefront catalogs",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&path, "file", "f", "data/catalog.json", "Catalog document to read")

	load := func() (*catalog.Catalog, error) {
		return catalog.LoadFile(path)
	}

	root.AddCommand(newValidateCmd(load), newListCmd(load), newFacetsCmd(load), newGenerateCmd())
	return root
}

type loadFunc func() (*catalog.Catalog, error)

func newValidateCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every product is well formed and ids and slugs are unique",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := load()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d products\n", cat.Len())
			return nil
		},
	}
}

func newListCmd(load loadFunc) *cobra.Command {
	var (
		query    string
		brands   []string
		colors   []string
		sizes    []string
		category string
		rating   float64
		sortBy   string
		minPrice string
		maxPrice string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the product listing a shopper would see for the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := load()
			if err != nil {
				return err
			}

			filters := domain.DefaultFilterState()
			filters.Brands = brands
			filters.Colors = colors
			filters.Sizes = sizes
			filters.Category = category
			filters.Rating = rating

			filters.SortBy = domain.SortBy(sortBy)
			if !filters.SortBy.Valid() {
				return fmt.Errorf("unknown sort %q", sortBy)
			}
			if filters.PriceRange.Min, err = decimal.NewFromString(minPrice); err != nil {
				return fmt.Errorf("parse --min-price: %w", err)
			}
			if filters.PriceRange.Max, err = decimal.NewFromString(maxPrice); err != nil {
				return fmt.Errorf("parse --max-price: %w", err)
			}

			products := listing.DeriveVisibleProducts(cat.All(), filters, query)
			return writeTable(cmd.OutOrStdout(), products)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&query, "query", "q", "", "Search text matched against titles")
	f.StringSliceVar(&brands, "brand", nil, "Brands to include")
	f.StringSliceVar(&colors, "color", nil, "Colors to include")
	f.StringSliceVar(&sizes, "size", nil, "Sizes to include")
	f.StringVar(&category, "category", "", "Category id")
	f.Float64Var(&rating, "min-rating", 0, "Minimum rating")
	f.StringVar(&sortBy, "sort", string(domain.SortPopular), "popular, price-low, price-high or rating")
	f.StringVar(&minPrice, "min-price", "0", "Lowest price")
	f.StringVar(&maxPrice, "max-price", domain.DefaultMaxPrice.String(), "Highest price")
	return cmd
}

func newFacetsCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Print the filter values present in the catalog as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := load()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cat.Facets())
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		count int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic catalog document for load and volume testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be positive")
			}
			products := catalog.Generate(count, seed)
			if _, err := catalog.New(products); err != nil {
				return fmt.Errorf("generated catalog is invalid: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(products)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1000, "Number of products")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed; the same seed yields the same catalog")
	return cmd
}

func writeTable(w io.Writer, products []domain.Product) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tBRAND\tPRICE\tRATING")
	for i := range products {
		p := &products[i]
		price := p.Price.StringFixed(2)
		if p.OnSale() {
			price += " (sale)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\n", p.ID, p.Title, p.Brand, price, p.Rating)
	}
	fmt.Fprintf(tw, "\n%d products\n", len(products))
	return tw.Flush()
}
