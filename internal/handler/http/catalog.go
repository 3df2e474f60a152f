package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/listing"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// CatalogHandler serves the product listing, product details and search.
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cat *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cat, logger: logger}
}

// --- Request / response DTOs ---

// SearchRequest is the JSON request body for search input.
type SearchRequest struct {
	Query string `json:"query" validate:"max=200"`
}

// ProductDetail is a product together with the visitor's relation to it.
type ProductDetail struct {
	domain.Product
	OnSale        bool    `json:"on_sale"`
	IsFavorite    bool    `json:"is_favorite"`
	IsComparing   bool    `json:"is_comparing"`
	AverageRating float64 `json:"average_rating"`
	LocalReviews  int     `json:"local_reviews"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, storefrontFrom(r).View.Visible())
}

// LoadMore handles POST /api/v1/products/more
func (h *CatalogHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, storefrontFrom(r).View.LoadMore())
}

// GetProduct handles GET /api/v1/products/{slug}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p, ok := h.catalog.BySlug(slug)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", slug), h.logger)
		return
	}

	sf := storefrontFrom(r)
	httputil.WriteData(w, ProductDetail{
		Product:       p,
		OnSale:        p.OnSale(),
		IsFavorite:    sf.Favorites.IsFavorite(p.ID),
		IsComparing:   sf.Comparison.IsComparing(p.ID),
		AverageRating: sf.Reviews.AverageRating(p.ID),
		LocalReviews:  len(sf.Reviews.ReviewsByProduct(p.ID)),
	})
}

// Facets handles GET /api/v1/catalog/facets
func (h *CatalogHandler) Facets(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, h.catalog.Facets())
}

// Search handles PUT /api/v1/search. Input is debounced unless the
// immediate query parameter is true.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sf := storefrontFrom(r)
	sf.Search.Input(req.Query)
	if immediate, _ := strconv.ParseBool(r.URL.Query().Get("immediate")); immediate {
		sf.Search.Flush()
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: sf.Search.Last()})
}

// Suggestions handles GET /api/v1/search/suggestions. With a q parameter
// it answers directly; otherwise it returns the last debounced result.
func (h *CatalogHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		httputil.WriteData(w, listing.Suggestions{
			Query:  q,
			Titles: listing.Suggest(h.catalog.All(), q, listing.MaxSuggestions),
		})
		return
	}
	httputil.WriteData(w, storefrontFrom(r).Search.Last())
}
