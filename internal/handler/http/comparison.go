package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/internal/store"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// ComparisonHandler handles HTTP requests for the comparison list.
type ComparisonHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewComparisonHandler creates a new comparison HTTP handler.
func NewComparisonHandler(cat *catalog.Catalog, logger *slog.Logger) *ComparisonHandler {
	return &ComparisonHandler{catalog: cat, logger: logger}
}

// ComparisonView is the comparison list with its capacity.
type ComparisonView struct {
	Products []domain.Product `json:"products"`
	Max      int              `json:"max"`
	CanAdd   bool             `json:"can_add"`
	// Changed reports whether the last request modified the list. Adding to
	// a full list or a duplicate leaves it unchanged.
	Changed bool `json:"changed"`
}

func comparisonView(sf *session.Storefront, changed bool) ComparisonView {
	return ComparisonView{
		Products: sf.Comparison.Products(),
		Max:      store.MaxCompareItems,
		CanAdd:   sf.Comparison.CanAdd(),
		Changed:  changed,
	}
}

// GetComparison handles GET /api/v1/comparison
func (h *ComparisonHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, comparisonView(storefrontFrom(r), false))
}

// AddProduct handles PUT /api/v1/comparison/{productId}
func (h *ComparisonHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	p, ok := h.catalog.ByID(id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), h.logger)
		return
	}
	sf := storefrontFrom(r)
	added := sf.Comparison.AddProduct(r.Context(), p)
	httputil.WriteData(w, comparisonView(sf, added))
}

// RemoveProduct handles DELETE /api/v1/comparison/{productId}
func (h *ComparisonHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	sf := storefrontFrom(r)
	removed := sf.Comparison.RemoveProduct(r.Context(), chi.URLParam(r, "productId"))
	httputil.WriteData(w, comparisonView(sf, removed))
}

// ClearComparison handles DELETE /api/v1/comparison
func (h *ComparisonHandler) ClearComparison(w http.ResponseWriter, r *http.Request) {
	sf := storefrontFrom(r)
	sf.Comparison.ClearComparison(r.Context())
	httputil.WriteData(w, comparisonView(sf, true))
}
