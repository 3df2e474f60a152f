package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// FavoritesHandler handles HTTP requests for the wishlist.
type FavoritesHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewFavoritesHandler creates a new favorites HTTP handler.
func NewFavoritesHandler(cat *catalog.Catalog, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{catalog: cat, logger: logger}
}

// FavoritesView lists favorite ids in insertion order with the products the
// catalog still carries.
type FavoritesView struct {
	IDs      []string         `json:"ids"`
	Products []domain.Product `json:"products"`
}

// ToggleResult reports the membership after a toggle.
type ToggleResult struct {
	ProductID  string `json:"product_id"`
	IsFavorite bool   `json:"is_favorite"`
}

func (h *FavoritesHandler) view(sf *session.Storefront) FavoritesView {
	ids := sf.Favorites.IDs()
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := h.catalog.ByID(id); ok {
			products = append(products, p)
		}
	}
	return FavoritesView{IDs: ids, Products: products}
}

// product resolves the productId URL parameter against the catalog.
func (h *FavoritesHandler) product(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "productId")
	if _, ok := h.catalog.ByID(id); !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", id), h.logger)
		return "", false
	}
	return id, true
}

// ListFavorites handles GET /api/v1/favorites
func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, h.view(storefrontFrom(r)))
}

// ToggleFavorite handles POST /api/v1/favorites/{productId}/toggle
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.product(w, r)
	if !ok {
		return
	}
	now, err := storefrontFrom(r).Favorites.ToggleFavorite(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, ToggleResult{ProductID: id, IsFavorite: now})
}

// AddFavorite handles PUT /api/v1/favorites/{productId}
func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.product(w, r)
	if !ok {
		return
	}
	sf := storefrontFrom(r)
	if err := sf.Favorites.AddFavorite(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, h.view(sf))
}

// RemoveFavorite handles DELETE /api/v1/favorites/{productId}. Ids the
// catalog no longer carries can still be removed.
func (h *FavoritesHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	sf := storefrontFrom(r)
	if err := sf.Favorites.RemoveFavorite(r.Context(), chi.URLParam(r, "productId")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, h.view(sf))
}
