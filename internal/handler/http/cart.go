package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(cat *catalog.Catalog, logger *slog.Logger) *CartHandler {
	return &CartHandler{catalog: cat, logger: logger}
}

// --- Request / response DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Color     string `json:"color" validate:"max=50"`
	Size      string `json:"size" validate:"max=20"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=99"`
}

// UpdateQuantityRequest is the JSON request body for updating an item's quantity.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartView is the cart as returned to clients.
type CartView struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	LastAdded  string            `json:"last_added,omitempty"`
}

func (h *CartHandler) view(sf *session.Storefront) CartView {
	return CartView{
		Items:      sf.Cart.Items(),
		TotalItems: sf.Cart.TotalItems(),
		TotalPrice: sf.Cart.TotalPrice(h.catalog.Price),
		LastAdded:  sf.Cart.LastAdded(),
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, h.view(storefrontFrom(r)))
}

// AddItem handles POST /api/v1/cart/items. The line snapshots the catalog
// title, image and price; the chosen color and size must be offered.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	p, ok := h.catalog.ByID(req.ProductID)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", req.ProductID), h.logger)
		return
	}
	fields := map[string]string{}
	if req.Color != "" && !p.HasColor(req.Color) {
		fields["color"] = "is not offered for this product"
	}
	if req.Size != "" && !p.HasSize(req.Size) {
		fields["size"] = "is not offered for this product"
	}
	if len(fields) > 0 {
		httputil.WriteError(w, r, apperrors.InvalidFields("invalid variant", fields), h.logger)
		return
	}

	item := domain.CartItem{
		ProductID: p.ID,
		Color:     req.Color,
		Size:      req.Size,
		Title:     p.Title,
		Price:     p.Price,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}

	sf := storefrontFrom(r)
	if err := sf.Cart.AddItem(r.Context(), item, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, h.view(sf))
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}/{variantKey}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sf := storefrontFrom(r)
	productID, variantKey := chi.URLParam(r, "productId"), chi.URLParam(r, "variantKey")
	if _, ok := sf.Cart.Item(productID, variantKey); !ok {
		httputil.WriteError(w, r, apperrors.NotFound("cart item", productID+"/"+variantKey), h.logger)
		return
	}
	if err := sf.Cart.UpdateQuantity(r.Context(), productID, variantKey, *req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, h.view(sf))
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}/{variantKey}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sf := storefrontFrom(r)
	sf.Cart.RemoveItem(r.Context(), chi.URLParam(r, "productId"), chi.URLParam(r, "variantKey"))
	httputil.WriteData(w, h.view(sf))
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sf := storefrontFrom(r)
	sf.Cart.ClearCart(r.Context())
	httputil.WriteData(w, h.view(sf))
}
