package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// OrderHandler handles checkout and order history.
type OrderHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(checkout *service.CheckoutService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{checkout: checkout, logger: logger}
}

// Checkout handles POST /api/v1/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutInput
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	order, err := h.checkout.Checkout(r.Context(), storefrontFrom(r), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, storefrontFrom(r).Orders.Orders())
}

// GetOrder handles GET /api/v1/orders/{orderId}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")
	order, ok := storefrontFrom(r).Orders.GetOrder(id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("order", id), h.logger)
		return
	}
	httputil.WriteData(w, order)
}
