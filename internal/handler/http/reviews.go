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
	"github.com/utafrali/storefront/pkg/validator"
)

// ReviewsHandler handles HTTP requests for product reviews.
type ReviewsHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewReviewsHandler creates a new reviews HTTP handler.
func NewReviewsHandler(cat *catalog.Catalog, logger *slog.Logger) *ReviewsHandler {
	return &ReviewsHandler{catalog: cat, logger: logger}
}

// --- Request / response DTOs ---

// CreateReviewRequest is the JSON request body for submitting a review.
// UserName is only used when nobody is signed in.
type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	UserName  string `json:"user_name" validate:"max=100"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

// ProductReviews lists the reviews of one product.
type ProductReviews struct {
	ProductID     string          `json:"product_id"`
	Reviews       []domain.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	Count         int             `json:"count"`
}

// --- Handlers ---

// ListProductReviews handles GET /api/v1/products/{productId}/reviews
func (h *ReviewsHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	sf := storefrontFrom(r)
	reviews := sf.Reviews.ReviewsByProduct(id)
	httputil.WriteData(w, ProductReviews{
		ProductID:     id,
		Reviews:       reviews,
		AverageRating: sf.Reviews.AverageRating(id),
		Count:         len(reviews),
	})
}

// CreateReview handles POST /api/v1/reviews. Signed-in visitors review
// under their account; guests under their session. A review is verified
// when the product appears in one of the session's orders.
func (h *ReviewsHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if _, ok := h.catalog.ByID(req.ProductID); !ok {
		httputil.WriteError(w, r, apperrors.NotFound("product", req.ProductID), h.logger)
		return
	}

	sf := storefrontFrom(r)
	in := domain.NewReviewInput{
		ProductID: req.ProductID,
		UserID:    "guest-" + sf.ID,
		UserName:  req.UserName,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		Verified:  purchased(sf, req.ProductID),
	}
	if user, ok := sf.Auth.CurrentUser(); ok {
		in.UserID, in.UserName = user.ID, user.Name
	}

	rev, err := sf.Reviews.AddReview(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: rev})
}

// UpdateReview handles PATCH /api/v1/reviews/{reviewId}
func (h *ReviewsHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var patch domain.UpdateReviewInput
	if err := validator.DecodeAndValidate(r, &patch); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if patch.Empty() {
		httputil.WriteError(w, r, apperrors.InvalidInput("no fields to update"), h.logger)
		return
	}

	rev, err := storefrontFrom(r).Reviews.UpdateReview(r.Context(), chi.URLParam(r, "reviewId"), patch)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, rev)
}

// DeleteReview handles DELETE /api/v1/reviews/{reviewId}
func (h *ReviewsHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewId")
	if !storefrontFrom(r).Reviews.DeleteReview(r.Context(), id) {
		httputil.WriteError(w, r, apperrors.NotFound("review", id), h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleHelpful handles POST /api/v1/reviews/{reviewId}/helpful
func (h *ReviewsHandler) ToggleHelpful(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewId")
	rev, ok := storefrontFrom(r).Reviews.ToggleHelpful(r.Context(), id)
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("review", id), h.logger)
		return
	}
	httputil.WriteData(w, rev)
}

func purchased(sf *session.Storefront, productID string) bool {
	for _, o := range sf.Orders.Orders() {
		for _, it := range o.Items {
			if it.ProductID == productID {
				return true
			}
		}
	}
	return false
}
