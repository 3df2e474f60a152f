// Package http exposes the storefront state over a JSON API. Every /api/v1
// request is bound to the visitor session named by the X-Session-ID header.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "storefront"

// RouterDeps holds what the router needs to build its handlers.
type RouterDeps struct {
	Catalog  *catalog.Catalog
	Sessions *session.Manager
	Checkout *service.CheckoutService
	Health   *health.Handler
	CORS     middleware.CORSConfig
	Logger   *slog.Logger

	// RateLimitRPS of 0 turns per-session rate limiting off.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(deps.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Session())
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(deps.Catalog, logger)
	cartHandler := NewCartHandler(deps.Catalog, logger)
	favoritesHandler := NewFavoritesHandler(deps.Catalog, logger)
	comparisonHandler := NewComparisonHandler(deps.Catalog, logger)
	reviewsHandler := NewReviewsHandler(deps.Catalog, logger)
	orderHandler := NewOrderHandler(deps.Checkout, logger)
	filterHandler := NewFilterHandler(logger)
	accountHandler := NewAccountHandler(deps.Sessions, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst, logger))

		// Catalog-wide data, identical for every visitor.
		r.With(middleware.CacheControl(300)).Get("/catalog/facets", catalogHandler.Facets)

		// Session teardown must not build the storefront it deletes.
		r.With(middleware.NoStore).Delete("/session", accountHandler.DeleteSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(WithStorefront(deps.Sessions, logger))

			r.Get("/products", catalogHandler.ListProducts)
			r.Post("/products/more", catalogHandler.LoadMore)
			r.Get("/products/{slug}", catalogHandler.GetProduct)
			r.Get("/products/{productId}/reviews", reviewsHandler.ListProductReviews)

			r.Put("/search", catalogHandler.Search)
			r.Get("/search/suggestions", catalogHandler.Suggestions)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productId}/{variantKey}", cartHandler.UpdateItemQuantity)
				r.Delete("/items/{productId}/{variantKey}", cartHandler.RemoveItem)
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", favoritesHandler.ListFavorites)
				r.Post("/{productId}/toggle", favoritesHandler.ToggleFavorite)
				r.Put("/{productId}", favoritesHandler.AddFavorite)
				r.Delete("/{productId}", favoritesHandler.RemoveFavorite)
			})

			r.Route("/comparison", func(r chi.Router) {
				r.Get("/", comparisonHandler.GetComparison)
				r.Delete("/", comparisonHandler.ClearComparison)
				r.Put("/{productId}", comparisonHandler.AddProduct)
				r.Delete("/{productId}", comparisonHandler.RemoveProduct)
			})

			r.Post("/reviews", reviewsHandler.CreateReview)
			r.Patch("/reviews/{reviewId}", reviewsHandler.UpdateReview)
			r.Delete("/reviews/{reviewId}", reviewsHandler.DeleteReview)
			r.Post("/reviews/{reviewId}/helpful", reviewsHandler.ToggleHelpful)

			r.Post("/checkout", orderHandler.Checkout)
			r.Get("/orders", orderHandler.ListOrders)
			r.Get("/orders/{orderId}", orderHandler.GetOrder)

			r.Get("/filters", filterHandler.GetFilters)
			r.Patch("/filters", filterHandler.UpdateFilters)
			r.Delete("/filters", filterHandler.ClearFilters)

			r.Post("/auth/login", accountHandler.Login)
			r.Post("/auth/logout", accountHandler.Logout)
			r.Get("/auth/me", accountHandler.Me)
		})
	})

	return r
}
