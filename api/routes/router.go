package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratomobowo/pasarantar-sub000/api/controllers"
	"github.com/pratomobowo/pasarantar-sub000/api/middleware"
	cartsvc "github.com/pratomobowo/pasarantar-sub000/internal/cart"
	checkoutsvc "github.com/pratomobowo/pasarantar-sub000/internal/checkout"
	customersvc "github.com/pratomobowo/pasarantar-sub000/internal/customers"
	ordersvc "github.com/pratomobowo/pasarantar-sub000/internal/orders"
	productsvc "github.com/pratomobowo/pasarantar-sub000/internal/products"
	reviewsvc "github.com/pratomobowo/pasarantar-sub000/internal/reviews"
	"github.com/pratomobowo/pasarantar-sub000/pkg/config"
	"github.com/pratomobowo/pasarantar-sub000/pkg/db"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
	"github.com/pratomobowo/pasarantar-sub000/pkg/metrics"
	"github.com/pratomobowo/pasarantar-sub000/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cachePinger redis.Pinger,
	idemStore redis.IdempotencyStore,
	stats *metrics.Metrics,
	productService productsvc.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	orderService ordersvc.Service,
	reviewService reviewsvc.Service,
	customerService customersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	if stats != nil {
		r.Method(http.MethodGet, "/metrics", stats.Handler())
	}

	// Storefront catalog pages render without a login.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(productService, logg))
		r.Get("/{productId}", controllers.ProductDetail(productService, logg))
		r.Get("/{productId}/reviews", controllers.ProductReviews(reviewService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.ActorRoleCustomer), logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Put("/items/{productId}/{variantId}", controllers.CartUpdateQuantity(cartService, logg))
			r.Put("/items/{productId}/{variantId}/note", controllers.CartUpdateNote(cartService, logg))
			r.Delete("/items/{productId}/{variantId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/draft", controllers.CheckoutDraftGet(checkoutService, logg))
			r.Put("/draft", controllers.CheckoutDraftUpdate(checkoutService, logg))
			r.Put("/coordinates", controllers.CheckoutSetCoordinates(checkoutService, logg))
			r.Post("/resolve-location", controllers.CheckoutResolveLocation(checkoutService, logg))
			r.Post("/reset", controllers.CheckoutReset(checkoutService, logg))
			r.Get("/delivery-days", controllers.CheckoutDeliveryDays(checkoutService, logg))
			r.Post("/", controllers.CheckoutSubmit(checkoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
			r.Put("/{orderId}/cancel", controllers.OrderCancel(orderService, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", controllers.ReviewCreate(reviewService, logg))
			r.Get("/exists", controllers.ReviewExists(reviewService, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(customerService, logg))
			r.Put("/", controllers.ProfileUpdate(customerService, logg))
			r.Put("/password", controllers.PasswordChange(customerService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.ActorRoleAdmin), logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(orderService, logg))
			r.Put("/bulk-status", controllers.AdminOrderBulkUpdateStatus(orderService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(orderService, logg))
			r.Put("/{orderId}/status", controllers.AdminOrderUpdateStatus(orderService, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.AdminReviewList(reviewService, logg))
			r.Put("/{reviewId}/verify", controllers.AdminReviewVerify(reviewService, logg))
			r.Delete("/{reviewId}", controllers.AdminReviewDelete(reviewService, logg))
		})
	})

	return r
}
