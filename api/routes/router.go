package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/repairdepot/storefront/api/controllers"
	cartcontrollers "github.com/repairdepot/storefront/api/controllers/cart"
	"github.com/repairdepot/storefront/api/middleware"
	"github.com/repairdepot/storefront/internal/auth"
	"github.com/repairdepot/storefront/internal/cart"
	"github.com/repairdepot/storefront/internal/catalog"
	"github.com/repairdepot/storefront/internal/orders"
	"github.com/repairdepot/storefront/internal/products"
	"github.com/repairdepot/storefront/internal/repairs"
	"github.com/repairdepot/storefront/internal/reviews"
	"github.com/repairdepot/storefront/internal/stores"
	"github.com/repairdepot/storefront/internal/warranty"
	"github.com/repairdepot/storefront/internal/wholesale"
	"github.com/repairdepot/storefront/pkg/config"
	"github.com/repairdepot/storefront/pkg/enums"
	"github.com/repairdepot/storefront/pkg/logger"
	"github.com/repairdepot/storefront/pkg/metrics"
	pkgredis "github.com/repairdepot/storefront/pkg/redis"
)

// redisStore is the slice of the Redis client the middleware needs.
type redisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Services bundles everything the router hands to controllers.
type Services struct {
	Auth      auth.Service
	Cart      cart.Service
	Catalog   catalog.Service
	Orders    orders.Service
	Products  products.Service
	Repairs   repairs.Service
	Reviews   reviews.Service
	Stores    stores.Service
	Warranty  warranty.Service
	Wholesale wholesale.Service
}

// Infra carries the shared clients behind the middleware and health checks.
type Infra struct {
	DB       controllers.Pinger
	Redis    redisStore
	Registry *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if infra.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(infra.Registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	trackPolicy := middleware.NewRateLimitPolicy("track", cfg.RateLimit.TrackWindow, cfg.RateLimit.TrackIPLimit)
	forgotPolicy := middleware.NewRateLimitPolicy("forgot_password", cfg.RateLimit.ForgotWindow, cfg.RateLimit.ForgotIPLimit)

	var (
		limiter     redisStore
		idempotency pkgredis.IdempotencyStore
	)
	if infra.Redis != nil {
		limiter, idempotency = infra.Redis, infra.Redis
	}

	health := map[string]controllers.Pinger{"db": infra.DB}
	if infra.Redis != nil {
		if p, ok := infra.Redis.(controllers.Pinger); ok {
			health["redis"] = p
		}
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, health))
	})
	if infra.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {

		r.Get("/products", controllers.ProductList(svc.Products, logg))
		r.Get("/products/sku/{sku}", controllers.ProductGetBySKU(svc.Products, logg))
		r.Get("/products/{productId}", controllers.ProductGet(svc.Products, logg))
		r.Get("/products/{productId}/reviews", controllers.ProductReviews(svc.Reviews, logg))
		r.Get("/search/autocomplete", controllers.ProductAutocomplete(svc.Products, logg))
		r.Get("/categories/tree", controllers.CategoryTree(svc.Catalog, logg))
		r.Get("/nav/phone-models", controllers.PhoneModels(svc.Catalog, logg))
		r.Get("/stores", controllers.StoreList(svc.Stores, logg))

		r.Post("/pricing/quote", controllers.PricingQuote(logg))
		r.With(middleware.RateLimit(trackPolicy, limiter, logg)).Post("/orders/track", controllers.OrderTrack(svc.Orders, logg))
		r.Get("/repairs/{ticketNumber}", controllers.RepairTrack(svc.Repairs, logg))
		r.Get("/warranty-claims/{claimNumber}", controllers.WarrantyStatus(svc.Warranty, logg))

		// Guest creates: keys are scoped to "anon" plus the path.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(idempotency, logg))
			r.Post("/reviews", controllers.ReviewCreate(svc.Reviews, logg))
			r.Post("/repairs", controllers.RepairCreate(svc.Repairs, logg))
			r.Post("/warranty-claims", controllers.WarrantySubmit(svc.Warranty, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(forgotPolicy, limiter, logg)).Post("/forgot-password", controllers.AuthForgotPassword(svc.Auth, logg))
			r.Post("/reset-password", controllers.AuthResetPassword(svc.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			// After Auth so each key is scoped to the caller.
			r.Use(middleware.Idempotency(idempotency, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartGet(svc.Cart, logg))
				r.Post("/items", cartcontrollers.CartAddItem(svc.Cart, logg))
				r.Patch("/items/{itemId}", cartcontrollers.CartUpdateItem(svc.Cart, logg))
				r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(svc.Cart, logg))
			})

			r.Post("/wholesale/apply", controllers.WholesaleApply(svc.Wholesale, logg))
			r.Get("/wholesale/account", controllers.WholesaleAccount(svc.Wholesale, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleAdmin))

				r.Get("/products", controllers.AdminProductList(svc.Products, logg))
				r.Post("/products", controllers.AdminProductCreate(svc.Products, logg))
				r.Patch("/products/{productId}", controllers.AdminProductUpdate(svc.Products, logg))
				r.Delete("/products/{productId}", controllers.AdminProductDelete(svc.Products, logg))

				r.Post("/orders/{orderNumber}/status", controllers.AdminOrderStatus(svc.Orders, logg))
				r.Post("/wholesale/{userId}/decision", controllers.AdminWholesaleDecision(svc.Wholesale, logg))
			})
		})
	})

	return r
}
