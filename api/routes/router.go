package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stashline/stashline-backend/api/controllers"
	"github.com/stashline/stashline-backend/api/middleware"
	"github.com/stashline/stashline-backend/internal/blueprints"
	"github.com/stashline/stashline-backend/internal/pos"
	productsvc "github.com/stashline/stashline-backend/internal/products"
	"github.com/stashline/stashline-backend/internal/promotions"
	"github.com/stashline/stashline-backend/internal/storefront"
	"github.com/stashline/stashline-backend/internal/stores"
	"github.com/stashline/stashline-backend/pkg/config"
	"github.com/stashline/stashline-backend/pkg/enums"
	"github.com/stashline/stashline-backend/pkg/logger"
	"github.com/stashline/stashline-backend/pkg/metrics"
	pkgredis "github.com/stashline/stashline-backend/pkg/redis"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

// RouterParams bundles everything the API router needs.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           dbPinger
	Redis        *pkgredis.Client
	PromRegistry *prometheus.Registry

	StoreService      stores.Service
	ProductService    productsvc.Service
	BlueprintService  blueprints.Service
	PromotionService  promotions.Service
	StorefrontService storefront.Service
	POSService        pos.Service
}

// NewRouter assembles the HTTP surface: public health/storefront/POS routes,
// authenticated vendor catalog and promotion management, and metrics.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	registry := p.PromRegistry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	menuPolicy := middleware.NewRateLimitPolicy("menu", cfg.RateLimit.MenuWindow, cfg.RateLimit.MenuIPLimit)
	quotePolicy := middleware.NewRateLimitPolicy("quote", cfg.RateLimit.QuoteWindow, cfg.RateLimit.QuoteIPLimit)

	var redisHealth dbPinger
	if p.Redis != nil {
		redisHealth = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, redisHealth))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/storefront", func(r chi.Router) {
		if p.Redis != nil {
			r.Use(middleware.RateLimit(menuPolicy, p.Redis, logg))
		}
		r.Get("/{storeSlug}/menu", controllers.StorefrontMenu(p.StorefrontService, logg))
	})

	r.Route("/api/v1/pos", func(r chi.Router) {
		if p.Redis != nil {
			r.Use(middleware.RateLimit(quotePolicy, p.Redis, logg))
		}
		r.Post("/quote", controllers.POSQuote(p.POSService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		var idempotencyStore pkgredis.IdempotencyStore
		if p.Redis != nil {
			idempotencyStore = p.Redis
		}
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/v1/stores", func(r chi.Router) {
			r.Post("/", controllers.CreateStore(p.StoreService, logg))
			r.Get("/", controllers.ListMyStores(p.StoreService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.StoreContext(logg))
			r.Get("/ping", controllers.PrivatePing())

			r.Route("/v1/vendor", func(r chi.Router) {
				r.Get("/store", controllers.StoreProfile(p.StoreService, logg))
				r.With(ownerOnly(logg)).Put("/store", controllers.UpdateStore(p.StoreService, logg))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.VendorListProducts(p.ProductService, logg))
					r.Get("/{productId}", controllers.VendorGetProduct(p.ProductService, logg))
					r.Group(func(r chi.Router) {
						r.Use(catalogWriters(logg))
						r.Post("/", controllers.VendorCreateProduct(p.ProductService, logg))
						r.Put("/{productId}", controllers.VendorUpdateProduct(p.ProductService, logg))
						r.Delete("/{productId}", controllers.VendorDeleteProduct(p.ProductService, logg))
					})
				})

				r.Route("/blueprints", func(r chi.Router) {
					r.Get("/", controllers.VendorListBlueprints(p.BlueprintService, logg))
					r.Get("/{blueprintId}", controllers.VendorGetBlueprint(p.BlueprintService, logg))
					r.Group(func(r chi.Router) {
						r.Use(catalogWriters(logg))
						r.Post("/", controllers.VendorCreateBlueprint(p.BlueprintService, logg))
						r.Delete("/{blueprintId}", controllers.VendorDeleteBlueprint(p.BlueprintService, logg))
					})
				})

				r.Route("/promotions", func(r chi.Router) {
					r.Get("/", controllers.VendorListPromotions(p.PromotionService, logg))
					r.Get("/{promotionId}", controllers.VendorGetPromotion(p.PromotionService, logg))
					r.Group(func(r chi.Router) {
						r.Use(catalogWriters(logg))
						r.Post("/", controllers.VendorCreatePromotion(p.PromotionService, logg))
						r.Put("/{promotionId}", controllers.VendorUpdatePromotion(p.PromotionService, logg))
						r.Delete("/{promotionId}", controllers.VendorDeletePromotion(p.PromotionService, logg))
					})
				})
			})
		})
	})

	return r
}

// catalogWriters guards mutations of products, blueprints and promotions.
// Budtenders can read the catalog but never change pricing.
func catalogWriters(logg *logger.Logger) func(http.Handler) http.Handler {
	return middleware.RequireRoles(logg, enums.MemberRoleOwner, enums.MemberRoleManager, enums.MemberRoleStaff)
}

func ownerOnly(logg *logger.Logger) func(http.Handler) http.Handler {
	return middleware.RequireRoles(logg, enums.MemberRoleOwner)
}
