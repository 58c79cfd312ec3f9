package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mcruzdev/bundlecart-backend/api/controllers"
	"github.com/mcruzdev/bundlecart-backend/api/middleware"
	cartsvc "github.com/mcruzdev/bundlecart-backend/internal/cart"
	"github.com/mcruzdev/bundlecart-backend/internal/cartsync"
	"github.com/mcruzdev/bundlecart-backend/internal/catalog"
	"github.com/mcruzdev/bundlecart-backend/pkg/config"
	"github.com/mcruzdev/bundlecart-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	cartStore *cartsvc.Store,
	catalogService catalog.Service,
	coordinator *cartsync.Coordinator,
	metricsHandler http.Handler,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products/{productId}", func(r chi.Router) {
			r.Get("/", controllers.ProductDetail(catalogService, logg))
			r.Get("/quote", controllers.ProductQuote(catalogService, logg))
		})

		r.Post("/quotes", controllers.QuoteCreate(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.GuestCart(logg))

			r.Get("/", controllers.CartFetch(cartStore, logg))
			r.Delete("/", controllers.CartClear(cartStore, logg))
			r.Post("/items", controllers.CartAddItem(cartStore, logg))
			r.Patch("/items/{itemId}", controllers.CartSetQuantity(cartStore, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartStore, logg))
			r.Put("/items/{itemId}/bundle-selection", controllers.CartSetBundleSelection(cartStore, catalogService, logg))

			r.With(middleware.Auth(cfg.JWT, logg)).Post("/merge", controllers.CartMerge(coordinator, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/products", controllers.AdminCreateProduct(catalogService, logg))
		r.Route("/products/{productId}/bundle-tiers", func(r chi.Router) {
			r.Get("/", controllers.AdminListTiers(catalogService, logg))
			r.Put("/", controllers.AdminReplaceTiers(catalogService, logg))
		})
	})

	return r
}
