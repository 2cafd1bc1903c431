package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakmont/storefront/api/controllers"
	cartctrl "github.com/oakmont/storefront/api/controllers/cart"
	ordersctrl "github.com/oakmont/storefront/api/controllers/orders"
	"github.com/oakmont/storefront/api/middleware"
	"github.com/oakmont/storefront/internal/cart"
	"github.com/oakmont/storefront/internal/catalog"
	"github.com/oakmont/storefront/internal/checkout"
	"github.com/oakmont/storefront/internal/orders"
	"github.com/oakmont/storefront/pkg/config"
	"github.com/oakmont/storefront/pkg/db"
	"github.com/oakmont/storefront/pkg/logger"
	"github.com/oakmont/storefront/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Catalog  catalog.Service
	Carts    cart.Service
	CartRepo cart.SessionStore
	Checkout checkout.Service
	Orders   orders.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Session(deps.Logger))

	r.Get("/health/live", controllers.HealthLive(deps.Config))
	r.Get("/health/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, deps.Redis))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(deps.Catalog, deps.Logger))
		r.Get("/products/{id}", controllers.ProductGet(deps.Catalog, deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartctrl.Fetch(deps.CartRepo, deps.Logger))
			r.Post("/sync", cartctrl.Sync(deps.Carts, deps.CartRepo, deps.Logger))
			r.Post("/validate", cartctrl.Validate(deps.Carts, deps.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordersctrl.Create(deps.Checkout, deps.Logger))
			r.Get("/{id}", ordersctrl.Get(deps.Orders, deps.Logger))
		})
	})

	return r
}
