package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdemart/verdemart-backend/api/controllers"
	"github.com/verdemart/verdemart-backend/api/middleware"
	"github.com/verdemart/verdemart-backend/internal/auth"
	cartpkg "github.com/verdemart/verdemart-backend/internal/cart"
	"github.com/verdemart/verdemart-backend/internal/catalog"
	checkoutsvc "github.com/verdemart/verdemart-backend/internal/checkout"
	"github.com/verdemart/verdemart-backend/internal/orders"
	"github.com/verdemart/verdemart-backend/pkg/auth/session"
	"github.com/verdemart/verdemart-backend/pkg/config"
	"github.com/verdemart/verdemart-backend/pkg/db"
	"github.com/verdemart/verdemart-backend/pkg/logger"
	"github.com/verdemart/verdemart-backend/pkg/metrics"
	redisclient "github.com/verdemart/verdemart-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Every field is constructed
// in cmd/api and injected here; the router owns no state of its own.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Cache        redisclient.Pinger
	RateLimits   middleware.RateLimiterStore
	Sessions     session.AccessSessionChecker
	Carts        *cartpkg.Manager
	Catalog      catalog.Service
	Checkout     checkoutsvc.Service
	Orders       orders.Service
	Auth         auth.Service
	Register     auth.RegisterService
	HTTPMetrics  *metrics.HTTPMetrics
	PromRegistry *prometheus.Registry
}

// NewRouter assembles the storefront API.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(nil),
		middleware.Logging(logg),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Cache, logg))
	})

	if deps.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		// Catalog writes carry no auth; the storefront admin tooling calls
		// them directly.
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Post("/products", controllers.CreateProduct(deps.Catalog, logg))
		r.Put("/products", controllers.UpdateProduct(deps.Catalog, logg))

		r.Post("/checkout_sessions/cart", controllers.CreateCheckoutSession(deps.Checkout, logg))
		r.Get("/success", controllers.CheckoutSuccess(deps.Orders, logg))
		r.Get("/getOrder", controllers.GetOrder(deps.Orders, logg))
		r.Post("/createOrder", controllers.CreateOrder(deps.Orders, logg))

		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimits, logg)).
			Post("/register", controllers.Register(deps.Register, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimits, logg)).
			Post("/login", controllers.Login(deps.Auth, logg))
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Post("/logout", controllers.Logout(deps.Auth, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Carts, logg))
				r.Put("/", controllers.ReplaceCart(deps.Carts, deps.Catalog, logg))
				r.Delete("/", controllers.ClearCart(deps.Carts, logg))
				r.Post("/items", controllers.AddCartItem(deps.Carts, deps.Catalog, logg))
				r.Post("/items/{productId}/increment", controllers.IncrementCartItem(deps.Carts, logg))
				r.Post("/items/{productId}/decrement", controllers.DecrementCartItem(deps.Carts, logg))
				r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.Carts, logg))
			})
		})
	})

	return r
}
