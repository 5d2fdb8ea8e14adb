package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mandlimart/mandlimart-backend/api/controllers"
	ordercontrollers "github.com/mandlimart/mandlimart-backend/api/controllers/orders"
	"github.com/mandlimart/mandlimart-backend/api/middleware"
	"github.com/mandlimart/mandlimart-backend/internal/address"
	"github.com/mandlimart/mandlimart-backend/internal/auth"
	"github.com/mandlimart/mandlimart-backend/internal/cart"
	checkoutsvc "github.com/mandlimart/mandlimart-backend/internal/checkout"
	"github.com/mandlimart/mandlimart-backend/internal/orders"
	product "github.com/mandlimart/mandlimart-backend/internal/products"
	"github.com/mandlimart/mandlimart-backend/internal/profiles"
	"github.com/mandlimart/mandlimart-backend/pkg/auth/session"
	"github.com/mandlimart/mandlimart-backend/pkg/config"
	"github.com/mandlimart/mandlimart-backend/pkg/enums"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
	"github.com/mandlimart/mandlimart-backend/pkg/metrics"
	pkgredis "github.com/mandlimart/mandlimart-backend/pkg/redis"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type locationOptions interface {
	Options(ctx context.Context, level address.Level, filter address.LocationFilter) ([]string, error)
}

// Params carries everything the HTTP surface is built from. Nil RateLimiter or Idempotency
// disables the corresponding middleware.
type Params struct {
	Config *config.Config
	Logger *logger.Logger

	Ready       map[string]controllers.Pinger
	Gatherer    prometheus.Gatherer
	Metrics     *metrics.CheckoutMetrics
	Sessions    session.AccessSessionChecker
	RateLimiter rateLimiter
	Idempotency pkgredis.IdempotencyStore

	Auth      auth.Service
	Register  auth.RegisterService
	Products  product.Service
	Cart      cart.Service
	Addresses address.Service
	Locations locationOptions
	Profiles  profiles.Service
	Checkout  checkoutsvc.Service
	Orders    orders.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.AuthRateLimitPolicy{
		Name:       "login",
		Window:     cfg.AuthRateLimit.LoginWindow,
		IPLimit:    cfg.AuthRateLimit.LoginIPLimit,
		EmailLimit: cfg.AuthRateLimit.LoginEmailLimit,
	}
	registerPolicy := middleware.AuthRateLimitPolicy{
		Name:       "register",
		Window:     cfg.AuthRateLimit.RegisterWindow,
		IPLimit:    cfg.AuthRateLimit.RegisterIPLimit,
		EmailLimit: cfg.AuthRateLimit.RegisterEmailLimit,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, p.Ready, logg))
	})
	r.Handle("/metrics", metrics.Handler(p.Gatherer))

	authenticate := middleware.Auth(cfg.JWT, p.Sessions, logg)
	idempotent := middleware.Idempotency(p.Idempotency, cfg.Checkout.IdempotencyTTL, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, p.RateLimiter, logg), idempotent).Post("/register", controllers.AuthRegister(p.Register, logg))
			r.Post("/refresh", controllers.AuthRefresh(p.Auth, cfg.JWT, logg))
			r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
			r.With(authenticate).Get("/session", controllers.AuthSession(p.Auth, logg))
		})

		r.Get("/products", controllers.ProductList(p.Products, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(p.Products, logg))
		r.Get("/locations/{level}", controllers.LocationOptions(p.Locations, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(idempotent)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartList(p.Cart, logg))
				r.Post("/items", controllers.CartAddItem(p.Cart, logg))
				r.Delete("/items/{lineId}", controllers.CartRemoveItem(p.Cart, logg))
			})
			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(p.Addresses, logg))
				r.Post("/", controllers.AddressCreate(p.Addresses, logg))
			})
			r.Get("/profile", controllers.ProfileGet(p.Profiles, logg))
			r.Put("/profile", controllers.ProfileSave(p.Profiles, logg))
			r.Post("/checkout", controllers.CheckoutPlaceOrder(p.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(p.Orders, logg))
				r.Get("/stream", ordercontrollers.Stream(ordercontrollers.StreamParams{
					Service:        p.Orders,
					Realtime:       cfg.Realtime,
					AllowedOrigins: cfg.App.CORSOrigins,
					Metrics:        p.Metrics,
					Logger:         logg,
				}))
				r.Get("/{orderId}", ordercontrollers.Detail(p.Orders, logg))
				r.Get("/{orderId}/receipt", ordercontrollers.Receipt(p.Orders, logg))
				r.Post("/{orderId}/cart-cleanup", ordercontrollers.RetryCartCleanup(p.Orders, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(idempotent)
		r.Patch("/orders/{orderId}/status", ordercontrollers.AdminUpdateStatus(p.Orders, logg))
	})

	return r
}
