package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mandlimart/mandlimart-backend/api"
	"github.com/mandlimart/mandlimart-backend/api/controllers"
	"github.com/mandlimart/mandlimart-backend/api/routes"
	"github.com/mandlimart/mandlimart-backend/internal/address"
	"github.com/mandlimart/mandlimart-backend/internal/auth"
	"github.com/mandlimart/mandlimart-backend/internal/cart"
	"github.com/mandlimart/mandlimart-backend/internal/checkout"
	"github.com/mandlimart/mandlimart-backend/internal/orders"
	product "github.com/mandlimart/mandlimart-backend/internal/products"
	"github.com/mandlimart/mandlimart-backend/internal/profiles"
	"github.com/mandlimart/mandlimart-backend/internal/users"
	"github.com/mandlimart/mandlimart-backend/pkg/auth/session"
	"github.com/mandlimart/mandlimart-backend/pkg/config"
	"github.com/mandlimart/mandlimart-backend/pkg/db"
	"github.com/mandlimart/mandlimart-backend/pkg/instance"
	"github.com/mandlimart/mandlimart-backend/pkg/logger"
	"github.com/mandlimart/mandlimart-backend/pkg/metrics"
	"github.com/mandlimart/mandlimart-backend/pkg/migrate"
	"github.com/mandlimart/mandlimart-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	params, err := buildRouterParams(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	server := api.NewServer(cfg.App, os.Getenv("PORT"), routes.NewRouter(params))
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}()

	logg.Info(ctx, "starting api server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func buildRouterParams(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (routes.Params, error) {
	conn := dbClient.DB()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return routes.Params{}, err
	}
	userRepo := users.NewRepository(conn)
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Params{}, err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		UserRepo:       userRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Params{}, err
	}

	productRepo := product.NewRepository(conn)
	productService, err := product.NewService(productRepo)
	if err != nil {
		return routes.Params{}, err
	}

	cartRepo := cart.NewRepository(conn)
	cartService, err := cart.NewService(cartRepo, dbClient, productRepo)
	if err != nil {
		return routes.Params{}, err
	}

	locationService, err := address.NewLocationService(address.NewLocationRepository(conn))
	if err != nil {
		return routes.Params{}, err
	}
	addressRepo := address.NewRepository(conn)
	addressService, err := address.NewService(address.ServiceParams{
		Repo:                 addressRepo,
		Locations:            locationService,
		RequireKnownLocation: cfg.FeatureFlags.RequireKnownLocation,
	})
	if err != nil {
		return routes.Params{}, err
	}

	profileService, err := profiles.NewService(profiles.NewRepository(conn), cfg.Profile.MaxImageBytes)
	if err != nil {
		return routes.Params{}, err
	}

	orderRepo := orders.NewRepository(conn)
	cleaner, err := orders.NewCartCleaner(cartRepo, orderRepo, checkoutMetrics)
	if err != nil {
		return routes.Params{}, err
	}
	broker, err := orders.NewBroker(redisClient)
	if err != nil {
		return routes.Params{}, err
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:         orderRepo,
		Cleaner:      cleaner,
		Broker:       broker,
		Logger:       logg,
		DefaultLimit: cfg.Checkout.DefaultOrdersLimit,
	})
	if err != nil {
		return routes.Params{}, err
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Lines:     cartRepo,
		Claims:    cartRepo,
		Addresses: addressRepo,
		Orders:    orderRepo,
		Cleaner:   cleaner,
		Metrics:   checkoutMetrics,
		Logger:    logg,
	})
	if err != nil {
		return routes.Params{}, err
	}

	return routes.Params{
		Config:      cfg,
		Logger:      logg,
		Ready:       map[string]controllers.Pinger{"db": dbClient, "redis": redisClient},
		Gatherer:    reg,
		Metrics:     checkoutMetrics,
		Sessions:    sessionManager,
		RateLimiter: redisClient,
		Idempotency: redisClient,
		Auth:        authService,
		Register:    registerService,
		Products:    productService,
		Cart:        cartService,
		Addresses:   addressService,
		Locations:   locationService,
		Profiles:    profileService,
		Checkout:    checkoutService,
		Orders:      orderService,
	}, nil
}
