package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pratomobowo/pasarantar-sub000/api/routes"
	cartsvc "github.com/pratomobowo/pasarantar-sub000/internal/cart"
	checkoutsvc "github.com/pratomobowo/pasarantar-sub000/internal/checkout"
	customersvc "github.com/pratomobowo/pasarantar-sub000/internal/customers"
	ordersvc "github.com/pratomobowo/pasarantar-sub000/internal/orders"
	productsvc "github.com/pratomobowo/pasarantar-sub000/internal/products"
	reviewsvc "github.com/pratomobowo/pasarantar-sub000/internal/reviews"
	"github.com/pratomobowo/pasarantar-sub000/pkg/config"
	"github.com/pratomobowo/pasarantar-sub000/pkg/db"
	"github.com/pratomobowo/pasarantar-sub000/pkg/geo"
	"github.com/pratomobowo/pasarantar-sub000/pkg/kafka"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
	"github.com/pratomobowo/pasarantar-sub000/pkg/maps"
	"github.com/pratomobowo/pasarantar-sub000/pkg/metrics"
	"github.com/pratomobowo/pasarantar-sub000/pkg/migrate"
	"github.com/pratomobowo/pasarantar-sub000/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats := metrics.New()

	publisher := ordersvc.NewNoopPublisher()
	var producer *kafka.Producer
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(cfg.Kafka, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap kafka producer", err)
			os.Exit(1)
		}
		producer.Start()
		publisher, err = ordersvc.NewKafkaPublisher(producer, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create order publisher", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "kafka brokers not configured, order events disabled")
	}

	var locator geo.Resolver
	if cfg.Maps.APIKey != "" {
		mapsOpts := []maps.Option{}
		if cfg.Maps.BaseURL != "" {
			mapsOpts = append(mapsOpts, maps.WithBaseURL(cfg.Maps.BaseURL))
		}
		mapsClient, err := maps.NewClient(cfg.Maps.APIKey, mapsOpts...)
		if err != nil {
			logg.Error(context.Background(), "failed to create maps client", err)
			os.Exit(1)
		}
		provider, err := maps.NewProvider(mapsClient, redisClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create geocode provider", err)
			os.Exit(1)
		}
		locator, err = geo.NewResolver(provider, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create geo resolver", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "maps api key not configured, location resolution disabled")
	}

	productService, err := productsvc.NewService(productsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartStore, err := cartsvc.NewStore(redisClient, cfg.Checkout.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cartsvc.NewService(cartStore, productService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderRepo := ordersvc.NewRepository(dbClient.DB())
	orderService, err := ordersvc.NewService(orderRepo, publisher, stats, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	customerRepo := customersvc.NewRepository(dbClient.DB())
	customerService, err := customersvc.NewService(customerRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	draftStore, err := checkoutsvc.NewDraftStore(redisClient, cfg.Checkout.DraftTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create draft store", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(
		draftStore,
		cartService,
		productService,
		customerRepo,
		orderRepo,
		dbClient,
		redisClient,
		publisher,
		stats,
		locator,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	reviewService, err := reviewsvc.NewService(reviewsvc.NewRepository(dbClient.DB()), orderRepo, stats)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(rootCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			stats,
			productService,
			cartService,
			checkoutService,
			orderService,
			reviewService,
			customerService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-rootCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
		// Handlers have drained; now flush queued order events.
		if producer != nil {
			producer.Close()
		}
	}

	logg.Info(ctx, "api server stopped")
}
