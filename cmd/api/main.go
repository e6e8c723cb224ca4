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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/bazarpo/bazarpo-backend/api/routes"
	"github.com/bazarpo/bazarpo-backend/internal/auth"
	"github.com/bazarpo/bazarpo-backend/internal/cars"
	"github.com/bazarpo/bazarpo-backend/internal/orders"
	"github.com/bazarpo/bazarpo-backend/internal/parts"
	"github.com/bazarpo/bazarpo-backend/internal/realtime"
	"github.com/bazarpo/bazarpo-backend/internal/vehicles"
	"github.com/bazarpo/bazarpo-backend/pkg/config"
	"github.com/bazarpo/bazarpo-backend/pkg/db"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
	"github.com/bazarpo/bazarpo-backend/pkg/metrics"
	"github.com/bazarpo/bazarpo-backend/pkg/migrate"
	"github.com/bazarpo/bazarpo-backend/pkg/pubsub"
	"github.com/bazarpo/bazarpo-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	var events pubsub.OrderEventPublisher = pubsub.NoopPublisher{}
	if cfg.PubSub.OrdersTopic != "" {
		client, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		events = client
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       auth.NewRepository(dbClient.DB()),
		SessionStore:   redisClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	carsService, err := cars.NewService(cars.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create cars service", err)
		os.Exit(1)
	}

	hub := realtime.NewHub(cfg.Realtime, httpMetrics, logg)

	vehiclesService, err := vehicles.NewService(vehicles.ServiceParams{
		Repo:   vehicles.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Events: hub,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create vehicles service", err)
		os.Exit(1)
	}

	partsRepo := parts.NewRepository(dbClient.DB())
	partsService, err := parts.NewService(partsRepo, vehiclesService)
	if err != nil {
		logg.Error(context.Background(), "failed to create parts service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(dbClient.DB()),
		Stock:   parts.NewStockKeeper(partsRepo),
		Tx:      dbClient,
		Events:  events,
		Metrics: httpMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Metrics:     httpMetrics,
		MetricsPage: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Redis:       redisClient,
		Sessions:    redisClient,
		DB:          dbClient,
		Auth:        authService,
		Cars:        carsService,
		Parts:       partsService,
		Orders:      ordersService,
		Vehicles:    vehiclesService,
		Hub:         hub,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		err = multierr.Append(err, events.Close())
		err = multierr.Append(err, redisClient.Close())
		err = multierr.Append(err, dbClient.Close())
		if err != nil {
			logg.Error(ctx, "shutdown finished with errors", err)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
