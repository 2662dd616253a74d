package main

import (
	"context"
	"net/http"
	"os"

	"github.com/fixpointhq/fixpoint-backend/api/routes"
	"github.com/fixpointhq/fixpoint-backend/internal/cart"
	"github.com/fixpointhq/fixpoint-backend/internal/checkout"
	"github.com/fixpointhq/fixpoint-backend/internal/lifecycle"
	"github.com/fixpointhq/fixpoint-backend/internal/technicians"
	"github.com/fixpointhq/fixpoint-backend/pkg/config"
	"github.com/fixpointhq/fixpoint-backend/pkg/db"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
	"github.com/fixpointhq/fixpoint-backend/pkg/metrics"
	"github.com/fixpointhq/fixpoint-backend/pkg/migrate"
	"github.com/fixpointhq/fixpoint-backend/pkg/pubsub"
	"github.com/fixpointhq/fixpoint-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

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

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	feed, err := lifecycle.NewPubSubFeed(pubsubClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create change feed", err)
		os.Exit(1)
	}

	feedCtx, cancelFeed := context.WithCancel(context.Background())
	defer cancelFeed()
	go func() {
		if err := feed.Run(feedCtx); err != nil && feedCtx.Err() == nil {
			logg.Error(feedCtx, "change feed stopped unexpectedly", err)
		}
	}()

	snapshotStores := cart.NewRedisSnapshotStores(redisClient, cfg.Cart.SnapshotTTL)
	sessions, err := cart.NewSessions(snapshotStores, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart sessions", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(dbClient, checkout.NewRepository(dbClient.DB()), feed, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	techniciansRepo := technicians.NewRepository(dbClient.DB())
	syncMetrics := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)

	registry, err := lifecycle.NewRegistry(
		lifecycle.NewRepository(dbClient.DB()),
		techniciansRepo,
		feed,
		logg,
		syncMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle registry", err)
		os.Exit(1)
	}
	defer registry.Close()

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
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			pubsubClient,
			sessions,
			checkoutService,
			registry,
			techniciansRepo,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
