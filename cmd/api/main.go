package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stashline/stashline-backend/api/routes"
	"github.com/stashline/stashline-backend/internal/blueprints"
	"github.com/stashline/stashline-backend/internal/pos"
	productsvc "github.com/stashline/stashline-backend/internal/products"
	"github.com/stashline/stashline-backend/internal/promotions"
	"github.com/stashline/stashline-backend/internal/storefront"
	"github.com/stashline/stashline-backend/internal/stores"
	"github.com/stashline/stashline-backend/pkg/config"
	"github.com/stashline/stashline-backend/pkg/db"
	"github.com/stashline/stashline-backend/pkg/logger"
	"github.com/stashline/stashline-backend/pkg/migrate"
	"github.com/stashline/stashline-backend/pkg/outbox"
	"github.com/stashline/stashline-backend/pkg/redis"
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

	gormDB := dbClient.DB()
	storeRepo := stores.NewRepository(gormDB)
	productRepo := productsvc.NewRepository(gormDB)
	blueprintRepo := blueprints.NewRepository(gormDB)
	promotionRepo := promotions.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	promotionCache := promotions.NewListCache(promotionRepo, cfg.Pricing.PromotionCacheTTL, nil)

	storeService, err := stores.NewService(storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	blueprintService, err := blueprints.NewService(blueprintRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create blueprint service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productRepo, dbClient, storeRepo, blueprintRepo, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	promotionService, err := promotions.NewService(promotionRepo, dbClient, storeRepo, outboxService, promotionCache)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotion service", err)
		os.Exit(1)
	}

	storefrontService, err := storefront.NewService(storeRepo, productRepo, promotionCache, logg, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create storefront service", err)
		os.Exit(1)
	}

	posService, err := pos.NewService(storeRepo, productRepo, promotionCache, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create pos service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:            cfg,
			Logger:            logg,
			DB:                dbClient,
			Redis:             redisClient,
			PromRegistry:      prometheus.NewRegistry(),
			StoreService:      storeService,
			ProductService:    productService,
			BlueprintService:  blueprintService,
			PromotionService:  promotionService,
			StorefrontService: storefrontService,
			POSService:        posService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
