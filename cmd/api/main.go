package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/gyamfidev/phoneshop-backend/api/routes"
	"github.com/gyamfidev/phoneshop-backend/internal/customers"
	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	"github.com/gyamfidev/phoneshop-backend/internal/invoices"
	"github.com/gyamfidev/phoneshop-backend/internal/phones"
	"github.com/gyamfidev/phoneshop-backend/internal/resales"
	"github.com/gyamfidev/phoneshop-backend/internal/staff"
	"github.com/gyamfidev/phoneshop-backend/internal/swaps"
	"github.com/gyamfidev/phoneshop-backend/pkg/config"
	"github.com/gyamfidev/phoneshop-backend/pkg/db"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
	"github.com/gyamfidev/phoneshop-backend/pkg/migrate"
	"github.com/gyamfidev/phoneshop-backend/pkg/outbox"
	"github.com/gyamfidev/phoneshop-backend/pkg/redis"
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
	ids := identifier.NewService(identifier.NewRepository(), nil, cfg.Identifier)
	events := outbox.NewService(outbox.NewRepository(gormDB), logg)

	staffSvc := staff.NewService(staff.NewRepository(gormDB), ids, dbClient, cfg.JWT, cfg.Password, logg)
	customerSvc := customers.NewService(customers.NewRepository(gormDB), ids, dbClient, logg)
	phoneSvc := phones.NewService(phones.NewRepository(gormDB), ids, dbClient, events, logg)
	invoiceSvc := invoices.NewService(invoices.NewRepository(gormDB), ids, nil, logg)
	resaleSvc := resales.NewService(resales.NewRepository(gormDB), ids, logg)
	swapSvc := swaps.NewService(
		swaps.NewRepository(gormDB),
		phoneSvc,
		customers.NewRepository(gormDB),
		staff.NewRepository(gormDB),
		resaleSvc,
		invoiceSvc,
		events,
		dbClient,
		logg,
	)

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
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Staff:     staffSvc,
			Customers: customerSvc,
			Phones:    phoneSvc,
			Swaps:     swapSvc,
			Resales:   resaleSvc,
			Invoices:  invoiceSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
