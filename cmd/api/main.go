package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/treadstock/treadstock-backend/api/routes"
	"github.com/treadstock/treadstock-backend/internal/catalog"
	"github.com/treadstock/treadstock-backend/internal/intake"
	"github.com/treadstock/treadstock-backend/internal/inventory"
	"github.com/treadstock/treadstock-backend/internal/ledger"
	"github.com/treadstock/treadstock-backend/internal/orders"
	"github.com/treadstock/treadstock-backend/internal/stocktake"
	"github.com/treadstock/treadstock-backend/pkg/config"
	"github.com/treadstock/treadstock-backend/pkg/db"
	"github.com/treadstock/treadstock-backend/pkg/locks"
	"github.com/treadstock/treadstock-backend/pkg/logger"
	"github.com/treadstock/treadstock-backend/pkg/metrics"
	"github.com/treadstock/treadstock-backend/pkg/migrate"
	"github.com/treadstock/treadstock-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	stockMetrics := metrics.NewStockMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	ledgerRepo := ledger.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	keyed := locks.NewKeyed()

	catalogSvc, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ledgerSvc, err := ledger.NewService(ledgerRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	inventorySvc, err := inventory.NewService(ledgerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(ordersRepo, ledgerRepo, dbClient, keyed, stockMetrics, logg, cfg.Orders, cfg.Intake)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	parser, err := intake.NewParser(intake.NewSequence())
	if err != nil {
		logg.Error(context.Background(), "failed to create intake parser", err)
		os.Exit(1)
	}

	intakeSvc, err := intake.NewService(catalogRepo, ledgerRepo, dbClient, stockMetrics, logg, cfg.Intake)
	if err != nil {
		logg.Error(context.Background(), "failed to create intake service", err)
		os.Exit(1)
	}

	stocktakeSvc, err := stocktake.NewService(ledgerRepo, dbClient, stockMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stocktake service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Catalog:   catalogSvc,
			Ledger:    ledgerSvc,
			Inventory: inventorySvc,
			Orders:    ordersSvc,
			Intake:    intakeSvc,
			Parser:    parser,
			Stocktake: stocktakeSvc,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
