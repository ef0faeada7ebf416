package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/treadstock/treadstock-backend/api/controllers"
	"github.com/treadstock/treadstock-backend/api/middleware"
	"github.com/treadstock/treadstock-backend/internal/catalog"
	"github.com/treadstock/treadstock-backend/internal/intake"
	"github.com/treadstock/treadstock-backend/internal/inventory"
	"github.com/treadstock/treadstock-backend/internal/ledger"
	"github.com/treadstock/treadstock-backend/internal/orders"
	"github.com/treadstock/treadstock-backend/internal/stocktake"
	"github.com/treadstock/treadstock-backend/pkg/config"
	"github.com/treadstock/treadstock-backend/pkg/db"
	"github.com/treadstock/treadstock-backend/pkg/logger"
	"github.com/treadstock/treadstock-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Catalog   catalog.Service
	Ledger    ledger.Service
	Inventory inventory.Service
	Orders    orders.Service
	Intake    intake.Service
	Parser    *intake.Parser
	Stocktake stocktake.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisPing interface{ Ping(context.Context) error }
	if redisClient != nil {
		redisPing = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisPing))
	})
	r.Get("/healthz", controllers.HealthLive(cfg))

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
			r.Post("/", controllers.CreateProduct(svcs.Catalog, logg))
			r.Get("/{productID}", controllers.GetProduct(svcs.Catalog, logg))
			r.Patch("/{productID}", controllers.UpdateProduct(svcs.Catalog, logg))
			r.Post("/{productID}/tire", controllers.AttachTireVariant(svcs.Catalog, logg))
			r.Patch("/{productID}/tire", controllers.UpdateTireVariant(svcs.Catalog, logg))
			r.Post("/{productID}/component", controllers.AttachComponentVariant(svcs.Catalog, logg))
			r.Patch("/{productID}/component", controllers.UpdateComponentVariant(svcs.Catalog, logg))
			r.Get("/{productID}/placements", controllers.ListPlacements(svcs.Ledger, logg))
			r.Get("/{productID}/stock", controllers.ProductStockTotal(svcs.Ledger, logg))
		})

		r.Route("/placements", func(r chi.Router) {
			r.Post("/", controllers.PlaceStock(svcs.Ledger, logg))
			r.Put("/{placementID}/quantity", controllers.AdjustPlacement(svcs.Ledger, logg))
		})

		r.Get("/inventory", controllers.ListInventory(svcs.Inventory, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(svcs.Orders, logg))
			r.Patch("/{orderID}", controllers.UpdateOrder(svcs.Orders, logg))
			r.Post("/{orderID}/transition", controllers.TransitionOrder(svcs.Orders, logg))
		})

		r.Route("/intake", func(r chi.Router) {
			r.Post("/parse", controllers.ParseIntakeFile(svcs.Parser, cfg.Intake, logg))
			r.Post("/commit", controllers.CommitIntake(svcs.Intake, logg))
		})

		r.Route("/stocktake", func(r chi.Router) {
			r.Post("/reconcile", controllers.ReconcileStocktake(svcs.Stocktake, logg))
			r.Post("/apply", controllers.ApplyStocktake(svcs.Stocktake, logg))
		})
	})

	return r
}
