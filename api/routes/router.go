package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/warehouse-console/api/controllers"
	"github.com/angelmondragon/warehouse-console/api/middleware"
	"github.com/angelmondragon/warehouse-console/api/responses"
	"github.com/angelmondragon/warehouse-console/internal/catalog"
	"github.com/angelmondragon/warehouse-console/internal/dashboard"
	"github.com/angelmondragon/warehouse-console/internal/locations"
	"github.com/angelmondragon/warehouse-console/internal/movements"
	"github.com/angelmondragon/warehouse-console/internal/purchases"
	"github.com/angelmondragon/warehouse-console/internal/transfers"
	"github.com/angelmondragon/warehouse-console/pkg/config"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
	"github.com/angelmondragon/warehouse-console/pkg/metrics"
)

// Services groups the resource families served under /api/v1.
type Services struct {
	Catalog   catalog.Service
	Purchases purchases.Service
	Transfers transfers.Service
	Locations locations.Service
	Movements movements.Service
	Dashboard dashboard.Service
}

// Observability carries the metrics registry used by the HTTP layer. A nil
// Gatherer leaves /metrics unmounted.
type Observability struct {
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	obs Observability,
	svc Services,
	checks map[string]controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, obs.HTTP),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "method not allowed"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks))
	})

	if cfg.Metrics.Enabled && obs.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(obs.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Notices())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svc.Catalog, logg))
			r.Post("/", controllers.CreateProduct(svc.Catalog, logg))
			r.Get("/{id}", controllers.GetProduct(svc.Catalog, logg))
			r.Put("/{id}", controllers.UpdateProduct(svc.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteProduct(svc.Catalog, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svc.Catalog, logg))
			r.Post("/", controllers.CreateCategory(svc.Catalog, logg))
			r.Get("/{id}", controllers.GetCategory(svc.Catalog, logg))
			r.Put("/{id}", controllers.UpdateCategory(svc.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteCategory(svc.Catalog, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.ListSuppliers(svc.Catalog, logg))
			r.Post("/", controllers.CreateSupplier(svc.Catalog, logg))
			r.Get("/{id}", controllers.GetSupplier(svc.Catalog, logg))
			r.Put("/{id}", controllers.UpdateSupplier(svc.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteSupplier(svc.Catalog, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", controllers.ListPurchases(svc.Purchases, logg))
			r.Post("/", controllers.CreatePurchase(svc.Purchases, logg))
			r.Get("/{id}", controllers.GetPurchase(svc.Purchases, logg))
			r.Put("/{id}", controllers.UpdatePurchase(svc.Purchases, logg))
			r.Delete("/{id}", controllers.DeletePurchase(svc.Purchases, logg))
			r.Put("/{id}/items/{itemID}", controllers.UpdatePurchaseItem(svc.Purchases, logg))
			r.Delete("/{id}/items/{itemID}", controllers.DeletePurchaseItem(svc.Purchases, logg))
		})

		r.Route("/stock_transfers", func(r chi.Router) {
			r.Get("/", controllers.ListTransfers(svc.Transfers, logg))
			r.Post("/", controllers.CreateTransfer(svc.Transfers, logg))
			r.Get("/{id}", controllers.GetTransfer(svc.Transfers, logg))
			r.Put("/{id}", controllers.UpdateTransfer(svc.Transfers, logg))
			r.Delete("/{id}", controllers.DeleteTransfer(svc.Transfers, logg))
			r.Put("/{id}/items/{itemID}", controllers.UpdateTransferItem(svc.Transfers, logg))
			r.Delete("/{id}/items/{itemID}", controllers.DeleteTransferItem(svc.Transfers, logg))
		})

		r.Route("/business_locations", func(r chi.Router) {
			r.Get("/", controllers.ListLocations(svc.Locations, logg))
			r.Post("/", controllers.CreateLocation(svc.Locations, logg))
			r.Get("/{id}", controllers.GetLocation(svc.Locations, logg))
			r.Put("/{id}", controllers.UpdateLocation(svc.Locations, logg))
			r.Patch("/{id}/toggle_active", controllers.ToggleLocationActive(svc.Locations, logg))
			r.Patch("/{id}/delete", controllers.SoftDeleteLocation(svc.Locations, logg))
		})

		r.Route("/movements", func(r chi.Router) {
			r.Get("/", controllers.ListMovements(svc.Movements, logg))
			r.Post("/", controllers.CreateMovement(svc.Movements, logg))
		})

		r.Get("/dashboard", controllers.DashboardSummary(svc.Dashboard, logg))
		r.Get("/dashboard/movements", controllers.DashboardMovements(svc.Dashboard, logg))
	})

	return r
}
