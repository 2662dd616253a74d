package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixpointhq/fixpoint-backend/api/controllers"
	"github.com/fixpointhq/fixpoint-backend/api/middleware"
	cartsvc "github.com/fixpointhq/fixpoint-backend/internal/cart"
	checkoutsvc "github.com/fixpointhq/fixpoint-backend/internal/checkout"
	"github.com/fixpointhq/fixpoint-backend/internal/lifecycle"
	"github.com/fixpointhq/fixpoint-backend/internal/technicians"
	"github.com/fixpointhq/fixpoint-backend/pkg/config"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	pubsubP controllers.Pinger,
	sessions *cartsvc.Sessions,
	checkoutService checkoutsvc.Service,
	registry *lifecycle.Registry,
	techniciansRepo technicians.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP, pubsubP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", controllers.GetCart(sessions, logg))
		r.Delete("/", controllers.ClearCart(sessions, logg))
		r.Post("/items", controllers.AddCartItem(sessions, logg))
		r.Patch("/items/{productID}", controllers.UpdateCartItem(sessions, logg))
		r.Delete("/items/{productID}", controllers.RemoveCartItem(sessions, logg))
		r.Post("/checkout", controllers.Checkout(sessions, checkoutService, logg))
	})

	r.Route("/api/v1/records/{kind}", func(r chi.Router) {
		r.Use(middleware.Role(logg))
		r.Get("/", controllers.ListRecords(registry, logg))
		r.Put("/filter", controllers.SetRecordFilter(registry, logg))
		r.Post("/refresh", controllers.RefreshRecords(registry, logg))
		r.Post("/deactivate", controllers.DeactivateRecords(registry, logg))
		r.Post("/{recordID}/transition", controllers.TransitionRecord(registry, logg))
	})

	r.Get("/api/v1/technicians", controllers.ListTechnicians(techniciansRepo, logg))

	return r
}
