package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/infra/http/handlers"
	"github.com/leadflow/crm-directory/internal/infra/http/middleware"
	"github.com/leadflow/crm-directory/internal/usecase"
)

type routerDeps struct {
	Directory      *usecase.Directory
	Health         *handlers.HealthHandler
	Events         http.Handler
	ImportLimiter  *middleware.RateLimiter
	AllowedOrigins []string
	TrustProxy     bool
	Logger         *zap.Logger
}

func newRouter(deps routerDeps) http.Handler {
	employees := handlers.NewEmployeeHandler(deps.Directory, deps.Logger)
	leads := handlers.NewLeadHandler(deps.Directory, deps.Logger)
	followUps := handlers.NewFollowUpHandler(deps.Directory, deps.Logger)
	customers := handlers.NewCustomerHandler(deps.Directory, deps.Logger)

	var importLimit func(http.Handler) http.Handler
	if deps.ImportLimiter != nil {
		importLimit = deps.ImportLimiter.Handler
	}

	r := chi.NewRouter()
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	if deps.Health != nil {
		r.Get("/health", deps.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())
	if deps.Events != nil {
		r.Handle("/ws/events", deps.Events)
	}

	r.Route("/employees", employees.Routes)
	r.Route("/leads", func(r chi.Router) {
		leads.Routes(r, importLimit)
		r.Route("/{id}/follow-ups", followUps.Routes)
	})
	r.Route("/customers", customers.Routes)

	return r
}
