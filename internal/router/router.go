package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GregMSThompson/widget-dashboard/internal/handlers"
	"github.com/GregMSThompson/widget-dashboard/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log, deps.SessionID).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	dh := handlers.NewDashboardHandlers(deps)

	r.Mount("/dashboard", dh.DashboardRoutes())
	r.Handle("/metrics", promhttp.Handler())
	return r
}
