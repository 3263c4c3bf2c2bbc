package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/parisxmas/examapi/internal/handler"
	mw "github.com/parisxmas/examapi/internal/middleware"
)

func New(
	log *zap.Logger,
	examH *handler.RecordHandler,
	userH *handler.RecordHandler,
	healthH *handler.HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logger(log))
	r.Use(mw.Metrics)
	r.Use(mw.Recovery(log))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", healthH.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Exams
		r.Post("/exams", examH.Create)
		r.Get("/exams", examH.List)

		// Users
		r.Post("/users", userH.Create)
		r.Get("/users", userH.List)
	})

	return r
}
