package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/admission-webhook/app"
	"github.com/upb/admission-webhook/handlers"
	"github.com/upb/admission-webhook/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware. The timeout stays under the API server's admission
	// timeout so a slow review fails on our side of the wire.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(deps.Config.Webhook.ReviewTimeout))

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	// Admission review endpoints
	admissionHandler := handlers.NewAdmissionHandler(
		deps.Admission,
		deps.Config.Webhook.MaxRequestBytes,
		deps.Logger,
	)
	r.Route("/admit", func(r chi.Router) {
		r.Post("/pods", admissionHandler.HandleReview)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found"}`))
	})

	return r
}
