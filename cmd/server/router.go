package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/studydeck/internal/api"
	apiMiddleware "github.com/phrazzld/studydeck/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	cardHandler := api.NewCardHandler(app.cardService, app.clock, app.logger)
	reviewHandler := api.NewReviewHandler(app.cardReviewService, app.clock, app.logger)
	settingsHandler := api.NewSettingsHandler(app.settingsService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/qualities", api.ListQualities)

		r.Route("/learners/{"+apiMiddleware.LearnerParam+"}", func(r chi.Router) {
			r.Use(apiMiddleware.Learner)

			// Card management
			r.Post("/cards", cardHandler.CreateCards)
			r.Get("/cards", cardHandler.ListCards)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Put("/cards/{id}", cardHandler.UpdateCard)
			r.Delete("/cards/{id}", cardHandler.DeleteCard)

			// Review session
			r.Get("/due", reviewHandler.ListDue)
			r.Get("/due/next", reviewHandler.GetNextCard)
			r.Post("/cards/{id}/review", reviewHandler.SubmitReview)
			r.Post("/cards/{id}/postpone", reviewHandler.PostponeCard)
			r.Get("/progress", reviewHandler.GetProgress)

			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.UpdateSettings)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
