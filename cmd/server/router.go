package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anchornotes/anchornotes/internal/api"
	apiMiddleware "github.com/anchornotes/anchornotes/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.jwtService, app.keyVerifier)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	noteHandler := api.NewNoteHandler(app.noteService, app.tagService)
	reminderHandler := api.NewReminderHandler(app.reminderService)
	locationHandler := api.NewLocationHandler(app.regionSource)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Note endpoints
			r.Post("/notes", noteHandler.CreateNote)
			r.Get("/notes", noteHandler.ListNotes)
			r.Get("/notes/{id}", noteHandler.GetNote)
			r.Put("/notes/{id}", noteHandler.UpdateNote)
			r.Delete("/notes/{id}", noteHandler.DeleteNote)

			// Reminder lifecycle endpoints
			r.Post("/notes/{id}/reminders/time", reminderHandler.CreateTimeReminder)
			r.Post("/notes/{id}/reminders/location", reminderHandler.CreateLocationReminder)
			r.Get("/notes/{id}/reminder", reminderHandler.GetReminder)
			r.Delete("/notes/{id}/reminder", reminderHandler.CancelReminder)

			// Tag endpoints
			r.Post("/notes/{id}/tags", noteHandler.TagNote)
			r.Get("/notes/{id}/tags", noteHandler.ListNoteTags)
			r.Delete("/notes/{id}/tags/{tagId}", noteHandler.UntagNote)
			r.Get("/tags", noteHandler.ListTags)

			// Device location fix feed
			r.Post("/location", locationHandler.UpdateLocation)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
