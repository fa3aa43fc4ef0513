package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/reelgen/reelgen-api/internal/api"
	apiMiddleware "github.com/reelgen/reelgen-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	userHandler := api.NewUserHandler(app.userService)
	videoHandler := api.NewVideoHandler(app.videoService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Worker callback endpoint. Authenticated by the shared worker
		// secret inside the service, not by a user session.
		r.Patch("/videos/{id}/status", videoHandler.UpdateStatus)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Profile endpoints
			r.Get("/users/me", userHandler.GetMe)
			r.Patch("/users/me", userHandler.UpdateMe)
			r.Delete("/users/me", userHandler.DeleteMe)
			r.Post("/users/me/password", userHandler.ChangePassword)

			// Video endpoints
			r.Post("/videos/generate", videoHandler.Generate)
			r.Get("/videos/gallery", videoHandler.Gallery)
			r.Get("/videos/history", videoHandler.History)
			r.Get("/videos/{id}", videoHandler.GetByID)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
