package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/NiklavsD/Tikodea/internal/api/handler"
	mw "github.com/NiklavsD/Tikodea/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	videoHandler *handler.VideoHandler,
	chatHandler *handler.ChatHandler,
	healthHandler *handler.HealthHandler,
	quotaHandler *handler.QuotaHandler,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath) // Normalize paths (e.g., //health -> /health)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(middleware.Timeout(5 * time.Minute))

	// CORS for the web dashboard
	r.Use(mw.CORS(allowedOrigins))

	// Health endpoint
	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		// System stats and quota
		r.Get("/stats", healthHandler.Stats)
		r.Get("/quota", quotaHandler.Status)

		// Video operations
		r.Post("/videos", videoHandler.Submit)
		r.Get("/videos", videoHandler.List)
		r.Get("/videos/{videoID}", videoHandler.Get)
		r.Patch("/videos/{videoID}/favorite", videoHandler.Favorite)
		r.Patch("/videos/{videoID}/tags", videoHandler.Tags)

		// Per-video research chat
		r.Get("/videos/{videoID}/chat", chatHandler.History)
		r.Post("/videos/{videoID}/chat", chatHandler.Ask)
	})

	return r
}
