package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/moodmate/internal/moodservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *moodservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// List view.
	r.Get("/entries", h.ListEntries)
	r.Post("/entries", h.CreateEntry)

	// Composer.
	r.Get("/composer", h.GetComposer)
	r.Patch("/composer", h.UpdateComposer)
	r.Post("/composer/save", h.SaveComposer)
	r.Get("/emojis", h.ListEmojis)

	// Weather.
	r.Get("/weather", h.GetWeather)
	r.Put("/location", h.SetLocation)
	r.Post("/location/refresh", h.RefreshLocation)

	// Export.
	r.Get("/export", h.Export)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
