package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/starford/moodmate/internal/composer"
	"github.com/starford/moodmate/internal/export"
	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/moodservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *moodservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *moodservice.Service) *Handler {
	return &Handler{svc: svc}
}

const maxBody = 64 << 10

// ListEntries handles GET /api/entries.
//
//	@Summary		List saved mood entries in save order
//	@Tags			entries
//	@Produce		json
//	@Success		200	{object}	EntryListResponse
//	@Security		BearerAuth
//	@Router			/entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.Entries(r.Context())
	resp := EntryListResponse{Entries: entries, Total: len(entries)}
	if resp.Entries == nil {
		resp.Entries = []Entry{}
	}
	if len(entries) == 0 {
		resp.Empty = EmptyLogMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateEntry handles POST /api/entries.
//
//	@Summary		Compose and save an entry in one call
//	@Tags			entries
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateEntryRequest	true	"Entry to save"
//	@Success		201		{object}	SaveResponse
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries [post]
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	entry, err := h.svc.SaveEntry(r.Context(), req.Emoji, req.Text, req.Date)
	if err != nil {
		writeError(w, "create entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, SaveResponse{Entry: entry, Message: composer.MessageSaved})
}

// GetComposer handles GET /api/composer.
//
//	@Summary		Get the entry form
//	@Tags			composer
//	@Produce		json
//	@Success		200	{object}	ComposerResponse
//	@Security		BearerAuth
//	@Router			/composer [get]
func (h *Handler) GetComposer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Composer(r.Context()))
}

// UpdateComposer handles PATCH /api/composer.
//
//	@Summary		Select an emoji, edit the note or pick a date
//	@Tags			composer
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpdateComposerRequest	true	"Fields to change"
//	@Success		200		{object}	ComposerResponse
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/composer [patch]
func (h *Handler) UpdateComposer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req UpdateComposerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	view, err := h.svc.UpdateComposer(r.Context(), req)
	if err != nil {
		writeError(w, "update composer", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SaveComposer handles POST /api/composer/save.
//
//	@Summary		Save the entry form with the latest temperature
//	@Tags			composer
//	@Produce		json
//	@Success		201	{object}	SaveResponse
//	@Failure		422	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/composer/save [post]
func (h *Handler) SaveComposer(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Save(r.Context())
	if err != nil {
		writeError(w, "save entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, SaveResponse{Entry: entry, Message: composer.MessageSaved})
}

// ListEmojis handles GET /api/emojis.
//
//	@Summary		List the mood palette
//	@Tags			composer
//	@Produce		json
//	@Success		200	{object}	EmojiListResponse
//	@Security		BearerAuth
//	@Router			/emojis [get]
func (h *Handler) ListEmojis(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, EmojiListResponse{Emojis: h.svc.Emojis()})
}

// GetWeather handles GET /api/weather.
//
//	@Summary		Get the weather panel
//	@Tags			weather
//	@Produce		json
//	@Success		200	{object}	WeatherResponse
//	@Security		BearerAuth
//	@Router			/weather [get]
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Weather(r.Context()))
}

// SetLocation handles PUT /api/location.
//
//	@Summary		Report a device position and refresh the weather
//	@Tags			weather
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LocationRequest	true	"Position"
//	@Success		200		{object}	WeatherResponse
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/location [put]
func (h *Handler) SetLocation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("latitude and longitude are required"))
		return
	}
	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("coordinates out of range"))
		return
	}
	at := models.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	writeJSON(w, http.StatusOK, h.svc.SetLocation(r.Context(), at))
}

// RefreshLocation handles POST /api/location/refresh.
//
//	@Summary		Ask the configured location provider again
//	@Tags			weather
//	@Produce		json
//	@Success		200	{object}	WeatherResponse
//	@Security		BearerAuth
//	@Router			/location/refresh [post]
func (h *Handler) RefreshLocation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.RefreshLocation(r.Context()))
}

// Export handles GET /api/export.
//
//	@Summary		Download the mood log as a PDF
//	@Tags			export
//	@Produce		application/pdf
//	@Success		200	{file}		binary
//	@Success		304	"Not modified"
//	@Security		BearerAuth
//	@Router			/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	etag := ""
	if sum := h.svc.Checksum(); sum != "" {
		etag = strconv.Quote(sum)
		if match := r.Header.Get("If-None-Match"); match != "" && strings.Trim(match, `"`) == sum {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	// Render fully before writing headers so a failure can still be a 500.
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), &buf); err != nil {
		writeError(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
