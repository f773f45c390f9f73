package api

import (
	"github.com/starford/moodmate/internal/composer"
	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/moodservice"
	"github.com/starford/moodmate/internal/weather"
)

// CreateEntryRequest is the request body for composing and saving an entry in one call.
type CreateEntryRequest struct {
	Emoji string `json:"emoji" example:"😊" validate:"required"`
	Text  string `json:"text" example:"Good day" validate:"required"`
	Date  string `json:"date,omitempty" example:"2024-03-15"`
}

// UpdateComposerRequest changes form fields; omitted fields are kept.
type UpdateComposerRequest = moodservice.ComposerUpdate

// LocationRequest reports a new device position.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" example:"52.52" validate:"required"`
	Longitude *float64 `json:"longitude" example:"13.405" validate:"required"`
}

// Entry is a saved mood entry (aliased from the domain layer).
type Entry = models.Entry

// EntryListResponse wraps the mood log.
type EntryListResponse struct {
	Entries []Entry `json:"entries" validate:"required"`
	Total   int     `json:"total" example:"3" validate:"required"`
	Empty   string  `json:"empty_message,omitempty" example:"No notes saved yet."`
}

// SaveResponse is returned after a successful save.
type SaveResponse struct {
	Entry   Entry  `json:"entry" validate:"required"`
	Message string `json:"message" example:"Mood saved successfully!" validate:"required"`
}

// ComposerResponse is the current form (aliased from the domain layer).
type ComposerResponse = composer.View

// WeatherResponse is the weather panel (aliased from the domain layer).
type WeatherResponse = weather.Readout

// EmojiListResponse lists the palette.
type EmojiListResponse struct {
	Emojis []moodservice.EmojiOption `json:"emojis" validate:"required"`
}

// EmptyLogMessage is shown by the list view when nothing has been saved.
const EmptyLogMessage = "No notes saved yet."
