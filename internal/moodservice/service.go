// Package moodservice wires location, weather, the entry form and the mood
// store into the operations exposed by the HTTP, CLI and MCP surfaces.
package moodservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/moodmate/internal/apperr"
	"github.com/starford/moodmate/internal/composer"
	"github.com/starford/moodmate/internal/export"
	"github.com/starford/moodmate/internal/location"
	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/moodstore"
	"github.com/starford/moodmate/internal/weather"
)

// DateInputLayout is the format accepted for selected dates.
const DateInputLayout = "2006-01-02"

// Event kinds passed to EventCallback.
const (
	EventEntrySaved     = "entry.saved"
	EventWeatherUpdated = "weather.updated"
)

// EventCallback is called after a saved entry or a weather change.
type EventCallback func(kind string, data any)

// EmojiOption is one palette button.
type EmojiOption struct {
	Emoji      string `json:"emoji"`
	Background string `json:"background"`
}

// ComposerUpdate carries the form fields to change; nil fields are left alone.
type ComposerUpdate struct {
	Emoji *string `json:"emoji,omitempty"`
	Text  *string `json:"text,omitempty"`
	Date  *string `json:"date,omitempty"`
}

// Service coordinates the mood log, the form and the weather tracker.
type Service struct {
	store   *moodstore.Store
	tracker *weather.Tracker
	locator location.Provider
	form    *composer.Composer
	logger  *slog.Logger
	now     func() time.Time
	onEvent EventCallback
}

// NewService creates a new mood service with a fresh form dated today.
func NewService(store *moodstore.Store, tracker *weather.Tracker, locator location.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:   store,
		tracker: tracker,
		locator: locator,
		logger:  logger,
		now:     time.Now,
	}
	s.form = composer.New(s.now())
	return s
}

// OnEvent registers the callback for saved entries and weather changes.
func (s *Service) OnEvent(cb EventCallback) {
	s.onEvent = cb
}

func (s *Service) emit(kind string, data any) {
	if s.onEvent != nil {
		s.onEvent(kind, data)
	}
}

// Entries returns the mood log in save order.
func (s *Service) Entries(_ context.Context) models.MoodLog {
	return s.store.Entries()
}

// Emojis returns the palette with each mood's background colour.
func (s *Service) Emojis() []EmojiOption {
	out := make([]EmojiOption, 0, len(models.Palette()))
	for _, e := range models.Palette() {
		out = append(out, EmojiOption{Emoji: string(e), Background: e.Background()})
	}
	return out
}

// Composer returns the current form.
func (s *Service) Composer(_ context.Context) composer.View {
	return s.form.View()
}

// UpdateComposer applies the given field changes to the form.
func (s *Service) UpdateComposer(_ context.Context, u ComposerUpdate) (composer.View, error) {
	if u.Date != nil {
		d, err := s.parseDate(*u.Date)
		if err != nil {
			return composer.View{}, err
		}
		s.form.SelectDate(d)
	}
	if u.Emoji != nil {
		s.form.SelectEmoji(*u.Emoji)
	}
	if u.Text != nil {
		s.form.SetText(*u.Text)
	}
	return s.form.View(), nil
}

// Save submits the form with the latest weather reading.
func (s *Service) Save(_ context.Context) (models.Entry, error) {
	return s.save(s.form)
}

// SaveEntry composes and saves an entry in one step without touching the
// shared form. An empty date means today.
func (s *Service) SaveEntry(_ context.Context, emoji, text, date string) (models.Entry, error) {
	d, err := s.parseDate(date)
	if err != nil {
		return models.Entry{}, err
	}
	f := composer.New(d)
	f.SelectEmoji(emoji)
	f.SetText(text)
	return s.save(f)
}

func (s *Service) save(f *composer.Composer) (models.Entry, error) {
	temp, ok := s.tracker.Current()
	entry, err := f.Save(temp, ok, s.store)
	if err != nil {
		if !composer.IsValidation(err) {
			s.logger.Error("save entry failed", slog.String("error", err.Error()))
		}
		return models.Entry{}, err
	}
	s.logger.Info("entry saved",
		slog.String("date", entry.Date),
		slog.String("temperature", entry.Temperature),
		slog.Int("count", s.store.Len()))
	s.emit(EventEntrySaved, entry)
	return entry, nil
}

// RefreshLocation asks the location provider for a position and, if one is
// obtained, fetches the weather there. A failure is recorded as the
// standing location message; it never blocks saving.
func (s *Service) RefreshLocation(ctx context.Context) weather.Readout {
	at, err := s.locator.Locate(ctx)
	if err != nil {
		s.logger.Warn("location unavailable", slog.String("error", err.Error()))
		s.tracker.SetLocationError(location.Message(err))
		r := s.tracker.Readout()
		s.emit(EventWeatherUpdated, r)
		return r
	}
	return s.SetLocation(ctx, at)
}

// SetLocation records a reported position and refreshes the weather.
func (s *Service) SetLocation(ctx context.Context, at models.Coordinates) weather.Readout {
	r := s.tracker.SetLocation(ctx, at)
	s.emit(EventWeatherUpdated, r)
	return r
}

// Weather returns the weather panel state.
func (s *Service) Weather(_ context.Context) weather.Readout {
	return s.tracker.Readout()
}

// Export writes the whole log as a PDF.
func (s *Service) Export(_ context.Context, w io.Writer) error {
	return export.WritePDF(w, s.store.Entries())
}

// Checksum identifies the persisted log.
func (s *Service) Checksum() string {
	return s.store.Checksum()
}

func (s *Service) parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return s.now(), nil
	}
	d, err := time.ParseInLocation(DateInputLayout, v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must look like %s", apperr.ErrValidation, DateInputLayout)
	}
	return d, nil
}
