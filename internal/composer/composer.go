// Package composer implements the entry form: it collects an emoji, a note
// and a date, validates them and hands the finished entry to the mood store.
package composer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/moodmate/internal/apperr"
	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/weather"
)

// Validation and confirmation messages.
const (
	MessageSelectEmoji = "Please select an emoji."
	MessageWriteNote   = "Please write a note."
	MessageSaved       = "Mood saved successfully!"
)

// State is the form's position in its save cycle.
type State string

const (
	StateComposing State = "composing"
	StateInvalid   State = "invalid"
	StateReady     State = "ready"
)

// Appender persists a finished entry.
type Appender interface {
	Append(entry models.Entry) (models.MoodLog, error)
}

// ValidationError reports why a save attempt was rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Unwrap lets callers match apperr.ErrValidation.
func (e *ValidationError) Unwrap() error { return apperr.ErrValidation }

// View is a read-only copy of the form.
type View struct {
	Emoji      string `json:"emoji"`
	Text       string `json:"text"`
	Date       string `json:"date"`
	State      State  `json:"state"`
	Error      string `json:"error,omitempty"`
	Background string `json:"background"`
}

// Composer holds the in-progress entry. The selected date survives a
// successful save; emoji and text do not.
type Composer struct {
	mu     sync.Mutex
	emoji  string
	text   string
	date   time.Time
	state  State
	reason string
}

// New returns an empty form with the date set to today.
func New(now time.Time) *Composer {
	return &Composer{date: now, state: StateComposing}
}

// SelectEmoji sets the mood symbol.
func (c *Composer) SelectEmoji(e string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emoji = e
	c.touch()
}

// SetText sets the note body.
func (c *Composer) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.touch()
}

// SelectDate sets the date the entry is recorded for.
func (c *Composer) SelectDate(d time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = d
	c.touch()
}

// touch returns the form to composing after an edit. Callers hold mu.
func (c *Composer) touch() {
	c.state = StateComposing
	c.reason = ""
}

// View returns the current form contents.
func (c *Composer) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Emoji:      c.emoji,
		Text:       c.text,
		Date:       models.FormatDate(c.date),
		State:      c.state,
		Error:      c.reason,
		Background: models.Emoji(c.emoji).Background(),
	}
}

// Save validates the form, stamps the entry with the given reading (or the
// unavailable sentinel) and appends it. On success emoji and text are
// cleared. A rejected or failed attempt leaves the content untouched so the
// user can correct it and try again.
func (c *Composer) Save(temp weather.Kelvin, haveTemp bool, store Appender) (models.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validate(); err != nil {
		c.state = StateInvalid
		c.reason = err.Error()
		return models.Entry{}, &ValidationError{Reason: c.reason}
	}
	c.state = StateReady
	c.reason = ""

	entry := models.Entry{
		Emoji:       c.emoji,
		Text:        c.text,
		Date:        models.FormatDate(c.date),
		Temperature: weather.StampFor(temp, haveTemp),
	}
	if _, err := store.Append(entry); err != nil {
		c.state = StateComposing
		return models.Entry{}, fmt.Errorf("composer: save: %w", err)
	}

	c.emoji = ""
	c.text = ""
	c.state = StateComposing
	return entry, nil
}

func (c *Composer) validate() error {
	if err := validation.Validate(c.emoji,
		validation.Required.Error(MessageSelectEmoji),
		validation.By(inPalette),
	); err != nil {
		return err
	}
	return validation.Validate(strings.TrimSpace(c.text),
		validation.Required.Error(MessageWriteNote),
	)
}

func inPalette(value interface{}) error {
	if s, _ := value.(string); !models.Emoji(s).Valid() {
		return errors.New(MessageSelectEmoji)
	}
	return nil
}

// IsValidation reports whether err is a rejected save attempt.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
