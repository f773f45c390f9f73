// Package models defines the domain types for MoodMate.
package models

import "time"

// DateLayout is the long en-US form entries are stamped with, e.g. "March 15, 2024".
const DateLayout = "January 2, 2006"

// TemperatureUnavailable is stored when no weather reading exists at save time.
const TemperatureUnavailable = "Temperature not available"

// Emoji is one of the supported mood symbols.
type Emoji string

// Supported moods, in palette order.
const (
	EmojiHappy   Emoji = "😊"
	EmojiNeutral Emoji = "😐"
	EmojiSad     Emoji = "😢"
	EmojiAngry   Emoji = "😡"
	EmojiJoyful  Emoji = "😄"
)

// DefaultBackground is the composer colour when no emoji is selected.
const DefaultBackground = "#DDA580"

var backgrounds = map[Emoji]string{
	EmojiHappy:   "#FFD700",
	EmojiNeutral: "#D3D3D3",
	EmojiSad:     "#87CEEB",
	EmojiAngry:   "#FF6347",
	EmojiJoyful:  "#90EE90",
}

// Palette returns the supported emojis in display order.
func Palette() []Emoji {
	return []Emoji{EmojiHappy, EmojiNeutral, EmojiSad, EmojiAngry, EmojiJoyful}
}

// Valid reports whether e belongs to the palette.
func (e Emoji) Valid() bool {
	_, ok := backgrounds[e]
	return ok
}

// Background returns the composer colour associated with e.
func (e Emoji) Background() string {
	if c, ok := backgrounds[e]; ok {
		return c
	}
	return DefaultBackground
}

// Entry is one saved mood observation. It is never modified after creation.
type Entry struct {
	Emoji       string `json:"emoji"`
	Text        string `json:"text"`
	Date        string `json:"date"`
	Temperature string `json:"temperature"`
}

// MoodLog is the ordered history of entries, in save order.
type MoodLog []Entry

// Coordinates is a geographic position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FormatDate renders t the way entries store their date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
