package main

import (
	"testing"

	"github.com/starford/moodmate/internal/composer"
	"github.com/starford/moodmate/internal/models"
)

func TestSavedMessage(t *testing.T) {
	e := models.Entry{Emoji: "😊", Text: "Good day", Date: "March 15, 2024", Temperature: "27°C"}
	want := composer.MessageSaved + "\n😊 March 15, 2024  27°C  Good day\n"
	if got := savedMessage(e); got != want {
		t.Errorf("savedMessage = %q, want %q", got, want)
	}
}
