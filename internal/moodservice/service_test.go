package moodservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/starford/moodmate/internal/apperr"
	"github.com/starford/moodmate/internal/composer"
	"github.com/starford/moodmate/internal/location"
	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/moodstore"
	"github.com/starford/moodmate/internal/storage"
	"github.com/starford/moodmate/internal/weather"
)

type fixedFetcher struct {
	temp weather.Kelvin
	ok   bool
}

func (f fixedFetcher) FetchTemperature(context.Context, models.Coordinates) (weather.Kelvin, bool) {
	return f.temp, f.ok
}

type recorded struct {
	kind string
	data any
}

func testService(t *testing.T, locator location.Provider, f weather.Fetcher) (*Service, *[]recorded) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store, err := moodstore.Open(storage.NewMemory(), moodstore.DefaultKey, logger)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(store, weather.NewTracker(f), locator, logger)
	var events []recorded
	svc.OnEvent(func(kind string, data any) {
		events = append(events, recorded{kind, data})
	})
	return svc, &events
}

func strPtr(s string) *string { return &s }

func TestPipeline_LocationWeatherSave(t *testing.T) {
	ctx := context.Background()
	loc := location.NewStatic(&models.Coordinates{Latitude: 40.4, Longitude: -3.7})
	svc, events := testService(t, loc, fixedFetcher{temp: 300.15, ok: true})

	r := svc.RefreshLocation(ctx)
	if !r.Available || *r.Celsius != 27 {
		t.Fatalf("readout = %+v", r)
	}

	v, err := svc.UpdateComposer(ctx, ComposerUpdate{
		Emoji: strPtr("😊"),
		Text:  strPtr("Good day"),
		Date:  strPtr("2024-03-15"),
	})
	if err != nil {
		t.Fatalf("UpdateComposer: %v", err)
	}
	if v.Date != "March 15, 2024" || v.Background != "#FFD700" {
		t.Errorf("view = %+v", v)
	}

	entry, err := svc.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := models.Entry{Emoji: "😊", Text: "Good day", Date: "March 15, 2024", Temperature: "27°C"}
	if entry != want {
		t.Errorf("entry = %+v", entry)
	}
	if got := svc.Entries(ctx); len(got) != 1 || got[0] != want {
		t.Errorf("entries = %+v", got)
	}
	after := svc.Composer(ctx)
	if after.Emoji != "" || after.Text != "" || after.Date != "March 15, 2024" {
		t.Errorf("form after save = %+v", after)
	}

	kinds := []string{}
	for _, e := range *events {
		kinds = append(kinds, e.kind)
	}
	if len(kinds) != 2 || kinds[0] != EventWeatherUpdated || kinds[1] != EventEntrySaved {
		t.Errorf("events = %v", kinds)
	}
}

func TestLocationFailureDoesNotBlockSaving(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t, location.NewStatic(nil), fixedFetcher{temp: 300, ok: true})

	r := svc.RefreshLocation(ctx)
	if r.Available || r.LocationError != location.MessageUnsupported {
		t.Errorf("readout = %+v", r)
	}

	entry, err := svc.SaveEntry(ctx, "😐", "indoors all day", "")
	if err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if entry.Temperature != models.TemperatureUnavailable {
		t.Errorf("temperature = %q", entry.Temperature)
	}
}

func TestSaveEntry_Validation(t *testing.T) {
	ctx := context.Background()
	svc, events := testService(t, location.NewStatic(nil), fixedFetcher{})

	_, err := svc.SaveEntry(ctx, "", "text", "")
	if !errors.Is(err, apperr.ErrValidation) || err.Error() != composer.MessageSelectEmoji {
		t.Errorf("err = %v", err)
	}
	_, err = svc.SaveEntry(ctx, "😄", "  ", "")
	if !errors.Is(err, apperr.ErrValidation) || err.Error() != composer.MessageWriteNote {
		t.Errorf("err = %v", err)
	}
	_, err = svc.SaveEntry(ctx, "😄", "ok", "15/03/2024")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad date err = %v", err)
	}
	if n := len(svc.Entries(ctx)); n != 0 {
		t.Errorf("entries = %d", n)
	}
	if len(*events) != 0 {
		t.Errorf("rejected saves emitted events: %v", *events)
	}
}

func TestSaveEntry_DoesNotTouchSharedForm(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t, location.NewStatic(nil), fixedFetcher{})
	_, _ = svc.UpdateComposer(ctx, ComposerUpdate{Text: strPtr("draft")})
	if _, err := svc.SaveEntry(ctx, "😊", "quick", "2024-01-02"); err != nil {
		t.Fatal(err)
	}
	if svc.Composer(ctx).Text != "draft" {
		t.Error("one-shot save changed the shared form")
	}
}

func TestEmojis(t *testing.T) {
	svc, _ := testService(t, location.NewStatic(nil), fixedFetcher{})
	opts := svc.Emojis()
	if len(opts) != 5 || opts[0].Emoji != "😊" || opts[4].Background != "#90EE90" {
		t.Errorf("emojis = %+v", opts)
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t, location.NewStatic(nil), fixedFetcher{})
	_, _ = svc.SaveEntry(ctx, "😊", "one", "2024-03-15")
	var buf bytes.Buffer
	if err := svc.Export(ctx, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("not a PDF")
	}
}
