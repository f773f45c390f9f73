// Package testutil provides shared test helpers for building mood stores and services.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/moodmate/internal/location"
	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/moodservice"
	"github.com/starford/moodmate/internal/moodstore"
	"github.com/starford/moodmate/internal/storage"
	"github.com/starford/moodmate/internal/weather"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestSQLite creates a temporary SQLite backend that is automatically cleaned up.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "moodmate-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := storage.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestFS creates a temporary directory backend.
func TestFS(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// FixedWeather is a weather.Fetcher that always returns the same reading.
type FixedWeather struct {
	Temp  weather.Kelvin
	OK    bool
	Calls int
}

// FetchTemperature implements weather.Fetcher.
func (f *FixedWeather) FetchTemperature(_ context.Context, _ models.Coordinates) (weather.Kelvin, bool) {
	f.Calls++
	return f.Temp, f.OK
}

// Berlin is a fixed position used across tests.
var Berlin = models.Coordinates{Latitude: 52.52, Longitude: 13.405}

// TestService builds a service over an in-memory backend. A nil fetcher
// reports no weather; a nil locator is treated as an unsupported device.
func TestService(t *testing.T, fetcher weather.Fetcher, locator location.Provider) (*moodservice.Service, *moodstore.Store) {
	t.Helper()
	if fetcher == nil {
		fetcher = &FixedWeather{}
	}
	if locator == nil {
		locator = location.NewStatic(nil)
	}
	store, err := moodstore.Open(storage.NewMemory(), moodstore.DefaultKey, Logger())
	if err != nil {
		t.Fatal(err)
	}
	svc := moodservice.NewService(store, weather.NewTracker(fetcher), locator, Logger())
	return svc, store
}
