package internal

import (
	"context"
	"io"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/sse"
	"github.com/starford/moodmate/internal/storage"
)

func testConfig(t *testing.T, weatherURL string) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Storage.Dir = filepath.Join(t.TempDir(), "data")
	cfg.Weather.BaseURL = weatherURL
	cfg.Weather.APIKey = "test"
	lat, lon := 35.68, 139.69
	cfg.Location.Latitude, cfg.Location.Longitude = &lat, &lon
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestNewApp_SaveAndReopen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "" {
			t.Errorf("missing lat in %s", r.URL)
		}
		_, _ = io.WriteString(w, `{"main":{"temp":303.15}}`)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app, err := NewApp(WithConfig(cfg), WithLogger(logger), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	if app.logFile == "" {
		t.Error("fs driver should expose the log file for watching")
	}

	ctx := context.Background()
	if r := app.Service.RefreshLocation(ctx); !r.Available {
		t.Fatalf("readout = %+v", r)
	}
	entry, err := app.Service.SaveEntry(ctx, "😄", "Hot day", "2024-07-20")
	if err != nil {
		t.Fatal(err)
	}
	want := models.Entry{Emoji: "😄", Text: "Hot day", Date: "July 20, 2024", Temperature: "30°C"}
	if entry != want {
		t.Errorf("entry = %+v", entry)
	}
	_ = app.Close()

	reopened, err := NewApp(WithConfig(cfg), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got := reopened.Service.Entries(ctx)
	if len(got) != 1 || got[0] != want {
		t.Errorf("reopened log = %+v", got)
	}
}

func TestNewApp_SQLiteDriver(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Storage.Driver = storage.DriverSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "moodmate.db")

	app, err := NewApp(WithConfig(cfg), WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))))
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()
	if app.logFile != "" {
		t.Error("sqlite driver has no file to watch")
	}

	entry, err := app.Service.SaveEntry(context.Background(), "😐", "No reading", "")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Temperature != models.TemperatureUnavailable {
		t.Errorf("temperature = %q", entry.Temperature)
	}
}

func TestNewApp_RequiresConfig(t *testing.T) {
	if _, err := NewApp(); err == nil {
		t.Error("missing config should fail")
	}
}

func TestNewLocator(t *testing.T) {
	ctx := context.Background()
	lat, lon := 1.5, 2.5

	loc := newLocator(LocationConfig{Latitude: &lat, Longitude: &lon})
	got, err := loc.Locate(ctx)
	if err != nil || got.Latitude != lat || got.Longitude != lon {
		t.Errorf("static = %+v, %v", got, err)
	}

	if _, err := newLocator(LocationConfig{}).Locate(ctx); err == nil {
		t.Error("no location config should be unsupported")
	}
}

func TestHTTPServer_ShutdownEndsEventStreams(t *testing.T) {
	broker := sse.NewBroker()
	defer broker.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := newHTTPServer(ln.Addr().String(), broker, broker)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/events")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if d := time.Since(start); d > 2*time.Second {
		t.Errorf("shutdown waited %v with a stream open", d)
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("serve = %v", err)
	}
}
