// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/moodmate/internal/api"
	"github.com/starford/moodmate/internal/location"
	"github.com/starford/moodmate/internal/moodservice"
	"github.com/starford/moodmate/internal/moodstore"
	"github.com/starford/moodmate/internal/sse"
	"github.com/starford/moodmate/internal/storage"
	"github.com/starford/moodmate/internal/watch"
	"github.com/starford/moodmate/internal/weather"
)

// NewLogger returns the structured JSON logger used by every command.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// App is the assembled mood pipeline shared by the server and the CLI commands.
type App struct {
	Service *moodservice.Service
	Store   *moodstore.Store

	logFile string // set for the fs driver only
	closeFn func() error
}

// NewApp opens storage, loads the mood log and wires location, weather and
// the service. It does not ask for a location; callers that need the
// temperature call Service.RefreshLocation.
func NewApp(opts ...Option) (*App, error) {
	a := &application{}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := a.config

	logger := a.logger
	if logger == nil {
		logger = NewLogger(os.Stdout, cfg.App.LogLevel)
	}

	backend, closeFn, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Dir, cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	store, err := moodstore.Open(backend, cfg.Storage.Key, logger)
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("open mood log: %w", err)
	}

	var logFile string
	if fs, ok := backend.(*storage.FS); ok {
		logFile, _ = fs.Path(cfg.Storage.Key)
	}

	httpClient := a.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Weather.Timeout}
	}
	client := weather.NewClient(httpClient, cfg.Weather.BaseURL, cfg.Weather.APIKey, logger)
	if cfg.Weather.APIKey == "" {
		logger.Warn("weather api key is empty; entries will be saved without temperature")
	}

	svc := moodservice.NewService(store, weather.NewTracker(client), newLocator(cfg.Location), logger)

	return &App{
		Service: svc,
		Store:   store,
		logFile: logFile,
		closeFn: closeFn,
	}, nil
}

// Close releases storage.
func (a *App) Close() error {
	return a.closeFn()
}

func newLocator(cfg LocationConfig) location.Provider {
	if c := cfg.Coordinates(); c != nil {
		return location.NewStatic(c)
	}
	if !cfg.Address.IsZero() {
		return location.NewGeocoder(cfg.GeocodingKey, cfg.Address)
	}
	return location.NewStatic(nil)
}

// newHTTPServer builds the server. Shutdown closes the broker so open event
// streams end instead of holding the drain until its deadline.
func newHTTPServer(addr string, handler http.Handler, broker *sse.Broker) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(broker.Close)
	return srv
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	a := &application{}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := a.config

	logger := a.logger
	if logger == nil {
		logger = NewLogger(os.Stdout, cfg.App.LogLevel)
		opts = append(opts, WithLogger(logger))
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_key", cfg.Storage.Key),
		slog.String("log_level", cfg.App.LogLevel.String()))

	app, err := NewApp(opts...)
	if err != nil {
		return err
	}
	defer app.Close()

	// SSE broker.
	broker := sse.NewBroker(sse.WithSticky(moodservice.EventWeatherUpdated))
	defer broker.Close()
	app.Service.OnEvent(broker.Notify)

	readout := app.Service.RefreshLocation(ctx)
	logger.Info("Weather initialised",
		slog.Bool("available", readout.Available),
		slog.String("text", readout.Text),
		slog.String("location_error", readout.LocationError))

	apiRouter := api.NewRouter(app.Service, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := newHTTPServer(cfg.App.HTTP.Address(), r, broker)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(runCtx)

	// Report writes to the mood log file made by other processes.
	if app.logFile != "" {
		g.Go(func() error {
			return watch.Watch(gCtx, app.logFile, app.Store, logger, broker.Notify)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		stop()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
