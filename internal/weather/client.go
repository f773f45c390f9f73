// Package weather fetches the current temperature for a position and keeps
// the latest reading for stamping new entries.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/starford/moodmate/internal/models"
)

// DefaultBaseURL is the OpenWeatherMap current-conditions endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var (
	errUnexpectedStatus = errors.New("unexpected status code")
	errMissingTemp      = errors.New("response has no main.temp")
)

// Fetcher returns the current temperature at a position. ok is false when
// no reading could be obtained.
type Fetcher interface {
	FetchTemperature(ctx context.Context, at models.Coordinates) (temp Kelvin, ok bool)
}

// Client talks to an OpenWeatherMap-compatible endpoint. Every call issues
// at most one request; after repeated failures the breaker rejects calls
// without touching the network until its timeout elapses.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	circuit    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a weather client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL, apiKey string, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "openweather",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		circuit:    cb,
		logger:     logger,
	}
}

// FetchTemperature requests the current temperature at the given position.
// Failures are logged and reported as unavailable.
func (c *Client) FetchTemperature(ctx context.Context, at models.Coordinates) (Kelvin, bool) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		return c.fetch(ctx, at)
	})
	if err != nil {
		c.logger.Error("weather: fetch failed",
			slog.Float64("lat", at.Latitude),
			slog.Float64("lon", at.Longitude),
			slog.String("error", err.Error()))
		return 0, false
	}
	return result.(Kelvin), true
}

func (c *Client) fetch(ctx context.Context, at models.Coordinates) (Kelvin, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	values.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	var payload struct {
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	if payload.Main.Temp == nil {
		return 0, errMissingTemp
	}
	return Kelvin(*payload.Main.Temp), nil
}
