package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/moodmate/internal/location"
	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/moodstore"
	"github.com/starford/moodmate/internal/storage"
	"github.com/starford/moodmate/internal/weather"
)

// EnvPrefix prefixes every environment override, e.g. MOODMATE_APP_HTTP_PORT.
const EnvPrefix = "MOODMATE_"

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app" envPrefix:"APP_"`
	Storage  StorageConfig     `yaml:"storage" envPrefix:"STORAGE_"`
	Weather  WeatherConfig     `yaml:"weather" envPrefix:"WEATHER_"`
	Location LocationConfig    `yaml:"location" envPrefix:"LOCATION_"`
	Auth     AuthConfig        `yaml:"auth" envPrefix:"AUTH_"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Location.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" env:"LOG_LEVEL"`
	HTTP     HTTPConfig `yaml:"http" envPrefix:"HTTP_"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" env:"PORT"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StorageConfig selects where the mood log is kept.
type StorageConfig struct {
	Driver     string `yaml:"driver" env:"DRIVER"`
	Dir        string `yaml:"dir" env:"DIR"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	Key        string `yaml:"key" env:"KEY"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if c.Key == "" {
		c.Key = moodstore.DefaultKey
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(storage.DriverFS, storage.DriverSQLite)),
		validation.Field(&c.Dir, validation.When(c.Driver == storage.DriverFS, validation.Required)),
		validation.Field(&c.SQLitePath, validation.When(c.Driver == storage.DriverSQLite, validation.Required)),
	)
}

// WeatherConfig holds the weather service settings.
type WeatherConfig struct {
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Validate validates the weather configuration.
func (c *WeatherConfig) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = weather.DefaultBaseURL
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

// LocationConfig tells the server where the device is. Either fixed
// coordinates or a postal address resolved through Google geocoding may be
// given; with neither, location is reported as unsupported.
type LocationConfig struct {
	Latitude     *float64         `yaml:"latitude" env:"LATITUDE"`
	Longitude    *float64         `yaml:"longitude" env:"LONGITUDE"`
	Address      location.Address `yaml:"address" envPrefix:"ADDRESS_"`
	GeocodingKey string           `yaml:"geocoding_api_key" env:"GEOCODING_API_KEY"`
}

// Validate validates the location configuration.
func (c *LocationConfig) Validate() error {
	if (c.Latitude == nil) != (c.Longitude == nil) {
		return errors.New("location: latitude and longitude must be set together")
	}
	if c.Latitude != nil {
		if err := validation.Validate(*c.Latitude, validation.Min(-90.0), validation.Max(90.0)); err != nil {
			return fmt.Errorf("location: latitude: %w", err)
		}
		if err := validation.Validate(*c.Longitude, validation.Min(-180.0), validation.Max(180.0)); err != nil {
			return fmt.Errorf("location: longitude: %w", err)
		}
	}
	if !c.Address.IsZero() {
		if strings.TrimSpace(c.Address.City) == "" {
			return errors.New("location: address.city is required when an address is set")
		}
		if c.GeocodingKey == "" {
			return errors.New("location: address is set but geocoding_api_key is empty")
		}
	}
	return nil
}

// Coordinates returns the fixed position, if configured.
func (c *LocationConfig) Coordinates() *models.Coordinates {
	if c.Latitude == nil || c.Longitude == nil {
		return nil
	}
	return &models.Coordinates{Latitude: *c.Latitude, Longitude: *c.Longitude}
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode" env:"MODE"`
	Token string `yaml:"token" env:"TOKEN"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Storage: StorageConfig{
			Driver:     storage.DriverFS,
			Dir:        "./data",
			SQLitePath: "./moodmate.db",
			Key:        moodstore.DefaultKey,
		},
		Weather: WeatherConfig{
			BaseURL: weather.DefaultBaseURL,
			Timeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
