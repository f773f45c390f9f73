// Package location obtains the device position used for weather lookups.
package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/starford/moodmate/internal/models"
)

var (
	// ErrUnsupported means no position source is configured.
	ErrUnsupported = errors.New("location: geolocation not supported")
	// ErrDenied means the source exists but refused or failed to answer.
	ErrDenied = errors.New("location: position unavailable")
)

// Standing messages shown in place of the weather readout.
const (
	MessageUnsupported = "Geolocation is not supported by your browser."
	MessageDenied      = "Unable to retrieve location. Please enable location services."
)

// Provider answers one-shot position queries. Implementations never retry.
type Provider interface {
	Locate(ctx context.Context) (models.Coordinates, error)
}

// Message maps a Locate error to the message the user sees.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupported):
		return MessageUnsupported
	default:
		return MessageDenied
	}
}

// Static reports a fixed, configured position.
type Static struct {
	coords *models.Coordinates
}

// NewStatic returns a provider for the given position; nil means unsupported.
func NewStatic(coords *models.Coordinates) *Static {
	return &Static{coords: coords}
}

// Locate returns the configured position.
func (s *Static) Locate(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrDenied, err)
	}
	if s.coords == nil {
		return models.Coordinates{}, ErrUnsupported
	}
	return *s.coords, nil
}

// Address is the postal address a Geocoder resolves.
type Address struct {
	City    string `yaml:"city" env:"CITY"`
	State   string `yaml:"state" env:"STATE"`
	Country string `yaml:"country" env:"COUNTRY"`
}

// IsZero reports whether no address was given.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.City) == "" && strings.TrimSpace(a.State) == "" && strings.TrimSpace(a.Country) == ""
}

// Geocoder resolves a configured address through the Google Geocoding API.
type Geocoder struct {
	address Address
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

// NewGeocoder creates a geocoding provider. The geocoder package keeps its
// API key in a package variable, so the key is installed here.
func NewGeocoder(apiKey string, address Address) *Geocoder {
	geocoder.ApiKey = apiKey
	return &Geocoder{address: address, lookup: geocoder.Geocoding}
}

// Locate geocodes the address. Lookup failures of any kind are reported as ErrDenied.
func (g *Geocoder) Locate(ctx context.Context) (models.Coordinates, error) {
	if strings.TrimSpace(g.address.City) == "" {
		return models.Coordinates{}, ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrDenied, err)
	}
	loc, err := g.lookup(geocoder.Address{
		City:    g.address.City,
		State:   g.address.State,
		Country: g.address.Country,
	})
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrDenied, err)
	}
	return models.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}
