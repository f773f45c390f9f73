package weather

import (
	"fmt"
	"math"

	"github.com/starford/moodmate/internal/models"
)

// Kelvin is an absolute temperature as reported by the weather service.
type Kelvin float64

// ToCelsius converts k to whole degrees Celsius, rounding half away from zero.
func ToCelsius(k Kelvin) int {
	return int(math.Round(float64(k) - 273.15))
}

// FormatCelsius renders k the way entries store temperatures, e.g. "27°C".
func FormatCelsius(k Kelvin) string {
	return fmt.Sprintf("%d°C", ToCelsius(k))
}

// StampFor returns the temperature string to save with a new entry.
func StampFor(k Kelvin, ok bool) string {
	if !ok {
		return models.TemperatureUnavailable
	}
	return FormatCelsius(k)
}

// Icon picks the readout symbol for a Celsius value.
func Icon(celsius int) string {
	switch {
	case celsius >= 30:
		return "☀️"
	case celsius >= 20:
		return "🌤️"
	case celsius >= 10:
		return "☁️"
	default:
		return "❄️"
	}
}
