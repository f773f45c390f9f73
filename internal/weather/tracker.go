package weather

import (
	"context"
	"sync"
	"time"

	"github.com/starford/moodmate/internal/models"
)

// LoadingText is shown while no reading is available.
const LoadingText = "Loading..."

// Readout is the weather panel state.
type Readout struct {
	Available     bool                `json:"available"`
	Celsius       *int                `json:"celsius,omitempty"`
	Icon          string              `json:"icon,omitempty"`
	Text          string              `json:"text"`
	Location      *models.Coordinates `json:"location,omitempty"`
	LocationError string              `json:"location_error,omitempty"`
	FetchedAt     *time.Time          `json:"fetched_at,omitempty"`
}

// Tracker keeps the latest reading for the current location. A reading is
// only ever replaced by a fetch for a newer location report; there is no
// expiry and no periodic refresh.
type Tracker struct {
	fetcher Fetcher
	now     func() time.Time

	mu        sync.RWMutex
	gen       uint64
	location  *models.Coordinates
	temp      Kelvin
	ok        bool
	fetchedAt time.Time
	locErr    string
	pending   chan struct{} // closed when the fetch for gen ends
}

// NewTracker creates a tracker with no location and no reading.
func NewTracker(fetcher Fetcher) *Tracker {
	return &Tracker{fetcher: fetcher, now: time.Now}
}

// SetLocation records a new location and fetches the temperature there. A
// report equal to the current location only refetches when the previous
// attempt produced no reading; while that attempt is still running the
// caller waits for it instead. The fetch runs without holding the lock;
// if a newer report arrives meanwhile, this result is discarded.
func (t *Tracker) SetLocation(ctx context.Context, at models.Coordinates) Readout {
	t.mu.Lock()
	if t.location != nil && *t.location == at {
		if t.ok {
			t.mu.Unlock()
			return t.Readout()
		}
		if wait := t.pending; wait != nil {
			t.mu.Unlock()
			select {
			case <-wait:
			case <-ctx.Done():
			}
			return t.Readout()
		}
	}
	t.gen++
	gen := t.gen
	loc := at
	t.location = &loc
	t.locErr = ""
	t.ok = false
	done := make(chan struct{})
	t.pending = done
	t.mu.Unlock()

	temp, ok := t.fetcher.FetchTemperature(ctx, at)

	t.mu.Lock()
	if gen == t.gen {
		t.temp, t.ok = temp, ok
		if ok {
			t.fetchedAt = t.now()
		}
		t.pending = nil
	}
	t.mu.Unlock()
	close(done)
	return t.Readout()
}

// SetLocationError records why no location is available. Any earlier
// reading is dropped so new entries fall back to the unavailable sentinel.
func (t *Tracker) SetLocationError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.location = nil
	t.ok = false
	t.pending = nil
	t.locErr = msg
}

// Current returns the latest reading, if any.
func (t *Tracker) Current() (Kelvin, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.temp, t.ok
}

// Readout returns the weather panel state.
func (t *Tracker) Readout() Readout {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r := Readout{Text: LoadingText, LocationError: t.locErr}
	if t.location != nil {
		loc := *t.location
		r.Location = &loc
	}
	if t.ok {
		c := ToCelsius(t.temp)
		at := t.fetchedAt
		r.Available = true
		r.Celsius = &c
		r.Icon = Icon(c)
		r.Text = r.Icon + " " + FormatCelsius(t.temp)
		r.FetchedAt = &at
	}
	return r
}
