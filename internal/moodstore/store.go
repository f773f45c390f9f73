// Package moodstore holds the mood log and keeps it written through to a storage backend.
package moodstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/moodmate/internal/apperr"
	"github.com/starford/moodmate/internal/checksum"
	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/storage"
)

// DefaultKey is the storage key the log is kept under.
const DefaultKey = "moodNotes"

// Store is the append-only mood log. The in-memory log always equals the
// last value successfully written to the backend.
type Store struct {
	backend storage.Backend
	key     string
	logger  *slog.Logger

	mu       sync.Mutex
	entries  models.MoodLog
	checksum string
}

// Open loads the log stored under key. Missing, unreadable or malformed
// data yields an empty log; those cases are logged, never returned.
func Open(backend storage.Backend, key string, logger *slog.Logger) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("moodstore: backend is required")
	}
	if key == "" {
		return nil, fmt.Errorf("moodstore: key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{backend: backend, key: key, logger: logger}
	s.entries = s.load()
	return s, nil
}

func (s *Store) load() models.MoodLog {
	data, err := s.backend.Get(s.key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.logger.Debug("moodstore: no saved notes", slog.String("key", s.key))
		} else {
			s.logger.Warn("moodstore: read failed, starting empty",
				slog.String("key", s.key), slog.String("error", err.Error()))
		}
		return models.MoodLog{}
	}

	var entries models.MoodLog
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		reason := "null document"
		if err != nil {
			reason = err.Error()
		}
		s.logger.Warn("moodstore: stored notes unreadable, starting empty",
			slog.String("key", s.key), slog.String("error", reason))
		return models.MoodLog{}
	}
	s.checksum = checksum.Sum(data)
	s.logger.Info("moodstore: loaded notes", slog.Int("count", len(entries)))
	return entries
}

// Append adds entry to the end of the log and writes the whole log to the
// backend before returning. On a write failure the log is left unchanged.
func (s *Store) Append(entry models.Entry) (models.MoodLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(models.MoodLog, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, entry)

	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("moodstore: encode: %w", err)
	}
	if err := s.backend.Set(s.key, data); err != nil {
		return nil, fmt.Errorf("moodstore: write: %w", err)
	}
	s.entries = next
	s.checksum = checksum.Sum(data)
	return clone(next), nil
}

// Entries returns a copy of the log in save order.
func (s *Store) Entries() models.MoodLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.entries)
}

// Len returns the number of saved entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Checksum returns the digest of the last document loaded or written,
// or "" when nothing has been persisted yet.
func (s *Store) Checksum() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checksum
}

func clone(l models.MoodLog) models.MoodLog {
	out := make(models.MoodLog, len(l))
	copy(out, l)
	return out
}
