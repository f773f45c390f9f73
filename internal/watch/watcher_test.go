package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/moodmate/internal/models"
	"github.com/starford/moodmate/internal/moodstore"
	"github.com/starford/moodmate/internal/storage"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) cb(kind string, data any) {
	if kind != EventExternalChange {
		return
	}
	r.mu.Lock()
	r.changes = append(r.changes, data.(Change))
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func setup(t *testing.T) (*storage.FS, *moodstore.Store, string) {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store, err := moodstore.Open(fs, moodstore.DefaultKey, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	file, _ := fs.Path(moodstore.DefaultKey)
	return fs, store, file
}

func TestWatch_OwnWritesIgnored(t *testing.T) {
	_, store, file := setup(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	go Watch(ctx, file, store, logger, rec.cb)
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if _, err := store.Append(models.Entry{Emoji: "😊", Text: "mine", Date: "May 1, 2024", Temperature: "20°C"}); err != nil {
			t.Fatal(err)
		}
	}
	time.Sleep(500 * time.Millisecond)
	if n := rec.count(); n != 0 {
		t.Errorf("own writes reported as external: %d", n)
	}
}

func TestWatch_ForeignWriteReported(t *testing.T) {
	_, store, file := setup(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	go Watch(ctx, file, store, logger, rec.cb)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(file, []byte(`[{"emoji":"😡","text":"other tab","date":"x","temperature":"y"}]`), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.count() > 0
	}, "foreign write not reported")

	if store.Len() != 0 {
		t.Error("in-memory log must not be reloaded")
	}
}

func TestWatch_OtherFilesIgnored(t *testing.T) {
	fs, store, file := setup(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	go Watch(ctx, file, store, logger, rec.cb)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(fs.Root(), "unrelated.json"), []byte("{}"), 0o644)
	time.Sleep(400 * time.Millisecond)
	if n := rec.count(); n != 0 {
		t.Errorf("unrelated file reported: %d", n)
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	_, store, file := setup(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Watch(ctx, file, store, logger, nil) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
