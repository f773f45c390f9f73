package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/moodmate/internal/apperr"
)

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "moodmate-test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLite_SchemaCreation(t *testing.T) {
	db := testSQLite(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM kv`).Scan(&count); err != nil {
		t.Fatalf("kv table missing: %v", err)
	}
}

func TestSQLite_SetGetOverwrite(t *testing.T) {
	db := testSQLite(t)
	if _, err := db.Get("moodNotes"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Get on empty db = %v, want ErrNotFound", err)
	}
	if err := db.Set("moodNotes", []byte("[]")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := db.Set("moodNotes", []byte(`[{"emoji":"😡"}]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := db.Get("moodNotes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"emoji":"😡"}]` {
		t.Errorf("value = %q", got)
	}

	var rows int
	_ = db.conn.QueryRow(`SELECT count(*) FROM kv`).Scan(&rows)
	if rows != 1 {
		t.Errorf("rows = %d, want 1", rows)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = db.Set("moodNotes", []byte("[1]"))
	db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, err := db.Get("moodNotes")
	if err != nil || string(got) != "[1]" {
		t.Errorf("after reopen got %q, %v", got, err)
	}
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	_ = m.Set("k", buf)
	buf[0] = 'z'
	got, _ := m.Get("k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: %q", got)
	}
}
