package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Open builds the backend for driver. The returned func releases it.
func Open(driver, dir, sqlitePath string) (Backend, func() error, error) {
	switch driver {
	case DriverFS, "":
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("storage: create data dir: %w", err)
		}
		fs, err := NewFS(dir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	case DriverSQLite:
		if d := filepath.Dir(sqlitePath); d != "." {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return nil, nil, fmt.Errorf("storage: create db dir: %w", err)
			}
		}
		db, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
