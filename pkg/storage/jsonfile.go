package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFileBackend persists the database as a single JSON document.
type JSONFileBackend struct {
	Path string
}

// NewJSONFileBackend creates a backend storing the database at path.
func NewJSONFileBackend(path string) *JSONFileBackend {
	return &JSONFileBackend{Path: path}
}

// Load reads and validates the file. A missing file is an error; the Store
// recovers from it by starting empty.
func (b *JSONFileBackend) Load() (*Database, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.Path, err)
	}
	db := NewDatabase()
	if err := json.Unmarshal(data, db); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", b.Path, err)
	}
	return db, nil
}

// Save pretty-prints db and atomically replaces the file.
func (b *JSONFileBackend) Save(db *Database) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding database: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(b.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	// Atomic write: write to temp file, then rename
	tmpFile := b.Path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, b.Path); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	return nil
}

// Name returns "json".
func (b *JSONFileBackend) Name() string {
	return BackendJSON
}
