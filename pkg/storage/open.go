package storage

import (
	"errors"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backends lists the names accepted by Open.
func Backends() []string {
	return []string{BackendMemory, BackendJSON, BackendSQLite}
}

// Open creates the backend named kind. path is ignored for memory.
// Backends holding resources (sqlite) implement io.Closer.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case BackendMemory, "":
		return NewMemoryBackend(nil), nil
	case BackendJSON:
		if path == "" {
			return nil, errors.New("json backend requires a path")
		}
		return NewJSONFileBackend(path), nil
	case BackendSQLite:
		if path == "" {
			return nil, errors.New("sqlite backend requires a path")
		}
		b, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
