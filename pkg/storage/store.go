package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getmockd/apina/pkg/logging"
	"github.com/getmockd/apina/pkg/value"
)

// ErrPersist wraps every failure to save the database.
var ErrPersist = errors.New("cannot persist database")

// Backend loads and saves a whole Database.
type Backend interface {
	// Load returns the persisted database.
	Load() (*Database, error)
	// Save replaces the persisted database with db.
	Save(db *Database) error
	// Name identifies the backend in logs.
	Name() string
}

// Store is the object store used by resources and the dispatcher.
// It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend Backend
	log     *slog.Logger
	db      *Database
	loaded  bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		s.log = logging.OrNop(log)
	}
}

// New creates a Store over backend. Nothing is loaded until first access.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMemory creates a Store over an empty MemoryBackend.
func NewMemory(opts ...Option) *Store {
	return New(NewMemoryBackend(nil), opts...)
}

// Backend returns the backend the store persists through.
func (s *Store) Backend() Backend {
	return s.backend
}

// load must be called with mu held.
func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	db, err := s.backend.Load()
	if err != nil {
		s.log.Warn("failed to load database, starting empty",
			"backend", s.backend.Name(),
			"error", err)
		s.db = NewDatabase()
		return
	}
	if db == nil {
		db = NewDatabase()
	}
	s.db = db
	s.log.Debug("database loaded", "backend", s.backend.Name(), "objects", db.Len())
}

// persist must be called with mu held.
func (s *Store) persist() error {
	if err := s.backend.Save(s.db); err != nil {
		s.log.Error("failed to save database", "backend", s.backend.Name(), "error", err)
		return fmt.Errorf("%w: %s: %w", ErrPersist, s.backend.Name(), err)
	}
	return nil
}

// ListObjects returns all object ids in database order.
func (s *Store) ListObjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.db.IDs()
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.db.Len()
}

// HasObject reports whether an object is stored under id.
func (s *Store) HasObject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	_, ok := s.db.Get(id)
	return ok
}

// GetObject returns a copy of the object stored under id.
func (s *Store) GetObject(id string) (*value.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	obj, ok := s.db.Get(id)
	if !ok {
		return nil, false
	}
	return obj.Clone(), true
}

// mutate applies fn to the database and persists it. When persisting fails
// the database is left as it was before fn. mu must be held.
func (s *Store) mutate(fn func(db *Database)) error {
	s.load()
	prev := s.db.Clone()
	fn(s.db)
	if err := s.persist(); err != nil {
		s.db = prev
		return err
	}
	return nil
}

// SetObject replaces the object stored under id and persists the database.
func (s *Store) SetObject(id string, obj *value.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(func(db *Database) {
		db.Set(id, obj.Clone())
	})
}

// DeleteObject removes the object stored under id, if any, and persists the database.
func (s *Store) DeleteObject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(func(db *Database) {
		db.Delete(id)
	})
}

// GetObjectMeta returns a copy of field key of the object stored under id.
func (s *Store) GetObjectMeta(id, key string) (value.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	obj, ok := s.db.Get(id)
	if !ok {
		return nil, false
	}
	v, ok := obj.Get(key)
	if !ok {
		return nil, false
	}
	return value.Clone(v), true
}

// SetObjectMeta stores v as field key of the object under id, creating the
// object if needed, and persists the database.
func (s *Store) SetObjectMeta(id, key string, v value.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(func(db *Database) {
		obj, ok := db.Get(id)
		if !ok {
			obj = value.NewObject()
			db.Set(id, obj)
		}
		obj.Set(key, value.Clone(v))
	})
}

// Restore replaces the whole database with a copy of db, typically a
// Snapshot taken before a multi-step operation, and persists it. The
// in-memory database is replaced even when persisting fails.
func (s *Store) Restore(db *Database) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.db = db.Clone()
	return s.persist()
}

// Snapshot returns a deep copy of the whole database.
func (s *Store) Snapshot() *Database {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.db.Clone()
}
