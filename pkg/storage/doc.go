// Package storage provides the flat key/value persistence layer behind apina.
//
// A Database maps object ids ("/type/id" or "/resource/type") to ordered
// field maps. The Store wraps a Database with lazy loading and write-through
// persistence: the backend is loaded once, on first access, and every
// mutation rewrites the whole database through the backend.
//
// Backends:
//
//   - MemoryBackend: ephemeral, optionally seeded
//   - JSONFileBackend: a pretty-printed JSON document replaced atomically
//   - SQLiteBackend: one row per object in an SQLite database
//
// A failed load is recovered by starting with an empty database. A failed
// save is returned as an error wrapping ErrPersist and must abort the
// operation that caused it.
package storage
