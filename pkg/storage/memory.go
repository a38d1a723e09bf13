package storage

// MemoryBackend keeps nothing between processes. Load returns the seed (or
// an empty database); Save is a no-op.
type MemoryBackend struct {
	seed *Database
}

// NewMemoryBackend creates a MemoryBackend. seed may be nil.
func NewMemoryBackend(seed *Database) *MemoryBackend {
	return &MemoryBackend{seed: seed}
}

// Load returns a copy of the seed database.
func (b *MemoryBackend) Load() (*Database, error) {
	return b.seed.Clone(), nil
}

// Save does nothing.
func (b *MemoryBackend) Save(*Database) error {
	return nil
}

// Name returns "memory".
func (b *MemoryBackend) Name() string {
	return BackendMemory
}
