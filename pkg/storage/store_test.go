package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/apina/pkg/logging"
	"github.com/getmockd/apina/pkg/value"
)

type countingBackend struct {
	db      *Database
	loadErr error
	saveErr error
	loads   int
	saves   int
}

func (b *countingBackend) Load() (*Database, error) {
	b.loads++
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.db.Clone(), nil
}

func (b *countingBackend) Save(db *Database) error {
	b.saves++
	if b.saveErr != nil {
		return b.saveErr
	}
	b.db = db.Clone()
	return nil
}

func (b *countingBackend) Name() string { return "counting" }

func obj(pairs ...any) *value.Object {
	o := value.NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		o.Set(pairs[i].(string), value.FromAny(pairs[i+1]))
	}
	return o
}

func TestStore_LazyLoadOnce(t *testing.T) {
	seed := NewDatabase()
	seed.Set("/gallery/1", obj("folder", "dir1"))
	b := &countingBackend{db: seed}
	s := New(b)

	assert.Equal(t, 0, b.loads)

	assert.True(t, s.HasObject("/gallery/1"))
	assert.Equal(t, []string{"/gallery/1"}, s.ListObjects())
	_, _ = s.GetObject("/gallery/1")
	assert.Equal(t, 1, b.loads)
}

func TestStore_FailedLoadStartsEmpty(t *testing.T) {
	log, mem := logging.NewMemory()
	b := &countingBackend{loadErr: errors.New("corrupt")}
	s := New(b, WithLogger(log))

	assert.Empty(t, s.ListObjects())
	assert.Empty(t, s.ListObjects())
	assert.Equal(t, 1, b.loads)
	assert.Contains(t, mem.Messages(), "failed to load database, starting empty")

	require.NoError(t, s.SetObjectMeta("/a/1", "k", value.String("v")))
	assert.Equal(t, []string{"/a/1"}, b.db.IDs())
}

func TestStore_EveryMutationPersists(t *testing.T) {
	b := &countingBackend{db: NewDatabase()}
	s := New(b)

	require.NoError(t, s.SetObject("/a/1", obj("x", 1)))
	require.NoError(t, s.SetObjectMeta("/a/1", "y", value.Int(2)))
	require.NoError(t, s.DeleteObject("/a/1"))
	require.NoError(t, s.DeleteObject("/missing"))
	assert.Equal(t, 4, b.saves)

	_ = s.ListObjects()
	_, _ = s.GetObjectMeta("/a/1", "x")
	assert.Equal(t, 4, b.saves)
}

func TestStore_SaveFailureWrapsErrPersist(t *testing.T) {
	b := &countingBackend{db: NewDatabase(), saveErr: errors.New("disk full")}
	s := New(b)

	err := s.SetObjectMeta("/a/1", "k", value.String("v"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Contains(t, err.Error(), "disk full")
}

func TestStore_FailedSaveLeavesDatabaseUnchanged(t *testing.T) {
	seed := NewDatabase()
	seed.Set("/a/1", obj("name", "one"))
	seed.Set("/a/2", obj("name", "two"))

	t.Run("SetObjectMeta on a new object", func(t *testing.T) {
		b := &countingBackend{db: seed.Clone(), saveErr: errors.New("disk full")}
		s := New(b)

		require.ErrorIs(t, s.SetObjectMeta("/a/3", "k", value.String("v")), ErrPersist)
		assert.False(t, s.HasObject("/a/3"))

		b.saveErr = nil
		require.NoError(t, s.SetObjectMeta("/b/1", "k", value.String("v")))
		_, ok := b.db.Get("/a/3")
		assert.False(t, ok, "rolled back object must not reach a later save")
	})

	t.Run("SetObjectMeta on an existing object", func(t *testing.T) {
		b := &countingBackend{db: seed.Clone(), saveErr: errors.New("disk full")}
		s := New(b)

		require.ErrorIs(t, s.SetObjectMeta("/a/1", "name", value.String("changed")), ErrPersist)
		v, ok := s.GetObjectMeta("/a/1", "name")
		require.True(t, ok)
		assert.Equal(t, value.String("one"), v)
	})

	t.Run("SetObject keeps the previous value", func(t *testing.T) {
		b := &countingBackend{db: seed.Clone(), saveErr: errors.New("disk full")}
		s := New(b)

		require.ErrorIs(t, s.SetObject("/a/1", obj("name", "replaced")), ErrPersist)
		got, ok := s.GetObject("/a/1")
		require.True(t, ok)
		v, _ := got.Get("name")
		assert.Equal(t, value.String("one"), v)
	})

	t.Run("DeleteObject keeps the object and its order", func(t *testing.T) {
		b := &countingBackend{db: seed.Clone(), saveErr: errors.New("disk full")}
		s := New(b)

		require.ErrorIs(t, s.DeleteObject("/a/1"), ErrPersist)
		assert.True(t, s.HasObject("/a/1"))
		assert.Equal(t, []string{"/a/1", "/a/2"}, s.ListObjects())
	})
}

func TestStore_Restore(t *testing.T) {
	b := &countingBackend{db: NewDatabase()}
	s := New(b)

	require.NoError(t, s.SetObjectMeta("/a/1", "k", value.String("v")))
	snap := s.Snapshot()
	require.NoError(t, s.SetObjectMeta("/a/2", "k", value.String("v")))
	require.NoError(t, s.DeleteObject("/a/1"))

	require.NoError(t, s.Restore(snap))
	assert.Equal(t, []string{"/a/1"}, s.ListObjects())
	assert.Equal(t, []string{"/a/1"}, b.db.IDs())

	// The snapshot stays independent of the store.
	require.NoError(t, s.SetObjectMeta("/a/1", "k", value.String("w")))
	v, _ := snap.Get("/a/1")
	kv, _ := v.Get("k")
	assert.Equal(t, value.String("v"), kv)
}

func TestStore_GetObjectReturnsCopy(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.SetObject("/a/1", obj("list", []any{"x"})))

	got, ok := s.GetObject("/a/1")
	require.True(t, ok)
	got.Set("list", value.List{})
	got.Set("extra", value.Bool(true))

	again, _ := s.GetObject("/a/1")
	assert.Equal(t, []string{"list"}, again.Keys())
	v, _ := s.GetObjectMeta("/a/1", "list")
	assert.Equal(t, value.List{value.String("x")}, v)
}

func TestStore_SetObjectMetaCreatesObject(t *testing.T) {
	s := NewMemory()

	_, ok := s.GetObjectMeta("/a/1", "k")
	assert.False(t, ok)

	require.NoError(t, s.SetObjectMeta("/a/1", "k", value.String("v")))
	require.NoError(t, s.SetObjectMeta("/a/1", "j", value.Int(1)))
	require.NoError(t, s.SetObjectMeta("/a/1", "k", value.String("w")))

	got, ok := s.GetObject("/a/1")
	require.True(t, ok)
	assert.Equal(t, []string{"k", "j"}, got.Keys())
	v, _ := got.Get("k")
	assert.Equal(t, value.String("w"), v)
}

func TestStore_ListObjectsKeepsInsertionOrder(t *testing.T) {
	s := NewMemory()
	for _, id := range []string{"/resource/gallery", "/gallery/b", "/gallery/a"} {
		require.NoError(t, s.SetObject(id, obj("k", "v")))
	}
	require.NoError(t, s.SetObject("/gallery/b", obj("k", "w")))

	assert.Equal(t, []string{"/resource/gallery", "/gallery/b", "/gallery/a"}, s.ListObjects())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Snapshot().Len())
}

func TestMemoryBackend_Seed(t *testing.T) {
	seed := NewDatabase()
	seed.Set("/a/1", obj("k", "v"))
	s := New(NewMemoryBackend(seed))

	require.NoError(t, s.DeleteObject("/a/1"))
	assert.False(t, s.HasObject("/a/1"))
	_, ok := seed.Get("/a/1")
	assert.True(t, ok, "seed must not be mutated by the store")
}

func TestOpen(t *testing.T) {
	b, err := Open("memory", "")
	require.NoError(t, err)
	assert.Equal(t, "memory", b.Name())

	b, err = Open("json", "/tmp/x.json")
	require.NoError(t, err)
	assert.Equal(t, "json", b.Name())

	_, err = Open("json", "")
	assert.Error(t, err)

	_, err = Open("redis", "x")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
