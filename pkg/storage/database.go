package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getmockd/apina/pkg/value"
)

// ErrInvalidDatabase is returned when a serialized database is not a
// two-level mapping with non-empty string keys.
var ErrInvalidDatabase = errors.New("invalid database document")

// Database maps object ids to stored objects, remembering insertion order.
type Database struct {
	ids     []string
	objects map[string]*value.Object
}

// NewDatabase creates an empty Database.
func NewDatabase() *Database {
	return &Database{objects: make(map[string]*value.Object)}
}

// Len returns the number of objects.
func (d *Database) Len() int {
	if d == nil {
		return 0
	}
	return len(d.ids)
}

// IDs returns the object ids in insertion order.
func (d *Database) IDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, len(d.ids))
	copy(ids, d.ids)
	return ids
}

// Get returns the object stored under id. The object is not copied.
func (d *Database) Get(id string) (*value.Object, bool) {
	if d == nil {
		return nil, false
	}
	obj, ok := d.objects[id]
	return obj, ok
}

// Set stores obj under id. A new id is appended; an existing id keeps its position.
func (d *Database) Set(id string, obj *value.Object) {
	if d.objects == nil {
		d.objects = make(map[string]*value.Object)
	}
	if obj == nil {
		obj = value.NewObject()
	}
	if _, ok := d.objects[id]; !ok {
		d.ids = append(d.ids, id)
	}
	d.objects[id] = obj
}

// Delete removes id. It reports whether the id was present.
func (d *Database) Delete(id string) bool {
	if d == nil {
		return false
	}
	if _, ok := d.objects[id]; !ok {
		return false
	}
	delete(d.objects, id)
	for i, k := range d.ids {
		if k == id {
			d.ids = append(d.ids[:i], d.ids[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy.
func (d *Database) Clone() *Database {
	out := NewDatabase()
	if d == nil {
		return out
	}
	for _, id := range d.ids {
		out.Set(id, d.objects[id].Clone())
	}
	return out
}

// MarshalJSON writes the database as a JSON object in insertion order.
func (d *Database) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range d.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		ob, err := d.objects[id].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(ob)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the database with the decoded document. The
// document must be an object whose members are all objects, with non-empty
// keys at both levels.
func (d *Database) UnmarshalJSON(data []byte) error {
	v, err := value.Parse(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDatabase, err)
	}
	db, err := fromValue(v)
	if err != nil {
		return err
	}
	*d = *db
	return nil
}

func fromValue(v value.Value) (*Database, error) {
	root, ok := v.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("%w: root is not an object", ErrInvalidDatabase)
	}
	db := NewDatabase()
	var err error
	root.Range(func(id string, item value.Value) bool {
		obj, ok := item.(*value.Object)
		if id == "" || !ok {
			err = fmt.Errorf("%w: entry %q is not an object", ErrInvalidDatabase, id)
			return false
		}
		for _, k := range obj.Keys() {
			if k == "" {
				err = fmt.Errorf("%w: entry %q has an empty field name", ErrInvalidDatabase, id)
				return false
			}
		}
		db.Set(id, obj)
		return true
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
