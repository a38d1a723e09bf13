package resource

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/apina/internal/id"
	"github.com/getmockd/apina/pkg/logging"
	"github.com/getmockd/apina/pkg/storage"
	"github.com/getmockd/apina/pkg/value"
)

// UpdateMode selects how missing required attributes are treated.
type UpdateMode int

const (
	// ModePost requires required attributes only when the object is new.
	ModePost UpdateMode = iota
	// ModePut requires every required attribute.
	ModePut
)

func (m UpdateMode) String() string {
	if m == ModePut {
		return "PUT"
	}
	return "POST"
}

// Resource is a view over the object "/<type>/<id>" in a Store. It holds no
// object data itself.
type Resource struct {
	store     *storage.Store
	typ       string
	id        string
	blobs     Blobs
	log       *slog.Logger
	lastError *ValidationError
}

// Option configures a Resource.
type Option func(*Resource)

// WithBlobs sets the blob store used by file: attributes. Without one,
// file: reads are absent and writes are ignored.
func WithBlobs(b Blobs) Option {
	return func(r *Resource) {
		r.blobs = b
	}
}

// WithLogger sets the logger for attribute diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resource) {
		r.log = logging.OrNop(log)
	}
}

// New creates a view of the object with the given type and id.
// id may be empty for an object that has not been created yet.
func New(store *storage.Store, resourceType, id string, opts ...Option) *Resource {
	r := &Resource{
		store: store,
		typ:   resourceType,
		id:    id,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromHref creates a view of the object at href. A malformed href gives
// an empty type and id.
func NewFromHref(store *storage.Store, href string, opts ...Option) *Resource {
	ref := ExplodeHref(href)
	return New(store, ref.Type, ref.ID, opts...)
}

// Href returns "/<type>/<id>".
func (r *Resource) Href() string {
	return Href(r.typ, r.id)
}

// ID returns the object id, which may have been generated by Unserialize.
func (r *Resource) ID() string {
	return r.id
}

// Type returns the resource type.
func (r *Resource) Type() string {
	return r.typ
}

// Exists reports whether an object is stored at Href.
func (r *Resource) Exists() bool {
	return r.store.HasObject(r.Href())
}

// LastError returns the validation error of the last Unserialize call, or nil.
func (r *Resource) LastError() *ValidationError {
	return r.lastError
}

// Schema loads the schema of the resource's type.
func (r *Resource) Schema() *Schema {
	return LoadSchema(r.store, r.typ)
}

// Attr reads the attribute name through its schema address.
func (r *Resource) Attr(name string) (value.Value, bool) {
	def, ok := r.Schema().Attribute(name)
	if !ok {
		return nil, false
	}
	return r.getAttr(def.Address)
}

// SetAttr writes v to the attribute name through its schema address.
// Names the schema does not define are ignored.
func (r *Resource) SetAttr(name string, v value.Value) error {
	def, ok := r.Schema().Attribute(name)
	if !ok {
		r.log.Debug("ignoring unknown attribute", "href", r.Href(), "attribute", name)
		return nil
	}
	return r.setAttr(def.Address, v)
}

func (r *Resource) getAttr(addr Address) (value.Value, bool) {
	switch addr.Kind {
	case AddressMeta:
		if addr.Name == "" {
			return nil, false
		}
		return r.store.GetObjectMeta(r.Href(), addr.Name)
	case AddressFile:
		if r.blobs == nil {
			return nil, false
		}
		data, err := r.blobs.ReadBlob(addr.Name)
		if err != nil {
			r.log.Debug("cannot read blob", "href", r.Href(), "blob", addr.Name, "error", err)
			return nil, false
		}
		return value.String(data), true
	default:
		return nil, false
	}
}

func (r *Resource) setAttr(addr Address, v value.Value) error {
	href := r.Href()
	switch addr.Kind {
	case AddressMeta:
		if addr.Name == "" {
			return nil
		}
		return r.store.SetObjectMeta(href, addr.Name, v)

	case AddressFile:
		s, ok := v.(value.String)
		if !ok || r.blobs == nil {
			return nil
		}
		if err := r.blobs.WriteBlob(addr.Name, []byte(s)); err != nil {
			return fmt.Errorf("writing blob %q: %w", addr.Name, err)
		}
		return nil

	case AddressListAdd, AddressListRemove:
		if addr.Name == "" {
			r.log.Debug("ignoring list address with empty name", "href", href, "source", addr.Raw)
			return nil
		}
		cur, _ := r.store.GetObjectMeta(href, addr.Name)
		list, ok := cur.(value.List)
		if !ok {
			list = value.List{}
		}
		if addr.Kind == AddressListAdd {
			list = append(list, value.Clone(v))
		} else {
			kept := value.List{}
			for _, item := range list {
				if !value.Equal(item, v) {
					kept = append(kept, item)
				}
			}
			list = kept
		}
		return r.store.SetObjectMeta(href, addr.Name, list)

	default:
		r.log.Debug("ignoring unknown attribute source", "href", href, "source", addr.Raw)
		return nil
	}
}

func (r *Resource) fail(err *ValidationError) error {
	r.lastError = err
	r.log.Debug("payload rejected", "href", r.Href(), "error", err.Message)
	return err
}

// Unserialize validates data against the type's schema and, when every
// check passes, writes the supplied attributes. Validation failures are
// returned as *ValidationError and recorded as LastError; any other error
// comes from storage. Attributes saved before a storage failure stay
// written; callers that need all-or-nothing restore a Store snapshot.
//
// A null field counts as absent.
func (r *Resource) Unserialize(data *value.Object, mode UpdateMode) error {
	r.lastError = nil
	if data.Len() == 0 {
		return r.fail(&ValidationError{Message: MsgEmpty})
	}
	if r.typ == ResourceType {
		return r.unserializeDefinition(data)
	}

	schema := r.Schema()
	if schema == nil {
		return r.fail(&ValidationError{Message: MsgNoAttributes})
	}

	newID := r.id
	known := false
	for _, attr := range schema.Attributes {
		v, present := field(data, attr.Name)
		if !present {
			if attr.Required && (mode == ModePut || !r.store.HasObject(Href(r.typ, newID))) {
				return r.fail(missingField(attr.Name))
			}
			continue
		}
		if value.Infer(v) != attr.Type {
			return r.fail(&ValidationError{Message: MsgInvalidValueType, Field: attr.Name})
		}
		known = true
		if s, ok := v.(value.String); ok && attr.Key && newID == "" {
			newID = r.freeID(string(s))
		}
	}
	if !known {
		return r.fail(&ValidationError{Message: MsgNoKnownAttribute})
	}
	if newID == "" {
		newID = r.freeID(id.Short())
	}
	r.id = newID

	for _, attr := range schema.Attributes {
		v, present := field(data, attr.Name)
		if !present {
			continue
		}
		if err := r.setAttr(attr.Address, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resource) unserializeDefinition(data *value.Object) error {
	if r.id == "" {
		return r.fail(&ValidationError{Message: MsgInvalidDefinition})
	}
	if err := ValidateDefinition(data); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		r.log.Debug("definition does not match", "href", r.Href(), "error", err)
		return r.fail(&ValidationError{Message: MsgInvalidDefinition})
	}

	var err error
	data.Range(func(name string, def value.Value) bool {
		err = r.setAttr(MetaAddress(name), def)
		return err == nil
	})
	return err
}

// freeID returns prefix, or prefix followed by 2, 3, ... when the id is taken.
func (r *Resource) freeID(prefix string) string {
	candidate := prefix
	for n := 2; r.store.HasObject(Href(r.typ, candidate)); n++ {
		candidate = prefix + strconv.Itoa(n)
	}
	return candidate
}

func field(data *value.Object, name string) (value.Value, bool) {
	v, ok := data.Get(name)
	if !ok || value.Infer(v) == value.KindNull {
		return nil, false
	}
	return v, true
}

// Serialize returns a copy of everything stored for the object, or an empty
// object when nothing is stored.
func (r *Resource) Serialize() *value.Object {
	obj, ok := r.store.GetObject(r.Href())
	if !ok {
		return value.NewObject()
	}
	return obj
}

// RemoveFromStorage deletes the object and reports whether it is gone.
func (r *Resource) RemoveFromStorage() (bool, error) {
	if err := r.store.DeleteObject(r.Href()); err != nil {
		return false, err
	}
	return !r.Exists(), nil
}
