package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getmockd/apina/pkg/logging"
	"github.com/getmockd/apina/pkg/message"
	"github.com/getmockd/apina/pkg/resource"
	"github.com/getmockd/apina/pkg/storage"
	"github.com/getmockd/apina/pkg/util"
	"github.com/getmockd/apina/pkg/value"
)

// MsgCannotRemove is returned when a deleted object is still present.
const MsgCannotRemove = "Cannot remove object from storage."

// Dispatcher answers requests against a Store. It is safe for concurrent
// use; requests are serialised.
type Dispatcher struct {
	mu       sync.Mutex
	store    *storage.Store
	blobs    resource.Blobs
	log      *slog.Logger
	observer Observer
	now      func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBlobs sets the blob store for file: attributes.
func WithBlobs(b resource.Blobs) Option {
	return func(d *Dispatcher) {
		d.blobs = b
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = logging.OrNop(log)
	}
}

// WithObserver sets the observer notified after every request.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o == nil {
			o = NoopObserver{}
		}
		d.observer = o
	}
}

// WithClock sets the time source used to stamp responses.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// New creates a Dispatcher over store.
func New(store *storage.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		log:      logging.Nop(),
		observer: NoopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the store the dispatcher operates on.
func (d *Dispatcher) Store() *storage.Store {
	return d.store
}

// result is a response code and payload before it is wrapped in a message.
type result struct {
	code int
	data value.Value
	err  statusError
}

func success(data value.Value) result {
	return result{code: http.StatusOK, data: data}
}

// statusError is implemented by the resource package's typed errors.
type statusError interface {
	error
	StatusCode() int
}

// hinter is implemented by errors that carry a suggestion for the client.
type hinter interface {
	Hint() string
}

func failure(err statusError) result {
	return result{code: err.StatusCode(), data: message.ErrorBody(err.Error()), err: err}
}

// mutating reports whether verb may write to the store.
func mutating(verb string) bool {
	switch verb {
	case message.VerbPost, message.VerbPut, message.VerbDelete:
		return true
	}
	return false
}

// Dispatch answers req. The returned error is non-nil only when storage
// failed; no response is produced in that case and the store is rolled
// back to its state before the request.
func (d *Dispatcher) Dispatch(req *message.Request) (*message.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	ref := resource.ExplodeHref(req.Object)

	var snapshot *storage.Database
	if mutating(req.Verb) {
		snapshot = d.store.Snapshot()
	}

	res, err := d.route(req)
	if err != nil {
		d.log.Error("request aborted",
			"verb", req.Verb,
			"object", req.Object,
			"error", err)
		if snapshot != nil {
			if rerr := d.store.Restore(snapshot); rerr != nil {
				d.log.Warn("failed to restore database after aborted request", "error", rerr)
			}
		}
		return nil, err
	}
	if res.err != nil {
		attrs := []any{"verb", req.Verb, "object", req.Object, "code", res.code, "error", res.err}
		if h, ok := res.err.(hinter); ok {
			attrs = append(attrs, "hint", h.Hint())
		}
		d.log.Debug("request rejected", attrs...)
	}

	resp := message.NewResponseAt(req, res.code, res.data, d.now())
	d.logMessage("request serialized", "request", req)
	d.logMessage("response serialized", "response", resp)

	d.observer.OnDispatch(req.Verb, ref.Type, resp.Code, time.Since(start))
	if c, ok := d.observer.(ObjectCounter); ok {
		c.ObserveObjects(d.store.Len())
	}
	return resp, nil
}

func (d *Dispatcher) logMessage(msg, key string, v json.Marshaler) {
	if !d.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	data, err := v.MarshalJSON()
	if err != nil {
		d.log.Debug(msg, "error", err)
		return
	}
	d.log.Debug(msg, key, util.TruncateBody(string(data), 0))
}

func (d *Dispatcher) route(req *message.Request) (result, error) {
	if req.Object == "/" {
		switch req.Verb {
		case message.VerbGet, message.VerbHead:
			return success(d.rootLinks()), nil
		case message.VerbDelete:
			if err := d.deleteAll(); err != nil {
				return result{}, err
			}
			return success(value.Empty()), nil
		}
		return unrecognized(false, req.Verb), nil
	}

	r := resource.NewFromHref(d.store, req.Object,
		resource.WithBlobs(d.blobs),
		resource.WithLogger(d.log))
	hasID := r.ID() != ""
	d.log.Debug("resolved resource", "href", r.Href(), "type", r.Type(), "id", r.ID())

	switch {
	case req.Verb == message.VerbGet || req.Verb == message.VerbHead:
		if !d.store.HasObject(resource.SchemaHref(r.Type())) {
			return failure(&resource.UnknownTypeError{Type: r.Type()}), nil
		}
		if hasID {
			if !r.Exists() {
				return failure(&resource.NotFoundError{Href: r.Href()}), nil
			}
			return success(representation(r)), nil
		}
		return success(d.collection(r.Type())), nil

	case req.Verb == message.VerbPost || req.Verb == message.VerbPut:
		mode := resource.ModePost
		if req.Verb == message.VerbPut {
			mode = resource.ModePut
		}
		if err := r.Unserialize(req.Payload(), mode); err != nil {
			var verr *resource.ValidationError
			if errors.As(err, &verr) {
				return failure(verr), nil
			}
			return result{}, err
		}
		return success(representation(r)), nil

	case req.Verb == message.VerbDelete && hasID:
		gone, err := r.RemoveFromStorage()
		if err != nil {
			return result{}, err
		}
		if !gone {
			return result{code: http.StatusInternalServerError, data: message.ErrorBody(MsgCannotRemove)}, nil
		}
		return success(value.Empty()), nil

	case req.Verb == message.VerbDelete:
		deleted, err := d.deleteCollection(req.Object)
		if err != nil {
			return result{}, err
		}
		return success(message.Hrefs(deleted)), nil
	}

	return unrecognized(hasID, req.Verb), nil
}

func unrecognized(single bool, verb string) result {
	scope := "multi"
	if single {
		scope = "single"
	}
	return result{
		code: http.StatusNotImplemented,
		data: message.ErrorBody("Unrecognized verb " + scope + " " + verb),
	}
}

func representation(r *resource.Resource) *value.Object {
	return message.HAL(r.Serialize(), message.SelfLinks(r.Href()), nil)
}

// rootLinks lists every registered type as {"_links": {type: {"href": "/type"}}}.
func (d *Dispatcher) rootLinks() *value.Object {
	links := value.NewObject()
	for _, href := range d.store.ListObjects() {
		ref := resource.ExplodeHref(href)
		if ref.Type != resource.ResourceType {
			continue
		}
		links.Set(ref.ID, message.Link("/"+ref.ID))
	}
	out := value.NewObject()
	out.Set("_links", links)
	return out
}

func (d *Dispatcher) collection(resourceType string) value.List {
	var hrefs []string
	for _, href := range d.store.ListObjects() {
		if resource.ExplodeHref(href).Type == resourceType {
			hrefs = append(hrefs, href)
		}
	}
	return message.Hrefs(hrefs)
}

func (d *Dispatcher) deleteAll() error {
	ids := d.store.ListObjects()
	for _, id := range ids {
		if err := d.store.DeleteObject(id); err != nil {
			return err
		}
	}
	d.log.Debug("deleted every object", "count", len(ids))
	return nil
}

// deleteCollection removes every object under path and then the schema of
// the type. The schema id is always reported last.
func (d *Dispatcher) deleteCollection(path string) ([]string, error) {
	prefix := path + "/"
	var deleted []string
	for _, id := range d.store.ListObjects() {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		deleted = append(deleted, id)
		if err := d.store.DeleteObject(id); err != nil {
			return nil, err
		}
	}

	schema := "/" + resource.ResourceType + path
	deleted = append(deleted, schema)
	if err := d.store.DeleteObject(schema); err != nil {
		return nil, err
	}
	return deleted, nil
}
