package api

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/apina/pkg/dispatch"
	"github.com/getmockd/apina/pkg/logging"
	"github.com/getmockd/apina/pkg/metrics"
	"github.com/getmockd/apina/pkg/storage"
)

const gallerySchema = `{"folder": {"source": "meta:folder", "type": "string", "required": true, "key": true},
	"title": {"source": "meta:title", "type": "string"}}`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	d := dispatch.New(storage.NewMemory())
	ts := httptest.NewServer(NewServer(d, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path, contentType, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(out)
}

const jsonType = "application/json"

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	resp, body := call(t, ts, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

type countingObserver struct {
	mu    sync.Mutex
	verbs []string
}

func (o *countingObserver) OnDispatch(verb, _ string, _ int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.verbs = append(o.verbs, verb)
}

func TestServer_HealthIsNotDispatched(t *testing.T) {
	obs := &countingObserver{}
	d := dispatch.New(storage.NewMemory(), dispatch.WithObserver(obs))
	ts := httptest.NewServer(NewServer(d).Handler())
	t.Cleanup(ts.Close)

	resp, body := call(t, ts, http.MethodHead, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, int64(len(`{"status":"ok"}`)), resp.ContentLength)

	resp, _ = call(t, ts, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, obs.verbs)

	// With a prefix, resource paths no longer collide with /healthz.
	ts = newTestServer(t, WithPathPrefix("/api"))
	resp, body = call(t, ts, http.MethodPut, "/api/resource/healthz", jsonType, gallerySchema)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	resp, body = call(t, ts, http.MethodGet, "/api/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[]`, body)
}

func TestServer_OutOfRangeNumberBody(t *testing.T) {
	ts := newTestServer(t)
	schema := `{"name": {"source": "meta:name", "type": "string", "key": true},
		"ratio": {"source": "meta:ratio", "type": "float"}}`
	resp, body := call(t, ts, http.MethodPut, "/resource/sample", jsonType, schema)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = call(t, ts, http.MethodPost, "/sample", jsonType, `{"name": "a", "ratio": 1e400}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"message":"Invalid object data; empty."}}`, body)

	resp, body = call(t, ts, http.MethodPost, "/sample", jsonType, `{"name": "a", "ratio": 1.5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"name":"a","ratio":1.5,"_links":{"self":{"href":"/sample/a"}}}`, body)
}

func TestServer_CRUD(t *testing.T) {
	ts := newTestServer(t)

	resp, body := call(t, ts, http.MethodPut, "/resource/gallery", jsonType, gallerySchema)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, body = call(t, ts, http.MethodPut, "/gallery/1", jsonType, `{"folder": "dir1", "title": "One"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"folder":"dir1","title":"One","_links":{"self":{"href":"/gallery/1"}}}`, body)

	resp, body = call(t, ts, http.MethodGet, "/gallery", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `["/gallery/1"]`, body)

	resp, body = call(t, ts, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"_links":{"gallery":{"href":"/gallery"}}}`, body)

	resp, body = call(t, ts, http.MethodDelete, "/gallery/1", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[]`, body)

	resp, body = call(t, ts, http.MethodGet, "/gallery/1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"error"`)
}

func TestServer_Head(t *testing.T) {
	ts := newTestServer(t)
	call(t, ts, http.MethodPut, "/resource/gallery", jsonType, gallerySchema)
	call(t, ts, http.MethodPut, "/gallery/1", jsonType, `{"folder": "dir1"}`)

	resp, body := call(t, ts, http.MethodHead, "/gallery/1", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "2", resp.Header.Get("Content-Length"))

	resp, _ = call(t, ts, http.MethodHead, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_BodyHandling(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantCode    int
	}{
		{"json object", jsonType, gallerySchema, http.StatusOK},
		{"json with charset", "application/json; charset=utf-8", gallerySchema, http.StatusOK},
		{"plain text ignored", "text/plain", gallerySchema, http.StatusBadRequest},
		{"no content type", "", gallerySchema, http.StatusBadRequest},
		{"json array", jsonType, `[1, 2]`, http.StatusBadRequest},
		{"malformed json", jsonType, `{"folder":`, http.StatusBadRequest},
		{"empty body", jsonType, "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			resp, body := call(t, ts, http.MethodPut, "/resource/gallery", tt.contentType, tt.body)
			assert.Equal(t, tt.wantCode, resp.StatusCode, body)
			if tt.wantCode == http.StatusBadRequest {
				assert.JSONEq(t, `{"error":{"message":"Invalid object data; empty."}}`, body)
			}
		})
	}
}

func TestServer_PathPrefix(t *testing.T) {
	ts := newTestServer(t, WithPathPrefix("/api/"))

	resp, body := call(t, ts, http.MethodPut, "/api/resource/gallery", jsonType, gallerySchema)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"href":"/resource/gallery"`)

	resp, body = call(t, ts, http.MethodGet, "/api", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"_links":{"gallery":{"href":"/gallery"}}}`, body)

	// paths outside the prefix are dispatched unchanged
	resp, _ = call(t, ts, http.MethodGet, "/gallery", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ObjectPath(t *testing.T) {
	s := NewServer(dispatch.New(storage.NewMemory()), WithPathPrefix("/api"))

	tests := map[string]string{
		"/api":           "/",
		"/api/":          "/",
		"/api/gallery/1": "/gallery/1",
		"/apiary":        "/apiary",
		"/gallery":       "/gallery",
		"/":              "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, s.objectPath(in), in)
	}
}

func TestServer_Unrecognized(t *testing.T) {
	ts := newTestServer(t)

	resp, body := call(t, ts, http.MethodPatch, "/gallery/1", jsonType, `{}`)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"message":"Unrecognized verb single PATCH"}}`, body)
}

func TestServer_RequestID(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(middleware.RequestIDHeader))

	resp, _ = call(t, ts, http.MethodGet, "/", "", "")
	assert.Len(t, resp.Header.Get(middleware.RequestIDHeader), 36)
}

func TestServer_BuildRequest(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := NewServer(dispatch.New(storage.NewMemory()),
		WithPathPrefix("/api"),
		WithClock(func() time.Time { return now }))

	r := httptest.NewRequest(http.MethodPost, "http://example.com/api/gallery?id=client-1", strings.NewReader(`{"folder":"x"}`))
	r.Header.Set("Content-Type", jsonType)
	r.RemoteAddr = "10.0.0.1:5555"

	req := s.buildRequest(r)
	assert.Equal(t, "client-1", req.ID)
	assert.Equal(t, "10.0.0.1:5555", req.Sender)
	assert.Equal(t, "example.com", req.Recipient)
	assert.Equal(t, int64(1700000000), req.Time)
	assert.Equal(t, "/gallery", req.Object)
	assert.Equal(t, "POST", req.Verb)
	assert.Equal(t, []string{"folder"}, req.Payload().Keys())
}

type brokenBackend struct{}

func (brokenBackend) Load() (*storage.Database, error) { return storage.NewDatabase(), nil }
func (brokenBackend) Save(*storage.Database) error     { return errors.New("disk full") }
func (brokenBackend) Name() string                     { return "broken" }

func TestServer_PersistenceFailure(t *testing.T) {
	log, mem := logging.NewMemory()
	d := dispatch.New(storage.New(brokenBackend{}))
	ts := httptest.NewServer(NewServer(d, WithLogger(log)).Handler())
	defer ts.Close()

	resp, body := call(t, ts, http.MethodPut, "/resource/gallery", jsonType, gallerySchema)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":{"message":"Internal Server Error"}}`, body)
	assert.Contains(t, mem.Messages(), "dispatch failed")
}

func TestServer_StatusMapping(t *testing.T) {
	s := NewServer(dispatch.New(storage.NewMemory()))

	for code, want := range map[int]int{200: 200, 404: 404, 501: 501, 299: 500, 999: 500, 0: 500} {
		rec := httptest.NewRecorder()
		s.write(rec, http.MethodGet, code, nil)
		assert.Equal(t, want, rec.Code, "code %d", code)
	}
}

func TestServer_Metrics(t *testing.T) {
	reg := metrics.NewRegistry()
	c := metrics.New(reg)
	d := dispatch.New(storage.NewMemory(), dispatch.WithObserver(c))
	ts := httptest.NewServer(NewServer(d, WithMetrics(c, reg)).Handler())
	defer ts.Close()

	call(t, ts, http.MethodPut, "/resource/gallery", jsonType, gallerySchema)

	resp, body := call(t, ts, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `apina_requests_total{code="200",type="resource",verb="PUT"} 1`)
	assert.Contains(t, body, "apina_objects 1")
	assert.Contains(t, body, "apina_requests_in_flight")
}

func TestServer_NoMetricsEndpointByDefault(t *testing.T) {
	ts := newTestServer(t)

	resp, body := call(t, ts, http.MethodGet, "/metrics", "", "")
	// dispatched as an unknown resource type
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `Unknown resource type \"metrics\"`)
}
