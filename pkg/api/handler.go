package api

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/getmockd/apina/pkg/httputil"
	"github.com/getmockd/apina/pkg/message"
	"github.com/getmockd/apina/pkg/value"
)

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status string `json:"status"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteJSON(w, r.Method, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) serveMessage(w http.ResponseWriter, r *http.Request) {
	req := s.buildRequest(r)

	resp, err := s.dispatcher.Dispatch(req)
	if err != nil {
		s.log.Error("dispatch failed",
			"verb", req.Verb,
			"object", req.Object,
			"request_id", req.ID,
			"error", err,
		)
		_ = httputil.WriteError(w, r.Method, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	s.write(w, r.Method, resp.Code, resp.Body())
}

// buildRequest turns r into a dispatcher request.
func (s *Server) buildRequest(r *http.Request) *message.Request {
	req := message.NewRequest(r.Method, s.objectPath(r.URL.Path), s.readPayload(r))
	req.Time = s.now().Unix()
	req.Sender = r.RemoteAddr
	req.Recipient = r.Host
	req.ID = r.URL.Query().Get("id")
	if req.ID == "" {
		req.ID = middleware.GetReqID(r.Context())
	}
	return req
}

// objectPath strips the configured prefix from p. The prefix only matches
// whole path segments.
func (s *Server) objectPath(p string) string {
	if s.prefix != "" && (p == s.prefix || strings.HasPrefix(p, s.prefix+"/")) {
		p = strings.TrimPrefix(p, s.prefix)
	}
	if p == "" {
		return "/"
	}
	return p
}

// readPayload decodes a JSON object body. Any other body yields an empty
// object.
func (s *Server) readPayload(r *http.Request) *value.Object {
	empty := value.NewObject()
	if r.Body == nil || !isJSON(r.Header.Get("Content-Type")) {
		return empty
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize))
	if err != nil {
		s.log.Warn("failed to read request body", "error", err)
		return empty
	}
	if len(body) == 0 {
		return empty
	}
	obj, err := value.ParseObject(body)
	if err != nil {
		s.log.Debug("ignoring request body", "error", err)
		return empty
	}
	return obj
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

// write sends data as JSON with status code. Codes without a standard
// status text are sent as 500.
func (s *Server) write(w http.ResponseWriter, method string, code int, data value.Value) {
	if err := httputil.WriteJSON(w, method, code, data); err != nil {
		s.log.Error("failed to write response", "error", err)
	}
}
