package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/getmockd/apina/pkg/dispatch"
	"github.com/getmockd/apina/pkg/logging"
	"github.com/getmockd/apina/pkg/metrics"
)

// MaxBodySize is the largest request body read; the rest is ignored.
const MaxBodySize = 10 << 20

// Server routes HTTP requests to a Dispatcher.
type Server struct {
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
	prefix     string
	metrics    *metrics.Collector
	gatherer   prometheus.Gatherer
	now        func() time.Time
	router     chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		s.log = logging.OrNop(log)
	}
}

// WithPathPrefix removes prefix from request paths before dispatch.
func WithPathPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = strings.TrimRight(prefix, "/")
	}
}

// WithMetrics tracks in-flight requests on c and serves g at /metrics.
func WithMetrics(c *metrics.Collector, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = c
		s.gatherer = g
	}
}

// WithClock sets the time source used to stamp requests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer creates a Server for d.
func NewServer(d *dispatch.Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		log:        logging.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.log))
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.InFlight)
	}

	r.Get("/healthz", handleHealth)
	r.Head("/healthz", handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", metrics.Handler(s.gatherer))
	}

	r.HandleFunc("/*", s.serveMessage)
	return r
}
