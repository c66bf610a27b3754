// Package api serves the recommendation engine, study store and report
// renderer over HTTP.
//
// # Routes
//
//	GET  /health
//	GET  /specs
//	GET  /specs/{size}
//	GET  /recommendations?distance_m=&eye_height_m=&ceiling_height_m=
//	POST /studies
//	GET  /studies?limit=
//	GET  /studies/{id}
//	GET  /studies/{id}/report?format=pdf|svg|png|json
//	GET  /studies/{id}/pdf
//
// Errors are JSON objects {"code", "message"} with the status derived from
// the error code (see [StatusCode]).
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/visionspec/visionspec/pkg/cache"
	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/recommend"
	"github.com/visionspec/visionspec/pkg/report"
	"github.com/visionspec/visionspec/pkg/study"
)

// Defaults for query parameters the original service did not require.
const (
	DefaultEyeHeightM = 1.2
	maxBodyBytes      = 1 << 20
)

// Server is the HTTP API. Create it with [New] and mount [Server.Handler].
type Server struct {
	engine  *recommend.Engine
	store   study.Store
	cache   cache.Cache
	keys    cache.Keyer
	catHash string
	logger  *log.Logger
	limiter *RateLimiter
	render  report.Options
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets the study store (default: in-memory).
func WithStore(s study.Store) Option { return func(srv *Server) { srv.store = s } }

// WithCache sets the artifact cache (default: in-memory).
func WithCache(c cache.Cache) Option { return func(srv *Server) { srv.cache = c } }

// WithKeyer sets the cache keyer (default: [cache.NewDefaultKeyer]).
func WithKeyer(k cache.Keyer) Option { return func(srv *Server) { srv.keys = k } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(srv *Server) { srv.logger = l } }

// WithRateLimit allows capacity requests per client per window. A capacity
// of 0 disables limiting.
func WithRateLimit(capacity int, window time.Duration) Option {
	return func(srv *Server) {
		if capacity > 0 && window > 0 {
			srv.limiter = NewRateLimiter(capacity, window)
		}
	}
}

// WithReportOptions sets the layout options used for every report.
func WithReportOptions(o report.Options) Option { return func(srv *Server) { srv.render = o } }

// WithTimeout bounds each request's handling time (default 30s).
func WithTimeout(d time.Duration) Option { return func(srv *Server) { srv.timeout = d } }

// New creates a server around engine.
func New(engine *recommend.Engine, opts ...Option) (*Server, error) {
	if engine == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "api: recommendation engine is required")
	}
	srv := &Server{
		engine:  engine,
		catHash: cache.CatalogHash(engine.Catalog()),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.store == nil {
		srv.store = study.NewMemoryStore()
	}
	if srv.cache == nil {
		srv.cache = cache.NewMemoryCache()
	}
	if srv.keys == nil {
		srv.keys = cache.NewDefaultKeyer()
	}
	if srv.logger == nil {
		srv.logger = log.New(io.Discard)
	}
	if srv.render.Logger == nil {
		srv.render.Logger = srv.logger
	}
	return srv, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.limiter != nil {
		r.Use(s.rateLimit)
	}
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/health", s.health)
	r.Get("/specs", s.listSpecs)
	r.Get("/specs/{size}", s.getSpec)
	r.Get("/recommendations", s.recommendations)

	r.Route("/studies", func(r chi.Router) {
		r.Post("/", s.createStudy)
		r.Get("/", s.listStudies)
		r.Get("/{id}", s.getStudy)
		r.Get("/{id}/report", s.studyReport)
		r.Get("/{id}/pdf", s.studyPDF)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " is not allowed"})
	})
	return r
}

// Close stops background work and closes the store and cache.
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	cerr := s.cache.Close()
	if err := s.store.Close(); err != nil {
		return err
	}
	return cerr
}
