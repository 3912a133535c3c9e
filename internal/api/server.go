// Package api provides the HTTP API server and handlers for PopcornPicks.
package api

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/popcornpicks/popcornpicks-server/internal/catalog"
	"github.com/popcornpicks/popcornpicks-server/internal/http/response"
	"github.com/popcornpicks/popcornpicks-server/internal/metrics"
	"github.com/popcornpicks/popcornpicks-server/internal/ratelimit"
	"github.com/popcornpicks/popcornpicks-server/internal/store"
)

// Default limits for the auth endpoints, per client IP.
const (
	DefaultAuthRPS   = 1.0
	DefaultAuthBurst = 10
)

// BreakerReporter exposes the lookup client's circuit breaker for health checks.
type BreakerReporter interface {
	BreakerState() string
}

// Options tunes the HTTP layer.
type Options struct {
	Version            string
	CORSAllowedOrigins []string
	AuthRPS            float64
	AuthBurst          int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.Store
	services    *Services
	catalog     *catalog.Catalog
	breaker     BreakerReporter
	authLimiter *ratelimit.KeyedRateLimiter
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	opts        Options
}

// NewServer creates a new HTTP server with all routes configured.
// breaker may be nil when no lookup client is wired.
func NewServer(st store.Store, services *Services, cat *catalog.Catalog, breaker BreakerReporter, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if opts.AuthRPS <= 0 {
		opts.AuthRPS = DefaultAuthRPS
	}
	if opts.AuthBurst <= 0 {
		opts.AuthBurst = DefaultAuthBurst
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}

	s := &Server{
		store:       st,
		services:    services,
		catalog:     cat,
		breaker:     breaker,
		authLimiter: ratelimit.New(opts.AuthRPS, opts.AuthBurst),
		router:      chi.NewRouter(),
		logger:      logger,
		opts:        opts,
	}

	s.setupMiddleware()
	s.setupAPI()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, mainly for OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.authLimiter.Stop()
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(s.rateLimitAuth)
	s.router.Use(authMiddleware(s.services.Auth, s.logger))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})
}

func (s *Server) setupAPI() {
	config := huma.DefaultConfig("PopcornPicks API", s.opts.Version)
	config.Info.Description = "Movie catalog, favorites and genre-based recommendations."
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	config.Transformers = append(config.Transformers, EnvelopeTransformer)

	RegisterErrorHandler()
	s.api = humachi.New(s.router, config)
}

// setupRoutes registers every operation.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerMovieRoutes()
	s.registerFavoriteRoutes()
	s.registerRecommendationRoutes()
	s.registerMetadataRoutes()

	s.router.Handle("/metrics", metrics.Handler())
}

// bearerSecurity marks an operation as requiring a bearer token.
var bearerSecurity = []map[string][]string{{"bearer": {}}}

// requestLogger logs one line per request with its status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			switch {
			case ww.Status() >= 500:
				level = slog.LevelError
			case r.URL.Path == "/health" || r.URL.Path == "/metrics":
				level = slog.LevelDebug
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// recoverer turns a handler panic into an enveloped 500.
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
					panic(rec)
				}
				logger.Error("panic in handler",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)
				response.InternalError(w, "internal server error", logger)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
