package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"intentos/internal/cache"
	"intentos/internal/engine"
	applog "intentos/internal/log"
	"intentos/internal/middleware/ratelimit"
	"intentos/internal/middleware/security"
	"intentos/internal/middleware/trace"
	"intentos/internal/registry"
	appweb "intentos/web"
)

var logger = applog.WithComponent(applog.ComponentHTTP)

// Options carries the collaborators the server is built from.
type Options struct {
	Sessions SessionStore
	Registry *registry.Registry
	// Decider answers /api/intent. Nil disables the endpoint.
	Decider engine.Decider
	// Ready reports backend readiness for /readyz. Nil means always ready.
	Ready func(context.Context) error
	// CacheStats feeds the cache section of /metrics.
	CacheStats         func() map[string]cache.Stats
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	templates  *template.Template
	sessions   SessionStore
	registry   *registry.Registry
	dispatcher *engine.Dispatcher
	decider    engine.Decider
	ready      func(context.Context) error
	cacheStats func() map[string]cache.Stats

	trace   *trace.Middleware
	limiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer wires the router, middleware and handlers.
func NewServer(addr string, opts Options) (*Server, error) {
	if opts.Sessions == nil || opts.Registry == nil {
		return nil, fmt.Errorf("http: sessions and registry are required")
	}

	t, err := appweb.Templates(registry.TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	limiterCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limiterCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		templates:  t,
		sessions:   opts.Sessions,
		registry:   opts.Registry,
		dispatcher: engine.NewDispatcher(opts.Registry),
		decider:    opts.Decider,
		ready:      opts.Ready,
		cacheStats: opts.CacheStats,
		trace:      trace.NewMiddleware(logger, extractClientIP),
		limiter:    ratelimit.NewLimiter(limiterCfg),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.trace.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		})
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware(extractClientIP, func(w http.ResponseWriter, _ *http.Request) {
			TooManyRequestsError().Write(w)
		}))
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleIndex)

		r.Route("/api", func(r chi.Router) {
			r.Use(security.NoStore)

			r.Get("/expenses", s.handleListExpenses)
			r.Post("/expenses", s.handleCreateExpense)
			r.Get("/expenses/summary", s.handleExpenseSummary)
			r.Delete("/expenses/{id}", s.handleDeleteExpense)

			r.Get("/theme", s.handleGetTheme)
			r.Put("/theme", s.handleSetTheme)

			r.Get("/registry", s.handleCatalog)
			r.Post("/components/{name}", s.handleInvokeComponent)
			r.Post("/tools/{name}", s.handleInvokeTool)

			r.Post("/intent", s.handleIntent)

			r.Delete("/session", s.handleEndSession)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})
	return r
}

// EngineEnabled reports whether /api/intent is served.
func (s *Server) EngineEnabled() bool {
	return s.decider != nil
}

// Shutdown stops background goroutines and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
