package http

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"time"

	"intentos/internal/cache"
	applog "intentos/internal/log"
	"intentos/internal/middleware/ratelimit"
	"intentos/internal/middleware/trace"
	"intentos/internal/registry"
	"intentos/internal/session"
	"intentos/internal/theme"
)

// indexComponents are rendered into the page shell before the first intent.
var indexComponents = []string{registry.ExpenseForm, registry.ExpenseTable, registry.ExpenseChart}

type indexPage struct {
	Flags         []theme.Flag
	EngineEnabled bool
	Fragments     []template.HTML
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			ServiceUnavailableError("not ready").Write(w)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.MustFromContext(ctx, "index")
	reqLogger := applog.FromContext(ctx)

	page := indexPage{
		Flags:         sess.Theme().Flags(),
		EngineEnabled: s.EngineEnabled(),
	}
	for _, name := range indexComponents {
		rendered, err := s.registry.Components.Invoke(ctx, name, nil)
		if err != nil {
			reqLogger.ErrorContext(ctx, "Failed to render component",
				applog.FieldComponentName, name,
				applog.FieldError, err)
			continue
		}
		page.Fragments = append(page.Fragments, rendered.HTML)
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index", page); err != nil {
		reqLogger.ErrorContext(ctx, "Failed to render index", applog.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type metricsResponse struct {
	HTTP      trace.Metrics          `json:"http"`
	RateLimit ratelimit.Metrics      `json:"rate_limit"`
	Sessions  int                    `json:"sessions"`
	Caches    map[string]cache.Stats `json:"caches,omitempty"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	resp := metricsResponse{
		HTTP:      s.trace.GetMetrics(),
		RateLimit: s.limiter.GetMetrics(),
		Sessions:  s.sessions.Len(),
	}
	if s.cacheStats != nil {
		resp.Caches = s.cacheStats()
	}
	NewResponse().JSON(resp).Write(w)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.MustFromContext(ctx, "end session")
	if err := s.sessions.End(ctx, sess.ID); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to end session", applog.FieldError, err)
		InternalServerError("could not end session").Write(w)
		return
	}
	clearSessionCookie(w)
	NewResponse().Status(http.StatusNoContent).Write(w)
}
