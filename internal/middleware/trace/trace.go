package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sync/atomic"
	"time"

	applog "intentos/internal/log"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

type contextKey struct{}

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)

// Middleware handles request tracing and logging
type Middleware struct {
	logger    *applog.Logger
	extractIP func(*http.Request) string

	totalRequests int64
	serverErrors  int64
	lastLatencyUs int64
}

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests   int64 `json:"total_requests"`
	ServerErrors    int64 `json:"server_errors"`
	LastLatencyUsec int64 `json:"last_latency_usec"`
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(logger *applog.Logger, extractIP func(*http.Request) string) *Middleware {
	if logger == nil {
		logger = applog.WithComponent(applog.ComponentHTTP)
	}
	return &Middleware{logger: logger, extractIP: extractIP}
}

// Middleware assigns a request id, puts a request-scoped logger in the
// context and writes one access line when the handler returns.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := r.Header.Get(HeaderRequestID)
		if !validRequestID.MatchString(requestID) {
			requestID = GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)

		reqLogger := m.logger.With(applog.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), contextKey{}, requestID)
		ctx = applog.IntoContext(ctx, reqLogger)
		r = r.WithContext(ctx)

		atomic.AddInt64(&m.totalRequests, 1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		atomic.StoreInt64(&m.lastLatencyUs, duration.Microseconds())

		level := slog.LevelInfo
		if rw.statusCode >= 400 && rw.statusCode < 500 {
			level = slog.LevelWarn
		} else if rw.statusCode >= 500 {
			level = slog.LevelError
			atomic.AddInt64(&m.serverErrors, 1)
		}

		fields := applog.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
			WithHTTPResponse(rw.statusCode, duration.Milliseconds()).
			WithClientIP(clientIP)
		reqLogger.Logger.Log(ctx, level, "HTTP request completed",
			append([]any{applog.FieldComponent, applog.ComponentHTTP}, fields.ToSlice()...)...)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:   atomic.LoadInt64(&m.totalRequests),
		ServerErrors:    atomic.LoadInt64(&m.serverErrors),
		LastLatencyUsec: atomic.LoadInt64(&m.lastLatencyUs),
	}
}
