package http

import (
	"context"
	"net/http"

	applog "intentos/internal/log"
	"intentos/internal/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "intentos_session"

// SessionStore is the part of session.Manager the server needs.
type SessionStore interface {
	Create(ctx context.Context) (*session.Session, error)
	Get(id string) (*session.Session, error)
	End(ctx context.Context, id string) error
	Len() int
}

// sessionMiddleware attaches the caller's session to the request context,
// starting a new one when the cookie is missing or the session has expired.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var sess *session.Session
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			sess, _ = s.sessions.Get(c.Value)
		}
		if sess == nil {
			created, err := s.sessions.Create(ctx)
			if err != nil {
				applog.FromContext(ctx).ErrorContext(ctx, "Failed to start session", applog.FieldError, err)
				InternalServerError("could not start session").Write(w)
				return
			}
			sess = created
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}

		reqLogger := applog.FromContext(ctx).With(applog.FieldSessionID, sess.ID)
		ctx = applog.IntoContext(ctx, reqLogger)
		ctx = session.WithContext(ctx, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clearSessionCookie expires the session cookie on the client.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
