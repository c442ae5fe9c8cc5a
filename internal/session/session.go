// Package session owns per-visitor state: one expense ledger and one theme.
// Nothing here survives the end of a session.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"intentos/internal/events"
	"intentos/internal/ledger"
	applog "intentos/internal/log"
	"intentos/internal/theme"
)

// Session is the state shared by every request that carries the same
// session cookie.
type Session struct {
	ID        string
	CreatedAt time.Time

	ledger    *ledger.Ledger
	theme     *theme.State
	publisher events.Publisher

	mu       sync.Mutex
	lastSeen time.Time
	history  []Turn
}

// Turn is one message of the conversation with the decision engine.
type Turn struct {
	Role    string
	Content string
}

// maxHistory bounds the conversation kept per session.
const maxHistory = 40

func (s *Session) Ledger() *ledger.Ledger { return s.ledger }

func (s *Session) Theme() *theme.State { return s.theme }

// SetTheme switches the theme and emits theme.changed. It fails with
// ledger.ErrSessionEnded once the session has ended.
func (s *Session) SetTheme(ctx context.Context, m theme.Mode) error {
	if s.ledger.Closed() {
		return ledger.ErrSessionEnded
	}
	if err := s.theme.Set(m); err != nil {
		return err
	}
	ev := events.New(events.ThemeChanged, s.ID)
	ev.Theme = m.String()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.WarnContext(ctx, "Failed to publish theme change", applog.FieldSessionID, s.ID, applog.FieldError, err)
	}
	return nil
}

// LastSeen returns the time of the most recent touch.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Remember appends a turn, dropping the oldest ones beyond maxHistory.
func (s *Session) Remember(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Turn{Role: role, Content: content})
	if over := len(s.history) - maxHistory; over > 0 {
		s.history = append([]Turn(nil), s.history[over:]...)
	}
}

// History returns a copy of the conversation, oldest first.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.history...)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

type ctxKey struct{}

// WithContext returns a copy of ctx carrying s.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// MustFromContext is for code that can only run inside a session, such as
// component renderers. Calling it elsewhere is a programming error.
func MustFromContext(ctx context.Context, op string) *Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic(fmt.Sprintf("session: %s used outside an active session", op))
	}
	return s
}
