package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"intentos/internal/events"
	"intentos/internal/ledger"
	applog "intentos/internal/log"
	"intentos/internal/theme"
)

var logger = applog.WithComponent(applog.ComponentSession)

var ErrNotFound = errors.New("session not found")

// Config holds manager configuration
type Config struct {
	// TTL is how long a session may stay idle before the sweeper ends it.
	TTL time.Duration
	// SweepInterval is how often idle sessions are looked for.
	SweepInterval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		TTL:           30 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// Manager creates, looks up and ends sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	store     ledger.Store
	publisher events.Publisher
	config    Config
	now       func() time.Time
}

// NewManager returns a manager whose sessions keep their expenses in store.
func NewManager(store ledger.Store, publisher events.Publisher, config Config) *Manager {
	def := DefaultConfig()
	if config.TTL <= 0 {
		config.TTL = def.TTL
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = def.SweepInterval
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		store:     store,
		publisher: publisher,
		config:    config,
		now:       time.Now,
	}
}

// Create starts a new session with a freshly seeded ledger and light theme.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	now := m.now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		ledger:    ledger.New(id, m.store, m.publisher),
		theme:     theme.NewState(),
		publisher: m.publisher,
		lastSeen:  now,
	}
	if err := s.ledger.SeedDefaults(ctx); err != nil {
		_ = m.store.Purge(ctx, id)
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	logger.InfoContext(ctx, "Session started", applog.FieldSessionID, id)
	return s, nil
}

// Get returns a live session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

// End discards a session and its expenses. Requests still holding the
// session get ledger.ErrSessionEnded from later writes. Ending an unknown
// session is a no-op.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return nil
	}

	if err := s.ledger.Close(ctx); err != nil {
		return fmt.Errorf("end session %s: %w", id, err)
	}
	if err := m.publisher.Publish(ctx, events.New(events.SessionEnded, id)); err != nil {
		logger.WarnContext(ctx, "Failed to publish session end", applog.FieldSessionID, id, applog.FieldError, err)
	}
	logger.InfoContext(ctx, "Session ended", applog.FieldSessionID, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep ends every session idle for longer than the TTL and returns how many
// it ended.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.config.TTL)

	m.mu.RLock()
	var idle []string
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	ended := 0
	for _, id := range idle {
		if err := m.End(ctx, id); err != nil {
			logger.ErrorContext(ctx, "Failed to end idle session", applog.FieldSessionID, id, applog.FieldError, err)
			continue
		}
		ended++
	}
	return ended
}

// Run sweeps idle sessions until ctx is cancelled, then ends every session
// that is still live.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.Sweep(ctx); n > 0 {
				logger.Info("Swept idle sessions", "count", n, "live", m.Len())
			}
		case <-ctx.Done():
			m.endAll()
			return nil
		}
	}
}

func (m *Manager) endAll() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, id := range ids {
		if err := m.End(ctx, id); err != nil {
			logger.Error("Failed to end session on shutdown", applog.FieldSessionID, id, applog.FieldError, err)
		}
	}
}
