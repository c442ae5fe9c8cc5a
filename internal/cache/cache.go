// Package cache holds the generic LRU+TTL cache used for tool results.
package cache

import (
	"context"
	"time"

	applog "intentos/internal/log"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches whose expired entries can be dropped in
// bulk.
type Cleaner interface {
	CleanExpired() int
}

// Manager periodically cleans every registered cache.
type Manager struct {
	caches []Cleaner
	logger *applog.Logger
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{logger: applog.WithComponent(applog.ComponentCache)}
}

// Register adds a cache to the manager for cleanup. It must be called
// before Run.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// CleanAll cleans every registered cache once and returns how many entries
// were dropped.
func (m *Manager) CleanAll() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Run cleans the registered caches every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.CleanAll(); n > 0 {
				m.logger.Debug("Expired cache entries removed", "count", n)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
