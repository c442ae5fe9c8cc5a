package worker

import (
	"context"
	"sync"
	"time"

	"intentos/internal/cache"
	"intentos/internal/events"
	applog "intentos/internal/log"
)

// Activity is what the worker knows about one session.
type Activity struct {
	SessionID       string           `json:"session_id"`
	Adds            int              `json:"adds"`
	Removes         int              `json:"removes"`
	ThemeChanges    int              `json:"theme_changes"`
	Theme           string           `json:"theme,omitempty"`
	SpendByCategory map[string]int64 `json:"spend_by_category"`
	FirstSeen       time.Time        `json:"first_seen"`
	LastSeen        time.Time        `json:"last_seen"`
}

func (a Activity) clone() Activity {
	spend := make(map[string]int64, len(a.SpendByCategory))
	for k, v := range a.SpendByCategory {
		spend[k] = v
	}
	a.SpendByCategory = spend
	return a
}

// Ended session ids are remembered so late events cannot recreate their
// counters.
const (
	endedCapacity = 4096
	endedTTL      = time.Hour
)

// ActivityWorker folds the event stream into per-session activity counters.
// A session's counters are dropped when the session ends.
type ActivityWorker struct {
	mu       sync.Mutex
	sessions map[string]*Activity
	ended    *cache.LRUCache[time.Time]
	logger   *applog.Logger
}

func NewActivityWorker() *ActivityWorker {
	return &ActivityWorker{
		sessions: make(map[string]*Activity),
		ended:    cache.NewLRUCache[time.Time](endedCapacity, endedTTL),
		logger:   applog.WithComponent(applog.ComponentWorker),
	}
}

// Handle applies one event. It never fails: unknown event types are logged
// and skipped so the message is acknowledged.
func (w *ActivityWorker) Handle(ctx context.Context, e events.Event) error {
	if e.SessionID == "" {
		w.logger.WarnContext(ctx, "Event without session id", applog.FieldEventType, e.Type)
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if e.Type == events.SessionEnded {
		w.ended.Set(e.SessionID, e.Timestamp)
		a, ok := w.sessions[e.SessionID]
		delete(w.sessions, e.SessionID)
		if ok {
			w.logger.InfoContext(ctx, "Session activity",
				applog.FieldSessionID, e.SessionID,
				"adds", a.Adds,
				"removes", a.Removes,
				"theme_changes", a.ThemeChanges,
				"duration", a.LastSeen.Sub(a.FirstSeen).String())
		}
		return nil
	}

	if _, gone := w.ended.Get(e.SessionID); gone {
		w.logger.DebugContext(ctx, "Ignoring event for ended session",
			applog.FieldSessionID, e.SessionID,
			applog.FieldEventType, e.Type)
		return nil
	}

	a, ok := w.sessions[e.SessionID]
	if !ok {
		a = &Activity{
			SessionID:       e.SessionID,
			SpendByCategory: make(map[string]int64),
			FirstSeen:       e.Timestamp,
		}
		w.sessions[e.SessionID] = a
	}
	if e.Timestamp.After(a.LastSeen) {
		a.LastSeen = e.Timestamp
	}

	switch e.Type {
	case events.ExpenseAdded:
		a.Adds++
		a.SpendByCategory[e.Category] += e.AmountCents
	case events.ExpenseRemoved:
		a.Removes++
	case events.ThemeChanged:
		a.ThemeChanges++
		a.Theme = e.Theme
	default:
		w.logger.DebugContext(ctx, "Ignoring event", applog.FieldEventType, e.Type)
	}
	return nil
}

// Snapshot returns a copy of the activity of sessionID.
func (w *ActivityWorker) Snapshot(sessionID string) (Activity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.sessions[sessionID]
	if !ok {
		return Activity{}, false
	}
	return a.clone(), true
}

// Sessions returns how many sessions are being tracked.
func (w *ActivityWorker) Sessions() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sessions)
}
