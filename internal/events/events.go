// Package events defines the activity events emitted by sessions and the
// publisher port that ships them to a broker.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Type names an event kind. It doubles as the routing key.
type Type string

const (
	ExpenseAdded   Type = "expense.added"
	ExpenseRemoved Type = "expense.removed"
	ThemeChanged   Type = "theme.changed"
	SessionEnded   Type = "session.ended"
)

// Event is a lightweight activity record. Only the fields relevant to its
// Type are set.
type Event struct {
	Type        Type      `json:"type"`
	SessionID   string    `json:"session_id"`
	ExpenseID   string    `json:"expense_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Theme       string    `json:"theme,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// New returns an event of type t stamped with the current time.
func New(t Type, sessionID string) Event {
	return Event{Type: t, SessionID: sessionID, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event.
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Publisher ships events to a broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory. Tests use it to assert on
// emitted activity.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what was published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
