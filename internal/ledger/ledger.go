// Package ledger implements the session expense ledger: an insertion-ordered
// sequence of expenses that only grows by Add and shrinks by Remove.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"intentos/internal/core"
	"intentos/internal/events"
	applog "intentos/internal/log"
)

var logger = applog.WithComponent(applog.ComponentLedger)

// ErrSessionEnded is returned by writes to a ledger whose session has ended.
var ErrSessionEnded = errors.New("session ended")

// Store persists the expenses of many sessions. Implementations must return
// a session's expenses in the order they were appended.
type Store interface {
	Append(ctx context.Context, sessionID string, e core.Expense) error
	// Delete removes the expense with the given id and reports whether it
	// existed. A missing id is not an error.
	Delete(ctx context.Context, sessionID, id string) (bool, error)
	List(ctx context.Context, sessionID string) ([]core.Expense, error)
	// Purge drops every expense of a session.
	Purge(ctx context.Context, sessionID string) error
}

// Seed is the data every new session starts with.
var Seed = []core.NewExpense{
	{Description: "Groceries", Amount: core.Money{Cents: 12000}, Category: core.Food},
	{Description: "Uber", Amount: core.Money{Cents: 4500}, Category: core.Transport},
}

// Ledger is one session's expense ledger. Add and Remove are serialized so
// ids stay unique even when several requests of a session race.
type Ledger struct {
	mu        sync.Mutex
	sessionID string
	store     Store
	publisher events.Publisher
	closed    bool

	now   func() time.Time
	newID func() string
}

// New returns the ledger of sessionID. A nil publisher discards events.
func New(sessionID string, store Store, publisher events.Publisher) *Ledger {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Ledger{
		sessionID: sessionID,
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// SessionID returns the id of the owning session.
func (l *Ledger) SessionID() string { return l.sessionID }

// Add validates the input, assigns a fresh id and the current time, appends
// the record and returns it. Invalid input wraps core.ErrInvalidExpense and
// creates nothing.
func (l *Ledger) Add(ctx context.Context, description string, amount core.Money, category string) (core.Expense, error) {
	in := core.NewExpense{Description: description, Amount: amount, Category: category}
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return core.Expense{}, ErrSessionEnded
	}
	e := core.Expense{
		ID:          l.newID(),
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        l.now(),
	}
	err := l.store.Append(ctx, l.sessionID, e)
	l.mu.Unlock()
	if err != nil {
		return core.Expense{}, fmt.Errorf("append expense: %w", err)
	}

	ev := events.New(events.ExpenseAdded, l.sessionID)
	ev.ExpenseID = e.ID
	ev.Category = e.Category
	ev.AmountCents = e.Amount.Cents
	l.publish(ctx, ev)

	return e, nil
}

// Remove deletes the expense with the given id. Removing an unknown id is a
// no-op.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrSessionEnded
	}
	removed, err := l.store.Delete(ctx, l.sessionID, id)
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if removed {
		ev := events.New(events.ExpenseRemoved, l.sessionID)
		ev.ExpenseID = id
		l.publish(ctx, ev)
	}
	return nil
}

// Close purges the session's expenses from the store. Later Add and Remove
// calls fail with ErrSessionEnded, so no write can land after the purge.
func (l *Ledger) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if err := l.store.Purge(ctx, l.sessionID); err != nil {
		return fmt.Errorf("purge expenses: %w", err)
	}
	return nil
}

// Closed reports whether Close has been called.
func (l *Ledger) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// List returns a snapshot of the ledger in insertion order.
func (l *Ledger) List(ctx context.Context) ([]core.Expense, error) {
	items, err := l.store.List(ctx, l.sessionID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	if items == nil {
		items = []core.Expense{}
	}
	return items, nil
}

// SeedDefaults appends the Seed records.
func (l *Ledger) SeedDefaults(ctx context.Context) error {
	for _, s := range Seed {
		if _, err := l.Add(ctx, s.Description, s.Amount, s.Category); err != nil {
			return fmt.Errorf("seed ledger: %w", err)
		}
	}
	return nil
}

// publish never fails the caller: the ledger change already happened.
func (l *Ledger) publish(ctx context.Context, e events.Event) {
	if err := l.publisher.Publish(ctx, e); err != nil {
		logger.WarnContext(ctx, "Failed to publish ledger event",
			applog.FieldEventType, string(e.Type),
			applog.FieldSessionID, e.SessionID,
			applog.FieldError, err)
	}
}
