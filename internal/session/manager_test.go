package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intentos/internal/core"
	"intentos/internal/events"
	"intentos/internal/ledger"
	"intentos/internal/ledger/memory"
	"intentos/internal/theme"
)

func newManager(t *testing.T) (*Manager, *memory.Store, *events.Recorder) {
	t.Helper()
	store := memory.New()
	rec := events.NewRecorder()
	return NewManager(store, rec, Config{TTL: time.Minute, SweepInterval: time.Hour}), store, rec
}

func TestCreateSeedsLedger(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)

	items, err := s.Ledger().List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Groceries", items[0].Description)
	assert.Equal(t, int64(12000), items[0].Amount.Cents)
	assert.Equal(t, "Uber", items[1].Description)
	assert.Equal(t, theme.Light, s.Theme().Mode())
	assert.Equal(t, 1, m.Len())
}

func TestSessionsAreIsolated(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	a, err := m.Create(ctx)
	require.NoError(t, err)
	b, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = a.Ledger().Add(ctx, "Coffee", core.Money{Cents: 300}, "Food")
	require.NoError(t, err)

	aItems, _ := a.Ledger().List(ctx)
	bItems, _ := b.Ledger().List(ctx)
	assert.Len(t, aItems, 3)
	assert.Len(t, bItems, 2)
}

func TestEndPurgesAndEmits(t *testing.T) {
	m, store, rec := newManager(t)
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, m.End(ctx, s.ID))
	require.NoError(t, m.End(ctx, s.ID), "ending twice is a no-op")

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	left, err := store.List(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	evs := rec.Events()
	require.NotEmpty(t, evs)
	assert.Equal(t, events.SessionEnded, evs[len(evs)-1].Type)
	ended := 0
	for _, e := range evs {
		if e.Type == events.SessionEnded {
			ended++
		}
	}
	assert.Equal(t, 1, ended)
}

func TestSweepEndsIdleSessions(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	idle, err := m.Create(ctx)
	require.NoError(t, err)
	now = now.Add(50 * time.Second)
	busy, err := m.Create(ctx)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = m.Get(busy.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep(ctx))
	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(busy.ID)
	assert.NoError(t, err)
}

func TestRunEndsEverythingOnShutdown(t *testing.T) {
	m, _, _ := newManager(t)
	_, err := m.Create(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, m.Run(ctx))
	assert.Equal(t, 0, m.Len())
}

func TestSetThemeEmits(t *testing.T) {
	m, _, rec := newManager(t)
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SetTheme(ctx, theme.Sith))
	assert.True(t, s.Theme().DarkLayer())
	assert.Error(t, s.SetTheme(ctx, theme.Mode("plaid")))
	assert.Equal(t, theme.Sith, s.Theme().Mode())

	evs := rec.Events()
	last := evs[len(evs)-1]
	assert.Equal(t, events.ThemeChanged, last.Type)
	assert.Equal(t, "sith", last.Theme)
}

func TestContextHelpers(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	assert.PanicsWithValue(t, "session: ExpenseTable used outside an active session", func() {
		MustFromContext(context.Background(), "ExpenseTable")
	})

	m, _, _ := newManager(t)
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	ctx := WithContext(context.Background(), s)
	assert.Same(t, s, MustFromContext(ctx, "ExpenseTable"))
}

func TestHistoryIsBounded(t *testing.T) {
	m, _, _ := newManager(t)
	s, err := m.Create(context.Background())
	require.NoError(t, err)

	for i := 0; i < maxHistory+5; i++ {
		s.Remember("user", "msg")
	}
	s.Remember("assistant", "last")

	h := s.History()
	require.Len(t, h, maxHistory)
	assert.Equal(t, Turn{Role: "assistant", Content: "last"}, h[len(h)-1])

	h[0].Content = "changed"
	assert.Equal(t, "msg", s.History()[0].Content)
}

func TestWritesAfterEndAreRejected(t *testing.T) {
	m, store, rec := newManager(t)
	ctx := context.Background()

	held, err := m.Create(ctx)
	require.NoError(t, err)
	items, err := held.Ledger().List(ctx)
	require.NoError(t, err)
	require.NoError(t, m.End(ctx, held.ID))
	before := len(rec.Events())

	_, err = held.Ledger().Add(ctx, "Late", core.Money{Cents: 100}, core.Food)
	assert.ErrorIs(t, err, ledger.ErrSessionEnded)
	assert.ErrorIs(t, held.Ledger().Remove(ctx, items[0].ID), ledger.ErrSessionEnded)
	assert.ErrorIs(t, held.SetTheme(ctx, theme.Sith), ledger.ErrSessionEnded)
	assert.Equal(t, theme.Light, held.Theme().Mode())

	left, err := store.List(ctx, held.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Len(t, rec.Events(), before)
}

func TestShutdownClosesHeldSessions(t *testing.T) {
	m, store, _ := newManager(t)
	held, err := m.Create(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, m.Run(ctx))
	assert.Zero(t, m.Len())

	_, err = held.Ledger().Add(context.Background(), "Late", core.Money{Cents: 100}, core.Food)
	assert.ErrorIs(t, err, ledger.ErrSessionEnded)
	left, err := store.List(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}
