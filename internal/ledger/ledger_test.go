package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intentos/internal/core"
	"intentos/internal/events"
)

// fakeStore is a minimal ordered store with optional injected failures.
type fakeStore struct {
	mu      sync.Mutex
	items   map[string][]core.Expense
	failAdd error
}

func newFakeStore() *fakeStore { return &fakeStore{items: map[string][]core.Expense{}} }

func (f *fakeStore) Append(_ context.Context, sid string, e core.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdd != nil {
		return f.failAdd
	}
	f.items[sid] = append(f.items[sid], e)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, sid, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.items[sid] {
		if e.ID == id {
			f.items[sid] = append(append([]core.Expense{}, f.items[sid][:i]...), f.items[sid][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) List(_ context.Context, sid string) ([]core.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Expense(nil), f.items[sid]...), nil
}

func (f *fakeStore) Purge(_ context.Context, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, sid)
	return nil
}

func money(c int64) core.Money { return core.Money{Cents: c} }

func TestAddAssignsIDAndDate(t *testing.T) {
	rec := events.NewRecorder()
	l := New("s1", newFakeStore(), rec)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	e, err := l.Add(context.Background(), "Coffee", money(350), core.Food)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, fixed, e.Date)
	assert.Equal(t, "Coffee", e.Description)

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.ExpenseAdded, evs[0].Type)
	assert.Equal(t, e.ID, evs[0].ExpenseID)
	assert.Equal(t, int64(350), evs[0].AmountCents)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	store := newFakeStore()
	rec := events.NewRecorder()
	l := New("s1", store, rec)
	ctx := context.Background()

	_, err := l.Add(ctx, "", money(100), core.Food)
	assert.ErrorIs(t, err, core.ErrEmptyDescription)
	_, err = l.Add(ctx, "x", money(0), core.Food)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = l.Add(ctx, "x", money(1), "")
	assert.ErrorIs(t, err, core.ErrInvalidExpense)

	items, err := l.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, rec.Events())
}

func TestIDsAreUnique(t *testing.T) {
	l := New("s1", newFakeStore(), nil)
	ctx := context.Background()
	seen := map[string]bool{}
	var removed []string
	for i := 0; i < 200; i++ {
		e, err := l.Add(ctx, fmt.Sprintf("e%d", i), money(1), core.Other)
		require.NoError(t, err)
		assert.False(t, seen[e.ID], "id %s reused", e.ID)
		seen[e.ID] = true
		if i%3 == 0 {
			require.NoError(t, l.Remove(ctx, e.ID))
			removed = append(removed, e.ID)
		}
	}
	assert.Len(t, seen, 200)
	assert.NotEmpty(t, removed)
}

func TestConcurrentAddsKeepUniqueIDs(t *testing.T) {
	l := New("s1", newFakeStore(), nil)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = l.Add(ctx, fmt.Sprintf("e%d", i), money(1), core.Food)
		}(i)
	}
	wg.Wait()
	items, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 50)
	ids := map[string]bool{}
	for _, e := range items {
		ids[e.ID] = true
	}
	assert.Len(t, ids, 50)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	l := New("s1", newFakeStore(), nil)
	ctx := context.Background()
	var want []string
	for i := 0; i < 10; i++ {
		e, err := l.Add(ctx, fmt.Sprintf("e%d", i), money(int64(10-i)), core.Food)
		require.NoError(t, err)
		want = append(want, e.ID)
	}
	items, err := l.List(ctx)
	require.NoError(t, err)
	var got []string
	for _, e := range items {
		got = append(got, e.ID)
	}
	assert.Equal(t, want, got)
}

func TestRemoveIsIdempotent(t *testing.T) {
	rec := events.NewRecorder()
	l := New("s1", newFakeStore(), rec)
	ctx := context.Background()
	a, _ := l.Add(ctx, "a", money(1), core.Food)
	b, _ := l.Add(ctx, "b", money(2), core.Food)

	require.NoError(t, l.Remove(ctx, a.ID))
	once, _ := l.List(ctx)
	require.NoError(t, l.Remove(ctx, a.ID))
	twice, _ := l.List(ctx)
	assert.Equal(t, once, twice)
	require.Len(t, twice, 1)
	assert.Equal(t, b.ID, twice[0].ID)

	require.NoError(t, l.Remove(ctx, "does-not-exist"))

	var removals int
	for _, e := range rec.Events() {
		if e.Type == events.ExpenseRemoved {
			removals++
		}
	}
	assert.Equal(t, 1, removals, "only the effective removal is published")
}

func TestSessionsAreIsolated(t *testing.T) {
	store := newFakeStore()
	a := New("a", store, nil)
	b := New("b", store, nil)
	ctx := context.Background()
	_, _ = a.Add(ctx, "x", money(1), core.Food)

	items, err := b.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSeedDefaults(t *testing.T) {
	l := New("s1", newFakeStore(), nil)
	require.NoError(t, l.SeedDefaults(context.Background()))
	items, _ := l.List(context.Background())
	require.Len(t, items, 2)
	assert.Equal(t, "Groceries", items[0].Description)
	assert.Equal(t, int64(12000), items[0].Amount.Cents)
	assert.Equal(t, core.Food, items[0].Category)
	assert.Equal(t, "Uber", items[1].Description)
	assert.Equal(t, core.Transport, items[1].Category)
}

func TestStoreFailureIsWrapped(t *testing.T) {
	store := newFakeStore()
	store.failAdd = errors.New("disk full")
	l := New("s1", store, nil)
	_, err := l.Add(context.Background(), "x", money(1), core.Food)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append expense")
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("broker down")
}
func (failingPublisher) Close() error { return nil }

func TestPublishFailureDoesNotFailAdd(t *testing.T) {
	l := New("s1", newFakeStore(), failingPublisher{})
	_, err := l.Add(context.Background(), "x", money(1), core.Food)
	assert.NoError(t, err)
}

func TestCloseRejectsLaterWrites(t *testing.T) {
	store := newFakeStore()
	l := New("s1", store, nil)
	ctx := context.Background()
	e, err := l.Add(ctx, "a", money(1), core.Food)
	require.NoError(t, err)

	require.NoError(t, l.Close(ctx))
	assert.True(t, l.Closed())

	_, err = l.Add(ctx, "late", money(2), core.Food)
	assert.ErrorIs(t, err, ErrSessionEnded)
	assert.ErrorIs(t, l.Remove(ctx, e.ID), ErrSessionEnded)

	items, err := store.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestConcurrentAddAndCloseLeaveNoRows(t *testing.T) {
	store := newFakeStore()
	l := New("s1", store, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Add(ctx, "x", money(1), core.Food)
			if err != nil {
				assert.ErrorIs(t, err, ErrSessionEnded)
			}
		}()
	}
	require.NoError(t, l.Close(ctx))
	wg.Wait()

	items, err := store.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
