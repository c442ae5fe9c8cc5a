package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Now()
	c := NewLRUCache[string](10, time.Second)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("j", "w")
	now = now.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry returned")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUCacheGetOrLoad(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)
	calls := 0
	load := func() (int, error) { calls++; return 42, nil }

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("x", load)
		if err != nil || v != 42 {
			t.Fatalf("GetOrLoad = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("loader called %d times", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrLoad("y", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := c.Get("y"); ok {
		t.Fatal("errors must not be cached")
	}

	s := c.Stats()
	if s.Hits != 2 || s.Size != 1 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestManagerCleanAll(t *testing.T) {
	now := time.Now()
	a := NewLRUCache[int](4, time.Second)
	a.now = func() time.Time { return now }
	a.Set("1", 1)
	a.Set("2", 2)

	m := NewManager()
	m.Register(a)
	now = now.Add(time.Hour)
	if n := m.CleanAll(); n != 2 {
		t.Fatalf("CleanAll = %d", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx, time.Millisecond); err != nil {
		t.Fatalf("Run = %v", err)
	}
}
