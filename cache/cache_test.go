package cache

import (
	"sync"
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string, int](time.Minute)
	defer c.Destroy()

	c.Set("a", 1)

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit for key a")
	}
	if got != 1 {
		t.Errorf("expected 1, got %d", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestCache_LazyExpiry(t *testing.T) {
	c := New[string, string](10 * time.Millisecond)
	defer c.Destroy()

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to be reported absent")
	}
	// The expired read deletes the entry, so no sweep is needed.
	c.mu.Lock()
	_, stillThere := c.entries["k"]
	c.mu.Unlock()
	if stillThere {
		t.Error("expected expired entry to be deleted on read")
	}
}

func TestCache_SetTTLOverride(t *testing.T) {
	c := New[string, int](10 * time.Millisecond)
	defer c.Destroy()

	c.SetTTL("long", 7, time.Minute)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("long"); !ok {
		t.Error("expected entry with override TTL to survive the default TTL")
	}
}

func TestCache_SetIfAbsent(t *testing.T) {
	c := New[string, struct{}](time.Minute)
	defer c.Destroy()

	if !c.SetIfAbsent("nonce", struct{}{}) {
		t.Fatal("first insert should succeed")
	}
	if c.SetIfAbsent("nonce", struct{}{}) {
		t.Error("second insert should report the key as present")
	}
}

func TestCache_SetIfAbsentExpiredCountsAsAbsent(t *testing.T) {
	c := New[string, int](10 * time.Millisecond)
	defer c.Destroy()

	c.Set("k", 1)
	time.Sleep(20 * time.Millisecond)

	if !c.SetIfAbsent("k", 2) {
		t.Error("expired entry should count as absent")
	}
}

func TestCache_SetIfAbsentLinearizable(t *testing.T) {
	c := New[string, struct{}](time.Minute)
	defer c.Destroy()

	const goroutines = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.SetIfAbsent("shared", struct{}{}) {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if inserted != 1 {
		t.Errorf("expected exactly one successful insert, got %d", inserted)
	}
}

func TestCache_SweepRemovesExpired(t *testing.T) {
	c := New[string, int](10 * time.Millisecond)
	defer c.Destroy()

	c.Set("a", 1)
	c.Set("b", 2)
	c.SetTTL("c", 3, time.Minute)
	time.Sleep(20 * time.Millisecond)

	removed := c.Sweep()
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("expected 1 live entry, got %d", got)
	}
}

func TestCache_DeleteAndHas(t *testing.T) {
	c := New[string, int](time.Minute)
	defer c.Destroy()

	c.Set("a", 1)
	if !c.Has("a") {
		t.Error("expected Has to report live entry")
	}
	c.Delete("a")
	if c.Has("a") {
		t.Error("expected entry to be gone after Delete")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New[string, int](time.Minute)
	defer c.Destroy()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if got := c.Len(); got != 0 {
		t.Errorf("expected empty cache, got %d entries", got)
	}
}

func TestCache_BackgroundSweeper(t *testing.T) {
	c := NewWithSweepInterval[string, int](5*time.Millisecond, 10*time.Millisecond)
	defer c.Destroy()

	c.Set("a", 1)
	time.Sleep(50 * time.Millisecond)

	c.mu.Lock()
	size := len(c.entries)
	c.mu.Unlock()
	if size != 0 {
		t.Errorf("expected sweeper to evict expired entries, %d remain", size)
	}
}

func TestCache_DestroyIdempotent(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Destroy()
	c.Destroy()

	// The cache stays usable after Destroy.
	c.Set("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Error("expected cache to remain usable after Destroy")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewWithSweepInterval[int, int](time.Millisecond, time.Millisecond)
	defer c.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(n*100+j, j)
				c.Get(n * 100)
				c.Sweep()
			}
		}(i)
	}
	wg.Wait()
}
