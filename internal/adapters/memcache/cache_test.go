package memcache_test

import (
	"sync"
	"testing"

	"go.trai.ch/bale/internal/adapters/memcache"
)

func TestCache_FetchStoreDelete(t *testing.T) {
	c := memcache.New()

	if _, ok := c.Fetch("k"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Store("k", 42)
	v, ok := c.Fetch("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("expected 42, got %v (ok=%v)", v, ok)
	}

	c.Delete("k")
	if _, ok := c.Fetch("k"); ok {
		t.Fatal("expected miss after delete")
	}

	// Deleting an absent key is a no-op.
	c.Delete("k")
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := memcache.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Store("shared", n)
			_, _ = c.Fetch("shared")
		}(i)
	}
	wg.Wait()

	if _, ok := c.Fetch("shared"); !ok {
		t.Fatal("expected value to be present after concurrent writes")
	}
}
