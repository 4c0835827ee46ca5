package ports

// ProcessCache is an optional fast in-process cache used to avoid reloading
// the manifest or configuration on every request. Absence of the capability
// must not change behavior, only performance; callers go through the
// nil-safe helpers below.
type ProcessCache interface {
	// Fetch returns the cached value, or ok=false when absent.
	Fetch(key string) (any, bool)

	// Store caches the value under the key.
	Store(key string, value any)

	// Delete removes the key.
	Delete(key string)
}

// CacheFetch is a nil-safe Fetch.
func CacheFetch(c ProcessCache, key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.Fetch(key)
}

// CacheStore is a nil-safe Store.
func CacheStore(c ProcessCache, key string, value any) {
	if c != nil {
		c.Store(key, value)
	}
}

// CacheDelete is a nil-safe Delete.
func CacheDelete(c ProcessCache, key string) {
	if c != nil {
		c.Delete(key)
	}
}
