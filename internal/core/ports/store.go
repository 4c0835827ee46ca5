package ports

// ArtifactStore defines the persistent, keyed byte store for compiled
// artifacts. Keys are flat basenames; the store survives process restarts
// and must tolerate concurrent readers and writers from multiple processes.
// Correctness relies on content-addressing making redundant writes
// idempotent, not on locking.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Has reports whether the key exists in the store.
	Has(key string) bool

	// Get returns the bytes stored under the key.
	Get(key string) ([]byte, error)

	// Set stores the bytes under the key.
	Set(key string, data []byte) error

	// Keys lists all stored keys.
	Keys() ([]string, error)

	// Remove deletes the entry for the key. Used only by the manifest
	// builder's stale-entry sweep.
	Remove(key string) error
}
