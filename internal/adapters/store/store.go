// Package store implements the persistent artifact store on the local
// filesystem: one file per key inside the cache directory.
package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactStore = (*Store)(nil)

// Store is a filesystem-backed ports.ArtifactStore. Keys are flat basenames
// under the cache directory. Writes are idempotent by contract: a key fully
// determines its content, so concurrent writers racing on the same key store
// identical bytes.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at the given cache directory, creating it
// if necessary.
func NewStore(dir string) (*Store, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheStoreUnavailable, err.Error()), "dir", dir)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Has reports whether the key exists.
func (s *Store) Has(key string) bool {
	_, err := os.Stat(filepath.Join(s.dir, key))
	return err == nil
}

// Get returns the bytes stored under the key.
func (s *Store) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key)) //nolint:gosec // keys are store-generated basenames
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheStoreUnavailable, err.Error()), "key", key)
	}
	return data, nil
}

// Set stores the bytes under the key. The write goes through a temp file and
// rename so concurrent readers never observe a partial artifact.
func (s *Store) Set(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".tmp*")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCacheStoreUnavailable, err.Error()), "key", key)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(domain.ErrCacheStoreUnavailable, err.Error()), "key", key)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(domain.ErrCacheStoreUnavailable, err.Error()), "key", key)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, key)); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(domain.ErrCacheStoreUnavailable, err.Error()), "key", key)
	}
	return nil
}

// Keys lists all stored keys.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(domain.ErrCacheStoreUnavailable, err.Error())
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		keys = append(keys, entry.Name())
	}
	return keys, nil
}

// Remove deletes the entry for the key. A missing key is not an error.
func (s *Store) Remove(key string) error {
	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrCacheStoreUnavailable, err.Error()), "key", key)
	}
	return nil
}
