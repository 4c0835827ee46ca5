package fs

import (
	"encoding/binary"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Hasher computes the filesystem-derived fingerprint components consumed by
// the build cache: per-source modification times and the LESS directory salt.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ModTimeNano returns the file's last-modified time in Unix nanoseconds.
func (h *Hasher) ModTimeNano(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat source"), "path", path)
	}
	return info.ModTime().UnixNano(), nil
}

// DirSalt fingerprints every file under dir matching pattern by path,
// modification time, and size. The LESS dialect supports cross-file includes
// that are never declared as dependencies, so the cache salts LESS-derived
// keys with the state of the whole directory instead of tracking the import
// graph: touching any LESS file invalidates every LESS-derived entry.
func (h *Hasher) DirSalt(dir, pattern string) (uint64, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, zerr.With(zerr.Wrap(err, "failed to stat directory"), "dir", dir)
	}

	var paths []string
	for path := range h.walker.WalkFiles(dir, pattern) {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	digest := xxhash.New()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
		}
		_, _ = digest.WriteString(path)
		_, _ = digest.Write([]byte{0})
		_ = binary.Write(digest, binary.LittleEndian, info.ModTime().UnixNano())
		_ = binary.Write(digest, binary.LittleEndian, info.Size())
	}
	return digest.Sum64(), nil
}
