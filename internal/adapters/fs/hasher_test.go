package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.trai.ch/bale/internal/adapters/fs"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestWalker_PatternAndSkips(t *testing.T) {
	tmp := t.TempDir()
	write(t, tmp, "a.less", "")
	write(t, tmp, "b.css", "")
	if err := os.MkdirAll(filepath.Join(tmp, ".git"), 0o750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	write(t, filepath.Join(tmp, ".git"), "c.less", "")

	w := fs.NewWalker()
	var got []string
	for path := range w.WalkFiles(tmp, "*.less") {
		got = append(got, filepath.Base(path))
	}

	if len(got) != 1 || got[0] != "a.less" {
		t.Errorf("expected only a.less, got %v", got)
	}
}

func TestHasher_ModTimeNano(t *testing.T) {
	tmp := t.TempDir()
	path := write(t, tmp, "app.js", "x")

	h := fs.NewHasher(fs.NewWalker())
	mtime, err := h.ModTimeNano(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mtime == 0 {
		t.Error("expected a non-zero modification time")
	}

	if _, err := h.ModTimeNano(filepath.Join(tmp, "missing.js")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestHasher_DirSaltChangesWithContent(t *testing.T) {
	tmp := t.TempDir()
	path := write(t, tmp, "base.less", "@c: red;")

	h := fs.NewHasher(fs.NewWalker())
	before, err := h.DirSalt(tmp, "*.less")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Bump the mtime well past filesystem timestamp granularity.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("failed to change mtime: %v", err)
	}

	after, err := h.DirSalt(tmp, "*.less")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before == after {
		t.Error("expected the salt to change when a file changes")
	}
}

func TestHasher_DirSaltIgnoresOtherPatterns(t *testing.T) {
	tmp := t.TempDir()
	write(t, tmp, "base.less", "@c: red;")

	h := fs.NewHasher(fs.NewWalker())
	before, err := h.DirSalt(tmp, "*.less")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	write(t, tmp, "notes.txt", "unrelated")

	after, err := h.DirSalt(tmp, "*.less")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before != after {
		t.Error("files outside the pattern must not affect the salt")
	}
}

func TestHasher_DirSaltMissingDirIsZero(t *testing.T) {
	h := fs.NewHasher(fs.NewWalker())
	salt, err := h.DirSalt(filepath.Join(t.TempDir(), "nope"), "*.less")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if salt != 0 {
		t.Errorf("expected zero salt for a missing directory, got %d", salt)
	}
}
