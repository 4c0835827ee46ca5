// Package fs provides file system helpers for walking source trees and
// fingerprinting source files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files under root whose basename matches pattern
// (every file when pattern is empty). Hidden VCS directories are skipped.
func (w *Walker) WalkFiles(root, pattern string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if d.Name() == ".git" || d.Name() == ".jj" {
					return filepath.SkipDir
				}
				return nil
			}

			if pattern != "" {
				if matched, _ := filepath.Match(pattern, d.Name()); !matched {
					return nil
				}
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
