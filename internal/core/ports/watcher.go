package ports

import (
	"context"
	"iter"
)

// WatchOp classifies a file system event.
type WatchOp int

const (
	// OpWrite indicates file content changed.
	OpWrite WatchOp = iota
	// OpCreate indicates a file or directory was created.
	OpCreate
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// WatchEvent is a single file system change.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Watcher defines recursive file system watching for development mode.
type Watcher interface {
	// Start begins watching the given roots recursively.
	Start(ctx context.Context, roots ...string) error

	// Events returns an iterator of file system events.
	Events() iter.Seq[WatchEvent]

	// Stop stops the watcher and releases all resources.
	Stop() error
}
