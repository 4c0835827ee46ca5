package domain

import "go.trai.ch/zerr"

var (
	// ErrDependencyDepthExceeded is returned when dependency resolution
	// recurses past the configured depth bound. This typically indicates a
	// dependency cycle in the group configuration.
	ErrDependencyDepthExceeded = zerr.New("dependency depth exceeded")

	// ErrGroupAlreadyExists is returned when a group name is declared twice
	// within one kind.
	ErrGroupAlreadyExists = zerr.New("group already exists")

	// ErrTransformFailed is returned when a compile or minify transform
	// fails on its input. It is never swallowed: a broken asset must not be
	// served stale or empty.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrCacheStoreUnavailable is returned when the persistent artifact
	// store cannot be read or written.
	ErrCacheStoreUnavailable = zerr.New("cache store unavailable")

	// ErrManifestMissing is returned when production mode cannot load a
	// render manifest. Production has no fallback resolution path, so this
	// is fatal.
	ErrManifestMissing = zerr.New("render manifest missing")
)
