package domain

// DefaultMaxDepth bounds dependency resolution recursion.
const DefaultMaxDepth = 5

// Settings holds pipeline-wide configuration: directory layout, the
// resolution depth bound, and the external transform commands.
type Settings struct {
	// SourceDir holds plain script/style sources.
	SourceDir string
	// LessDir holds LESS sources. Any change under it invalidates every
	// LESS-derived cache entry.
	LessDir string
	// CacheDir holds compiled artifacts and the render manifest.
	CacheDir string

	// MaxDepth is the dependency resolution depth bound.
	MaxDepth int

	// Minify enables the minification transform (production builds).
	Minify bool

	// CompileCommand is the LESS compiler invocation; source paths are
	// appended as arguments and compiled CSS is read from stdout.
	CompileCommand []string
	// MinifyCommand maps a kind to its minifier invocation; input is piped
	// to stdin and minified output read from stdout.
	MinifyCommand map[Kind][]string
}

// Config is the loaded configuration: the group registry plus settings.
type Config struct {
	Registry *Registry
	Settings Settings
}
