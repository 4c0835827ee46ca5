// Package domain contains the core domain models for the asset pipeline:
// asset groups, the group registry, and the production manifest.
package domain

// Kind identifies the asset kind of a group.
type Kind string

const (
	// KindScript is the JavaScript asset kind.
	KindScript Kind = "script"
	// KindStyle is the CSS asset kind.
	KindStyle Kind = "style"
)

// Kinds lists all asset kinds in a stable order.
var Kinds = []Kind{KindScript, KindStyle}

// Ext returns the output file extension for the kind.
func (k Kind) Ext() string {
	if k == KindScript {
		return "js"
	}
	return "css"
}

// Group is a named collection of same-kind source references sharing
// enablement and dependency metadata. Names are unique within their kind.
type Group struct {
	Name string
	Kind Kind

	// Files are plain local source file names, in declared order.
	Files []string
	// LessFiles are LESS-dialect source file names (style groups only).
	// They are compiled before Files are concatenated.
	LessFiles []string
	// Remote are remote URL references, passed through verbatim.
	Remote []string

	// Enabled is mutable at runtime: explicitly via registry calls and
	// implicitly when the group is pulled in as a dependency.
	Enabled bool

	// DependsOn lists dependency group names of the same kind.
	DependsOn []string
}

// HasLocalSources reports whether the group has anything to compile.
func (g *Group) HasLocalSources() bool {
	return len(g.Files) > 0 || len(g.LessFiles) > 0
}

// LocalSources returns the local sources in build order: LESS files first,
// then plain files.
func (g *Group) LocalSources() []string {
	sources := make([]string, 0, len(g.LessFiles)+len(g.Files))
	sources = append(sources, g.LessFiles...)
	sources = append(sources, g.Files...)
	return sources
}
