// Package resolver expands requested group lists into their full ordered
// dependency closure.
package resolver

import (
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver expands group names into an ordered list including transitive
// dependencies. Expansion is bounded by a recursion depth instead of full
// cycle detection: a cycle inevitably exceeds the bound.
type Resolver struct {
	registry *domain.Registry
	maxDepth int
}

// NewResolver creates a Resolver over the registry with the given depth
// bound (domain.DefaultMaxDepth when non-positive).
func NewResolver(registry *domain.Registry, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = domain.DefaultMaxDepth
	}
	return &Resolver{registry: registry, maxDepth: maxDepth}
}

// Resolve expands names into a fully ordered group list: dependencies are
// spliced immediately before their dependents and duplicates removed
// preserving first occurrence.
//
// Enablement semantics are deliberately asymmetric and load-bearing:
//   - a group that is disabled when requested at the top level is inert and
//     skipped entirely (dependencies unexpanded) unless force is set;
//   - a disabled group reached as someone else's dependency is always
//     enabled and pulled in, regardless of force.
//
// Every group that survives the top-level check is marked enabled in the
// registry as a side effect; that is the mechanism by which conditionally
// disabled groups become renderable.
func (r *Resolver) Resolve(kind domain.Kind, names []string, force bool) ([]string, error) {
	expanded, err := r.expand(kind, names, force, 0)
	if err != nil {
		return nil, err
	}
	return dedupe(expanded), nil
}

func (r *Resolver) expand(kind domain.Kind, names []string, force bool, depth int) ([]string, error) {
	if depth > r.maxDepth {
		return nil, zerr.With(zerr.With(domain.ErrDependencyDepthExceeded,
			"groups", names), "max_depth", r.maxDepth)
	}

	var out []string
	for _, name := range names {
		group, ok := r.registry.Get(kind, name)
		if !ok {
			// Unknown groups are skipped silently: a dependency on a
			// removed or not-yet-defined group must not break rendering.
			continue
		}

		if depth == 0 && !force && !group.Enabled {
			continue
		}

		r.registry.Enable(kind, name)

		if len(group.DependsOn) > 0 {
			deps, err := r.expand(kind, group.DependsOn, force, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, deps...)
		}
		out = append(out, name)
	}
	return out, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
