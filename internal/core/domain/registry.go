package domain

import (
	"sync"

	"go.trai.ch/zerr"
)

// Registry holds all configured asset groups, keyed by kind and name.
//
// The enabled flag of a group is shared mutable state: dependency resolution
// enables groups as a side effect of resolving them. All access goes through
// the registry's lock so concurrent render calls stay consistent.
type Registry struct {
	mu     sync.RWMutex
	groups map[Kind]map[string]*Group
	order  map[Kind][]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	groups := make(map[Kind]map[string]*Group, len(Kinds))
	order := make(map[Kind][]string, len(Kinds))
	for _, k := range Kinds {
		groups[k] = make(map[string]*Group)
	}
	return &Registry{groups: groups, order: order}
}

// Add registers a group. It returns an error if a group with the same name
// already exists within the kind.
func (r *Registry) Add(g *Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.groups[g.Kind][g.Name]; exists {
		return zerr.With(ErrGroupAlreadyExists, "group", g.Name)
	}
	r.groups[g.Kind][g.Name] = g
	r.order[g.Kind] = append(r.order[g.Kind], g.Name)
	return nil
}

// Get returns a copy of the named group. Unknown names return ok=false;
// callers skip them silently rather than failing (dependencies on removed or
// not-yet-defined groups must not break rendering).
func (r *Registry) Get(kind Kind, name string) (Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[kind][name]
	if !ok {
		return Group{}, false
	}
	return *g, true
}

// Names returns all group names of the kind in declaration order.
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order[kind]))
	copy(names, r.order[kind])
	return names
}

// Enable marks the named group enabled. Unknown names are ignored.
func (r *Registry) Enable(kind Kind, name string) {
	r.setEnabled(kind, name, true)
}

// Disable marks the named group disabled. Unknown names are ignored.
func (r *Registry) Disable(kind Kind, name string) {
	r.setEnabled(kind, name, false)
}

func (r *Registry) setEnabled(kind Kind, name string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.groups[kind][name]; ok {
		g.Enabled = enabled
	}
}

// IsEnabled reports the current enabled flag of the named group.
func (r *Registry) IsEnabled(kind Kind, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[kind][name]
	return ok && g.Enabled
}

// EnabledSnapshot captures the enabled flag of every group of the kind.
// The manifest builder records flags as configured, before forced resolution
// mutates them.
func (r *Registry) EnabledSnapshot(kind Kind) map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]bool, len(r.groups[kind]))
	for name, g := range r.groups[kind] {
		snap[name] = g.Enabled
	}
	return snap
}
