// Package renderer drives resolution and the build cache per render call,
// producing ordered, de-duplicated output reference lists.
package renderer

import (
	"context"
	"sync"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/engine/cache"
	"go.trai.ch/bale/internal/engine/resolver"
	"go.trai.ch/bale/internal/metrics"
	"go.trai.ch/zerr"
)

// Mode selects the rendering strategy.
type Mode int

const (
	// Development resolves dependencies and builds through the cache on
	// every call.
	Development Mode = iota
	// Production serves the precomputed manifest with no resolution or
	// compilation.
	Production
)

// Renderer produces the ordered output reference list for a render call.
// Paths already emitted within the current render scope are suppressed, so a
// group reachable via multiple dependency paths is emitted exactly once.
type Renderer struct {
	mode     Mode
	registry *domain.Registry
	resolver *resolver.Resolver
	cache    *cache.Cache
	manifest *domain.Manifest
	metrics  *metrics.Recorder

	mu       sync.Mutex
	rendered map[string]bool
}

// NewDevelopment creates a development-mode Renderer.
func NewDevelopment(registry *domain.Registry, res *resolver.Resolver, c *cache.Cache, rec *metrics.Recorder) *Renderer {
	return &Renderer{
		mode:     Development,
		registry: registry,
		resolver: res,
		cache:    c,
		metrics:  rec,
		rendered: make(map[string]bool),
	}
}

// NewProduction creates a production-mode Renderer over a loaded manifest.
func NewProduction(registry *domain.Registry, manifest *domain.Manifest, rec *metrics.Recorder) *Renderer {
	return &Renderer{
		mode:     Production,
		registry: registry,
		manifest: manifest,
		metrics:  rec,
		rendered: make(map[string]bool),
	}
}

// Render returns the output references for the named groups (all configured
// groups of the kind when names is empty), skipping references already
// emitted in this render scope.
func (r *Renderer) Render(ctx context.Context, kind domain.Kind, names []string, force bool) ([]string, error) {
	r.metrics.Render(string(kind))

	if len(names) == 0 {
		names = r.registry.Names(kind)
	}

	var refs []string
	var err error
	if r.mode == Production {
		refs, err = r.renderProduction(kind, names, force)
	} else {
		refs, err = r.renderDevelopment(ctx, kind, names, force)
	}
	if err != nil {
		return nil, err
	}

	return r.emit(refs), nil
}

// Reset starts a new render scope, forgetting previously emitted paths.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rendered = make(map[string]bool)
}

func (r *Renderer) renderDevelopment(ctx context.Context, kind domain.Kind, names []string, force bool) ([]string, error) {
	resolved, err := r.resolver.Resolve(kind, names, force)
	if err != nil {
		return nil, err
	}

	var refs []string
	for _, name := range resolved {
		group, ok := r.registry.Get(kind, name)
		if !ok {
			continue
		}
		if !group.Enabled && !force {
			continue
		}

		built, err := r.cache.EnsureBuilt(ctx, &group)
		if err != nil {
			return nil, err
		}
		refs = append(refs, built...)
	}
	return refs, nil
}

func (r *Renderer) renderProduction(kind domain.Kind, names []string, force bool) ([]string, error) {
	if r.manifest == nil {
		return nil, zerr.With(domain.ErrManifestMissing, "kind", string(kind))
	}

	var refs []string
	for _, name := range names {
		entry, ok := r.manifest.Lookup(kind, name)
		if !ok {
			continue
		}
		if !entry.Enabled && !force {
			continue
		}
		refs = append(refs, entry.CompiledFiles...)
	}
	return refs, nil
}

// emit appends each reference not yet seen in this scope and records it.
// De-duplication is strictly additive: repeated calls never re-order
// previously emitted references.
func (r *Renderer) emit(refs []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref == "" || r.rendered[ref] {
			continue
		}
		r.rendered[ref] = true
		out = append(out, ref)
	}
	return out
}
