// Package manifest builds, persists, and loads the production render
// manifest.
package manifest

import (
	"context"
	"encoding/json"
	"strings"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/bale/internal/engine/cache"
	"go.trai.ch/bale/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// CacheKey is the process-cache key for the loaded manifest.
const CacheKey = "bale:manifest"

// Builder is the offline batch driver that force-builds every configured
// group and serializes the resulting manifest. It never runs during request
// serving.
type Builder struct {
	registry     *domain.Registry
	resolver     *resolver.Resolver
	cache        *cache.Cache
	store        ports.ArtifactStore
	processCache ports.ProcessCache
	logger       ports.Logger
}

// NewBuilder creates a manifest Builder.
func NewBuilder(
	registry *domain.Registry,
	res *resolver.Resolver,
	c *cache.Cache,
	store ports.ArtifactStore,
	processCache ports.ProcessCache,
	logger ports.Logger,
) *Builder {
	return &Builder{
		registry:     registry,
		resolver:     res,
		cache:        c,
		store:        store,
		processCache: processCache,
		logger:       logger,
	}
}

// BuildAll force-builds every group of every kind (enabled or not, so a
// later forced enable in production can be served), captures each group's
// resolved closure as its compiled-file list, persists the manifest, and
// sweeps stale store entries.
func (b *Builder) BuildAll(ctx context.Context) (*domain.Manifest, error) {
	m := domain.NewManifest()
	generated := map[string]bool{domain.ManifestName: true}

	for _, kind := range domain.Kinds {
		// Enabled flags as configured: the forced resolution below mutates
		// them, and the manifest must record the configured state.
		snapshot := b.registry.EnabledSnapshot(kind)

		for _, name := range b.registry.Names(kind) {
			group, ok := b.registry.Get(kind, name)
			if !ok {
				continue
			}
			refs, err := b.cache.EnsureBuilt(ctx, &group)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to build group"), "group", name)
			}
			for _, ref := range refs {
				if isLocal(ref) {
					generated[ref] = true
				}
			}
		}

		for _, name := range b.registry.Names(kind) {
			entry, err := b.buildEntry(ctx, kind, name, snapshot[name])
			if err != nil {
				return nil, err
			}
			m.Groups[kind][name] = entry
		}
	}

	if err := b.persist(m); err != nil {
		return nil, err
	}

	ports.CacheDelete(b.processCache, CacheKey)

	if err := b.sweep(generated); err != nil {
		return nil, err
	}

	return m, nil
}

// buildEntry force-resolves the group's dependency closure and collects the
// already-built reference list in resolved order, deduplicated.
func (b *Builder) buildEntry(ctx context.Context, kind domain.Kind, name string, enabled bool) (domain.ManifestEntry, error) {
	closure, err := b.resolver.Resolve(kind, []string{name}, true)
	if err != nil {
		return domain.ManifestEntry{}, err
	}

	seen := make(map[string]bool)
	var files []string
	for _, member := range closure {
		group, ok := b.registry.Get(kind, member)
		if !ok {
			continue
		}
		refs, err := b.cache.EnsureBuilt(ctx, &group)
		if err != nil {
			return domain.ManifestEntry{}, err
		}
		for _, ref := range refs {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			files = append(files, ref)
		}
	}

	return domain.ManifestEntry{CompiledFiles: files, Enabled: enabled}, nil
}

func (b *Builder) persist(m *domain.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal manifest")
	}
	return b.store.Set(domain.ManifestName, data)
}

// sweep removes store entries whose keys were not just generated. The
// generated set acts as a blacklist against self-deletion.
func (b *Builder) sweep(generated map[string]bool) error {
	keys, err := b.store.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if generated[key] {
			continue
		}
		if err := b.store.Remove(key); err != nil {
			return err
		}
		b.logger.Info("purged stale artifact " + key)
	}
	return nil
}

// isLocal reports whether the reference is a store key rather than a remote
// URL passthrough.
func isLocal(ref string) bool {
	return !strings.Contains(ref, "://")
}

// Load reads the persisted manifest, going through the process cache when
// one is available. A missing or unreadable manifest is fatal in production:
// there is no fallback resolution path.
func Load(store ports.ArtifactStore, processCache ports.ProcessCache) (*domain.Manifest, error) {
	if v, ok := ports.CacheFetch(processCache, CacheKey); ok {
		if m, ok := v.(*domain.Manifest); ok {
			return m, nil
		}
	}

	if !store.Has(domain.ManifestName) {
		return nil, domain.ErrManifestMissing
	}
	data, err := store.Get(domain.ManifestName)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrManifestMissing, err.Error())
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.Wrap(domain.ErrManifestMissing, err.Error())
	}

	ports.CacheStore(processCache, CacheKey, &m)
	return &m, nil
}
