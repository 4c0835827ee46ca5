// Package app implements the application layer for bale.
package app

import (
	"context"
	"time"

	"go.trai.ch/bale/internal/adapters/fs"
	"go.trai.ch/bale/internal/adapters/store"
	"go.trai.ch/bale/internal/adapters/transform"
	"go.trai.ch/bale/internal/adapters/watcher"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/bale/internal/engine/cache"
	"go.trai.ch/bale/internal/engine/manifest"
	"go.trai.ch/bale/internal/engine/renderer"
	"go.trai.ch/bale/internal/engine/resolver"
	"go.trai.ch/bale/internal/metrics"
	"go.trai.ch/zerr"
)

const configCacheKey = "bale:config:"

const debounceWindow = 250 * time.Millisecond

// App drives the asset pipeline: rendering in development or production
// mode, baking the production manifest, and watching sources in development.
type App struct {
	loader       ports.ConfigLoader
	logger       ports.Logger
	processCache ports.ProcessCache
	tracer       ports.Tracer
	recorder     *metrics.Recorder

	configPath string
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, logger ports.Logger, processCache ports.ProcessCache, tracer ports.Tracer) *App {
	return &App{
		loader:       loader,
		logger:       logger,
		processCache: processCache,
		tracer:       tracer,
		recorder:     metrics.NewRecorder(nil),
		configPath:   "assets.yaml",
	}
}

// SetConfigPath overrides the configuration file path.
func (a *App) SetConfigPath(path string) {
	if path != "" {
		a.configPath = path
	}
}

// SetTracer replaces the tracer, e.g. with a progress recorder for baking.
func (a *App) SetTracer(tracer ports.Tracer) {
	a.tracer = tracer
}

// Render returns the ordered output references for the named groups.
// Production mode serves the baked manifest; development mode resolves and
// builds through the cache.
func (a *App) Render(ctx context.Context, kind domain.Kind, names []string, force, production bool) ([]string, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	eng, err := a.newEngine(cfg.Registry, cfg.Settings)
	if err != nil {
		return nil, err
	}

	var r *renderer.Renderer
	if production {
		m, err := manifest.Load(eng.store, a.processCache)
		if err != nil {
			return nil, err
		}
		r = renderer.NewProduction(cfg.Registry, m, a.recorder)
	} else {
		r = renderer.NewDevelopment(cfg.Registry, eng.resolver, eng.cache, a.recorder)
	}

	return r.Render(ctx, kind, names, force)
}

// Bake builds the production manifest: every group of every kind is
// force-built with minification applied, then the manifest is persisted and
// stale artifacts swept.
func (a *App) Bake(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	// Production artifacts are always minified. The copy keeps the flag out
	// of the cached config used by development renders.
	settings := cfg.Settings
	settings.Minify = true

	eng, err := a.newEngine(cfg.Registry, settings)
	if err != nil {
		return err
	}

	builder := manifest.NewBuilder(cfg.Registry, eng.resolver, eng.cache, eng.store, a.processCache, a.logger)
	if _, err := builder.BuildAll(ctx); err != nil {
		return zerr.Wrap(err, "manifest build failed")
	}

	a.logger.Info("manifest baked to " + eng.store.Dir())
	return nil
}

// Watch re-renders all groups whenever a source file changes, until the
// context is canceled. Development use only.
func (a *App) Watch(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	w, err := watcher.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create watcher")
	}
	defer w.Stop() //nolint:errcheck // best effort close

	debouncer := watcher.NewDebouncer(debounceWindow, func(paths []string) {
		a.logger.Info("sources changed, re-rendering")
		for _, kind := range domain.Kinds {
			if _, err := a.Render(ctx, kind, nil, false, false); err != nil {
				a.logger.Error(err)
			}
		}
	})

	roots := []string{cfg.Settings.SourceDir}
	if cfg.Settings.LessDir != "" && cfg.Settings.LessDir != cfg.Settings.SourceDir {
		roots = append(roots, cfg.Settings.LessDir)
	}
	if err := w.Start(ctx, roots...); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}

	go func() {
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
	}()

	<-ctx.Done()
	debouncer.Flush()
	return nil
}

// Enable marks a group enabled for subsequent renders in this process.
func (a *App) Enable(kind domain.Kind, name string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	cfg.Registry.Enable(kind, name)
	return nil
}

// Disable marks a group disabled for subsequent renders in this process.
func (a *App) Disable(kind domain.Kind, name string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	cfg.Registry.Disable(kind, name)
	return nil
}

// Clean removes every artifact from the store, including the manifest.
func (a *App) Clean() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	s, err := store.NewStore(cfg.Settings.CacheDir)
	if err != nil {
		return err
	}

	keys, err := s.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.Remove(key); err != nil {
			return err
		}
	}

	ports.CacheDelete(a.processCache, manifest.CacheKey)
	a.logger.Info("cache cleaned")
	return nil
}

// loadConfig loads the configuration, going through the process cache so the
// registry (and its mutable enabled state) is shared within the process.
func (a *App) loadConfig() (*domain.Config, error) {
	key := configCacheKey + a.configPath
	if v, ok := ports.CacheFetch(a.processCache, key); ok {
		if cfg, ok := v.(*domain.Config); ok {
			return cfg, nil
		}
	}

	cfg, err := a.loader.Load(a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	ports.CacheStore(a.processCache, key, cfg)
	return cfg, nil
}

// engine bundles the per-configuration pipeline pieces.
type engine struct {
	store    *store.Store
	resolver *resolver.Resolver
	cache    *cache.Cache
}

func (a *App) newEngine(registry *domain.Registry, settings domain.Settings) (*engine, error) {
	s, err := store.NewStore(settings.CacheDir)
	if err != nil {
		return nil, err
	}

	pipeline := transform.NewPipeline(settings, a.logger)
	hasher := fs.NewHasher(fs.NewWalker())
	res := resolver.NewResolver(registry, settings.MaxDepth)
	c := cache.NewCache(s, pipeline, hasher, a.tracer, a.recorder, settings)

	return &engine{store: s, resolver: res, cache: c}, nil
}
