// Package config provides the configuration loader for bale.
package config

import (
	"os"
	"slices"

	"github.com/joho/godotenv"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file with an optional
// .env overlay for directory overrides.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()
	return &Loader{logger: logger}
}

// Load reads the configuration file at the given path and returns the group
// registry together with pipeline settings.
func (l *Loader) Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file Assetfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	registry := domain.NewRegistry()
	if err := addGroups(registry, domain.KindScript, file.Scripts); err != nil {
		return nil, err
	}
	if err := addGroups(registry, domain.KindStyle, file.Styles); err != nil {
		return nil, err
	}

	l.warnUnknownDependencies(registry)

	return &domain.Config{
		Registry: registry,
		Settings: l.settings(&file),
	}, nil
}

// addGroups registers all groups of one kind, in sorted name order so the
// implicit "all groups" render order is deterministic.
func addGroups(registry *domain.Registry, kind domain.Kind, dtos map[string]GroupDTO) error {
	names := make([]string, 0, len(dtos))
	for name := range dtos {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		dto := dtos[name]

		// Absent enabled flag means enabled, not disabled.
		enabled := true
		if dto.Enabled != nil {
			enabled = *dto.Enabled
		}

		group := &domain.Group{
			Name:      name,
			Kind:      kind,
			Files:     dto.Files,
			LessFiles: dto.Less,
			Remote:    dto.Remote,
			Enabled:   enabled,
			DependsOn: dto.DependsOn,
		}
		if kind == domain.KindScript && len(dto.Less) > 0 {
			return zerr.With(zerr.New("less sources are only valid for style groups"), "group", name)
		}

		if err := registry.Add(group); err != nil {
			return err
		}
	}
	return nil
}

// warnUnknownDependencies logs dependencies on undeclared groups. They are
// not errors: resolution skips unknown names silently, so a dependency on a
// removed group must not break loading either.
func (l *Loader) warnUnknownDependencies(registry *domain.Registry) {
	for _, kind := range domain.Kinds {
		for _, name := range registry.Names(kind) {
			group, ok := registry.Get(kind, name)
			if !ok {
				continue
			}
			for _, dep := range group.DependsOn {
				if _, ok := registry.Get(kind, dep); !ok {
					l.logger.Warn("group " + name + " depends on undeclared group " + dep)
				}
			}
		}
	}
}

func (l *Loader) settings(file *Assetfile) domain.Settings {
	s := domain.Settings{
		SourceDir:      file.Paths.Source,
		LessDir:        file.Paths.Less,
		CacheDir:       file.Paths.Cache,
		MaxDepth:       file.MaxDepth,
		Minify:         file.Minify,
		CompileCommand: file.Transforms.Compile,
		MinifyCommand:  map[domain.Kind][]string{},
	}
	if len(file.Transforms.MinifyScript) > 0 {
		s.MinifyCommand[domain.KindScript] = file.Transforms.MinifyScript
	}
	if len(file.Transforms.MinifyStyle) > 0 {
		s.MinifyCommand[domain.KindStyle] = file.Transforms.MinifyStyle
	}
	if s.MaxDepth <= 0 {
		s.MaxDepth = domain.DefaultMaxDepth
	}

	// Environment overrides, typically from the .env overlay.
	if v := os.Getenv("BALE_SOURCE_DIR"); v != "" {
		s.SourceDir = v
	}
	if v := os.Getenv("BALE_LESS_DIR"); v != "" {
		s.LessDir = v
	}
	if v := os.Getenv("BALE_CACHE_DIR"); v != "" {
		s.CacheDir = v
	}
	return s
}
