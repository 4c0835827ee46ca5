package renderer_test

import (
	"context"
	"errors"
	"testing"

	"go.trai.ch/bale/internal/adapters/telemetry"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports/mocks"
	"go.trai.ch/bale/internal/engine/cache"
	"go.trai.ch/bale/internal/engine/renderer"
	"go.trai.ch/bale/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

// newDevRenderer builds a development renderer over remote-only groups, so
// the build cache passes references through without touching the store.
func newDevRenderer(t *testing.T, groups ...*domain.Group) (*renderer.Renderer, *domain.Registry) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	reg := domain.NewRegistry()
	for _, g := range groups {
		if err := reg.Add(g); err != nil {
			t.Fatalf("failed to add group %s: %v", g.Name, err)
		}
	}

	c := cache.NewCache(
		mocks.NewMockArtifactStore(ctrl),
		mocks.NewMockTransformer(ctrl),
		mocks.NewMockFingerprinter(ctrl),
		telemetry.NewNoOpTracer(),
		nil,
		domain.Settings{},
	)
	res := resolver.NewResolver(reg, 0)
	return renderer.NewDevelopment(reg, res, c, nil), reg
}

func TestRender_DisabledGroupIsInertWithoutForce(t *testing.T) {
	r, _ := newDevRenderer(t,
		&domain.Group{Name: "base", Kind: domain.KindStyle, Enabled: true, Remote: []string{"https://r/base.css"}},
		&domain.Group{Name: "theme", Kind: domain.KindStyle, Enabled: false, Remote: []string{"https://r/theme.css"}, DependsOn: []string{"base"}},
	)

	refs, err := r.Render(context.Background(), domain.KindStyle, []string{"theme"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected no output for a disabled group, got %v", refs)
	}
}

func TestRender_ForcePullsDependencyFirst(t *testing.T) {
	r, reg := newDevRenderer(t,
		&domain.Group{Name: "base", Kind: domain.KindStyle, Enabled: true, Remote: []string{"https://r/base.css"}},
		&domain.Group{Name: "theme", Kind: domain.KindStyle, Enabled: false, Remote: []string{"https://r/theme.css"}, DependsOn: []string{"base"}},
	)

	refs, err := r.Render(context.Background(), domain.KindStyle, []string{"theme"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 || refs[0] != "https://r/base.css" || refs[1] != "https://r/theme.css" {
		t.Fatalf("expected base before theme, got %v", refs)
	}
	if !reg.IsEnabled(domain.KindStyle, "theme") {
		t.Error("forced render must enable the group")
	}
}

func TestRender_RepeatedCallsEmitEachRefOnce(t *testing.T) {
	r, _ := newDevRenderer(t,
		&domain.Group{Name: "util", Kind: domain.KindScript, Enabled: true, Remote: []string{"https://r/util.js"}},
		&domain.Group{Name: "a", Kind: domain.KindScript, Enabled: true, Remote: []string{"https://r/a.js"}, DependsOn: []string{"util"}},
		&domain.Group{Name: "b", Kind: domain.KindScript, Enabled: true, Remote: []string{"https://r/b.js"}, DependsOn: []string{"util"}},
	)

	first, err := r.Render(context.Background(), domain.KindScript, []string{"a"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 2 || first[0] != "https://r/util.js" || first[1] != "https://r/a.js" {
		t.Fatalf("unexpected first render: %v", first)
	}

	// util was already emitted in this scope and must not repeat.
	second, err := r.Render(context.Background(), domain.KindScript, []string{"b"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 1 || second[0] != "https://r/b.js" {
		t.Fatalf("expected only b.js on the second render, got %v", second)
	}

	// A new scope emits everything again.
	r.Reset()
	third, err := r.Render(context.Background(), domain.KindScript, []string{"a"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(third) != 2 {
		t.Fatalf("expected a fresh scope to re-emit, got %v", third)
	}
}

func TestRender_EmptyNamesRenderAllGroups(t *testing.T) {
	r, _ := newDevRenderer(t,
		&domain.Group{Name: "a", Kind: domain.KindScript, Enabled: true, Remote: []string{"https://r/a.js"}},
		&domain.Group{Name: "b", Kind: domain.KindScript, Enabled: true, Remote: []string{"https://r/b.js"}},
	)

	refs, err := r.Render(context.Background(), domain.KindScript, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("expected all groups to render, got %v", refs)
	}
}

func TestRender_ProductionServesManifest(t *testing.T) {
	reg := domain.NewRegistry()
	m := domain.NewManifest()
	m.Groups[domain.KindScript]["app"] = domain.ManifestEntry{
		CompiledFiles: []string{"https://r/util.js", "app-abc.js"},
		Enabled:       true,
	}
	m.Groups[domain.KindScript]["admin"] = domain.ManifestEntry{
		CompiledFiles: []string{"admin-def.js"},
		Enabled:       false,
	}

	r := renderer.NewProduction(reg, m, nil)

	refs, err := r.Render(context.Background(), domain.KindScript, []string{"app", "admin"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 || refs[0] != "https://r/util.js" || refs[1] != "app-abc.js" {
		t.Fatalf("expected only the enabled entry's files, got %v", refs)
	}

	// Force serves disabled entries too.
	forced, err := r.Render(context.Background(), domain.KindScript, []string{"admin"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forced) != 1 || forced[0] != "admin-def.js" {
		t.Fatalf("expected the disabled entry under force, got %v", forced)
	}
}

func TestRender_ProductionWithoutManifestFails(t *testing.T) {
	r := renderer.NewProduction(domain.NewRegistry(), nil, nil)

	_, err := r.Render(context.Background(), domain.KindScript, []string{"app"}, false)
	if !errors.Is(err, domain.ErrManifestMissing) {
		t.Fatalf("expected ErrManifestMissing, got %v", err)
	}
}

func TestRender_ProductionSkipsUnknownGroups(t *testing.T) {
	m := domain.NewManifest()
	m.Groups[domain.KindStyle]["base"] = domain.ManifestEntry{CompiledFiles: []string{"base-1.css"}, Enabled: true}

	r := renderer.NewProduction(domain.NewRegistry(), m, nil)

	refs, err := r.Render(context.Background(), domain.KindStyle, []string{"base", "ghost"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 || refs[0] != "base-1.css" {
		t.Errorf("expected unknown names to be skipped, got %v", refs)
	}
}
