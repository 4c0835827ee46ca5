package cache_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.trai.ch/bale/internal/adapters/telemetry"
	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports/mocks"
	"go.trai.ch/bale/internal/engine/cache"
	"go.uber.org/mock/gomock"
)

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}
}

func TestEnsureBuilt_NoSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := cache.NewCache(
		mocks.NewMockArtifactStore(ctrl),
		mocks.NewMockTransformer(ctrl),
		mocks.NewMockFingerprinter(ctrl),
		telemetry.NewNoOpTracer(),
		nil,
		domain.Settings{},
	)

	refs, err := c.EnsureBuilt(context.Background(), &domain.Group{Name: "empty", Kind: domain.KindScript})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refs != nil {
		t.Errorf("expected nil refs for an empty group, got %v", refs)
	}
}

func TestEnsureBuilt_RemoteOnlyPassthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No store, transformer, or fingerprinter calls are expected at all.
	c := cache.NewCache(
		mocks.NewMockArtifactStore(ctrl),
		mocks.NewMockTransformer(ctrl),
		mocks.NewMockFingerprinter(ctrl),
		telemetry.NewNoOpTracer(),
		nil,
		domain.Settings{},
	)

	group := &domain.Group{
		Name:   "cdn",
		Kind:   domain.KindScript,
		Remote: []string{"https://cdn.example.com/a.js", "https://cdn.example.com/b.js"},
	}

	refs, err := c.EnsureBuilt(context.Background(), group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 || refs[0] != group.Remote[0] || refs[1] != group.Remote[1] {
		t.Errorf("expected remote URLs in declared order, got %v", refs)
	}
}

func TestEnsureBuilt_CompilesOnMissAndHitsAfter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tmp := t.TempDir()
	writeSource(t, tmp, "app.js", "alert(1);\n")
	path := filepath.Join(tmp, "app.js")

	store := mocks.NewMockArtifactStore(ctrl)
	transformer := mocks.NewMockTransformer(ctrl)
	fp := mocks.NewMockFingerprinter(ctrl)

	fp.EXPECT().ModTimeNano(path).Return(int64(1000), nil).Times(2)
	transformer.EXPECT().Fingerprint(domain.KindScript).Return(nil).Times(2)

	var storedKey string
	gomock.InOrder(
		// First call: miss outside and inside the flight, then store.
		store.EXPECT().Has(gomock.Any()).Return(false).Times(2),
		store.EXPECT().Set(gomock.Any(), []byte("alert(1);\n")).DoAndReturn(func(key string, _ []byte) error {
			storedKey = key
			return nil
		}),
		// Second call: hit, no rebuild.
		store.EXPECT().Has(gomock.Any()).Return(true),
	)

	c := cache.NewCache(store, transformer, fp, telemetry.NewNoOpTracer(), nil, domain.Settings{SourceDir: tmp})
	group := &domain.Group{Name: "app", Kind: domain.KindScript, Files: []string{"app.js"}, Enabled: true}

	refs, err := c.EnsureBuilt(context.Background(), group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected one ref, got %v", refs)
	}
	if !strings.HasPrefix(refs[0], "app-") || !strings.HasSuffix(refs[0], ".js") {
		t.Errorf("unexpected key format: %s", refs[0])
	}
	if refs[0] != storedKey {
		t.Errorf("returned ref %s does not match stored key %s", refs[0], storedKey)
	}

	again, err := c.EnsureBuilt(context.Background(), group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again[0] != refs[0] {
		t.Errorf("expected identical key on unchanged inputs, got %s and %s", refs[0], again[0])
	}
}

func TestEnsureBuilt_KeyChangesWithModTime(t *testing.T) {
	tmp := t.TempDir()
	writeSource(t, tmp, "app.js", "alert(1);\n")

	key1 := buildOnce(t, tmp, 1000, nil)
	key2 := buildOnce(t, tmp, 2000, nil)

	if key1 == key2 {
		t.Errorf("expected a changed mtime to change the key, both were %s", key1)
	}
}

func TestEnsureBuilt_KeyChangesWithTransformParams(t *testing.T) {
	tmp := t.TempDir()
	writeSource(t, tmp, "app.js", "alert(1);\n")

	key1 := buildOnce(t, tmp, 1000, []string{"minify:uglifyjs"})
	key2 := buildOnce(t, tmp, 1000, []string{"minify:uglifyjs --compress"})

	if key1 == key2 {
		t.Errorf("expected changed transform parameters to change the key, both were %s", key1)
	}
}

// buildOnce runs a single miss-and-store cycle and returns the stored key.
func buildOnce(t *testing.T, dir string, mtime int64, transformIDs []string) string {
	t.Helper()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockArtifactStore(ctrl)
	transformer := mocks.NewMockTransformer(ctrl)
	fp := mocks.NewMockFingerprinter(ctrl)

	fp.EXPECT().ModTimeNano(gomock.Any()).Return(mtime, nil)
	transformer.EXPECT().Fingerprint(domain.KindScript).Return(transformIDs)
	store.EXPECT().Has(gomock.Any()).Return(false).Times(2)

	var key string
	store.EXPECT().Set(gomock.Any(), gomock.Any()).DoAndReturn(func(k string, _ []byte) error {
		key = k
		return nil
	})

	c := cache.NewCache(store, transformer, fp, telemetry.NewNoOpTracer(), nil, domain.Settings{SourceDir: dir})
	group := &domain.Group{Name: "app", Kind: domain.KindScript, Files: []string{"app.js"}, Enabled: true}

	if _, err := c.EnsureBuilt(context.Background(), group); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return key
}

func TestEnsureBuilt_LessGroupCompilesAndSalts(t *testing.T) {
	key1 := buildLessOnce(t, 7)
	key2 := buildLessOnce(t, 8)

	if key1 == key2 {
		t.Errorf("expected a changed directory salt to change the key, both were %s", key1)
	}
}

func buildLessOnce(t *testing.T, salt uint64) string {
	t.Helper()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tmp := t.TempDir()
	writeSource(t, tmp, "theme.less", "@c: red;\n")
	lessPath := filepath.Join(tmp, "theme.less")

	store := mocks.NewMockArtifactStore(ctrl)
	transformer := mocks.NewMockTransformer(ctrl)
	fp := mocks.NewMockFingerprinter(ctrl)

	fp.EXPECT().ModTimeNano(lessPath).Return(int64(1000), nil)
	fp.EXPECT().DirSalt(tmp, "*.less").Return(salt, nil)
	transformer.EXPECT().Fingerprint(domain.KindStyle).Return([]string{"compile:lessc"})
	transformer.EXPECT().Compile(gomock.Any(), domain.KindStyle, []string{lessPath}).Return([]byte("body{color:red}\n"), nil)

	store.EXPECT().Has(gomock.Any()).Return(false).Times(2)
	var key string
	store.EXPECT().Set(gomock.Any(), []byte("body{color:red}\n")).DoAndReturn(func(k string, _ []byte) error {
		key = k
		return nil
	})

	c := cache.NewCache(store, transformer, fp, telemetry.NewNoOpTracer(), nil, domain.Settings{LessDir: tmp})
	group := &domain.Group{Name: "theme", Kind: domain.KindStyle, LessFiles: []string{"theme.less"}, Enabled: true}

	refs, err := c.EnsureBuilt(context.Background(), group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(refs[0], ".css") {
		t.Errorf("expected a css key, got %s", refs[0])
	}
	return key
}

func TestEnsureBuilt_MinifyApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tmp := t.TempDir()
	writeSource(t, tmp, "app.js", "alert( 1 );\n")

	store := mocks.NewMockArtifactStore(ctrl)
	transformer := mocks.NewMockTransformer(ctrl)
	fp := mocks.NewMockFingerprinter(ctrl)

	fp.EXPECT().ModTimeNano(gomock.Any()).Return(int64(1000), nil)
	transformer.EXPECT().Fingerprint(domain.KindScript).Return([]string{"minify:uglifyjs"})
	transformer.EXPECT().Minify(gomock.Any(), domain.KindScript, []byte("alert( 1 );\n")).Return([]byte("alert(1);"), nil)

	store.EXPECT().Has(gomock.Any()).Return(false).Times(2)
	store.EXPECT().Set(gomock.Any(), []byte("alert(1);")).Return(nil)

	c := cache.NewCache(store, transformer, fp, telemetry.NewNoOpTracer(), nil, domain.Settings{SourceDir: tmp, Minify: true})
	group := &domain.Group{Name: "app", Kind: domain.KindScript, Files: []string{"app.js"}, Enabled: true}

	if _, err := c.EnsureBuilt(context.Background(), group); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureBuilt_RemotesPrecedeLocalArtifact(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tmp := t.TempDir()
	writeSource(t, tmp, "app.js", "alert(1);\n")

	store := mocks.NewMockArtifactStore(ctrl)
	transformer := mocks.NewMockTransformer(ctrl)
	fp := mocks.NewMockFingerprinter(ctrl)

	fp.EXPECT().ModTimeNano(gomock.Any()).Return(int64(1000), nil)
	transformer.EXPECT().Fingerprint(domain.KindScript).Return(nil)
	store.EXPECT().Has(gomock.Any()).Return(true)

	c := cache.NewCache(store, transformer, fp, telemetry.NewNoOpTracer(), nil, domain.Settings{SourceDir: tmp})
	group := &domain.Group{
		Name:   "app",
		Kind:   domain.KindScript,
		Files:  []string{"app.js"},
		Remote: []string{"https://cdn.example.com/lib.js"},
	}

	refs, err := c.EnsureBuilt(context.Background(), group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 || refs[0] != "https://cdn.example.com/lib.js" {
		t.Fatalf("expected remote first, got %v", refs)
	}
	if !strings.HasPrefix(refs[1], "app-") {
		t.Errorf("expected local artifact key last, got %s", refs[1])
	}
}
