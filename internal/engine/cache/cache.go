// Package cache implements the content-addressed build cache: it decides,
// per group, whether a compiled artifact must be (re)produced.
package cache

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // content key, not a security boundary
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/bale/internal/core/domain"
	"go.trai.ch/bale/internal/core/ports"
	"go.trai.ch/bale/internal/metrics"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Cache guarantees at-most-one compile+store per distinct fingerprint per
// cache lifetime. Concurrent in-process callers are collapsed through
// singleflight; across processes, content-addressing makes redundant stores
// idempotent.
type Cache struct {
	store       ports.ArtifactStore
	transformer ports.Transformer
	fp          ports.Fingerprinter
	tracer      ports.Tracer
	metrics     *metrics.Recorder
	settings    domain.Settings

	sf singleflight.Group
}

// NewCache creates a build cache over the given collaborators.
func NewCache(
	store ports.ArtifactStore,
	transformer ports.Transformer,
	fp ports.Fingerprinter,
	tracer ports.Tracer,
	recorder *metrics.Recorder,
	settings domain.Settings,
) *Cache {
	return &Cache{
		store:       store,
		transformer: transformer,
		fp:          fp,
		tracer:      tracer,
		metrics:     recorder,
		settings:    settings,
	}
}

// EnsureBuilt returns the group's output references, compiling and storing
// the local artifact if its fingerprint is not yet cached. Remote URLs pass
// through verbatim, in declared order, before the local compiled path. A
// group with no sources at all returns nil, nil: zero sources is not an
// error.
func (c *Cache) EnsureBuilt(ctx context.Context, group *domain.Group) ([]string, error) {
	outputs := make([]string, 0, len(group.Remote)+1)
	outputs = append(outputs, group.Remote...)

	if !group.HasLocalSources() {
		if len(outputs) == 0 {
			return nil, nil
		}
		return outputs, nil
	}

	key, err := c.fingerprint(group)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "build "+group.Name)
	defer span.End()

	if c.store.Has(key) {
		span.Cached()
		c.metrics.CacheHit()
		return append(outputs, key), nil
	}
	c.metrics.CacheMiss()

	_, err, _ = c.sf.Do(key, func() (any, error) {
		// A concurrent caller may have stored the artifact between our
		// miss and acquiring the flight.
		if c.store.Has(key) {
			return nil, nil
		}
		data, err := c.build(ctx, group)
		if err != nil {
			return nil, err
		}
		c.metrics.Compile()
		return nil, c.store.Set(key, data)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return append(outputs, key), nil
}

// fingerprint computes the artifact key `<group>-<hexdigest>.<ext>`. The
// digest covers, in a structured order-stable encoding: each local source's
// path identity and modification time, the ordered transform identifiers and
// parameters, and for LESS-bearing style groups a salt over the whole LESS
// directory.
func (c *Cache) fingerprint(group *domain.Group) (string, error) {
	digest := md5.New() //nolint:gosec // content key, not a security boundary

	for _, src := range group.LessFiles {
		if err := c.hashSource(digest, filepath.Join(c.settings.LessDir, src)); err != nil {
			return "", err
		}
	}
	for _, src := range group.Files {
		if err := c.hashSource(digest, filepath.Join(c.settings.SourceDir, src)); err != nil {
			return "", err
		}
	}
	_, _ = digest.Write([]byte{0})

	for _, id := range c.transformer.Fingerprint(group.Kind) {
		_, _ = digest.Write([]byte(id))
		_, _ = digest.Write([]byte{0})
	}

	if group.Kind == domain.KindStyle && len(group.LessFiles) > 0 {
		salt, err := c.fp.DirSalt(c.settings.LessDir, "*.less")
		if err != nil {
			return "", err
		}
		_ = binary.Write(digest, binary.LittleEndian, salt)
	}

	return fmt.Sprintf("%s-%x.%s", group.Name, digest.Sum(nil), group.Kind.Ext()), nil
}

func (c *Cache) hashSource(digest io.Writer, path string) error {
	_, _ = digest.Write([]byte(path))
	_, _ = digest.Write([]byte{0})

	mtime, err := c.fp.ModTimeNano(path)
	if err != nil {
		return err
	}
	return binary.Write(digest, binary.LittleEndian, mtime)
}

// build produces the compiled bytes for the group: LESS sources compiled
// first, plain files concatenated after, minified when configured.
func (c *Cache) build(ctx context.Context, group *domain.Group) ([]byte, error) {
	var buf bytes.Buffer

	if len(group.LessFiles) > 0 {
		paths := make([]string, len(group.LessFiles))
		for i, src := range group.LessFiles {
			paths[i] = filepath.Join(c.settings.LessDir, src)
		}
		compiled, err := c.transformer.Compile(ctx, group.Kind, paths)
		if err != nil {
			return nil, err
		}
		buf.Write(compiled)
	}

	for _, src := range group.Files {
		path := filepath.Join(c.settings.SourceDir, src)
		data, err := os.ReadFile(path) //nolint:gosec // paths come from trusted configuration
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read source"), "path", path)
		}
		buf.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}

	if c.settings.Minify {
		minified, err := c.transformer.Minify(ctx, group.Kind, buf.Bytes())
		if err != nil {
			return nil, err
		}
		return minified, nil
	}
	return buf.Bytes(), nil
}
