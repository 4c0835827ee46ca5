package ports

import (
	"context"

	"go.trai.ch/bale/internal/core/domain"
)

// Transformer defines the compile and minify transforms consumed by the
// build cache. The engine only needs the byte output for storage and the
// transform identity for fingerprinting; how the bytes are produced is an
// adapter concern.
//
//go:generate go run go.uber.org/mock/mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	// Compile compiles the given source files (LESS to CSS) and returns the
	// output bytes.
	Compile(ctx context.Context, kind domain.Kind, sources []string) ([]byte, error)

	// Minify minifies the given bytes for the kind.
	Minify(ctx context.Context, kind domain.Kind, input []byte) ([]byte, error)

	// Fingerprint returns the ordered transform identifiers and parameters
	// that apply to the kind. It feeds the build-cache fingerprint so a
	// changed transform chain invalidates cached artifacts.
	Fingerprint(kind domain.Kind) []string
}
