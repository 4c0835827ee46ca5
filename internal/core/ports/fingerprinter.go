package ports

// Fingerprinter supplies the filesystem-derived components of a build-cache
// fingerprint.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// ModTimeNano returns the file's last-modified time in Unix nanoseconds.
	ModTimeNano(path string) (int64, error)

	// DirSalt fingerprints every file under dir matching pattern. A missing
	// directory yields a zero salt.
	DirSalt(dir, pattern string) (uint64, error)
}
