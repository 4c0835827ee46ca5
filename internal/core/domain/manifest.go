package domain

// ManifestVersion is the current manifest format version.
const ManifestVersion = 1

// ManifestName is the basename of the serialized manifest inside the cache
// directory.
const ManifestName = "asset.cache"

// ManifestEntry holds the precomputed render result for one group: the fully
// dependency-expanded, deduplicated list of output references and the
// enabled flag as configured at manifest-build time.
type ManifestEntry struct {
	CompiledFiles []string `json:"compiled_files"`
	Enabled       bool     `json:"enabled"`
}

// Manifest is the production render manifest. It is built once offline and
// read-only at runtime; production rendering is a pure lookup into it.
type Manifest struct {
	Version int                               `json:"version"`
	Groups  map[Kind]map[string]ManifestEntry `json:"groups"`
}

// NewManifest creates an empty manifest at the current format version.
func NewManifest() *Manifest {
	groups := make(map[Kind]map[string]ManifestEntry, len(Kinds))
	for _, k := range Kinds {
		groups[k] = make(map[string]ManifestEntry)
	}
	return &Manifest{Version: ManifestVersion, Groups: groups}
}

// Lookup returns the entry for the named group.
func (m *Manifest) Lookup(kind Kind, name string) (ManifestEntry, bool) {
	entries, ok := m.Groups[kind]
	if !ok {
		return ManifestEntry{}, false
	}
	entry, ok := entries[name]
	return entry, ok
}
