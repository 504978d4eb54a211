package snapshot

import (
	"path/filepath"
	"strings"
)

// GlobalCacheLocations answers whether a path lives inside a shared
// immutable global cache. Artifacts inside the global cache are safe to
// reference by hash alone; artifacts outside it may be mutated between
// builds, which is why the flag participates in the artifact hash.
type GlobalCacheLocations struct {
	roots []string
}

// NewGlobalCacheLocations creates a location test for the given cache root
// directories. Roots are normalized to cleaned absolute paths where
// possible.
func NewGlobalCacheLocations(roots []string) *GlobalCacheLocations {
	cleaned := make([]string, 0, len(roots))
	for _, root := range roots {
		if root == "" {
			continue
		}

		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}

		cleaned = append(cleaned, filepath.Clean(root))
	}

	return &GlobalCacheLocations{roots: cleaned}
}

// IsInsideGlobalCache reports whether the path is under any configured
// global cache root.
func (g *GlobalCacheLocations) IsInsideGlobalCache(path string) bool {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.Clean(path)

	for _, root := range g.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}

	return false
}
