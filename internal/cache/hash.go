package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// CombineArtifactHash creates the artifact hash used to key analysis
// outputs. The hash is based on:
// - The artifact's content hash
// - The artifact's file name
// - Whether the artifact lives inside a shared immutable global cache
//
// The file name participates because artifacts with identical content but
// different names are distinct classpath entries; the global-cache flag
// because files outside the global cache may be mutated between builds.
func CombineArtifactHash(contentHash, name string, inGlobalCache bool) string {
	h := sha256.New()

	h.Write([]byte(contentHash))
	h.Write([]byte(name))

	if inGlobalCache {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
