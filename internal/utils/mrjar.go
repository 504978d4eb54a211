package utils

import (
	"strconv"
	"strings"
)

const versionedDirPrefix = "META-INF/versions/"

// ParseMultiReleaseVersion extracts the Java release number from a
// multi-release jar entry path ("META-INF/versions/11/com/Foo.class").
// Returns false for entries outside a versioned directory or with a
// malformed version segment.
func ParseMultiReleaseVersion(entryName string) (int, bool) {
	rest, found := strings.CutPrefix(entryName, versionedDirPrefix)
	if !found {
		return 0, false
	}

	segment, _, found := strings.Cut(rest, "/")
	if !found {
		return 0, false
	}

	version, err := strconv.Atoi(segment)
	if err != nil || version <= 0 {
		return 0, false
	}

	return version, true
}
