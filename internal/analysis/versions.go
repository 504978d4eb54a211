package analysis

import "fmt"

// MaxSupportedRelease is the newest Java release whose classes the analysis
// understands. Multi-release jar entries targeting a newer release are
// skipped rather than parsed.
const MaxSupportedRelease = 25

// baseClassVersion is the class-file major version of Java 1.0.
const baseClassVersion = 44

// releaseNames maps early class-file major versions to their Java release
// names; releases from Java 5 onwards are plain numbers.
var releaseNames = map[int]string{
	45: "Java 1.1",
	46: "Java 1.2",
	47: "Java 1.3",
	48: "Java 1.4",
}

// ReleaseOfClassVersion converts a class-file major version to its Java
// release number (52 -> 8, 61 -> 17).
func ReleaseOfClassVersion(major int) int {
	return major - baseClassVersion
}

// IsSupportedRelease reports whether classes of the given Java release can
// be analyzed.
func IsSupportedRelease(release int) bool {
	return release >= 1 && release <= MaxSupportedRelease
}

// ReleaseName returns a human-readable name for a class-file major version,
// used in diagnostics for rejected entries.
func ReleaseName(major int) string {
	if name, ok := releaseNames[major]; ok {
		return name
	}

	release := ReleaseOfClassVersion(major)
	if release < 1 {
		return "unknown release"
	}

	return fmt.Sprintf("Java %d", release)
}
