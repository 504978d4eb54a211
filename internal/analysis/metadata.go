// Package analysis extracts structural metadata from binary classpath
// artifacts: class names, direct super-types and descriptor-level class
// dependencies, read straight from class-file constant pools.
//
// Analysis results are written as small per-artifact files: a metadata
// properties file (artifact name and content hash), a super-types properties
// file and a plain-text dependencies file. The context-scoped cache service
// later aggregates many of these into a single queryable registry.
package analysis

// File names of the per-artifact analysis output directory.
const (
	// MetadataFileName holds the artifact file name and content hash,
	// one key=value entry per line.
	MetadataFileName = "metadata.properties"

	// SuperTypesFileName maps every class with accepted super-types to a
	// comma-separated list: className=type1,type2,...
	SuperTypesFileName = "super-types.properties"

	// DependenciesFileName lists every class the artifact references,
	// one per line, sorted.
	DependenciesFileName = "dependencies.txt"
)

// FileMissingHash is the sentinel hash recorded for artifacts that did not
// exist on disk at analysis time. Absent files are a legitimate case: users
// can put arbitrary paths on a file classpath.
const FileMissingHash = "missing"

// Property keys of the metadata file.
const (
	nameProperty = "name"
	hashProperty = "hash"
)

// ArtifactMetadata identifies one analyzed artifact.
type ArtifactMetadata struct {
	// Name is the artifact's file name.
	Name string

	// Hash is the combined artifact hash, or FileMissingHash when the
	// artifact was absent.
	Hash string
}
