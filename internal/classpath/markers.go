package classpath

import (
	"fmt"
	"path/filepath"
)

// Reserved sentinel names of the instrumentation marker protocol. The three
// marker files match on base name, so a marker may be prefixed by a parent
// directory segment. The missing-original sentinel is a whole-path value.
const (
	// InstrumentationClasspathMarkerFileName denotes that the whole
	// classpath went through the instrumentation analysis pipeline, even
	// when no agent or legacy markers follow.
	InstrumentationClasspathMarkerFileName = ".instrumentation-classpath.marker"

	// AgentInstrumentationMarkerFileName precedes a (transformed, original)
	// pair produced by agent-based instrumentation.
	AgentInstrumentationMarkerFileName = ".agent-instrumentation.marker"

	// LegacyInstrumentationMarkerFileName precedes a (transformed, original)
	// pair produced by the legacy transform, which rewrites the file in
	// place and therefore reports the same path twice.
	LegacyInstrumentationMarkerFileName = ".legacy-instrumentation.marker"

	// OriginalFileDoesNotExistMarker substitutes for an original path when
	// the source artifact was absent at analysis time.
	OriginalFileDoesNotExistMarker = "/original-file-does-not-exist"
)

// markerKind classifies one token of a marker-encoded path sequence.
type markerKind int

const (
	notMarker markerKind = iota
	classpathMarker
	agentMarker
	legacyMarker
	missingOriginalMarker
)

func markerKindOf(path string) markerKind {
	if path == OriginalFileDoesNotExistMarker {
		return missingOriginalMarker
	}

	switch filepath.Base(path) {
	case InstrumentationClasspathMarkerFileName:
		return classpathMarker
	case AgentInstrumentationMarkerFileName:
		return agentMarker
	case LegacyInstrumentationMarkerFileName:
		return legacyMarker
	}

	return notMarker
}

// FromInstrumentingTransformOutput interprets an ordered path sequence, as
// produced by the instrumentation transform pipeline, as a concatenation of
// marker groups and reconstructs the classpath it encodes.
//
// The result is a *TransformedClassPath when at least one group carried
// transform information or a classpath marker was seen; otherwise the
// sequence is a plain classpath of bare paths.
//
// Malformed sequences are a contract violation between instrumentation
// stages, typically caused by a custom artifact transform injected between
// them, and yield an error naming the offending path.
func FromInstrumentingTransformOutput(paths []string) (ClassPath, error) {
	builder := NewBuilderWithCapacity(len(paths))
	sawClasspathMarker := false
	sawTransform := false

	for i := 0; i < len(paths); {
		current := paths[i]

		switch markerKindOf(current) {
		case classpathMarker:
			sawClasspathMarker = true
			i++
			// A transform of a missing artifact records the marker
			// followed by the missing-original sentinel.
			if i < len(paths) && markerKindOf(paths[i]) == missingOriginalMarker {
				i++
			}

		case agentMarker:
			if i+2 >= len(paths) {
				return nil, fmt.Errorf("missing the instrumented or original entry for classpath %v", paths)
			}

			transformed := paths[i+1]
			original := paths[i+2]

			switch markerKindOf(original) {
			case missingOriginalMarker:
				// The original artifact is gone; only the transformed
				// entry remains, with no reverse lookup possible.
				builder.Add(transformed, transformed)
			case notMarker:
				builder.Add(original, transformed)
			default:
				return nil, fmt.Errorf("instrumented entry %s doesn't match original entry %s", transformed, original)
			}

			sawTransform = true
			i += 3

		case legacyMarker:
			if i+2 >= len(paths) {
				return nil, fmt.Errorf("missing the instrumented or original entry for classpath %v", paths)
			}

			transformed := paths[i+1]
			original := paths[i+2]
			if transformed != original {
				return nil, unexpectedMarker(original)
			}

			// The legacy transform does not produce a distinct
			// transformed artifact, so the entry stays non-transformed
			// for lookup purposes.
			builder.AddUntransformed(original)
			i += 3

		case missingOriginalMarker:
			return nil, unexpectedMarker(current)

		default:
			builder.AddUntransformed(current)
			i++
		}
	}

	result := builder.Build()
	if !sawClasspathMarker && !sawTransform {
		// No transform information anywhere in the sequence: behave as a
		// plain classpath of the decoded originals.
		originals := make([]string, 0, len(result.entries))
		for _, e := range result.entries {
			originals = append(originals, e.original)
		}

		return NewFileClassPath(originals...), nil
	}

	return result, nil
}

// ToInstrumentingTransformOutput encodes a classpath as the marker-delimited
// path sequence understood by FromInstrumentingTransformOutput. A plain
// classpath encodes as its bare paths.
func ToInstrumentingTransformOutput(cp ClassPath) []string {
	transformed, ok := cp.(*TransformedClassPath)
	if !ok {
		return cp.AsFiles()
	}

	out := make([]string, 0, len(transformed.entries)*3+1)
	out = append(out, InstrumentationClasspathMarkerFileName)

	for _, e := range transformed.entries {
		if e.hasTransform() {
			out = append(out, AgentInstrumentationMarkerFileName, e.transformed, e.original)
		} else {
			out = append(out, e.original)
		}
	}

	return out
}

func unexpectedMarker(path string) error {
	return fmt.Errorf("unexpected marker file: %s; injecting a custom artifact transform between instrumentation stages is not supported", path)
}
