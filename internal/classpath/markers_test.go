package classpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_AgentMarkerGroup(t *testing.T) {
	cp, err := FromInstrumentingTransformOutput([]string{
		AgentInstrumentationMarkerFileName,
		"instrumented/instrumented-1.jar",
		"1.jar",
	})
	require.NoError(t, err)

	transformed, ok := cp.(*TransformedClassPath)
	require.True(t, ok, "an agent marker group should produce a transformed classpath")

	assert.Equal(t, []string{"1.jar"}, transformed.AsFiles())
	assert.Equal(t, []string{"instrumented/instrumented-1.jar"}, transformed.AsTransformedFiles())

	entry, found := transformed.FindTransformedEntryFor("1.jar")
	require.True(t, found)
	assert.Equal(t, "instrumented/instrumented-1.jar", entry)
}

func TestDecode_ClasspathMarkerOnly(t *testing.T) {
	cp, err := FromInstrumentingTransformOutput([]string{
		InstrumentationClasspathMarkerFileName,
		OriginalFileDoesNotExistMarker,
	})
	require.NoError(t, err)

	transformed, ok := cp.(*TransformedClassPath)
	require.True(t, ok)
	assert.Empty(t, transformed.AsFiles())

	// Marker alone, without the sentinel
	cp, err = FromInstrumentingTransformOutput([]string{InstrumentationClasspathMarkerFileName})
	require.NoError(t, err)
	assert.Empty(t, cp.AsFiles())
}

func TestDecode_LegacyMarkerGroup(t *testing.T) {
	cp, err := FromInstrumentingTransformOutput([]string{
		LegacyInstrumentationMarkerFileName,
		"libs/1.jar",
		"libs/1.jar",
	})
	require.NoError(t, err)

	// No distinct transformed artifact exists, so the entry is
	// non-transformed for lookup purposes and the classpath is plain.
	_, isTransformed := cp.(*TransformedClassPath)
	assert.False(t, isTransformed)
	assert.Equal(t, []string{"libs/1.jar"}, cp.AsFiles())
}

func TestDecode_AgentGroupWithMissingOriginal(t *testing.T) {
	cp, err := FromInstrumentingTransformOutput([]string{
		AgentInstrumentationMarkerFileName,
		"instrumented/gone.jar",
		OriginalFileDoesNotExistMarker,
	})
	require.NoError(t, err)

	transformed, ok := cp.(*TransformedClassPath)
	require.True(t, ok)

	// The transformed entry stands in for the missing original.
	assert.Equal(t, []string{"instrumented/gone.jar"}, transformed.AsFiles())
	assert.Equal(t, []string{"instrumented/gone.jar"}, transformed.AsTransformedFiles())
}

func TestDecode_BarePathsStayPlain(t *testing.T) {
	cp, err := FromInstrumentingTransformOutput([]string{"1.jar", "2.jar"})
	require.NoError(t, err)

	_, isTransformed := cp.(*TransformedClassPath)
	assert.False(t, isTransformed)
	assert.Equal(t, []string{"1.jar", "2.jar"}, cp.AsFiles())
}

func TestDecode_MixedGroups(t *testing.T) {
	cp, err := FromInstrumentingTransformOutput([]string{
		InstrumentationClasspathMarkerFileName,
		AgentInstrumentationMarkerFileName,
		"instrumented/1.jar",
		"1.jar",
		"2.jar",
		LegacyInstrumentationMarkerFileName,
		"3.jar",
		"3.jar",
	})
	require.NoError(t, err)

	transformed, ok := cp.(*TransformedClassPath)
	require.True(t, ok)

	assert.Equal(t, []string{"1.jar", "2.jar", "3.jar"}, transformed.AsFiles())
	assert.Equal(t, []string{"instrumented/1.jar", "2.jar", "3.jar"}, transformed.AsTransformedFiles())
}

func TestDecode_MarkerPrefixedByDirectory(t *testing.T) {
	cp, err := FromInstrumentingTransformOutput([]string{
		"out/" + AgentInstrumentationMarkerFileName,
		"out/instrumented/1.jar",
		"1.jar",
	})
	require.NoError(t, err)

	transformed, ok := cp.(*TransformedClassPath)
	require.True(t, ok)

	entry, found := transformed.FindTransformedEntryFor("1.jar")
	require.True(t, found)
	assert.Equal(t, "out/instrumented/1.jar", entry)
}

func TestDecode_DanglingMarkerAtEnd(t *testing.T) {
	for _, marker := range []string{
		AgentInstrumentationMarkerFileName,
		LegacyInstrumentationMarkerFileName,
	} {
		_, err := FromInstrumentingTransformOutput([]string{"1.jar", marker, "t1.jar"})
		require.Error(t, err, "truncated %s group should fail", marker)
		assert.Contains(t, err.Error(), "missing the instrumented or original entry")
		assert.Contains(t, err.Error(), "t1.jar")
	}
}

func TestDecode_LegacyPairMismatch(t *testing.T) {
	_, err := FromInstrumentingTransformOutput([]string{
		LegacyInstrumentationMarkerFileName,
		"instrumented/1.jar",
		"1.jar",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected marker file: 1.jar")
	assert.Contains(t, err.Error(), "not supported")
}

func TestDecode_AgentOriginalSlotHoldsAnotherMarker(t *testing.T) {
	_, err := FromInstrumentingTransformOutput([]string{
		AgentInstrumentationMarkerFileName,
		"instrumented/1.jar",
		AgentInstrumentationMarkerFileName,
		"instrumented/2.jar",
		"2.jar",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instrumented entry instrumented/1.jar doesn't match original entry "+AgentInstrumentationMarkerFileName)
}

func TestDecode_UnescortedSentinel(t *testing.T) {
	_, err := FromInstrumentingTransformOutput([]string{
		"1.jar",
		OriginalFileDoesNotExistMarker,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected marker file: "+OriginalFileDoesNotExistMarker)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
	}{
		{
			name: "pure agent groups",
			paths: []string{
				AgentInstrumentationMarkerFileName, "instrumented/1.jar", "1.jar",
				AgentInstrumentationMarkerFileName, "instrumented/2.jar", "2.jar",
			},
		},
		{
			name: "pure legacy groups",
			paths: []string{
				LegacyInstrumentationMarkerFileName, "1.jar", "1.jar",
				LegacyInstrumentationMarkerFileName, "2.jar", "2.jar",
			},
		},
		{
			name:  "classpath marker only",
			paths: []string{InstrumentationClasspathMarkerFileName},
		},
		{
			name: "mixed groups",
			paths: []string{
				InstrumentationClasspathMarkerFileName,
				AgentInstrumentationMarkerFileName, "instrumented/1.jar", "1.jar",
				"2.jar",
				LegacyInstrumentationMarkerFileName, "3.jar", "3.jar",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decoded, err := FromInstrumentingTransformOutput(test.paths)
			require.NoError(t, err)

			redecoded, err := FromInstrumentingTransformOutput(ToInstrumentingTransformOutput(decoded))
			require.NoError(t, err)

			assert.Equal(t, decoded.AsFiles(), redecoded.AsFiles(), "originals should survive the round trip")

			first, firstTransformed := decoded.(*TransformedClassPath)
			second, secondTransformed := redecoded.(*TransformedClassPath)
			require.Equal(t, firstTransformed, secondTransformed, "transformed classification should survive the round trip")

			if firstTransformed {
				assert.Equal(t, first.AsTransformedFiles(), second.AsTransformedFiles())
				for _, original := range first.AsFiles() {
					expected, expectedOK := first.FindTransformedEntryFor(original)
					actual, actualOK := second.FindTransformedEntryFor(original)
					assert.Equal(t, expectedOK, actualOK, "transform presence for %s", original)
					assert.Equal(t, expected, actual, "transform mapping for %s", original)
				}
			}
		})
	}
}
