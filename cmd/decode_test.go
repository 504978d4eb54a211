package cmd

import (
	"io"
	"os"
	"testing"

	"github.com/Norgate-AV/icp/internal/classpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, run func() error) (string, error) {
	t.Helper()

	original := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	defer func() { os.Stdout = original }()

	runErr := run()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out), runErr
}

func TestRunDecode(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return runDecode(decodeCmd, []string{
			classpath.InstrumentationClasspathMarkerFileName,
			classpath.AgentInstrumentationMarkerFileName,
			"/instrumented/guava.jar",
			"/libs/guava.jar",
			"/libs/slf4j.jar",
		})
	})
	require.NoError(t, err)

	assert.Equal(t, "/libs/guava.jar -> /instrumented/guava.jar\n/libs/slf4j.jar\n", out)
}

func TestRunDecode_PlainClasspath(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return runDecode(decodeCmd, []string{"/libs/a.jar", "/libs/b.jar"})
	})
	require.NoError(t, err)

	assert.Equal(t, "/libs/a.jar\n/libs/b.jar\n", out)
}

func TestRunDecode_MalformedSequence(t *testing.T) {
	_, err := captureStdout(t, func() error {
		return runDecode(decodeCmd, []string{
			classpath.AgentInstrumentationMarkerFileName,
			"/instrumented/guava.jar",
		})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing the instrumented or original entry")
}

func TestRunDecode_RequiresArgs(t *testing.T) {
	err := runDecode(decodeCmd, nil)
	assert.Error(t, err)
}

func TestRunAnalyze_RequiresArgs(t *testing.T) {
	err := runAnalyze(analyzeCmd, nil)
	assert.Error(t, err)
}
