package analysis

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestJar(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)

		_, err = entry.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
}

func visitAll(t *testing.T, artifact string) map[string][]byte {
	t.Helper()

	visited := make(map[string][]byte)
	err := NewWalker().Visit(artifact, func(entry Entry) error {
		visited[entry.Name] = entry.Content
		return nil
	})
	require.NoError(t, err)

	return visited
}

func TestWalker_Archive(t *testing.T) {
	jar := filepath.Join(t.TempDir(), "lib.jar")
	writeTestJar(t, jar, map[string][]byte{
		"com/acme/Foo.class":   []byte("foo"),
		"com/acme/Bar.class":   []byte("bar"),
		"META-INF/MANIFEST.MF": []byte("Manifest-Version: 1.0"),
		"readme.txt":           []byte("hi"),
	})

	visited := visitAll(t, jar)

	assert.Len(t, visited, 2)
	assert.Equal(t, []byte("foo"), visited["com/acme/Foo.class"])
	assert.Equal(t, []byte("bar"), visited["com/acme/Bar.class"])
}

func TestWalker_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "com", "acme"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "com", "acme", "Foo.class"), []byte("foo"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("skip me"), 0o644))

	visited := visitAll(t, dir)

	// Entry names are slash-separated regardless of platform
	assert.Len(t, visited, 1)
	assert.Equal(t, []byte("foo"), visited["com/acme/Foo.class"])
}

func TestWalker_MissingArtifact(t *testing.T) {
	err := NewWalker().Visit(filepath.Join(t.TempDir(), "nope.jar"), func(Entry) error { return nil })
	assert.Error(t, err)
}

func TestWalker_NotAnArchive(t *testing.T) {
	file := filepath.Join(t.TempDir(), "broken.jar")
	require.NoError(t, os.WriteFile(file, []byte("definitely not a zip"), 0o644))

	err := NewWalker().Visit(file, func(Entry) error { return nil })
	assert.Error(t, err)
}
