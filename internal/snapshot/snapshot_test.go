package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lib.jar")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o644))

	s, err := NewSnapshotter(0)
	require.NoError(t, err)

	snap, err := s.Snapshot(file)
	require.NoError(t, err)
	assert.Equal(t, RegularFile, snap.Type)
	assert.NotEmpty(t, snap.Hash)

	// Hashing is stable
	again, err := s.Snapshot(file)
	require.NoError(t, err)
	assert.Equal(t, snap, again)

	// Same content under another name hashes the same
	other := filepath.Join(dir, "copy.jar")
	require.NoError(t, os.WriteFile(other, []byte("content"), 0o644))

	copySnap, err := s.Snapshot(other)
	require.NoError(t, err)
	assert.Equal(t, snap.Hash, copySnap.Hash)

	// Different content hashes differently
	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))

	changed, err := s.Snapshot(other)
	require.NoError(t, err)
	assert.NotEqual(t, snap.Hash, changed.Hash)
}

func TestSnapshot_Directory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "classes")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "com"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "com", "Foo.class"), []byte("foo"), 0o644))

	s, err := NewSnapshotter(0)
	require.NoError(t, err)

	snap, err := s.Snapshot(dir)
	require.NoError(t, err)
	assert.Equal(t, Directory, snap.Type)
	assert.NotEmpty(t, snap.Hash)

	// The file's relative path participates in the hash
	require.NoError(t, os.Rename(filepath.Join(dir, "com", "Foo.class"), filepath.Join(dir, "com", "Bar.class")))

	renamed, err := s.Snapshot(dir)
	require.NoError(t, err)
	assert.NotEqual(t, snap.Hash, renamed.Hash)
}

func TestSnapshot_Missing(t *testing.T) {
	s, err := NewSnapshotter(0)
	require.NoError(t, err)

	snap, err := s.Snapshot(filepath.Join(t.TempDir(), "does-not-exist.jar"))
	require.NoError(t, err)
	assert.Equal(t, Missing, snap.Type)
	assert.Empty(t, snap.Hash)
}

func TestGlobalCacheLocations(t *testing.T) {
	root := t.TempDir()
	locations := NewGlobalCacheLocations([]string{root})

	assert.True(t, locations.IsInsideGlobalCache(filepath.Join(root, "modules", "guava.jar")))
	assert.False(t, locations.IsInsideGlobalCache(filepath.Join(t.TempDir(), "guava.jar")))

	// A sibling whose name shares the root's prefix is outside
	assert.False(t, locations.IsInsideGlobalCache(root+"-other/guava.jar"))
}
