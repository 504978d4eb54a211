// Package snapshot provides content snapshots of classpath artifacts: given
// an absolute path, it reports whether the path exists and a stable content
// hash. Snapshots are memoized in a bounded LRU keyed by path, size and
// modification time, so repeated hashing of an unchanged artifact is free.
package snapshot

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"
)

// FileType classifies a snapshotted path.
type FileType int

const (
	// RegularFile is an existing regular file.
	RegularFile FileType = iota

	// Directory is an existing directory (e.g. a class directory on the
	// classpath).
	Directory

	// Missing means the path does not exist. Missing is not an error:
	// arbitrary paths can be put on a file classpath.
	Missing
)

// Snapshot is the observed state of one path.
type Snapshot struct {
	Type FileType

	// Hash is the hex-encoded BLAKE3 content hash; empty when Type is
	// Missing.
	Hash string
}

// Snapshotter produces content snapshots for absolute paths.
type Snapshotter interface {
	Snapshot(path string) (Snapshot, error)
}

// DefaultHashCacheSize bounds the snapshot memoization cache.
const DefaultHashCacheSize = 1024

type cacheKey struct {
	path    string
	size    int64
	modTime time.Time
}

// HashingSnapshotter hashes file contents with BLAKE3 and memoizes results.
type HashingSnapshotter struct {
	memo *lru.Cache[cacheKey, Snapshot]
}

// NewSnapshotter creates a snapshotter with a memoization cache of the given
// size; size <= 0 uses DefaultHashCacheSize.
func NewSnapshotter(cacheSize int) (*HashingSnapshotter, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultHashCacheSize
	}

	memo, err := lru.New[cacheKey, Snapshot](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}

	return &HashingSnapshotter{memo: memo}, nil
}

func (s *HashingSnapshotter) Snapshot(path string) (Snapshot, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Snapshot{Type: Missing}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	key := cacheKey{path: path, size: info.Size(), modTime: info.ModTime()}
	if snap, ok := s.memo.Get(key); ok {
		return snap, nil
	}

	var snap Snapshot
	if info.IsDir() {
		snap, err = snapshotDirectory(path)
	} else {
		snap, err = snapshotFile(path)
	}
	if err != nil {
		return Snapshot{}, err
	}

	s.memo.Add(key, snap)

	return snap, nil
}

func snapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return Snapshot{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return Snapshot{Type: RegularFile, Hash: hex.EncodeToString(hasher.Sum(nil))}, nil
}

// snapshotDirectory hashes a directory tree deterministically: WalkDir
// visits entries in lexical order, and every file contributes its relative
// path and content.
func snapshotDirectory(path string) (Snapshot, error) {
	hasher := blake3.New()

	err := filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(path, file)
		if err != nil {
			return err
		}

		hasher.Write([]byte(filepath.ToSlash(rel)))

		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(hasher, f)

		return err
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to hash directory %s: %w", path, err)
	}

	return Snapshot{Type: Directory, Hash: hex.EncodeToString(hasher.Sum(nil))}, nil
}
