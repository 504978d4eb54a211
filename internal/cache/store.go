// Package cache holds the caching side of the instrumentation pipeline: the
// per-build-context registry service aggregating analysis metadata, the
// artifact hash combination, and a persistent store that indexes per-artifact
// analysis outputs by artifact hash so unchanged jars are analyzed once.
//
// Store metadata lives in BoltDB; the analysis output files themselves sit
// on the filesystem under <root>/analysis/<hash>/, which is also the layout
// the registry service consumes.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// bucketName is the BoltDB bucket name for analysis entries
const bucketName = "analysis"

// Store indexes analysis outputs by artifact hash using BoltDB
type Store struct {
	db   *bbolt.DB
	root string // Root directory for the store (.icp-cache/)
}

// NewStore creates a new analysis-output store
// If cacheDir is empty, uses the default directory in the current working directory
func NewStore(cacheDir string) (*Store, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		cacheDir = filepath.Join(cwd, ".icp-cache")
	}

	// Ensure store directory exists
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Open BoltDB
	dbPath := filepath.Join(cacheDir, "cache.db")
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// Create bucket if it doesn't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &Store{
		db:   db,
		root: cacheDir,
	}, nil
}

// Close closes the store database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

// OutputDir returns the analysis output directory for a given artifact hash
func (s *Store) OutputDir(hash string) string {
	return filepath.Join(s.root, "analysis", hash)
}

// Get retrieves an entry by artifact hash
// Returns nil if there is no entry or its output directory is gone
func (s *Store) Get(hash string) (*Entry, error) {
	var entry Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data := b.Get([]byte(hash))
		if data == nil {
			return nil // Miss
		}

		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, err
	}

	if entry.Hash == "" {
		return nil, nil // Miss
	}

	// Outputs may have been cleaned behind our back
	if _, err := os.Stat(s.OutputDir(hash)); os.IsNotExist(err) {
		return nil, nil
	}

	return &entry, nil
}

// Put records an analyzed artifact. The output files are expected to already
// sit in OutputDir(hash).
func (s *Store) Put(hash, artifact string, outputs []string) error {
	entry := Entry{
		Hash:      hash,
		Artifact:  artifact,
		Timestamp: time.Now(),
		Outputs:   outputs,
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return b.Put([]byte(hash), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store analysis entry: %w", err)
	}

	return nil
}

// Clear removes all entries and analysis outputs
func (s *Store) Clear() error {
	// Clear BoltDB
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket([]byte(bucketName))
	})
	if err != nil {
		return err
	}

	// Recreate bucket
	err = s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
	if err != nil {
		return err
	}

	// Remove analysis outputs
	analysisDir := filepath.Join(s.root, "analysis")
	if err := os.RemoveAll(analysisDir); err != nil {
		return fmt.Errorf("failed to remove analysis outputs: %w", err)
	}

	return nil
}

// Stats returns the number of entries and the total output size
func (s *Store) Stats() (int, int64, error) {
	var count int
	var totalSize int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		count = b.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	// Calculate total output size
	analysisDir := filepath.Join(s.root, "analysis")
	err = filepath.Walk(analysisDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		if !info.IsDir() {
			totalSize += info.Size()
		}

		return nil
	})

	return count, totalSize, nil
}
