package analysis

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one class entry of a walked artifact: its path within the
// artifact (slash-separated) and its raw bytes.
type Entry struct {
	Name    string
	Content []byte
}

// Walker walks the class entries of a binary artifact, invoking the callback
// once per entry. Non-class entries are skipped.
type Walker interface {
	Visit(artifact string, visit func(entry Entry) error) error
}

// ArchiveWalker walks jar archives and class directories uniformly.
type ArchiveWalker struct{}

// NewWalker creates a walker for jars and class directories.
func NewWalker() *ArchiveWalker {
	return &ArchiveWalker{}
}

func (w *ArchiveWalker) Visit(artifact string, visit func(entry Entry) error) error {
	info, err := os.Stat(artifact)
	if err != nil {
		return fmt.Errorf("failed to stat artifact: %w", err)
	}

	if info.IsDir() {
		return w.visitDirectory(artifact, visit)
	}

	return w.visitArchive(artifact, visit)
}

func (w *ArchiveWalker) visitArchive(artifact string, visit func(entry Entry) error) error {
	reader, err := zip.OpenReader(artifact)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", artifact, err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !isClassEntry(file.Name) {
			continue
		}

		content, err := readArchiveFile(file)
		if err != nil {
			return err
		}

		if err := visit(Entry{Name: file.Name, Content: content}); err != nil {
			return err
		}
	}

	return nil
}

func (w *ArchiveWalker) visitDirectory(artifact string, visit func(entry Entry) error) error {
	return filepath.WalkDir(artifact, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !isClassEntry(path) {
			return nil
		}

		rel, err := filepath.Rel(artifact, path)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		return visit(Entry{Name: filepath.ToSlash(rel), Content: content})
	})
}

func readArchiveFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open archive entry %s: %w", file.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive entry %s: %w", file.Name, err)
	}

	return content, nil
}

func isClassEntry(name string) bool {
	return strings.HasSuffix(name, ".class")
}
