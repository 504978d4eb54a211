// Package classpath models ordered collections of binary artifacts on a
// build classpath, including the instrumented variant that tracks a mapping
// from each original entry to its transformed counterpart.
//
// Classpath values are immutable: they are built once (via a Builder or a
// constructor) and new values are produced by combination operations. Entries
// are identified by normalized paths; the original entry is the identity used
// for equality everywhere else in the build.
package classpath

// ClassPath is an ordered collection of classpath entries. The order is
// semantically significant: when the same original entry occurs more than
// once, the first occurrence wins in every query.
type ClassPath interface {
	// IsEmpty reports whether the classpath has no entries.
	IsEmpty() bool

	// AsFiles returns the ordered, de-duplicated (first occurrence wins)
	// sequence of original entries.
	AsFiles() []string

	// Plus concatenates this classpath with another. If either operand
	// carries transform information, so does the result.
	Plus(other ClassPath) ClassPath

	// RemoveIf returns a classpath without the entries whose original
	// path matches the predicate.
	RemoveIf(pred func(original string) bool) ClassPath
}

// FileClassPath is a plain, non-transformed classpath.
type FileClassPath struct {
	files []string
}

// NewFileClassPath creates a plain classpath from the given paths, in order.
func NewFileClassPath(files ...string) *FileClassPath {
	copied := make([]string, len(files))
	copy(copied, files)

	return &FileClassPath{files: copied}
}

func (cp *FileClassPath) IsEmpty() bool {
	return len(cp.files) == 0
}

func (cp *FileClassPath) AsFiles() []string {
	return dedupe(cp.files)
}

// Plus concatenates two classpaths. Combining with a transformed classpath
// yields a transformed classpath: transformation is sticky.
func (cp *FileClassPath) Plus(other ClassPath) ClassPath {
	if transformed, ok := other.(*TransformedClassPath); ok {
		return cp.asTransformed().Plus(transformed)
	}

	files := make([]string, 0, len(cp.files))
	files = append(files, cp.files...)
	if plain, ok := other.(*FileClassPath); ok {
		files = append(files, plain.files...)
	} else {
		files = append(files, other.AsFiles()...)
	}

	return &FileClassPath{files: files}
}

func (cp *FileClassPath) RemoveIf(pred func(string) bool) ClassPath {
	files := make([]string, 0, len(cp.files))
	for _, file := range cp.files {
		if !pred(file) {
			files = append(files, file)
		}
	}

	return &FileClassPath{files: files}
}

// asTransformed reinterprets the plain classpath as a transformed classpath
// in which no entry carries a transform.
func (cp *FileClassPath) asTransformed() *TransformedClassPath {
	builder := NewBuilderWithCapacity(len(cp.files))
	for _, file := range cp.files {
		builder.AddUntransformed(file)
	}

	return builder.Build()
}

// dedupe keeps the first occurrence of every path, preserving order.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))

	for _, path := range paths {
		if _, ok := seen[path]; ok {
			continue
		}

		seen[path] = struct{}{}
		result = append(result, path)
	}

	return result
}
