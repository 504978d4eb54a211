package classpath

// entry is one (original, transformed) pair. An empty transformed path means
// the original is used unmodified; the entry is still a first-class member of
// the classpath, it just has no transform lookup result.
type entry struct {
	original    string
	transformed string
}

func (e entry) hasTransform() bool {
	return e.transformed != ""
}

// effective returns the path downstream consumers should put on the runtime
// classpath: the transformed entry when present, the original otherwise.
func (e entry) effective() string {
	if e.hasTransform() {
		return e.transformed
	}

	return e.original
}

// TransformedClassPath is an ordered mapping from original classpath entries
// to their instrumented counterparts. The internal sequence may contain
// duplicate originals; de-duplication happens at query time with
// first-occurrence-wins semantics, so appending a transform for an original
// that is already present never changes the existing mapping.
type TransformedClassPath struct {
	entries []entry
}

// Builder assembles a TransformedClassPath. Append-only; the built value is
// immutable.
type Builder struct {
	entries []entry
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBuilderWithCapacity creates an empty builder pre-sized for n entries.
func NewBuilderWithCapacity(n int) *Builder {
	return &Builder{entries: make([]entry, 0, n)}
}

// Add records a transformed entry for the given original.
func (b *Builder) Add(original, transformed string) *Builder {
	b.entries = append(b.entries, entry{original: original, transformed: transformed})
	return b
}

// AddUntransformed records an original entry with no transform.
func (b *Builder) AddUntransformed(original string) *Builder {
	b.entries = append(b.entries, entry{original: original})
	return b
}

// Build produces the classpath. The builder must not be reused afterwards.
func (b *Builder) Build() *TransformedClassPath {
	return &TransformedClassPath{entries: b.entries}
}

func (cp *TransformedClassPath) IsEmpty() bool {
	return len(cp.entries) == 0
}

// AsFiles returns the ordered originals, first occurrence of each kept.
func (cp *TransformedClassPath) AsFiles() []string {
	seen := make(map[string]struct{}, len(cp.entries))
	files := make([]string, 0, len(cp.entries))

	for _, e := range cp.entries {
		if _, ok := seen[e.original]; ok {
			continue
		}

		seen[e.original] = struct{}{}
		files = append(files, e.original)
	}

	return files
}

// AsTransformedFiles returns the ordered sequence with each original replaced
// by its transformed counterpart where one exists. De-duplication is by
// original, first occurrence wins.
func (cp *TransformedClassPath) AsTransformedFiles() []string {
	seen := make(map[string]struct{}, len(cp.entries))
	files := make([]string, 0, len(cp.entries))

	for _, e := range cp.entries {
		if _, ok := seen[e.original]; ok {
			continue
		}

		seen[e.original] = struct{}{}
		files = append(files, e.effective())
	}

	return files
}

// FindTransformedEntryFor returns the transformed entry paired with the first
// occurrence of the given original, or false when the original is absent or
// carries no transform.
func (cp *TransformedClassPath) FindTransformedEntryFor(original string) (string, bool) {
	for _, e := range cp.entries {
		if e.original == original {
			return e.transformed, e.hasTransform()
		}
	}

	return "", false
}

// Plus concatenates the two classpaths. Entries of a plain operand are
// treated as original=transformed=itself with no transform. Overlapping
// originals keep the left operand's mapping.
func (cp *TransformedClassPath) Plus(other ClassPath) ClassPath {
	var tail []entry
	switch o := other.(type) {
	case *TransformedClassPath:
		tail = o.entries
	case *FileClassPath:
		tail = o.asTransformed().entries
	default:
		for _, file := range other.AsFiles() {
			tail = append(tail, entry{original: file})
		}
	}

	entries := make([]entry, 0, len(cp.entries)+len(tail))
	entries = append(entries, cp.entries...)
	entries = append(entries, tail...)

	return &TransformedClassPath{entries: entries}
}

// RemoveIf drops every entry whose original matches the predicate. Transformed
// entries are never tested on their own: they are removed together with their
// original, and a predicate matching only a transformed path removes nothing.
func (cp *TransformedClassPath) RemoveIf(pred func(string) bool) ClassPath {
	entries := make([]entry, 0, len(cp.entries))
	for _, e := range cp.entries {
		if !pred(e.original) {
			entries = append(entries, e)
		}
	}

	return &TransformedClassPath{entries: entries}
}
