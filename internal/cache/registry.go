package cache

import "sort"

// TypeRegistry answers super-type queries for instrumented classes. The
// merged registry of a resolution context unions the direct super-type maps
// of every analyzed artifact and resolves transitively through a parent
// registry holding the core instrumentation types.
type TypeRegistry interface {
	// SuperTypes returns the sorted set of known super-types of the
	// class, direct and transitive.
	SuperTypes(className string) []string

	// IsEmpty reports whether the registry holds no type information.
	IsEmpty() bool
}

// EmptyRegistry is the registry with no type information. It is the result
// of every registry query when instrumentation has nothing to do.
var EmptyRegistry TypeRegistry = emptyTypeRegistry{}

type emptyTypeRegistry struct{}

func (emptyTypeRegistry) SuperTypes(string) []string { return nil }
func (emptyTypeRegistry) IsEmpty() bool              { return true }

type typeRegistry struct {
	direct map[string][]string
	parent TypeRegistry
}

// NewTypeRegistry creates a registry over a direct super-type map with a
// parent registry consulted for types not covered by the map. Pass
// EmptyRegistry for a parentless registry.
func NewTypeRegistry(direct map[string][]string, parent TypeRegistry) TypeRegistry {
	return &typeRegistry{direct: direct, parent: parent}
}

func (r *typeRegistry) SuperTypes(className string) []string {
	collected := make(map[string]struct{})
	r.collect(className, collected, map[string]bool{className: true})

	if len(collected) == 0 {
		return nil
	}

	types := make([]string, 0, len(collected))
	for name := range collected {
		types = append(types, name)
	}
	sort.Strings(types)

	return types
}

func (r *typeRegistry) collect(className string, into map[string]struct{}, visited map[string]bool) {
	for _, superType := range r.direct[className] {
		into[superType] = struct{}{}

		if !visited[superType] {
			visited[superType] = true
			r.collect(superType, into, visited)
		}
	}

	for _, superType := range r.parent.SuperTypes(className) {
		into[superType] = struct{}{}
	}
}

func (r *typeRegistry) IsEmpty() bool {
	return len(r.direct) == 0 && r.parent.IsEmpty()
}

// MergeTypeMaps folds many direct super-type maps into one. A class
// appearing in several maps keeps the union of all observed super-type
// sets; values come out sorted and de-duplicated.
func MergeTypeMaps(maps ...map[string][]string) map[string][]string {
	union := make(map[string]map[string]struct{})

	for _, m := range maps {
		for className, superTypes := range m {
			set, ok := union[className]
			if !ok {
				set = make(map[string]struct{}, len(superTypes))
				union[className] = set
			}

			for _, superType := range superTypes {
				set[superType] = struct{}{}
			}
		}
	}

	merged := make(map[string][]string, len(union))
	for className, set := range union {
		superTypes := make([]string, 0, len(set))
		for superType := range set {
			superTypes = append(superTypes, superType)
		}
		sort.Strings(superTypes)

		merged[className] = superTypes
	}

	return merged
}
