package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeRegistry_TransitiveSuperTypes(t *testing.T) {
	registry := NewTypeRegistry(map[string][]string{
		"com/acme/Leaf":   {"com/acme/Middle"},
		"com/acme/Middle": {"com/acme/Root", "com/acme/Iface"},
	}, EmptyRegistry)

	assert.Equal(t, []string{"com/acme/Iface", "com/acme/Middle", "com/acme/Root"},
		registry.SuperTypes("com/acme/Leaf"))
	assert.Nil(t, registry.SuperTypes("com/acme/Unknown"))
	assert.False(t, registry.IsEmpty())
}

func TestTypeRegistry_ResolvesThroughParent(t *testing.T) {
	parent := NewTypeRegistry(map[string][]string{
		"org/gradle/api/Task": {"org/gradle/api/Named"},
	}, EmptyRegistry)

	registry := NewTypeRegistry(map[string][]string{
		"com/acme/MyTask": {"org/gradle/api/Task"},
	}, parent)

	assert.Equal(t, []string{"org/gradle/api/Named", "org/gradle/api/Task"},
		registry.SuperTypes("com/acme/MyTask"))
}

func TestTypeRegistry_CyclesTerminate(t *testing.T) {
	registry := NewTypeRegistry(map[string][]string{
		"com/acme/A": {"com/acme/B"},
		"com/acme/B": {"com/acme/A"},
	}, EmptyRegistry)

	assert.Equal(t, []string{"com/acme/A", "com/acme/B"}, registry.SuperTypes("com/acme/A"))
}

func TestEmptyRegistry(t *testing.T) {
	assert.True(t, EmptyRegistry.IsEmpty())
	assert.Nil(t, EmptyRegistry.SuperTypes("com/acme/Foo"))

	// A registry with no direct types over an empty parent is empty too
	assert.True(t, NewTypeRegistry(nil, EmptyRegistry).IsEmpty())
}

func TestMergeTypeMaps_UnitesSets(t *testing.T) {
	merged := MergeTypeMaps(
		map[string][]string{"com/acme/C": {"com/acme/A"}},
		map[string][]string{"com/acme/C": {"com/acme/B"}, "com/acme/D": {"com/acme/A"}},
	)

	assert.Equal(t, map[string][]string{
		"com/acme/C": {"com/acme/A", "com/acme/B"},
		"com/acme/D": {"com/acme/A"},
	}, merged)
}

func TestCombineArtifactHash(t *testing.T) {
	h1 := CombineArtifactHash("content", "guava.jar", false)
	assert.NotEmpty(t, h1)

	// Deterministic
	assert.Equal(t, h1, CombineArtifactHash("content", "guava.jar", false))

	// Name and global-cache flag both participate
	assert.NotEqual(t, h1, CombineArtifactHash("content", "other.jar", false))
	assert.NotEqual(t, h1, CombineArtifactHash("content", "guava.jar", true))
	assert.NotEqual(t, h1, CombineArtifactHash("changed", "guava.jar", false))
}
