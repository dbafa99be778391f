package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickOne(t *testing.T) {
	sel := NewSeededSelector(7)

	_, ok := PickOne(sel, []int(nil))
	assert.False(t, ok)

	v, ok := PickOne(sel, []int{42})
	require.True(t, ok)
	assert.Equal(t, 42, v)

	pool := []string{"a", "b", "c"}
	v2, ok := PickOne(sel, pool)
	require.True(t, ok)
	assert.Contains(t, pool, v2)
}

func TestPickManyDistinctAndClamped(t *testing.T) {
	sel := NewSeededSelector(7)
	pool := []int{1, 2, 3, 4, 5}

	got := PickMany(sel, pool, 3)
	require.Len(t, got, 3)
	seen := map[int]bool{}
	for _, v := range got {
		assert.False(t, seen[v], "no element picked twice")
		seen[v] = true
		assert.Contains(t, pool, v)
	}

	assert.Len(t, PickMany(sel, pool, 99), len(pool))
	assert.Empty(t, PickMany(sel, pool, 0))
	assert.Empty(t, PickMany(sel, pool, -1))
}

func TestPermPreservesElements(t *testing.T) {
	sel := NewSeededSelector(7)
	pool := []int{1, 2, 3, 4, 5, 6}

	out := Perm(sel, pool)
	require.Len(t, out, len(pool))
	sorted := append([]int(nil), out...)
	sort.Ints(sorted)
	assert.Equal(t, pool, sorted)

	// The input is never shuffled in place.
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, pool)
}

func TestSeededSelectorIsDeterministic(t *testing.T) {
	pool := []int{1, 2, 3, 4, 5, 6, 7, 8}
	a := Perm(NewSeededSelector(99), pool)
	b := Perm(NewSeededSelector(99), pool)
	assert.Equal(t, a, b)
}
