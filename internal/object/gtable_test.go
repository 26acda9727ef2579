package object

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGTableSetReturnsNewTableLeavingOriginalUnmodified(t *testing.T) {
	t0 := NewGTable()
	t1 := t0.Set("a", Float(1))

	_, ok := t0.Get("a")
	require.False(t, ok, "original table must be unaffected by Set")

	v, ok := t1.Get("a")
	require.True(t, ok)
	require.Equal(t, 1.0, v.Float64())
}

func TestGTableOverwriteDoesNotGrowSize(t *testing.T) {
	t0 := NewGTable().Set("a", Float(1))
	t1 := t0.Set("a", Float(2))
	require.Equal(t, 1, t1.size)
	v, _ := t1.Get("a")
	require.Equal(t, 2.0, v.Float64())
}

func TestGTableManyKeysAllRetrievable(t *testing.T) {
	// Enough keys to force multiple trie levels and at least one
	// same-bucket collision resolved via a nested subtree.
	table := NewGTable()
	n := 500
	for i := 0; i < n; i++ {
		table = table.Set(fmt.Sprintf("key-%d", i), Float(float64(i)))
	}
	require.Equal(t, n, table.size)
	for i := 0; i < n; i++ {
		v, ok := table.Get(fmt.Sprintf("key-%d", i))
		require.True(t, ok)
		require.Equal(t, float64(i), v.Float64())
	}
}

func TestGTableDeleteRemovesKeyAndSharesOriginal(t *testing.T) {
	t0 := NewGTable().Set("a", Float(1)).Set("b", Float(2))
	t1 := t0.Delete("a")

	_, ok := t1.Get("a")
	require.False(t, ok)
	v, ok := t1.Get("b")
	require.True(t, ok)
	require.Equal(t, 2.0, v.Float64())

	_, ok = t0.Get("a")
	require.True(t, ok, "deleting from t1 must not affect t0")
}

func TestGFormWithPublishesSnapshotWithoutMutatingPrior(t *testing.T) {
	f0 := NewGForm()
	f1 := f0.With("x", Float(5))

	_, ok := f0.Get("x")
	require.False(t, ok)
	v, ok := f1.Get("x")
	require.True(t, ok)
	require.Equal(t, 5.0, v.Float64())
}

func TestGFormFallsThroughToParent(t *testing.T) {
	parent := NewGForm().With("shared", Float(7))
	child := NewGForm(parent)
	v, ok := child.Get("shared")
	require.True(t, ok)
	require.Equal(t, 7.0, v.Float64())
}
