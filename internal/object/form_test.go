package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormGetPrefersOwnSlotOverParent(t *testing.T) {
	parent := NewForm()
	parent.Set("x", Float(1))
	child := NewForm(parent)
	child.Set("x", Float(2))

	v, ok := child.Get("x")
	require.True(t, ok)
	require.Equal(t, 2.0, v.Float64())
}

func TestFormGetFallsThroughToParent(t *testing.T) {
	parent := NewForm()
	parent.Set("y", Float(9))
	child := NewForm(parent)

	v, ok := child.Get("y")
	require.True(t, ok)
	require.Equal(t, 9.0, v.Float64())
}

func TestFormGetMissingSlotIsNotFound(t *testing.T) {
	child := NewForm(NewForm())
	_, ok := child.Get("nope")
	require.False(t, ok)
}

func TestLinearizeDiamondPutsMostSpecificAncestorFirst(t *testing.T) {
	// base <- left, base <- right, child(left, right): child's own
	// linearization should put left before right (declared order), and
	// base exactly once despite being reachable through both.
	base := NewForm()
	base.Set("shared", Float(1))
	left := NewForm(base)
	left.Set("marker", Float(10))
	right := NewForm(base)
	right.Set("marker", Float(20))
	child := NewForm(left, right)

	v, ok := child.Get("marker")
	require.True(t, ok)
	require.Equal(t, 10.0, v.Float64(), "left parent should shadow right parent")

	count := 0
	for _, p := range child.Parents {
		if p == base {
			count++
		}
	}
	require.Equal(t, 1, count, "base must appear exactly once in the linearization")
}

func TestNoEachOpsFlagIsNotInheritedByComputedForms(t *testing.T) {
	flagged := NewForm()
	flagged.SetNoEachOps(true)
	require.True(t, flagged.NoEachOps())

	derived := NewForm(flagged)
	require.False(t, derived.NoEachOps(), "a fresh Form over a flagged parent must not inherit the flag")
}
