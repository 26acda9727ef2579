package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveLocalFindsInnermostDeclaration(t *testing.T) {
	s := NewTopScope()
	s.AddLocal("x")
	s.AddLocal("x")
	idx, ok := s.ResolveLocal("x")
	require.True(t, ok)
	require.Equal(t, 1, idx)
}

func TestResolveUpvalueCapturesFromEnclosingLocal(t *testing.T) {
	outer := NewTopScope()
	outerIdx := outer.AddLocal("n")
	inner := NewInnerScope(outer)

	uvIdx, ok := inner.ResolveUpvalue("n")
	require.True(t, ok)
	require.Equal(t, 0, uvIdx)
	require.True(t, outer.Locals[outerIdx].Captured)
	require.Equal(t, Upvalue{Index: outerIdx, FromLocal: true}, inner.Upvalues[0])
}

func TestResolveUpvalueChainsThroughTransitiveCapture(t *testing.T) {
	// top -> middle -> innermost, where only top declares the name: a
	// closure nested two levels deep closes over it transitively, and
	// middle's own upvalue slot (not a fresh local index) is what
	// innermost's upvalue points at.
	top := NewTopScope()
	top.AddLocal("n")
	middle := NewInnerScope(top)
	innermost := NewInnerScope(middle)

	idx, ok := innermost.ResolveUpvalue("n")
	require.True(t, ok)
	require.Len(t, middle.Upvalues, 1)
	require.True(t, middle.Upvalues[0].FromLocal)
	require.False(t, innermost.Upvalues[idx].FromLocal)
}

func TestResolveUpvalueDeduplicatesRepeatedCapture(t *testing.T) {
	outer := NewTopScope()
	outer.AddLocal("n")
	inner := NewInnerScope(outer)

	first, _ := inner.ResolveUpvalue("n")
	second, _ := inner.ResolveUpvalue("n")
	require.Equal(t, first, second)
	require.Len(t, inner.Upvalues, 1)
}

func TestEndBlockDropsLocalsDeclaredInsideIt(t *testing.T) {
	s := NewTopScope()
	s.AddLocal("outer")
	s.BeginBlock()
	s.AddLocal("inner")
	require.Len(t, s.Locals, 2)
	s.EndBlock()
	require.Len(t, s.Locals, 1)
	require.Equal(t, "outer", s.Locals[0].Name)
}
