package serr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(WrongType, "dup", "expected a number")
	require.True(t, Is(err, WrongType))
	require.False(t, Is(err, OutOfRange))
}

func TestIsFalseForPlainError(t *testing.T) {
	require.False(t, Is(errors.New("boom"), Internal))
}

func TestWrapPreservesUnderlyingErrorForUnwrap(t *testing.T) {
	underlying := errors.New("file not found")
	wrapped := Wrap(NotFound, "load", underlying)
	require.ErrorIs(t, wrapped, underlying)
}

func TestErrorStringIncludesKindOpAndReason(t *testing.T) {
	err := Newf(StackUnderflow, "pop", "need %d values, have %d", 2, 0)
	require.Contains(t, err.Error(), "stack_underflow")
	require.Contains(t, err.Error(), "pop")
	require.Contains(t, err.Error(), "need 2 values, have 0")
}
