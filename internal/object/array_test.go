package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func vfloats(xs ...float64) []V {
	out := make([]V, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

func TestVArrayAt(t *testing.T) {
	a := NewVArray(vfloats(1, 2, 3, 4))
	v, err := a.At(2)
	require.NoError(t, err)
	require.Equal(t, 3.0, v.Float64())

	_, err = a.At(4)
	require.Error(t, err)
}

func TestWrapAtClipAtFoldAt(t *testing.T) {
	a := NewVArray(vfloats(10, 20, 30, 40))

	// wrapAt: modulo wraparound.
	v, err := a.WrapAt(5)
	require.NoError(t, err)
	require.Equal(t, 20.0, v.Float64())

	v, err = a.WrapAt(-1)
	require.NoError(t, err)
	require.Equal(t, 40.0, v.Float64())

	// clipAt: clamps into range.
	v, err = a.ClipAt(99)
	require.NoError(t, err)
	require.Equal(t, 40.0, v.Float64())

	v, err = a.ClipAt(-5)
	require.NoError(t, err)
	require.Equal(t, 10.0, v.Float64())

	// foldAt: triangular reflection, period 2(n-1) = 6.
	v, err = a.FoldAt(4)
	require.NoError(t, err)
	require.Equal(t, 30.0, v.Float64()) // reflect: 4 -> 6-4=2 -> index2=30

	v, err = a.FoldAt(6)
	require.NoError(t, err)
	require.Equal(t, 10.0, v.Float64()) // full period back to 0
}

func TestReverse(t *testing.T) {
	a := NewVArray(vfloats(1, 2, 3, 4))
	n, _ := a.Length()
	out := make([]V, n)
	for i := 0; i < n; i++ {
		out[i], _ = a.At(n - 1 - i)
	}
	rev := NewVArray(out)
	expect := []float64{4, 3, 2, 1}
	for i, e := range expect {
		v, err := rev.At(i)
		require.NoError(t, err)
		require.Equal(t, e, v.Float64())
	}
}
