package automap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapfsound/sapf/internal/object"
)

func add(xs []float64) float64 { return xs[0] + xs[1] }

func TestApplyAllScalarReturnsFloat(t *testing.T) {
	r, err := Apply(add, []object.V{object.Float(2), object.Float(3)})
	require.NoError(t, err)
	require.True(t, r.IsFloat())
	require.Equal(t, 5.0, r.Float64())
}

func TestApplyFiniteBroadcastsScalar(t *testing.T) {
	// [1 2 3] + 10 -> [11 12 13], the scalar is broadcast against every index.
	list := object.Of(object.NewZArray([]float64{1, 2, 3}))
	r, err := Apply(add, []object.V{list, object.Float(10)})
	require.NoError(t, err)
	za, ok := r.Object().(*object.ZArray)
	require.True(t, ok)
	require.Equal(t, []float64{11, 12, 13}, za.Samples)
}

func TestApplyFiniteListsOfUnequalLengthTruncateToShorter(t *testing.T) {
	// [1 2 3 4] + [10 20] -> [11 22], min(4,2) long, no wraparound.
	a := object.Of(object.NewZArray([]float64{1, 2, 3, 4}))
	b := object.Of(object.NewZArray([]float64{10, 20}))
	r, err := Apply(add, []object.V{a, b})
	require.NoError(t, err)
	za, ok := r.Object().(*object.ZArray)
	require.True(t, ok)
	require.Equal(t, []float64{11, 22}, za.Samples)
}

type countingSource struct {
	remaining int
}

func (s *countingSource) FillZ(buf []float64, n int) ([]float64, bool) {
	for i := 0; i < n && s.remaining > 0; i++ {
		buf = append(buf, 1)
		s.remaining--
	}
	return buf, s.remaining == 0
}

func TestApplyLazyLiftOverIndefiniteGenEndsWithSource(t *testing.T) {
	// An indefinite-length Gen argument forces the lazy lift path, which
	// ends exactly when the indefinite source ends (zip semantics), not
	// when a scalar/finite argument would.
	g := object.NewZGen(&countingSource{remaining: 3})
	r, err := Apply(add, []object.V{object.Of(g), object.Float(100)})
	require.NoError(t, err)
	lifted, ok := r.Object().(*object.ZGen)
	require.True(t, ok)
	arr, err := lifted.ToZArray()
	require.NoError(t, err)
	require.Equal(t, []float64{101, 101, 101}, arr.Samples)
}

func TestApplyNoEachOpsFlagBypassesLifting(t *testing.T) {
	// A list-shaped arg flagged NoEachOps is treated as scalar-like
	// (passed whole, not lifted element-by-element) only at this call
	// site — the flag is read off the argument, never inherited from
	// downstream computation.
	list := object.Of(object.NewZArray([]float64{1, 2, 3}))
	require.False(t, list.NoEachOps())

	flagged := object.NewForm()
	flagged.SetNoEachOps(true)
	r, err := Apply(add, []object.V{object.Of(flagged), object.Float(10)})
	require.NoError(t, err)
	require.True(t, r.IsFloat(), "a NoEachOps argument must not be lifted into a list result")
}
