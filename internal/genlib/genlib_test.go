package genlib

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapfsound/sapf/internal/object"
)

func TestNByzCountsOneToTen(t *testing.T) {
	// "10 1 1 nbyz" -> n=10, start=1, step=1 -> [1..10]
	g := NByz(10, 1, 1)
	arr, err := g.ToZArray()
	require.NoError(t, err)
	require.Len(t, arr.Samples, 10)
	for i := 0; i < 10; i++ {
		require.Equal(t, float64(i+1), arr.Samples[i])
	}
}

func TestXLineExactSampleCountAndMonotonic(t *testing.T) {
	// "5 .1 .9 xline" at 48000Hz -> exactly 240000 samples, 0.1->0.9, monotonic.
	g := XLine(48000, 5, 0.1, 0.9)
	arr, err := g.ToZArray()
	require.NoError(t, err)
	require.Len(t, arr.Samples, 240000)
	require.InDelta(t, 0.1, arr.Samples[0], 1e-9)
	for i := 1; i < len(arr.Samples); i++ {
		require.GreaterOrEqual(t, arr.Samples[i], arr.Samples[i-1])
	}
	require.Less(t, arr.Samples[len(arr.Samples)-1], 0.9+1e-9)
}

func TestXLineZeroOrNegativeDurationStillYieldsOneSample(t *testing.T) {
	// Matches the original's n = max(1, floor(dur*sampleRate+.5)): a
	// non-positive duration still produces a single sample rather than
	// an already-ended, zero-length generator.
	for _, dur := range []float64{0, -1} {
		g := XLine(48000, dur, 0.1, 0.9)
		arr, err := g.ToZArray()
		require.NoError(t, err)
		require.Len(t, arr.Samples, 1)
	}
}

func TestLineZeroOrNegativeDurationStillYieldsOneSample(t *testing.T) {
	for _, dur := range []float64{0, -1} {
		g := Line(48000, dur, 0.1, 0.9)
		arr, err := g.ToZArray()
		require.NoError(t, err)
		require.Len(t, arr.Samples, 1)
	}
}

func TestCycTakeSeven(t *testing.T) {
	// "[1 2 3] cyc 7 N" -> [1,2,3,1,2,3,1]
	elems := vfloats(1, 2, 3)
	g := Cyc(elems)
	arr, err := Take(g, 7)
	require.NoError(t, err)
	n, _ := arr.Length()
	require.Equal(t, 7, n)
	expect := []float64{1, 2, 3, 1, 2, 3, 1}
	for i, e := range expect {
		v, err := arr.At(i)
		require.NoError(t, err)
		require.Equal(t, e, v.Float64())
	}
}

func TestReverseFourElements(t *testing.T) {
	a := object.NewVArray(vfloats(1, 2, 3, 4))
	rev := Reverse(a)
	expect := []float64{4, 3, 2, 1}
	for i, e := range expect {
		v, err := rev.At(i)
		require.NoError(t, err)
		require.Equal(t, e, v.Float64())
	}
}

func vfloats(xs ...float64) []object.V {
	out := make([]object.V, len(xs))
	for i, x := range xs {
		out[i] = object.Float(x)
	}
	return out
}
