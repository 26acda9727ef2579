package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapfsound/sapf/internal/compiler"
	"github.com/sapfsound/sapf/internal/object"
)

func run(t *testing.T, src string) *Thread {
	t.Helper()
	chunk, err := compiler.Compile(src)
	require.NoError(t, err)
	th := New(Rate{SampleRate: 48000, BlockSize: 64})
	require.NoError(t, th.Run(chunk))
	return th
}

func TestArithmeticScalar(t *testing.T) {
	// "5 3 +" -> 8
	th := run(t, "5 3 +")
	require.Len(t, th.Stack, 1)
	require.True(t, th.Stack[0].IsFloat())
	require.Equal(t, 8.0, th.Stack[0].Float64())
}

func TestNbyzCountsOneToTen(t *testing.T) {
	// "10 1 1 nbyz" -> [1..10]
	th := run(t, "10 1 1 nbyz")
	require.Len(t, th.Stack, 1)
	g, ok := th.Stack[0].Object().(*object.ZGen)
	require.True(t, ok)
	arr, err := g.ToZArray()
	require.NoError(t, err)
	require.Len(t, arr.Samples, 10)
	for i := 0; i < 10; i++ {
		require.Equal(t, float64(i+1), arr.Samples[i])
	}
}

func TestCycTakeSeven(t *testing.T) {
	// "[1 2 3] cyc 7 N" -> [1 2 3 1 2 3 1]
	th := run(t, "[1 2 3] cyc 7 N")
	require.Len(t, th.Stack, 1)
	arr, ok := th.Stack[0].Object().(*object.VArray)
	require.True(t, ok)
	n, _ := arr.Length()
	require.Equal(t, 7, n)
	expect := []float64{1, 2, 3, 1, 2, 3, 1}
	for i, e := range expect {
		v, err := arr.At(i)
		require.NoError(t, err)
		require.Equal(t, e, v.Float64())
	}
}

func TestListPlusList(t *testing.T) {
	// "[1 2 3] [10 20 30] +" -> [11 22 33]
	th := run(t, "[1 2 3] [10 20 30] +")
	require.Len(t, th.Stack, 1)
	n, _ := th.Stack[0].Length()
	require.Equal(t, 3, n)
	expect := []float64{11, 22, 33}
	for i, e := range expect {
		v, err := th.Stack[0].At(i)
		require.NoError(t, err)
		require.Equal(t, e, v.Float64())
	}
}

func TestListPlusListOfUnequalLengthTruncatesToShorter(t *testing.T) {
	// "[1 2] [10 20 30] +" -> [11 22], min(2,3) long.
	th := run(t, "[1 2] [10 20 30] +")
	require.Len(t, th.Stack, 1)
	n, _ := th.Stack[0].Length()
	require.Equal(t, 2, n)
	expect := []float64{11, 22}
	for i, e := range expect {
		v, err := th.Stack[0].At(i)
		require.NoError(t, err)
		require.Equal(t, e, v.Float64())
	}
}

func TestKeepAutomapsCountArgumentOverAList(t *testing.T) {
	// "keep" declares mask "ak": the list operand is raw, the count
	// operand automaps — "[1 2 3 4 5] [2 4] keep" keeps the list whole
	// and lifts over the counts, producing one sub-array per count.
	th := run(t, "[1 2 3 4 5] [2 4] keep")
	require.Len(t, th.Stack, 1)
	outer, ok := th.Stack[0].Object().(*object.VArray)
	require.True(t, ok)
	require.Len(t, outer.Elems, 2)

	first, err := outer.At(0)
	require.NoError(t, err)
	firstArr, ok := first.Object().(*object.VArray)
	require.True(t, ok)
	require.Equal(t, []float64{1, 2}, floatsOfVArray(t, firstArr))

	second, err := outer.At(1)
	require.NoError(t, err)
	secondArr, ok := second.Object().(*object.VArray)
	require.True(t, ok)
	require.Equal(t, []float64{1, 2, 3, 4}, floatsOfVArray(t, secondArr))
}

func floatsOfVArray(t *testing.T, arr *object.VArray) []float64 {
	t.Helper()
	out := make([]float64, len(arr.Elems))
	for i, v := range arr.Elems {
		out[i] = v.Float64()
	}
	return out
}

func TestReverseFour(t *testing.T) {
	// "[1 2 3 4] reverse" -> [4 3 2 1]
	th := run(t, "[1 2 3 4] reverse")
	expect := []float64{4, 3, 2, 1}
	for i, e := range expect {
		v, err := th.Stack[0].At(i)
		require.NoError(t, err)
		require.Equal(t, e, v.Float64())
	}
}

func TestLambdaDefAndCall(t *testing.T) {
	// "{ |x| x x * } 'sq def  5 sq" -> 25
	th := run(t, "{ |x| x x * } 'sq def 5 sq")
	require.Len(t, th.Stack, 1)
	require.Equal(t, 25.0, th.Stack[0].Float64())
}

func TestCatTwoFiniteLists(t *testing.T) {
	// "[1 2] 2 ncyc [10 20] 2 ncyc cat 4 N" -> [1 2 10 20]
	th := run(t, "[1 2] 2 ncyc [10 20] 2 ncyc cat 4 N")
	require.Len(t, th.Stack, 1)
	arr, ok := th.Stack[0].Object().(*object.VArray)
	require.True(t, ok)
	expect := []float64{1, 2, 10, 20}
	for i, e := range expect {
		v, err := arr.At(i)
		require.NoError(t, err)
		require.Equal(t, e, v.Float64())
	}
}

func TestReduceSumsTenSamples(t *testing.T) {
	// "10 1 1 nbyz 0 '+ reduce" -> 55
	th := run(t, "10 1 1 nbyz 0 '+ reduce")
	require.Len(t, th.Stack, 1)
	require.Equal(t, 55.0, th.Stack[0].Float64())
}

func TestWrapAtIndexesCyclically(t *testing.T) {
	// "[1 2 3] 5 wrapAt" -> 3 (5 mod 3 == 2)
	th := run(t, "[1 2 3] 5 wrapAt")
	require.Len(t, th.Stack, 1)
	require.Equal(t, 3.0, th.Stack[0].Float64())
}

func TestDotCallSurfacesStackUnderflowInsteadOfPanicking(t *testing.T) {
	// A .name dot-call on a 2-ary Prim needs 1 more operand beyond its
	// implicit receiver; with the data stack empty that must surface as
	// a typed stack_underflow error, not silently truncate args and let
	// the Prim's Impl index out of range.
	th := New(Rate{SampleRate: 48000, BlockSize: 64})
	form := object.NewForm()
	form.Set("add", th.Builtins["+"])

	err := th.dotCall(object.Of(form), "add")
	require.Error(t, err)
}

func TestPlaySinksStopLifecycle(t *testing.T) {
	// "10 1 1 nbyz play" registers one live sink, visible via sinks,
	// and stop() removes it.
	th := run(t, "10 1 1 nbyz play")
	require.Len(t, th.Stack, 1)
	id, ok := th.Stack[0].Object().(*object.Symbol)
	require.True(t, ok)
	require.Len(t, th.Driver.Sinks(), 1)

	th.Stack = nil
	th.Push(object.Of(id))
	require.NoError(t, th.callPrim(th.Builtins["stop"].Object().(*object.Prim)))
	require.Empty(t, th.Driver.Sinks())
}
