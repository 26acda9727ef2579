package mathops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapfsound/sapf/internal/object"
)

func TestScalarPlus(t *testing.T) {
	// "5 3 +" -> 8
	v, err := Binary("+", object.Float(5), object.Float(3))
	require.NoError(t, err)
	require.True(t, v.IsFloat())
	require.Equal(t, 8.0, v.Float64())
}

func TestListPlusList(t *testing.T) {
	// "[1 2 3] [10 20 30] +" -> [11 22 33]
	a := object.Of(object.NewVArrayFromFloats(1, 2, 3))
	b := object.Of(object.NewVArrayFromFloats(10, 20, 30))
	v, err := Binary("+", a, b)
	require.NoError(t, err)
	n, _ := v.Length()
	require.Equal(t, 3, n)
	expect := []float64{11, 22, 33}
	for i, e := range expect {
		x, err := v.At(i)
		require.NoError(t, err)
		require.Equal(t, e, x.Float64())
	}
}

func TestListPlusListOfUnequalLengthTruncatesToShorter(t *testing.T) {
	// "[1 2] [10 20 30] +" -> [11 22], min(2,3) long, no wraparound.
	a := object.Of(object.NewVArrayFromFloats(1, 2))
	b := object.Of(object.NewVArrayFromFloats(10, 20, 30))
	v, err := Binary("+", a, b)
	require.NoError(t, err)
	n, _ := v.Length()
	require.Equal(t, 2, n)
	expect := []float64{11, 22}
	for i, e := range expect {
		x, err := v.At(i)
		require.NoError(t, err)
		require.Equal(t, e, x.Float64())
	}
}
