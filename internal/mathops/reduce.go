package mathops

import (
	"github.com/sapfsound/sapf/internal/genlib"
	"github.com/sapfsound/sapf/internal/object"
	"github.com/sapfsound/sapf/internal/serr"
)

// ReduceNamed folds a finite signal down to one value using the named
// binary operator as the combining function.
func ReduceNamed(name string, g *object.ZGen, init float64) (float64, error) {
	fn, ok := binaryOps[name]
	if !ok {
		return 0, serr.New(serr.UndefinedOperation, name, "no such binary operator")
	}
	arr, err := g.ToZArray()
	if err != nil {
		return 0, err
	}
	return genlib.ReduceZ(arr.Samples, init, fn), nil
}

// ScanNamed returns the running-accumulator stream for the named binary
// operator over g.
func ScanNamed(name string, g *object.ZGen, init float64) (*object.ZGen, error) {
	fn, ok := binaryOps[name]
	if !ok {
		return nil, serr.New(serr.UndefinedOperation, name, "no such binary operator")
	}
	return genlib.ScanZ(g, init, fn), nil
}
