// Package automap implements SAPF's multichannel expansion ("automap"):
// lifting a scalar-expecting primitive over list-shaped arguments. Any
// argument whose length is known is expanded eagerly; an argument whose
// length is not yet known (an unfinished Gen) is expanded lazily, via a
// dedicated lifting Gen that pulls its sources in lockstep.
//
// The NoEachOps flag (see object.V.NoEachOps) is checked only on the
// argument value itself at the call site — it is never inherited by a
// value this package computes. A Form flagged NoEachOps is treated as
// an ordinary scalar-like argument (e.g. a constant lookup table passed
// whole rather than lifted element-by-element).
package automap

import "github.com/sapfsound/sapf/internal/object"

// ScalarFn computes one output sample from one sample per argument.
type ScalarFn func(args []float64) float64

// Apply lifts fn over args, expanding any list-shaped argument according
// to automap's rules, and returns either a plain Float (all args were
// scalar) or a boxed ZArray/ZGen.
func Apply(fn ScalarFn, args []object.V) (object.V, error) {
	if allScalar(args) {
		return object.Float(fn(floatsOf(args))), nil
	}

	finiteLen, allFinite := minFiniteLength(args)
	if allFinite {
		out := make([]float64, finiteLen)
		leaves := make([]float64, len(args))
		for i := 0; i < finiteLen; i++ {
			for j, a := range args {
				v, err := atOrScalar(a, i)
				if err != nil {
					return object.V{}, err
				}
				leaves[j] = v
			}
			out[i] = fn(leaves)
		}
		return object.Of(object.NewZArray(out)), nil
	}

	return object.Of(object.NewZGen(&liftSource{args: args, fn: fn})), nil
}

func allScalar(args []object.V) bool {
	for _, a := range args {
		if a.IsFloat() || a.NoEachOps() {
			continue
		}
		return false
	}
	return true
}

func floatsOf(args []object.V) []float64 {
	out := make([]float64, len(args))
	for i, a := range args {
		out[i] = a.Float64()
	}
	return out
}

// minFiniteLength reports the shortest known length among list-shaped
// args — per "For lists of unequal finite length, the result is
// min(|xs|,|ys|) long" — and whether every list-shaped arg's length is
// in fact known (false if any is an unfinished Gen). Scalars and
// NoEachOps arguments don't participate in the length computation: a
// call with no list-shaped argument at all is handled by allScalar
// above and never reaches here.
func minFiniteLength(args []object.V) (int, bool) {
	min := -1
	for _, a := range args {
		if a.IsFloat() || a.NoEachOps() {
			continue
		}
		n, known := a.Length()
		if !known {
			return 0, false
		}
		if min == -1 || n < min {
			min = n
		}
	}
	if min == -1 {
		min = 1
	}
	return min, true
}

// atOrScalar fetches the sample for arg at logical position i: plain
// float64 for scalars, direct-indexed for finite lists. Since i never
// exceeds the shortest operand's length, no wraparound is needed here —
// wraparound is the explicit behavior of the wrapAt/clipAt/foldAt
// builtins, not of automap's own broadcast.
func atOrScalar(a object.V, i int) (float64, error) {
	if a.IsFloat() || a.NoEachOps() {
		return a.Float64(), nil
	}
	v, err := a.At(i)
	if err != nil {
		return 0, err
	}
	return v.Float64(), nil
}

// liftSource is the lazy lifting Gen used when at least one argument has
// indefinite length: it pulls every indefinite argument forward in
// lockstep and wraps finite/scalar arguments against the same index,
// ending as soon as the first indefinite argument ends (zip semantics).
// An argument counts as indefinite if its length was unknown when the
// first block was requested, even after its own Gen later ends.
type liftSource struct {
	args  []object.V
	fn    ScalarFn
	i     int
	indef []bool
}

func (s *liftSource) FillZ(buf []float64, n int) ([]float64, bool) {
	if s.indef == nil {
		s.indef = make([]bool, len(s.args))
		for j, a := range s.args {
			_, known := a.Length()
			s.indef[j] = !known
		}
	}
	leaves := make([]float64, len(s.args))
	for k := 0; k < n; k++ {
		ended := false
		for j, a := range s.args {
			if a.IsFloat() || a.NoEachOps() {
				leaves[j] = a.Float64()
				continue
			}
			if s.indef[j] {
				v, err := a.At(s.i)
				if err != nil {
					ended = true
					break
				}
				leaves[j] = v.Float64()
				continue
			}
			v, err := a.WrapAt(s.i)
			if err != nil {
				ended = true
				break
			}
			leaves[j] = v.Float64()
		}
		if ended {
			return buf, true
		}
		buf = append(buf, s.fn(leaves))
		s.i++
	}
	return buf, false
}
