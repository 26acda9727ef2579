package automap

import "github.com/sapfsound/sapf/internal/object"

// VFn computes one leaf result from one leaf argument per position, the
// object.V-valued counterpart to ScalarFn: used where the primitive's
// result isn't reducible to a single float64 (e.g. building a sub-list
// per position, or returning its raw first argument unchanged).
type VFn func(leaves []object.V) (object.V, error)

// ApplyMasked is the general mechanism Apply specializes: rather than
// lifting every argument, it consults a per-arg mask describing which
// operands automap should lift element-wise and which it should pass
// through untouched. A mask byte of 'a' marks its argument "as-is" (the
// original's convention for an argument that may itself be a function,
// or that names a whole-list/whole-value operand that isn't itself
// indexed — e.g. the value argument of repeat/"X", or the list
// argument of keep/"N>"); any other mask byte (by convention 'k' for a
// discrete list or 'z' for a signal) marks the argument for lifting.
// This is what lets an arbitrary Prim opt into automap by declaring a
// Mask instead of automap having a hand-written case for every builtin.
func ApplyMasked(mask string, fn VFn, args []object.V) (object.V, error) {
	if allRawOrScalar(mask, args) {
		return fn(args)
	}

	n, allFinite := minMaskedLength(mask, args)
	if allFinite {
		out := make([]object.V, n)
		leaves := make([]object.V, len(args))
		for i := 0; i < n; i++ {
			for j, a := range args {
				if isRaw(mask, j, a) {
					leaves[j] = a
					continue
				}
				v, err := a.At(i)
				if err != nil {
					return object.V{}, err
				}
				leaves[j] = v
			}
			r, err := fn(leaves)
			if err != nil {
				return object.V{}, err
			}
			out[i] = r
		}
		return object.Of(object.NewVArray(out)), nil
	}

	return object.Of(object.NewVGen(&liftMaskedSource{mask: mask, args: args, fn: fn})), nil
}

// isRaw reports whether args[j] should be passed through whole rather
// than lifted: because the mask says so, or because it's scalar-like
// on its own terms (a plain float, or flagged NoEachOps).
func isRaw(mask string, j int, a object.V) bool {
	if j < len(mask) && mask[j] == 'a' {
		return true
	}
	return a.IsFloat() || a.NoEachOps()
}

func allRawOrScalar(mask string, args []object.V) bool {
	for j, a := range args {
		if !isRaw(mask, j, a) {
			return false
		}
	}
	return true
}

// minMaskedLength is minFiniteLength restricted to the non-raw
// arguments named by mask.
func minMaskedLength(mask string, args []object.V) (int, bool) {
	min := -1
	for j, a := range args {
		if isRaw(mask, j, a) {
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

// liftMaskedSource is ApplyMasked's lazy path, used when at least one
// non-raw argument has indefinite length: it pulls every indefinite
// argument forward in lockstep, ending as soon as the first one ends.
type liftMaskedSource struct {
	mask string
	args []object.V
	fn   VFn
	i    int
}

func (s *liftMaskedSource) FillV(buf []object.V, n int) ([]object.V, bool) {
	leaves := make([]object.V, len(s.args))
	for k := 0; k < n; k++ {
		ended := false
		for j, a := range s.args {
			if isRaw(s.mask, j, a) {
				leaves[j] = a
				continue
			}
			if _, known := a.Length(); !known {
				v, err := a.At(s.i)
				if err != nil {
					ended = true
					break
				}
				leaves[j] = v
				continue
			}
			v, err := a.At(s.i)
			if err != nil {
				ended = true
				break
			}
			leaves[j] = v
		}
		if ended {
			return buf, true
		}
		r, err := s.fn(leaves)
		if err != nil {
			return buf, true
		}
		buf = append(buf, r)
		s.i++
	}
	return buf, false
}
