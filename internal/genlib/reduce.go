package genlib

import "github.com/sapfsound/sapf/internal/object"

// ReduceZ folds a finite ZGen/ZArray down to a single accumulated value,
// one sample at a time, exactly mirroring the original BinaryOp::reduce:
// the running value lives in the fold's own local, never in a separate
// heap object, so a reduce over a generator that never ends simply never
// returns (callers are expected to bound it).
func ReduceZ(samples []float64, init float64, f func(acc, x float64) float64) float64 {
	acc := init
	for _, x := range samples {
		acc = f(acc, x)
	}
	return acc
}

// scanSource produces a running-accumulator stream: output[i] =
// f(output[i-1], input[i]), with output[-1] = init. The accumulator is
// held in the source's own state across block boundaries, per the
// original BinaryOp::scan's per-block streaming fold shape.
type scanSource struct {
	in  *object.ZGen
	acc float64
	f   func(acc, x float64) float64
	i   int
}

func (s *scanSource) FillZ(buf []float64, n int) ([]float64, bool) {
	before := len(s.in.Buf)
	want := s.i + n
	for !s.in.Ended && len(s.in.Buf) < want {
		s.in.Pull(want - len(s.in.Buf))
	}
	_ = before
	end := want
	if end > len(s.in.Buf) {
		end = len(s.in.Buf)
	}
	for ; s.i < end; s.i++ {
		s.acc = s.f(s.acc, s.in.Buf[s.i])
		buf = append(buf, s.acc)
	}
	return buf, s.in.Ended && s.i >= len(s.in.Buf)
}

// ScanZ returns a stream of running-accumulator values over in.
func ScanZ(in *object.ZGen, init float64, f func(acc, x float64) float64) *object.ZGen {
	return object.NewZGen(&scanSource{in: in, acc: init, f: f})
}

// PairsZ applies f to successive overlapping pairs (x[i], x[i+1]) of a
// finite signal, yielding a stream one sample shorter than the input —
// the original's BinaryOp::pairs.
func PairsZ(samples []float64, f func(a, b float64) float64) []float64 {
	if len(samples) < 2 {
		return nil
	}
	out := make([]float64, len(samples)-1)
	for i := 0; i < len(out); i++ {
		out[i] = f(samples[i], samples[i+1])
	}
	return out
}
