package genlib

import "github.com/sapfsound/sapf/internal/object"

// cycSource cycles an underlying finite slice of values forever.
type cycSource struct {
	elems []object.V
	i     int
}

func (s *cycSource) FillV(buf []object.V, n int) ([]object.V, bool) {
	if len(s.elems) == 0 {
		return buf, true
	}
	for k := 0; k < n; k++ {
		buf = append(buf, s.elems[s.i%len(s.elems)])
		s.i++
	}
	return buf, false
}

// Cyc returns an unbounded generator cycling through elems forever.
func Cyc(elems []object.V) *object.VGen {
	return object.NewVGen(&cycSource{elems: elems})
}

// ncycSource cycles a finite slice for exactly total elements, then ends.
type ncycSource struct {
	elems     []object.V
	i         int
	remaining int
}

func (s *ncycSource) FillV(buf []object.V, n int) ([]object.V, bool) {
	if len(s.elems) == 0 || s.remaining <= 0 {
		return buf, true
	}
	take := n
	if take > s.remaining {
		take = s.remaining
	}
	for k := 0; k < take; k++ {
		buf = append(buf, s.elems[s.i%len(s.elems)])
		s.i++
	}
	s.remaining -= take
	return buf, s.remaining <= 0
}

// NCyc returns a generator cycling elems for exactly total items.
func NCyc(elems []object.V, total int) *object.VGen {
	return object.NewVGen(&ncycSource{elems: elems, remaining: total})
}

// Take materializes exactly n items from g into a VArray, pulling as
// many blocks as needed. Grounds the "N" take-n-items operator.
func Take(g *object.VGen, n int) (*object.VArray, error) {
	for !g.Ended && len(g.Buf) < n {
		g.Pull(n - len(g.Buf))
	}
	count := n
	if count > len(g.Buf) {
		count = len(g.Buf)
	}
	out := make([]object.V, count)
	copy(out, g.Buf[:count])
	return object.NewVArray(out), nil
}

// catSource lazily concatenates two generators: it drains first, then
// switches to second, never pulling from second before first has ended.
type catSource struct {
	first, second *object.VGen
	onSecond      bool
}

func (s *catSource) FillV(buf []object.V, n int) ([]object.V, bool) {
	if !s.onSecond {
		before := len(s.first.Buf)
		want := before + n
		for !s.first.Ended && len(s.first.Buf) < want {
			s.first.Pull(want - len(s.first.Buf))
		}
		buf = append(buf, s.first.Buf[before:]...)
		if !s.first.Ended {
			return buf, false
		}
		s.onSecond = true
		n -= len(s.first.Buf) - before
		if n <= 0 {
			return buf, s.second.Ended && len(s.second.Buf) == 0
		}
	}
	before := len(s.second.Buf)
	want := before + n
	for !s.second.Ended && len(s.second.Buf) < want {
		s.second.Pull(want - len(s.second.Buf))
	}
	buf = append(buf, s.second.Buf[before:]...)
	return buf, s.second.Ended
}

// Cat lazily concatenates a followed by b.
func Cat(a, b *object.VGen) *object.VGen {
	return object.NewVGen(&catSource{first: a, second: b})
}

// Reverse materializes a finite array's elements in reverse order.
func Reverse(a *object.VArray) *object.VArray {
	n, _ := a.Length()
	out := make([]object.V, n)
	for i := 0; i < n; i++ {
		v, _ := a.At(n - 1 - i)
		out[i] = v
	}
	return object.NewVArray(out)
}

// ReverseZ is Reverse's homogeneous-float counterpart.
func ReverseZ(a *object.ZArray) *object.ZArray {
	n := len(a.Samples)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a.Samples[n-1-i]
	}
	return object.NewZArray(out)
}

// Pack interleaves one []float64 per channel into a single flat,
// channel-interleaved buffer — the inverse of Unpack. Channels must all
// have equal length.
func Pack(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	n := len(channels[0])
	out := make([]float64, n*len(channels))
	for i := 0; i < n; i++ {
		for c, ch := range channels {
			out[i*len(channels)+c] = ch[i]
		}
	}
	return out
}

// Unpack de-interleaves a flat buffer into numChannels separate slices.
func Unpack(interleaved []float64, numChannels int) [][]float64 {
	if numChannels <= 0 {
		return nil
	}
	n := len(interleaved) / numChannels
	out := make([][]float64, numChannels)
	for c := range out {
		out[c] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for c := 0; c < numChannels; c++ {
			out[c][i] = interleaved[i*numChannels+c]
		}
	}
	return out
}
