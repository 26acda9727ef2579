package object

import (
	"fmt"
	"io"
)

// DefaultBlockSize is the block granularity used when a Gen is pulled
// outside of any Rate-driven scheduling context (e.g. from At/Length).
const DefaultBlockSize = 64

// VSource is the pull-body a VGen wraps: append up to n more tagged
// values to buf (which may already hold previously produced items) and
// report whether the source has now ended. Sources hold their own
// progress state (e.g. "samples remaining") between calls — the Gen
// itself only memoizes what has already been pulled.
type VSource interface {
	FillV(buf []V, n int) (out []V, ended bool)
}

// ZSource is VSource's homogeneous-float counterpart, used for audio
// signal streams.
type ZSource interface {
	FillZ(buf []float64, n int) (out []float64, ended bool)
}

// VGen is a lazy, memoizing, pull-based heterogeneous stream: the Go
// model of SAPF's VList. Each Pull grows Buf by at most n items; once
// Ended is true, Buf holds the complete, finite realization and no
// further Pull call changes it.
type VGen struct {
	RC
	Source VSource
	Buf    []V
	Ended  bool
}

func NewVGen(source VSource) *VGen {
	return &VGen{RC: NewRC(), Source: source}
}

// Pull requests up to n additional items. It returns how many new items
// were appended and whether the source has ended (producing fewer than
// requested is what spec calls "produce(shrinkBy)": the shortfall is
// simply n minus produced).
func (g *VGen) Pull(n int) (produced int, ended bool) {
	if g.Ended {
		return 0, true
	}
	before := len(g.Buf)
	buf, ended := g.Source.FillV(g.Buf, n)
	g.Buf = buf
	g.Ended = ended
	return len(g.Buf) - before, ended
}

// fillTo ensures at least i+1 items are buffered (or the source has
// ended), pulling in DefaultBlockSize increments.
func (g *VGen) fillTo(i int) {
	for !g.Ended && len(g.Buf) <= i {
		g.Pull(DefaultBlockSize)
	}
}

func (g *VGen) TypeName() string { return "List" }

func (g *VGen) Length() (int, bool) {
	if g.Ended {
		return len(g.Buf), true
	}
	return len(g.Buf), false
}

func (g *VGen) At(i int) (V, error) {
	g.fillTo(i)
	if i < 0 || i >= len(g.Buf) {
		return V{}, outOfRange("at", i, len(g.Buf))
	}
	return g.Buf[i], nil
}

func (g *VGen) WrapAt(i int) (V, error) {
	if !g.Ended {
		return V{}, indefiniteIndex("wrapAt")
	}
	if len(g.Buf) == 0 {
		return V{}, outOfRange("wrapAt", i, 0)
	}
	return g.Buf[wrapIndex(i, len(g.Buf))], nil
}

func (g *VGen) ClipAt(i int) (V, error) {
	if !g.Ended {
		g.fillTo(i)
		if i < len(g.Buf) {
			return g.Buf[i], nil
		}
		if len(g.Buf) == 0 {
			return V{}, outOfRange("clipAt", i, 0)
		}
		return g.Buf[len(g.Buf)-1], nil
	}
	if len(g.Buf) == 0 {
		return V{}, outOfRange("clipAt", i, 0)
	}
	return g.Buf[clipIndex(i, len(g.Buf))], nil
}

func (g *VGen) FoldAt(i int) (V, error) {
	if !g.Ended {
		return V{}, indefiniteIndex("foldAt")
	}
	if len(g.Buf) == 0 {
		return V{}, outOfRange("foldAt", i, 0)
	}
	return g.Buf[foldIndex(i, len(g.Buf))], nil
}

func (g *VGen) Deref() V { return Of(g) }

func (g *VGen) Print(w io.Writer, depth, length int) {
	if depth <= 0 {
		fmt.Fprint(w, "(...)")
		return
	}
	g.fillTo(length - 1)
	fmt.Fprint(w, "(")
	shown := len(g.Buf)
	if shown > length {
		shown = length
	}
	for i := 0; i < shown; i++ {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		g.Buf[i].Print(w, depth-1, length)
	}
	if !g.Ended || shown < len(g.Buf) {
		fmt.Fprint(w, " ..")
	}
	fmt.Fprint(w, ")")
}

// ZGen is VGen's homogeneous-float counterpart: a lazy, memoizing
// pull-based signal stream, the Go model of SAPF's ZList.
type ZGen struct {
	RC
	Source ZSource
	Buf    []float64
	Ended  bool
}

func NewZGen(source ZSource) *ZGen {
	return &ZGen{RC: NewRC(), Source: source}
}

func (g *ZGen) Pull(n int) (produced int, ended bool) {
	if g.Ended {
		return 0, true
	}
	before := len(g.Buf)
	buf, ended := g.Source.FillZ(g.Buf, n)
	g.Buf = buf
	g.Ended = ended
	return len(g.Buf) - before, ended
}

func (g *ZGen) fillTo(i int) {
	for !g.Ended && len(g.Buf) <= i {
		g.Pull(DefaultBlockSize)
	}
}

func (g *ZGen) TypeName() string { return "Signal" }

func (g *ZGen) Length() (int, bool) {
	if g.Ended {
		return len(g.Buf), true
	}
	return len(g.Buf), false
}

func (g *ZGen) At(i int) (V, error) {
	g.fillTo(i)
	if i < 0 || i >= len(g.Buf) {
		return V{}, outOfRange("at", i, len(g.Buf))
	}
	return Float(g.Buf[i]), nil
}

func (g *ZGen) WrapAt(i int) (V, error) {
	if !g.Ended {
		return V{}, indefiniteIndex("wrapAt")
	}
	if len(g.Buf) == 0 {
		return V{}, outOfRange("wrapAt", i, 0)
	}
	return Float(g.Buf[wrapIndex(i, len(g.Buf))]), nil
}

func (g *ZGen) ClipAt(i int) (V, error) {
	if !g.Ended {
		g.fillTo(i)
		if i < len(g.Buf) {
			return Float(g.Buf[i]), nil
		}
		if len(g.Buf) == 0 {
			return V{}, outOfRange("clipAt", i, 0)
		}
		return Float(g.Buf[len(g.Buf)-1]), nil
	}
	if len(g.Buf) == 0 {
		return V{}, outOfRange("clipAt", i, 0)
	}
	return Float(g.Buf[clipIndex(i, len(g.Buf))]), nil
}

func (g *ZGen) FoldAt(i int) (V, error) {
	if !g.Ended {
		return V{}, indefiniteIndex("foldAt")
	}
	if len(g.Buf) == 0 {
		return V{}, outOfRange("foldAt", i, 0)
	}
	return Float(g.Buf[foldIndex(i, len(g.Buf))]), nil
}

func (g *ZGen) Deref() V { return Of(g) }

func (g *ZGen) Print(w io.Writer, depth, length int) {
	g.fillTo(length - 1)
	fmt.Fprint(w, "#(")
	shown := len(g.Buf)
	if shown > length {
		shown = length
	}
	for i := 0; i < shown; i++ {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, formatFloat(g.Buf[i]))
	}
	if !g.Ended || shown < len(g.Buf) {
		fmt.Fprint(w, " ..")
	}
	fmt.Fprint(w, ")")
}

// ToVArray fully realizes a VGen (must eventually end) into a VArray.
func (g *VGen) ToVArray() (*VArray, error) {
	for !g.Ended {
		g.Pull(DefaultBlockSize)
	}
	elems := make([]V, len(g.Buf))
	copy(elems, g.Buf)
	return NewVArray(elems), nil
}

// ToZArray fully realizes a ZGen (must eventually end) into a ZArray.
func (g *ZGen) ToZArray() (*ZArray, error) {
	for !g.Ended {
		g.Pull(DefaultBlockSize)
	}
	samples := make([]float64, len(g.Buf))
	copy(samples, g.Buf)
	return NewZArray(samples), nil
}

func indefiniteIndex(op string) error {
	return errIndefinite(op)
}
