package object

import (
	"fmt"
	"io"
	"sync"
)

// Ref is a mutable, mutex-guarded single-value cell: the deliberate
// indirection that lets SAPF build feedback graphs (a value that refers
// to a later value in its own dependency chain) without forming a true
// reference cycle in the intrusive-refcounted object graph — only the
// Ref is shared; what it currently points at can be swapped freely.
type Ref struct {
	RC
	mu      sync.Mutex
	val     V
	version uint64
}

func NewRef(initial V) *Ref {
	initial.Retain()
	return &Ref{RC: NewRC(), val: initial}
}

func (r *Ref) TypeName() string { return "Ref" }

func (r *Ref) Length() (int, bool) { return 1, true }

// Get returns the current value and its version counter (bumped on
// every Set), letting a caller detect whether the cell changed between
// two observations spanning a block boundary.
func (r *Ref) Get() (V, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.val, r.version
}

// Set installs a new value, retaining it and releasing the old one, and
// bumps the version counter.
func (r *Ref) Set(v V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.Retain()
	old := r.val
	r.val = v
	r.version++
	old.Release()
}

func (r *Ref) At(i int) (V, error) {
	if i != 0 {
		return V{}, outOfRange("at", i, 1)
	}
	v, _ := r.Get()
	return v, nil
}

func (r *Ref) WrapAt(i int) (V, error) { return r.At(0) }
func (r *Ref) ClipAt(i int) (V, error) { return r.At(0) }
func (r *Ref) FoldAt(i int) (V, error) { return r.At(0) }

// Deref follows through to the referenced value, not just the Ref
// wrapper itself — this is what distinguishes Ref from an ordinary
// object in multichannel expansion and printing.
func (r *Ref) Deref() V {
	v, _ := r.Get()
	return v.Deref()
}

// Chase is a no-op progress hook for plain Ref: unlike Plug, a Ref has
// no internal pull state to advance, only whatever Set last installed.
func (r *Ref) Chase(n int) error { return nil }

func (r *Ref) Print(w io.Writer, depth, length int) {
	v, _ := r.Get()
	fmt.Fprint(w, "&")
	v.Print(w, depth-1, length)
}

// ZRef is Ref's homogeneous-float counterpart, used for scalar feedback
// parameters inside signal graphs (e.g. a filter's feedback coefficient
// read back from its own output).
type ZRef struct {
	RC
	mu      sync.Mutex
	val     float64
	version uint64
}

func NewZRef(initial float64) *ZRef {
	return &ZRef{RC: NewRC(), val: initial}
}

func (r *ZRef) TypeName() string { return "ZRef" }
func (r *ZRef) Length() (int, bool) { return 1, true }

func (r *ZRef) Get() (float64, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.val, r.version
}

func (r *ZRef) Set(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.val = v
	r.version++
}

func (r *ZRef) At(i int) (V, error) {
	if i != 0 {
		return V{}, outOfRange("at", i, 1)
	}
	v, _ := r.Get()
	return Float(v), nil
}
func (r *ZRef) WrapAt(i int) (V, error) { return r.At(0) }
func (r *ZRef) ClipAt(i int) (V, error) { return r.At(0) }
func (r *ZRef) FoldAt(i int) (V, error) { return r.At(0) }
func (r *ZRef) Deref() V {
	v, _ := r.Get()
	return Float(v)
}
func (r *ZRef) Chase(n int) error { return nil }

func (r *ZRef) Print(w io.Writer, depth, length int) {
	v, _ := r.Get()
	fmt.Fprint(w, "&z", formatFloat(v))
}

// Plug is a pull-through indirection for a VGen-shaped feedback tap: it
// holds the most recent block pulled from the underlying generator and
// allows that generator's progress to be forced (Chase) independently
// of a consumer's own At/Pull calls. Consistency across concurrent
// observers is eventually-consistent across block boundaries: a Chase
// or Pull started mid-block may be observed by another reader only
// after that block completes, never a partial block (per the resolved
// Open Question on Plug/in-flight-pull consistency).
type Plug struct {
	RC
	mu     sync.Mutex
	source *VGen
}

func NewPlug(source *VGen) *Plug {
	source.Retain()
	return &Plug{RC: NewRC(), source: source}
}

func (p *Plug) TypeName() string { return "Plug" }

func (p *Plug) Length() (int, bool) { return p.source.Length() }

func (p *Plug) At(i int) (V, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source.At(i)
}
func (p *Plug) WrapAt(i int) (V, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source.WrapAt(i)
}
func (p *Plug) ClipAt(i int) (V, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source.ClipAt(i)
}
func (p *Plug) FoldAt(i int) (V, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source.FoldAt(i)
}
func (p *Plug) Deref() V { return Of(p) }

// Chase pulls n more items from the underlying generator without
// returning them, advancing shared progress for every other reader of
// this Plug.
func (p *Plug) Chase(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source.Pull(n)
	return nil
}

func (p *Plug) Print(w io.Writer, depth, length int) {
	fmt.Fprint(w, "%")
	p.source.Print(w, depth-1, length)
}

// ZPlug is Plug's homogeneous-float counterpart, wrapping a ZGen.
type ZPlug struct {
	RC
	mu     sync.Mutex
	source *ZGen
}

func NewZPlug(source *ZGen) *ZPlug {
	source.Retain()
	return &ZPlug{RC: NewRC(), source: source}
}

func (p *ZPlug) TypeName() string { return "ZPlug" }
func (p *ZPlug) Length() (int, bool) { return p.source.Length() }

func (p *ZPlug) At(i int) (V, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source.At(i)
}
func (p *ZPlug) WrapAt(i int) (V, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source.WrapAt(i)
}
func (p *ZPlug) ClipAt(i int) (V, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source.ClipAt(i)
}
func (p *ZPlug) FoldAt(i int) (V, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source.FoldAt(i)
}
func (p *ZPlug) Deref() V { return Of(p) }

func (p *ZPlug) Chase(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source.Pull(n)
	return nil
}

func (p *ZPlug) Print(w io.Writer, depth, length int) {
	fmt.Fprint(w, "%z")
	p.source.Print(w, depth-1, length)
}
