package object

import (
	"fmt"
	"hash/fnv"
	"io"
	"math/bits"
)

// GTable is a persistent, bitmap-indexed hash trie (HAMT), grounded on
// the same structure-sharing design as a persistent map: every Set
// returns a new root sharing all untouched branches with the original,
// which is what lets the REPL hand a live snapshot of the workspace to
// the real-time audio thread without a lock. 32-way branching (5 bits of
// hash consumed per trie level).
type GTable struct {
	RC
	root *gnode
	size int
}

const gtableBits = 5
const gtableWidth = 1 << gtableBits // 32
const gtableMask = gtableWidth - 1

type gnode struct {
	bitmap   uint32
	children []gchild // sorted by the bit each occupies in bitmap
}

type gchild struct {
	key   string
	value V
	sub   *gnode // non-nil if this slot is itself a subtree (hash collision descent)
}

// NewGTable returns an empty persistent table.
func NewGTable() *GTable {
	return &GTable{RC: NewRC(), root: &gnode{}}
}

func (t *GTable) TypeName() string { return "GTable" }

func (t *GTable) Length() (int, bool) { return t.size, true }

func hashKey(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

// Get looks up key, returning (value, true) if present.
func (t *GTable) Get(key string) (V, bool) {
	return t.root.get(hashKey(key), key, 0)
}

func (n *gnode) get(hash uint32, key string, shift uint) (V, bool) {
	bit := uint32(1) << ((hash >> shift) & gtableMask)
	if n.bitmap&bit == 0 {
		return V{}, false
	}
	idx := bits.OnesCount32(n.bitmap & (bit - 1))
	c := n.children[idx]
	if c.sub != nil {
		return c.sub.get(hash, key, shift+gtableBits)
	}
	if c.key == key {
		return c.value, true
	}
	return V{}, false
}

// Set returns a NEW GTable with key bound to v, sharing every untouched
// branch with the receiver. The receiver is left unmodified.
func (t *GTable) Set(key string, v V) *GTable {
	v.Retain()
	newRoot, grew := t.root.set(hashKey(key), key, v, 0)
	size := t.size
	if grew {
		size++
	}
	nt := &GTable{RC: NewRC(), root: newRoot, size: size}
	return nt
}

func (n *gnode) set(hash uint32, key string, v V, shift uint) (*gnode, bool) {
	bit := uint32(1) << ((hash >> shift) & gtableMask)
	idx := bits.OnesCount32(n.bitmap & (bit - 1))

	if n.bitmap&bit == 0 {
		children := make([]gchild, len(n.children)+1)
		copy(children, n.children[:idx])
		children[idx] = gchild{key: key, value: v}
		copy(children[idx+1:], n.children[idx:])
		return &gnode{bitmap: n.bitmap | bit, children: children}, true
	}

	existing := n.children[idx]
	children := make([]gchild, len(n.children))
	copy(children, n.children)

	switch {
	case existing.sub != nil:
		sub, grew := existing.sub.set(hash, key, v, shift+gtableBits)
		children[idx] = gchild{sub: sub}
		return &gnode{bitmap: n.bitmap, children: children}, grew
	case existing.key == key:
		children[idx] = gchild{key: key, value: v}
		return &gnode{bitmap: n.bitmap, children: children}, false
	default:
		// Collision at this level: push both down into a fresh subtree.
		sub := &gnode{}
		sub, _ = sub.set(hashKey(existing.key), existing.key, existing.value, shift+gtableBits)
		sub, _ = sub.set(hash, key, v, shift+gtableBits)
		children[idx] = gchild{sub: sub}
		return &gnode{bitmap: n.bitmap, children: children}, true
	}
}

// Delete returns a new GTable with key removed, if present.
func (t *GTable) Delete(key string) *GTable {
	newRoot, removed := t.root.delete(hashKey(key), key, 0)
	if !removed {
		return t
	}
	return &GTable{RC: NewRC(), root: newRoot, size: t.size - 1}
}

func (n *gnode) delete(hash uint32, key string, shift uint) (*gnode, bool) {
	bit := uint32(1) << ((hash >> shift) & gtableMask)
	if n.bitmap&bit == 0 {
		return n, false
	}
	idx := bits.OnesCount32(n.bitmap & (bit - 1))
	existing := n.children[idx]

	if existing.sub != nil {
		sub, removed := existing.sub.delete(hash, key, shift+gtableBits)
		if !removed {
			return n, false
		}
		children := make([]gchild, len(n.children))
		copy(children, n.children)
		children[idx] = gchild{sub: sub}
		return &gnode{bitmap: n.bitmap, children: children}, true
	}
	if existing.key != key {
		return n, false
	}
	children := make([]gchild, len(n.children)-1)
	copy(children, n.children[:idx])
	copy(children[idx:], n.children[idx+1:])
	return &gnode{bitmap: n.bitmap &^ bit, children: children}, true
}

func (t *GTable) At(i int) (V, error)     { return V{}, errIndefinite("at") }
func (t *GTable) WrapAt(i int) (V, error) { return V{}, errIndefinite("wrapAt") }
func (t *GTable) ClipAt(i int) (V, error) { return V{}, errIndefinite("clipAt") }
func (t *GTable) FoldAt(i int) (V, error) { return V{}, errIndefinite("foldAt") }
func (t *GTable) Deref() V                { return Of(t) }

func (t *GTable) Print(w io.Writer, depth, length int) {
	fmt.Fprintf(w, "<GTable %d slots>", t.size)
}

// GForm layers Form-style prototype inheritance on top of a persistent
// GTable: the mutable global workspace uses this so the REPL can publish
// a new workspace snapshot after every top-level definition without
// invalidating a snapshot already captured by a running audio callback.
type GForm struct {
	RC
	Own     *GTable
	Parents []*GForm
}

func NewGForm(parents ...*GForm) *GForm {
	return &GForm{RC: NewRC(), Own: NewGTable(), Parents: parents}
}

func (f *GForm) TypeName() string { return "GForm" }

func (f *GForm) Length() (int, bool) { return f.Own.Length() }

func (f *GForm) Get(name string) (V, bool) {
	if v, ok := f.Own.Get(name); ok {
		return v, true
	}
	for _, p := range f.Parents {
		if v, ok := p.Get(name); ok {
			return v, true
		}
	}
	return V{}, false
}

// With returns a new GForm with name bound to v in its own table,
// sharing Parents and every untouched GTable branch with the receiver.
func (f *GForm) With(name string, v V) *GForm {
	return &GForm{RC: NewRC(), Own: f.Own.Set(name, v), Parents: f.Parents}
}

func (f *GForm) At(i int) (V, error)     { return V{}, errIndefinite("at") }
func (f *GForm) WrapAt(i int) (V, error) { return V{}, errIndefinite("wrapAt") }
func (f *GForm) ClipAt(i int) (V, error) { return V{}, errIndefinite("clipAt") }
func (f *GForm) FoldAt(i int) (V, error) { return V{}, errIndefinite("foldAt") }
func (f *GForm) Deref() V                { return Of(f) }

func (f *GForm) Print(w io.Writer, depth, length int) {
	fmt.Fprintf(w, "<GForm %d own slots, %d parents>", f.Own.size, len(f.Parents))
}
