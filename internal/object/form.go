package object

import (
	"fmt"
	"io"
)

// TableMap is a plain, mutable symbol table: the simple case of SAPF's
// Table protocol, used for function-local variable frames where no
// prototype chain or persistent snapshotting is needed.
type TableMap struct {
	RC
	slots map[string]V
}

func NewTableMap() *TableMap {
	return &TableMap{RC: NewRC(), slots: make(map[string]V)}
}

func (t *TableMap) TypeName() string { return "Table" }

func (t *TableMap) Length() (int, bool) { return len(t.slots), true }

func (t *TableMap) Get(name string) (V, bool) {
	v, ok := t.slots[name]
	return v, ok
}

func (t *TableMap) Set(name string, v V) {
	v.Retain()
	if old, ok := t.slots[name]; ok {
		old.Release()
	}
	t.slots[name] = v
}

func (t *TableMap) At(i int) (V, error) { return V{}, errIndefinite("at") }
func (t *TableMap) WrapAt(i int) (V, error) { return V{}, errIndefinite("wrapAt") }
func (t *TableMap) ClipAt(i int) (V, error) { return V{}, errIndefinite("clipAt") }
func (t *TableMap) FoldAt(i int) (V, error) { return V{}, errIndefinite("foldAt") }
func (t *TableMap) Deref() V                { return Of(t) }

func (t *TableMap) Print(w io.Writer, depth, length int) {
	fmt.Fprintf(w, "<Table %d slots>", len(t.slots))
}

// Form is a prototype-inheriting record: field lookup walks Parent
// chains (C3-linearized when a Form has multiple parents) until a slot
// is found, matching SAPF's single-inheritance-in-practice Form/Table
// model described in the language's object system.
type Form struct {
	RC
	Own     *TableMap
	Parents []*Form // full ancestor resolution order, computed by linearize at construction
}

func NewForm(parents ...*Form) *Form {
	return &Form{RC: NewRC(), Own: NewTableMap(), Parents: linearize(parents)}
}

// linearize computes the method-resolution order over parents as the
// reverse post-order of a depth-first walk: every ancestor comes after
// all forms that inherit from it, each ancestor appears once, and the
// direct parents keep their declared order unless one is an ancestor of
// another. For a diamond (child of left and right, both over base) this
// gives left, right, base, the order a C3 merge gives. Unlike a C3
// merge, it never rejects an inconsistent hierarchy.
func linearize(parents []*Form) []*Form {
	seen := make(map[*Form]bool)
	var post []*Form
	var visit func(f *Form)
	visit = func(f *Form) {
		if f == nil || seen[f] {
			return
		}
		seen[f] = true
		for i := len(f.Parents) - 1; i >= 0; i-- {
			visit(f.Parents[i])
		}
		post = append(post, f)
	}
	for i := len(parents) - 1; i >= 0; i-- {
		visit(parents[i])
	}
	order := make([]*Form, len(post))
	for i, f := range post {
		order[len(post)-1-i] = f
	}
	return order
}

func (f *Form) TypeName() string { return "Form" }

func (f *Form) Length() (int, bool) { return f.Own.Length() }

// Get resolves name through own slots first, then walks the linearized
// Parents front-to-back, checking only each ancestor's own slots (Parents
// already lists every ancestor in resolution order).
func (f *Form) Get(name string) (V, bool) {
	if v, ok := f.Own.Get(name); ok {
		return v, true
	}
	for _, p := range f.Parents {
		if v, ok := p.Own.Get(name); ok {
			return v, true
		}
	}
	return V{}, false
}

func (f *Form) Set(name string, v V) { f.Own.Set(name, v) }

func (f *Form) At(i int) (V, error) { return V{}, errIndefinite("at") }
func (f *Form) WrapAt(i int) (V, error) { return V{}, errIndefinite("wrapAt") }
func (f *Form) ClipAt(i int) (V, error) { return V{}, errIndefinite("clipAt") }
func (f *Form) FoldAt(i int) (V, error) { return V{}, errIndefinite("foldAt") }
func (f *Form) Deref() V                { return Of(f) }

func (f *Form) Print(w io.Writer, depth, length int) {
	fmt.Fprintf(w, "<Form %d own slots, %d parents>", len(f.Own.slots), len(f.Parents))
}

// NoEachOps reports whether this Form was explicitly marked to opt out
// of multichannel lifting (e.g. a literal lookup table passed as a
// constant argument). Not inherited by any value derived from it.
func (f *Form) NoEachOps() bool {
	v, ok := f.Own.Get("__noEachOps")
	return ok && v.IsFloat() && v.Float64() != 0
}

// SetNoEachOps sets the opt-out flag explicitly on this Form. Per the
// resolved Open Question, computed results never inherit this flag —
// only a primitive that deliberately wants to protect one of its own
// outputs calls this.
func (f *Form) SetNoEachOps(on bool) {
	if on {
		f.Own.Set("__noEachOps", Float(1))
	} else {
		f.Own.Set("__noEachOps", Float(0))
	}
}
