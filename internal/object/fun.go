package object

import (
	"fmt"
	"io"
)

// Takes/Leaves describe a primitive's declared stack effect. The vm pops
// Takes operands before calling a Prim; neither the compiler nor the vm
// checks Leaves.
type StackEffect struct {
	Takes  int
	Leaves int
}

// FunDef is the compiled body shared by every closure instance of a
// user-defined function: its code is opaque to package object (it is
// whatever the vm/compiler packages produce) and is carried as an `any`
// to avoid an import cycle between object and compiler.
type FunDef struct {
	RC
	Name     string
	NumArgs  int
	NumLocal int
	Code     any // *compiler.FuncProto, set by the compiler
}

func NewFunDef(name string, numArgs, numLocal int) *FunDef {
	return &FunDef{RC: NewRC(), Name: name, NumArgs: numArgs, NumLocal: numLocal}
}

// Fun is a closure: a FunDef plus the captured upvalue environment it
// needs at call time (captured local slots from enclosing scopes).
type Fun struct {
	RC
	Def      *FunDef
	Upvalues []V
}

func NewFun(def *FunDef, upvalues []V) *Fun {
	for _, u := range upvalues {
		u.Retain()
	}
	def.Retain()
	return &Fun{RC: NewRC(), Def: def, Upvalues: upvalues}
}

func (f *Fun) TypeName() string { return "Function" }

func (f *Fun) Length() (int, bool) { return 0, true }

func (f *Fun) At(i int) (V, error)     { return V{}, errIndefinite("at") }
func (f *Fun) WrapAt(i int) (V, error) { return V{}, errIndefinite("wrapAt") }
func (f *Fun) ClipAt(i int) (V, error) { return V{}, errIndefinite("clipAt") }
func (f *Fun) FoldAt(i int) (V, error) { return V{}, errIndefinite("foldAt") }
func (f *Fun) Deref() V                { return Of(f) }

func (f *Fun) Print(w io.Writer, depth, length int) {
	fmt.Fprintf(w, "<Function %s/%d>", f.Def.Name, f.Def.NumArgs)
}

// Caller lets a primitive invoke a first-class Fun value, and reach the
// shared data stack directly for variable-arity builtins (apply, each),
// without package object depending on package vm: internal/vm.Thread
// implements this interface and is passed to every PrimFunc call.
type Caller interface {
	// Call invokes fun (a *Fun or *Prim) with args, returning its results.
	Call(fun V, args []V) ([]V, error)
	// Pop/PopN/Push give a variadic-arity primitive direct stack access
	// when its own declared stack effect (Prim.Effect) can't express its
	// shape statically.
	Pop() (V, error)
	PopN(n int) ([]V, error)
	Push(v V)
	// Define binds name in the workspace (the "def" primitive).
	Define(name string, v V)
}

// VariadicTakes is the sentinel StackEffect.Takes value a Prim uses to
// declare "I manage my own operands via Caller" instead of a fixed arity.
const VariadicTakes = -1

// PrimFunc is a builtin's Go implementation: pop its declared number of
// args off the stack (already done by the caller), push its results.
type PrimFunc func(c Caller, args []V) ([]V, error)

// Prim is a built-in primitive: a name, its stack effect, a Help
// one-liner (ambient documentation — there is no full help registry in
// this repo), its Go implementation, and an optional automap Mask.
//
// Mask is the declarative multichannel-expansion hook: when non-empty,
// it names (one byte per argument) which operands the vm's call
// dispatch should lift element-wise before invoking Impl, and which to
// pass through whole. An empty Mask means Impl handles its own operands
// exactly as given — the right choice for primitives automap doesn't
// apply to at all (def, dup, play, ...). This is what lets a new
// primitive opt into automap by declaring a mask, rather than automap
// being hand-written into each op's Impl.
type Prim struct {
	RC
	Name   string
	Effect StackEffect
	Help   string
	Impl   PrimFunc
	Mask   string
}

func NewPrim(name string, takes, leaves int, help string, impl PrimFunc) *Prim {
	return &Prim{RC: NewRC(), Name: name, Effect: StackEffect{Takes: takes, Leaves: leaves}, Help: help, Impl: impl}
}

// NewAutomapPrim is NewPrim plus a Mask, for a primitive that wants the
// vm's call dispatch to lift its masked arguments via automap before
// Impl ever runs — Impl sees one element per lifted argument and each
// 'a' (as-is) argument whole.
func NewAutomapPrim(name, mask string, leaves int, help string, impl PrimFunc) *Prim {
	return &Prim{RC: NewRC(), Name: name, Effect: StackEffect{Takes: len(mask), Leaves: leaves}, Help: help, Impl: impl, Mask: mask}
}

func (p *Prim) TypeName() string { return "Primitive" }

func (p *Prim) Length() (int, bool) { return 0, true }

func (p *Prim) At(i int) (V, error)     { return V{}, errIndefinite("at") }
func (p *Prim) WrapAt(i int) (V, error) { return V{}, errIndefinite("wrapAt") }
func (p *Prim) ClipAt(i int) (V, error) { return V{}, errIndefinite("clipAt") }
func (p *Prim) FoldAt(i int) (V, error) { return V{}, errIndefinite("foldAt") }
func (p *Prim) Deref() V                { return Of(p) }

func (p *Prim) Print(w io.Writer, depth, length int) {
	fmt.Fprintf(w, "<Primitive %s>", p.Name)
}
