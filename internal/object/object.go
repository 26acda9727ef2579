// Package object implements SAPF's tagged-value model: V is either an
// unboxed float64 or an owning handle to a heap Object, discriminated
// structurally (a non-nil handle means "boxed"), never by a separate tag
// enum. Heap objects are intrusively reference-counted; see RC.
package object

import (
	"io"

	"github.com/sapfsound/sapf/internal/serr"
)

// Object is the common interface every heap-allocated SAPF value
// implements: lists, arrays, forms, functions, refs, strings.
type Object interface {
	// TypeName names the dynamic type for error messages and `typeOf`.
	TypeName() string

	// Retain/Release manage the intrusive reference count.
	Retain()
	Release() bool

	// Length reports the object's element count and whether that count
	// is known (false for an indefinite/unbounded stream).
	Length() (n int, known bool)

	// At indexes the object with no wraparound; out-of-range is an error.
	At(i int) (V, error)

	// WrapAt, ClipAt, FoldAt apply the three indefinite-index policies:
	// modulo wraparound, clamping to range, and triangular reflection.
	WrapAt(i int) (V, error)
	ClipAt(i int) (V, error)
	FoldAt(i int) (V, error)

	// Deref returns the current value behind a Ref/Plug indirection, or
	// the receiver itself wrapped in a V for ordinary objects.
	Deref() V

	// Print writes a human-readable representation to w, bounded by
	// depth (nesting) and length (element count) caps.
	Print(w io.Writer, depth, length int)
}

// BinaryOpable is implemented by objects that define a dispatch-time
// binary operator directly (Forms overriding arithmetic, mostly). Most
// binary ops are instead lowered generically by package mathops.
type BinaryOpable interface {
	BinaryOp(op string, other V) (V, error)
}

// UnaryOpable mirrors BinaryOpable for unary operators.
type UnaryOpable interface {
	UnaryOp(op string) (V, error)
}

// Chaseable is implemented by objects that can be driven forward without
// consuming their result, such as a feedback Ref used in a delay line.
type Chaseable interface {
	Chase(n int) error
}

// NoEachOpsFlagged is implemented by objects that opt out of multichannel
// automap lifting for their own value (not inherited by values computed
// from them — see automap package doc).
type NoEachOpsFlagged interface {
	NoEachOps() bool
}

// indexPolicy formulas shared by Array and ZArray.

// wrapIndex implements modulo wraparound indexing over [0, n).
func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

// clipIndex clamps i into [0, n).
func clipIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// foldIndex reflects i triangularly across [0, n), period 2(n-1), matching
// the original implementation's Array::foldAt.
func foldIndex(i, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2 * (n - 1)
	m := i % period
	if m < 0 {
		m += period
	}
	if m >= n {
		m = period - m
	}
	return m
}

func outOfRange(op string, i, n int) error {
	return serr.Newf(serr.OutOfRange, op, "index %d out of range [0,%d)", i, n)
}

// errIndefinite reports that op was asked to perform a wraparound-style
// index policy on a stream whose length is not yet (and may never be)
// known.
func errIndefinite(op string) error {
	return serr.New(serr.Indefinite, op, "length is not yet known")
}
