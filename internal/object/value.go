package object

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// V is SAPF's universal stack value: either an unboxed float64 (obj ==
// nil) or an owning handle to a heap Object. There is no separate tag
// enum — boxed-ness is discriminated structurally by whether obj is nil.
type V struct {
	f   float64
	obj Object
}

// Float constructs an unboxed float value.
func Float(f float64) V { return V{f: f} }

// Of boxes obj into a V, retaining one reference on the caller's behalf.
// Of(nil) panics: a nil Object is a programming error, never a valid V.
func Of(obj Object) V {
	if obj == nil {
		panic("object.Of: nil Object")
	}
	return V{obj: obj}
}

// IsFloat reports whether v holds an unboxed float rather than an Object.
func (v V) IsFloat() bool { return v.obj == nil }

// IsObject reports whether v holds a boxed Object.
func (v V) IsObject() bool { return v.obj != nil }

// Float64 returns the unboxed float value. Calling it on a boxed V
// returns 0; callers should check IsFloat first.
func (v V) Float64() float64 { return v.f }

// Object returns the boxed Object, or nil if v is an unboxed float.
func (v V) Object() Object { return v.obj }

// Retain increments the refcount of a boxed value; a no-op for floats.
func (v V) Retain() {
	if v.obj != nil {
		v.obj.Retain()
	}
}

// Release decrements the refcount of a boxed value; a no-op for floats.
func (v V) Release() {
	if v.obj != nil {
		v.obj.Release()
	}
}

// TypeName reports "float" for unboxed values, else the Object's own
// TypeName.
func (v V) TypeName() string {
	if v.obj == nil {
		return "float"
	}
	return v.obj.TypeName()
}

// Deref follows a Ref/Plug indirection to its current value; for
// anything else (including floats) it returns v unchanged.
func (v V) Deref() V {
	if v.obj == nil {
		return v
	}
	return v.obj.Deref()
}

// Length reports the element count of a boxed sequence value, or (1,
// true) for a scalar float, matching the convention that a float behaves
// like a length-1 constant stream under multichannel expansion.
func (v V) Length() (int, bool) {
	if v.obj == nil {
		return 1, true
	}
	return v.obj.Length()
}

// At indexes v; scalars only answer to index 0.
func (v V) At(i int) (V, error) {
	if v.obj == nil {
		if i == 0 {
			return v, nil
		}
		return V{}, outOfRange("at", i, 1)
	}
	return v.obj.At(i)
}

func (v V) WrapAt(i int) (V, error) {
	if v.obj == nil {
		return v, nil
	}
	return v.obj.WrapAt(i)
}

func (v V) ClipAt(i int) (V, error) {
	if v.obj == nil {
		return v, nil
	}
	return v.obj.ClipAt(i)
}

func (v V) FoldAt(i int) (V, error) {
	if v.obj == nil {
		return v, nil
	}
	return v.obj.FoldAt(i)
}

// Chase forces n steps of progress on a feedback-capable value without
// consuming it; a no-op for anything that doesn't implement Chaseable.
func (v V) Chase(n int) error {
	if v.obj == nil {
		return nil
	}
	if c, ok := v.obj.(Chaseable); ok {
		return c.Chase(n)
	}
	return nil
}

// NoEachOps reports whether v has been explicitly flagged to opt out of
// multichannel automap lifting. Never inherited by values computed from
// v — see the automap package doc for the rationale.
func (v V) NoEachOps() bool {
	if v.obj == nil {
		return false
	}
	if f, ok := v.obj.(NoEachOpsFlagged); ok {
		return f.NoEachOps()
	}
	return false
}

// Print writes a human-readable form of v to w.
func (v V) Print(w io.Writer, depth, length int) {
	if v.obj == nil {
		fmt.Fprint(w, formatFloat(v.f))
		return
	}
	v.obj.Print(w, depth, length)
}

// String renders v via Print into a string, for logging and tests.
func (v V) String() string {
	var sb strings.Builder
	v.Print(&sb, 8, 64)
	return sb.String()
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) && f < 1e15 && f > -1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
