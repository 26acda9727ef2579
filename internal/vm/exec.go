package vm

import (
	"io"

	"github.com/sapfsound/sapf/internal/automap"
	"github.com/sapfsound/sapf/internal/compiler"
	"github.com/sapfsound/sapf/internal/object"
	"github.com/sapfsound/sapf/internal/serr"
)

// markSentinel is the Object pushed by OpMark; OpMakeArray/OpMakeForm
// pop the stack back to the nearest one instead of needing a
// compile-time element count.
type markSentinel struct{ object.RC }

func (m *markSentinel) TypeName() string              { return "Mark" }
func (m *markSentinel) Length() (int, bool)            { return 0, true }
func (m *markSentinel) At(i int) (object.V, error)     { return object.V{}, serr.New(serr.Internal, "mark", "not indexable") }
func (m *markSentinel) WrapAt(i int) (object.V, error) { return m.At(i) }
func (m *markSentinel) ClipAt(i int) (object.V, error) { return m.At(i) }
func (m *markSentinel) FoldAt(i int) (object.V, error) { return m.At(i) }
func (m *markSentinel) Deref() object.V                { return object.Of(m) }
func (m *markSentinel) Print(w io.Writer, depth, length int) { io.WriteString(w, "#mark") }

func isMark(v object.V) bool {
	_, ok := v.Object().(*markSentinel)
	return ok
}

// fieldGetter is implemented by every field-bearing object value (Form,
// GForm, TableMap, GTable all already expose this shape).
type fieldGetter interface {
	Get(name string) (object.V, bool)
}

// Run executes a top-level Chunk (no enclosing locals or upvalues)
// against the Thread's shared stack.
func (t *Thread) Run(chunk *compiler.Chunk) error {
	return t.execFrame(chunk, nil, nil)
}

func (t *Thread) execFrame(chunk *compiler.Chunk, locals, upvalues []object.V) error {
	t.callDepth++
	defer func() { t.callDepth-- }()
	if t.callDepth > maxCallDepth {
		return serr.New(serr.StackOverflow, "call", "maximum call depth exceeded")
	}

	ip := 0
	code := chunk.Code
	for ip < len(code) {
		op := compiler.Opcode(code[ip])
		ip++
		switch op {
		case compiler.OpEnd, compiler.OpReturn:
			return nil

		case compiler.OpConstant:
			idx := chunk.ReadUint16(ip)
			ip += 2
			t.Push(chunk.Constants[idx])

		case compiler.OpPushLocal:
			idx := int(code[ip])
			ip++
			if idx >= len(locals) {
				return serr.New(serr.Internal, "push_local", "local slot out of range")
			}
			t.Push(locals[idx])

		case compiler.OpPushUpvalue:
			idx := int(code[ip])
			ip++
			if idx >= len(upvalues) {
				return serr.New(serr.Internal, "push_upvalue", "upvalue slot out of range")
			}
			t.Push(upvalues[idx])

		case compiler.OpPushWorkspace:
			idx := chunk.ReadUint16(ip)
			ip += 2
			sym, _ := chunk.Constants[idx].Object().(*object.Symbol)
			name := sym.Name
			v, ok := t.Lookup(name)
			if !ok {
				return serr.New(serr.NotFound, name, "undefined name")
			}
			if err := t.invokeIfCallable(v); err != nil {
				return err
			}

		case compiler.OpDotCall:
			idx := chunk.ReadUint16(ip)
			ip += 2
			sym, _ := chunk.Constants[idx].Object().(*object.Symbol)
			recv, err := t.Pop()
			if err != nil {
				return err
			}
			if err := t.dotCall(recv, sym.Name); err != nil {
				return err
			}

		case compiler.OpCommaFetch:
			idx := chunk.ReadUint16(ip)
			ip += 2
			sym, _ := chunk.Constants[idx].Object().(*object.Symbol)
			recv, err := t.Pop()
			if err != nil {
				return err
			}
			fg, ok := recv.Object().(fieldGetter)
			if !ok {
				return serr.New(serr.WrongType, sym.Name, "receiver has no fields")
			}
			v, ok := fg.Get(sym.Name)
			if !ok {
				return serr.New(serr.NotFound, sym.Name, "no such field")
			}
			t.Push(v)

		case compiler.OpDiscard:
			if _, err := t.Pop(); err != nil {
				return err
			}

		case compiler.OpMark:
			t.Push(object.Of(&markSentinel{RC: object.NewRC()}))

		case compiler.OpMakeArray:
			elems, err := t.collectSinceMark()
			if err != nil {
				return err
			}
			t.Push(object.Of(object.NewVArray(elems)))

		case compiler.OpMakeForm:
			elems, err := t.collectSinceMark()
			if err != nil {
				return err
			}
			if len(elems)%2 != 0 {
				return serr.New(serr.Syntax, "form", "form literal needs symbol/value pairs")
			}
			form := object.NewForm()
			for i := 0; i+1 < len(elems); i += 2 {
				sym, ok := elems[i].Object().(*object.Symbol)
				if !ok {
					return serr.New(serr.WrongType, "form", "form slot name must be a symbol")
				}
				form.Set(sym.Name, elems[i+1])
			}
			t.Push(object.Of(form))

		case compiler.OpMakeClosure:
			idx := chunk.ReadUint16(ip)
			ip += 2
			numUp := int(code[ip])
			ip++
			def, ok := compiler.UnboxFunDef(chunk.Constants[idx])
			if !ok {
				return serr.New(serr.Internal, "make_closure", "constant is not a FunDef")
			}
			captured := make([]object.V, numUp)
			for i := 0; i < numUp; i++ {
				fromLocal := code[ip] == 1
				ip++
				srcIdx := int(code[ip])
				ip++
				if fromLocal {
					captured[i] = locals[srcIdx]
				} else {
					captured[i] = upvalues[srcIdx]
				}
			}
			t.Push(object.Of(object.NewFun(def, captured)))

		case compiler.OpJump:
			off := chunk.ReadUint16(ip)
			ip += 2
			ip += off

		case compiler.OpJumpIfFalse:
			off := chunk.ReadUint16(ip)
			ip += 2
			cond, err := t.Pop()
			if err != nil {
				return err
			}
			if cond.IsFloat() && cond.Float64() == 0 {
				ip += off
			}

		default:
			return serr.Newf(serr.Internal, "exec", "unknown opcode %d", op)
		}
	}
	return nil
}

// collectSinceMark pops values back to (and including) the nearest
// markSentinel, returning them in original push order.
func (t *Thread) collectSinceMark() ([]object.V, error) {
	for i := len(t.Stack) - 1; i >= 0; i-- {
		if isMark(t.Stack[i]) {
			elems := make([]object.V, len(t.Stack)-i-1)
			copy(elems, t.Stack[i+1:])
			t.Stack = t.Stack[:i]
			return elems, nil
		}
	}
	return nil, serr.New(serr.Internal, "collect", "no matching mark on stack")
}

// invokeIfCallable runs v if it's a Fun or Prim (the concatenative
// "bare word executes" convention), consuming its declared arity from
// the stack and pushing its results; otherwise it just pushes v as data.
func (t *Thread) invokeIfCallable(v object.V) error {
	switch obj := v.Object().(type) {
	case *object.Prim:
		return t.callPrim(obj)
	case *object.Fun:
		return t.callFun(obj)
	default:
		t.Push(v)
		return nil
	}
}

func (t *Thread) callPrim(p *object.Prim) error {
	if p.Effect.Takes == object.VariadicTakes {
		results, err := p.Impl(t, nil)
		if err != nil {
			return err
		}
		for _, r := range results {
			t.Push(r)
		}
		return nil
	}
	args, err := t.PopN(p.Effect.Takes)
	if err != nil {
		return err
	}
	results, err := invokePrim(t, p, args)
	if err != nil {
		return err
	}
	for _, r := range results {
		t.Push(r)
	}
	return nil
}

// invokePrim runs p against args, routing through automap.ApplyMasked
// first when p declares a non-empty Mask — the general lifting path any
// primitive can opt into — and calling p.Impl directly otherwise.
func invokePrim(c object.Caller, p *object.Prim, args []object.V) ([]object.V, error) {
	if p.Mask == "" {
		return p.Impl(c, args)
	}
	r, err := automap.ApplyMasked(p.Mask, func(leaves []object.V) (object.V, error) {
		results, err := p.Impl(c, leaves)
		if err != nil {
			return object.V{}, err
		}
		if len(results) != 1 {
			return object.V{}, serr.Newf(serr.Internal, p.Name, "automapped primitive must leave exactly 1 result, left %d", len(results))
		}
		return results[0], nil
	}, args)
	if err != nil {
		return nil, err
	}
	return []object.V{r}, nil
}

func (t *Thread) callFun(f *object.Fun) error {
	args, err := t.PopN(f.Def.NumArgs)
	if err != nil {
		return err
	}
	return t.runFun(f, args)
}

func (t *Thread) runFun(f *object.Fun, args []object.V) error {
	proto, ok := f.Def.Code.(*compiler.FuncProto)
	if !ok {
		return serr.New(serr.Internal, f.Def.Name, "function has no compiled body")
	}
	locals := make([]object.V, f.Def.NumArgs+f.Def.NumLocal)
	copy(locals, args)
	return t.execFrame(proto.Chunk, locals, f.Upvalues)
}

// dotCall implements the .name receiver-method convention: if the
// receiver has a field by that name and it is callable, it is invoked
// with the receiver as its implicit first argument; otherwise the field
// value itself is pushed, same as comma-fetch.
func (t *Thread) dotCall(recv object.V, name string) error {
	fg, ok := recv.Object().(fieldGetter)
	if !ok {
		return serr.New(serr.WrongType, name, "receiver has no fields")
	}
	v, ok := fg.Get(name)
	if !ok {
		return serr.New(serr.NotFound, name, "no such method/field")
	}
	switch obj := v.Object().(type) {
	case *object.Prim:
		rest, err := popRest(t, obj.Effect.Takes-1)
		if err != nil {
			return err
		}
		args := append([]object.V{recv}, rest...)
		results, err := invokePrim(t, obj, args)
		if err != nil {
			return err
		}
		for _, r := range results {
			t.Push(r)
		}
		return nil
	case *object.Fun:
		rest, err := popRest(t, obj.Def.NumArgs-1)
		if err != nil {
			return err
		}
		args := append([]object.V{recv}, rest...)
		return t.runFun(obj, args)
	default:
		t.Push(v)
		return nil
	}
}

// popRest pops the n operands a dot-call still needs beyond its implicit
// receiver, surfacing the stack's own underflow error rather than
// silently truncating args short of the callee's declared arity.
func popRest(t *Thread, n int) ([]object.V, error) {
	if n <= 0 {
		return nil, nil
	}
	return t.PopN(n)
}

// Call implements object.Caller for builtins that need to invoke a
// first-class function value directly (apply, each, and similar
// higher-order primitives), without going through the bare-word
// auto-invoke path.
func (t *Thread) Call(fun object.V, args []object.V) ([]object.V, error) {
	before := len(t.Stack)
	for _, a := range args {
		t.Push(a)
	}
	switch obj := fun.Object().(type) {
	case *object.Prim:
		if err := t.callPrim(obj); err != nil {
			return nil, err
		}
	case *object.Fun:
		popped, err := t.PopN(obj.Def.NumArgs)
		if err != nil {
			return nil, err
		}
		if err := t.runFun(obj, popped); err != nil {
			return nil, err
		}
	default:
		return nil, serr.New(serr.WrongType, "call", "value is not callable")
	}
	results := make([]object.V, len(t.Stack)-before)
	copy(results, t.Stack[before:])
	t.Stack = t.Stack[:before]
	return results, nil
}
