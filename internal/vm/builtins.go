package vm

import (
	"github.com/sapfsound/sapf/internal/audio"
	"github.com/sapfsound/sapf/internal/genlib"
	"github.com/sapfsound/sapf/internal/mathops"
	"github.com/sapfsound/sapf/internal/object"
	"github.com/sapfsound/sapf/internal/serr"
)

// RegisterBuiltins populates t.Builtins with the fixed primitive set:
// stack shuffling words, arithmetic/comparison operators (lowered
// through mathops/automap), the concrete generator family, and the
// workspace-definition word "def". Each is a *object.Prim so that a
// bare reference to its name auto-invokes per the concatenative
// convention implemented in exec.go.
func RegisterBuiltins(t *Thread) {
	def := func(name string, takes, leaves int, help string, impl object.PrimFunc) {
		t.Builtins[name] = object.Of(object.NewPrim(name, takes, leaves, help, impl))
	}
	// defAM registers a primitive through the general automap dispatch:
	// mask is one byte per argument ('a' = passed through whole, any
	// other byte = lifted element-wise by the vm's call dispatch before
	// impl ever runs), the mechanism behind the original's defautomap
	// table (e.g. "ak" for keep/"N>": the list argument raw, the count
	// argument automapped).
	defAM := func(name, mask string, leaves int, help string, impl object.PrimFunc) {
		t.Builtins[name] = object.Of(object.NewAutomapPrim(name, mask, leaves, help, impl))
	}

	def("dup", 1, 2, "( a -- a a ) duplicate the top of stack", func(c object.Caller, a []object.V) ([]object.V, error) {
		return []object.V{a[0], a[0]}, nil
	})
	def("drop", 1, 0, "( a -- ) discard the top of stack", func(c object.Caller, a []object.V) ([]object.V, error) {
		return nil, nil
	})
	def("swap", 2, 2, "( a b -- b a ) swap the top two stack items", func(c object.Caller, a []object.V) ([]object.V, error) {
		return []object.V{a[1], a[0]}, nil
	})
	def("over", 2, 3, "( a b -- a b a ) copy the second item to the top", func(c object.Caller, a []object.V) ([]object.V, error) {
		return []object.V{a[0], a[1], a[0]}, nil
	})

	for _, name := range []string{"+", "-", "*", "/", "mod", "pow", "min", "max", "==", "!=", "<", "<=", ">", ">="} {
		op := name
		def(op, 2, 1, "( a b -- r ) binary operator "+op+", automapped over list operands", func(c object.Caller, a []object.V) ([]object.V, error) {
			r, err := mathops.Binary(op, a[0], a[1])
			if err != nil {
				return nil, err
			}
			return []object.V{r}, nil
		})
	}
	for _, name := range []string{"neg", "abs", "sqrt", "sin", "cos", "tan", "exp", "log", "floor", "ceil", "recip"} {
		op := name
		def(op, 1, 1, "( a -- r ) unary operator "+op+", automapped over a list operand", func(c object.Caller, a []object.V) ([]object.V, error) {
			r, err := mathops.Unary(op, a[0])
			if err != nil {
				return nil, err
			}
			return []object.V{r}, nil
		})
	}

	def("def", 2, 0, "( value name -- ) bind name (a symbol) to value in the workspace", func(c object.Caller, a []object.V) ([]object.V, error) {
		sym, ok := a[1].Object().(*object.Symbol)
		if !ok {
			return nil, serr.New(serr.WrongType, "def", "name must be a symbol")
		}
		c.Define(sym.Name, a[0])
		return nil, nil
	})

	def("nbyz", 3, 1, "( n start step -- sig ) n samples of an arithmetic series", func(c object.Caller, a []object.V) ([]object.V, error) {
		n := int(a[0].Float64())
		start := a[1].Float64()
		step := a[2].Float64()
		return []object.V{object.Of(genlib.NByz(n, start, step))}, nil
	})
	def("byz", 2, 1, "( start step -- sig ) unbounded arithmetic series", func(c object.Caller, a []object.V) ([]object.V, error) {
		return []object.V{object.Of(genlib.Byz(a[0].Float64(), a[1].Float64()))}, nil
	})
	def("ngrowz", 3, 1, "( n start grow -- sig ) n samples of a geometric series", func(c object.Caller, a []object.V) ([]object.V, error) {
		n := int(a[0].Float64())
		return []object.V{object.Of(genlib.NGrowz(n, a[1].Float64(), a[2].Float64()))}, nil
	})
	def("growz", 2, 1, "( start grow -- sig ) unbounded geometric series", func(c object.Caller, a []object.V) ([]object.V, error) {
		return []object.V{object.Of(genlib.Growz(a[0].Float64(), a[1].Float64()))}, nil
	})
	def("xline", 3, 1, "( dur start end -- sig ) exponential ramp, dur in seconds at the thread's sample rate", func(c object.Caller, a []object.V) ([]object.V, error) {
		th := c.(*Thread)
		return []object.V{object.Of(genlib.XLine(th.Rate.SampleRate, a[0].Float64(), a[1].Float64(), a[2].Float64()))}, nil
	})
	def("line", 3, 1, "( dur start end -- sig ) linear ramp, dur in seconds at the thread's sample rate", func(c object.Caller, a []object.V) ([]object.V, error) {
		th := c.(*Thread)
		return []object.V{object.Of(genlib.Line(th.Rate.SampleRate, a[0].Float64(), a[1].Float64(), a[2].Float64()))}, nil
	})
	def("noise", 1, 1, "( seed -- sig ) unbounded white noise in [-1,1)", func(c object.Caller, a []object.V) ([]object.V, error) {
		return []object.V{object.Of(genlib.Noise(int64(a[0].Float64())))}, nil
	})

	def("cyc", 1, 1, "( arr -- list ) cycle an array's elements forever", func(c object.Caller, a []object.V) ([]object.V, error) {
		arr, err := asVArray(a[0])
		if err != nil {
			return nil, err
		}
		return []object.V{object.Of(genlib.Cyc(arr.Elems))}, nil
	})
	def("ncyc", 2, 1, "( arr n -- list ) cycle an array's elements for exactly n items", func(c object.Caller, a []object.V) ([]object.V, error) {
		arr, err := asVArray(a[0])
		if err != nil {
			return nil, err
		}
		return []object.V{object.Of(genlib.NCyc(arr.Elems, int(a[1].Float64())))}, nil
	})
	def("N", 2, 1, "( list n -- arr ) materialize exactly n items from a list", func(c object.Caller, a []object.V) ([]object.V, error) {
		g, ok := a[0].Object().(*object.VGen)
		if !ok {
			return nil, serr.New(serr.WrongType, "N", "expects a list")
		}
		arr, err := genlib.Take(g, int(a[1].Float64()))
		if err != nil {
			return nil, err
		}
		return []object.V{object.Of(arr)}, nil
	})
	defAM("keep", "ak", 1, "( list n -- arr ) keep the first n items of list; n automaps over a list of counts", func(c object.Caller, a []object.V) ([]object.V, error) {
		arr, err := asVArray(a[0])
		if err != nil {
			return nil, err
		}
		n := int(a[1].Float64())
		if n < 0 {
			n = 0
		}
		if n > len(arr.Elems) {
			n = len(arr.Elems)
		}
		out := make([]object.V, n)
		copy(out, arr.Elems[:n])
		return []object.V{object.Of(object.NewVArray(out))}, nil
	})

	def("reverse", 1, 1, "( arr -- arr' ) reverse a finite array", func(c object.Caller, a []object.V) ([]object.V, error) {
		if za, ok := a[0].Object().(*object.ZArray); ok {
			return []object.V{object.Of(genlib.ReverseZ(za))}, nil
		}
		arr, err := asVArray(a[0])
		if err != nil {
			return nil, err
		}
		return []object.V{object.Of(genlib.Reverse(arr))}, nil
	})

	def("cat", 2, 1, "( list1 list2 -- list ) concatenate two lists lazily", func(c object.Caller, a []object.V) ([]object.V, error) {
		g1, ok1 := a[0].Object().(*object.VGen)
		g2, ok2 := a[1].Object().(*object.VGen)
		if !ok1 || !ok2 {
			return nil, serr.New(serr.WrongType, "cat", "both operands must be lists")
		}
		return []object.V{object.Of(genlib.Cat(g1, g2))}, nil
	})
	def("pack", object.VariadicTakes, 1, "( ...chans n -- arr ) interleave n equal-length channels into one array", func(c object.Caller, _ []object.V) ([]object.V, error) {
		nv, err := c.Pop()
		if err != nil {
			return nil, err
		}
		n := int(nv.Float64())
		args, err := c.PopN(n)
		if err != nil {
			return nil, err
		}
		channels := make([][]float64, n)
		for i, v := range args {
			za, err := asZArray(v)
			if err != nil {
				return nil, err
			}
			channels[i] = za.Samples
		}
		return []object.V{object.Of(object.NewZArray(genlib.Pack(channels)))}, nil
	})
	def("unpack", 2, object.VariadicTakes, "( arr n -- chan0 .. chanN-1 ) de-interleave one array into n channels", func(c object.Caller, a []object.V) ([]object.V, error) {
		za, err := asZArray(a[0])
		if err != nil {
			return nil, err
		}
		n := int(a[1].Float64())
		chans := genlib.Unpack(za.Samples, n)
		out := make([]object.V, n)
		for i, ch := range chans {
			out[i] = object.Of(object.NewZArray(ch))
		}
		return out, nil
	})

	def("reduce", 3, 1, "( sig init 'op -- r ) fold a signal to a single value with the named binary operator", func(c object.Caller, a []object.V) ([]object.V, error) {
		g, ok := a[0].Object().(*object.ZGen)
		if !ok {
			return nil, serr.New(serr.WrongType, "reduce", "expects a signal")
		}
		op, err := opSymbolName(a[2])
		if err != nil {
			return nil, err
		}
		r, err := mathops.ReduceNamed(op, g, a[1].Float64())
		if err != nil {
			return nil, err
		}
		return []object.V{object.Float(r)}, nil
	})
	def("scan", 3, 1, "( sig init 'op -- sig' ) running fold of a signal with the named binary operator", func(c object.Caller, a []object.V) ([]object.V, error) {
		g, ok := a[0].Object().(*object.ZGen)
		if !ok {
			return nil, serr.New(serr.WrongType, "scan", "expects a signal")
		}
		op, err := opSymbolName(a[2])
		if err != nil {
			return nil, err
		}
		r, err := mathops.ScanNamed(op, g, a[1].Float64())
		if err != nil {
			return nil, err
		}
		return []object.V{object.Of(r)}, nil
	})

	def("wrapAt", 2, 1, "( coll i -- v ) index with wraparound", func(c object.Caller, a []object.V) ([]object.V, error) {
		return indexedOp(a, (object.V).WrapAt)
	})
	def("clipAt", 2, 1, "( coll i -- v ) index clamped to the collection's bounds", func(c object.Caller, a []object.V) ([]object.V, error) {
		return indexedOp(a, (object.V).ClipAt)
	})
	def("foldAt", 2, 1, "( coll i -- v ) index reflected back and forth across the bounds", func(c object.Caller, a []object.V) ([]object.V, error) {
		return indexedOp(a, (object.V).FoldAt)
	})
	def("chase", 2, 0, "( ref n -- ) pull a Ref/Plug's upstream source forward by n items", func(c object.Caller, a []object.V) ([]object.V, error) {
		return nil, a[0].Chase(int(a[1].Float64()))
	})

	def("ref", 1, 1, "( v -- ref ) wrap v in a mutable single-value cell for a feedback graph", func(c object.Caller, a []object.V) ([]object.V, error) {
		return []object.V{object.Of(object.NewRef(a[0]))}, nil
	})
	def("zref", 1, 1, "( x -- zref ) wrap a scalar in a mutable feedback cell", func(c object.Caller, a []object.V) ([]object.V, error) {
		return []object.V{object.Of(object.NewZRef(a[0].Float64()))}, nil
	})
	def("set", 2, 0, "( ref v -- ) install v as a Ref/ZRef's current value", func(c object.Caller, a []object.V) ([]object.V, error) {
		switch r := a[0].Object().(type) {
		case *object.Ref:
			r.Set(a[1])
		case *object.ZRef:
			r.Set(a[1].Float64())
		default:
			return nil, serr.New(serr.WrongType, "set", "expects a Ref or ZRef")
		}
		return nil, nil
	})
	def("plug", 1, 1, "( list -- plug ) wrap a list behind a shared pull cursor for a feedback graph", func(c object.Caller, a []object.V) ([]object.V, error) {
		g, ok := a[0].Object().(*object.VGen)
		if !ok {
			return nil, serr.New(serr.WrongType, "plug", "expects a list")
		}
		return []object.V{object.Of(object.NewPlug(g))}, nil
	})
	def("zplug", 1, 1, "( sig -- zplug ) wrap a signal behind a shared pull cursor for a feedback graph", func(c object.Caller, a []object.V) ([]object.V, error) {
		g, ok := a[0].Object().(*object.ZGen)
		if !ok {
			return nil, serr.New(serr.WrongType, "zplug", "expects a signal")
		}
		return []object.V{object.Of(object.NewZPlug(g))}, nil
	})

	def("play", 1, 1, "( sig -- id ) start playing a single-channel signal, returning its sink id", func(c object.Caller, a []object.V) ([]object.V, error) {
		g, ok := a[0].Object().(*object.ZGen)
		if !ok {
			return nil, serr.New(serr.WrongType, "play", "expects a signal")
		}
		th := c.(*Thread)
		id := th.Driver.Play(audio.NewSink(audio.MonoMode, []*object.ZGen{g}))
		return []object.V{object.Of(object.NewSymbol(id.String()))}, nil
	})
	def("playn", 1, 1, "( arr -- id ) start playing an array of signals as independent full channels", func(c object.Caller, a []object.V) ([]object.V, error) {
		arr, err := asVArray(a[0])
		if err != nil {
			return nil, err
		}
		gens := make([]*object.ZGen, len(arr.Elems))
		for i, v := range arr.Elems {
			g, ok := v.Object().(*object.ZGen)
			if !ok {
				return nil, serr.New(serr.WrongType, "playn", "every element must be a signal")
			}
			gens[i] = g
		}
		th := c.(*Thread)
		id := th.Driver.Play(audio.NewSink(audio.FullMode, gens))
		return []object.V{object.Of(object.NewSymbol(id.String()))}, nil
	})
	def("stop", 1, 0, "( id -- ) stop a playing sink by the id play/playn returned", func(c object.Caller, a []object.V) ([]object.V, error) {
		sym, ok := a[0].Object().(*object.Symbol)
		if !ok {
			return nil, serr.New(serr.WrongType, "stop", "expects a sink id symbol")
		}
		th := c.(*Thread)
		for _, s := range th.Driver.Sinks() {
			if s.ID.String() == sym.Name {
				s.Stop()
			}
		}
		th.Driver.Sweep()
		return nil, nil
	})
	def("sinks", 0, 1, "( -- arr ) list the ids of currently live sinks", func(c object.Caller, _ []object.V) ([]object.V, error) {
		th := c.(*Thread)
		live := th.Driver.Sinks()
		ids := make([]object.V, len(live))
		for i, s := range live {
			ids[i] = object.Of(object.NewSymbol(s.ID.String()))
		}
		return []object.V{object.Of(object.NewVArray(ids))}, nil
	})

	def("apply", object.VariadicTakes, 0, "( ...args fn -- ...results ) call a function value with args already on the stack", func(c object.Caller, _ []object.V) ([]object.V, error) {
		fn, err := c.Pop()
		if err != nil {
			return nil, err
		}
		arity := 0
		switch obj := fn.Object().(type) {
		case *object.Fun:
			arity = obj.Def.NumArgs
		case *object.Prim:
			arity = obj.Effect.Takes
		default:
			return nil, serr.New(serr.WrongType, "apply", "value is not callable")
		}
		args, err := c.PopN(arity)
		if err != nil {
			return nil, err
		}
		return c.Call(fn, args)
	})
}

func asVArray(v object.V) (*object.VArray, error) {
	if arr, ok := v.Object().(*object.VArray); ok {
		return arr, nil
	}
	if g, ok := v.Object().(*object.VGen); ok {
		return g.ToVArray()
	}
	return nil, serr.New(serr.WrongType, "array", "expected an array or list")
}

func opSymbolName(v object.V) (string, error) {
	sym, ok := v.Object().(*object.Symbol)
	if !ok {
		return "", serr.New(serr.WrongType, "reduce/scan", "operator must be a symbol, e.g. '+")
	}
	return sym.Name, nil
}

func asZArray(v object.V) (*object.ZArray, error) {
	if za, ok := v.Object().(*object.ZArray); ok {
		return za, nil
	}
	if g, ok := v.Object().(*object.ZGen); ok {
		return g.ToZArray()
	}
	return nil, serr.New(serr.WrongType, "signal", "expected a signal or array of samples")
}

// indexedOp shares the stack-argument plumbing for the three bounds
// disciplines (wrap/clip/fold) that every indexable Object implements.
func indexedOp(a []object.V, op func(object.V, int) (object.V, error)) ([]object.V, error) {
	r, err := op(a[0], int(a[1].Float64()))
	if err != nil {
		return nil, err
	}
	return []object.V{r}, nil
}
