// Package vm executes compiled Chunks against a single shared data
// stack: the concatenative-language convention where calling a function
// is simply "run its body against the same stack the caller was using",
// with no separate per-call results-collection step. Thread is the
// analogue of the teacher's VM+CallFrame pair, generalized to SAPF's
// simpler parser-less bytecode and its Rate (sample-rate/block-size)
// execution context.
package vm

import (
	"io"

	"github.com/sapfsound/sapf/internal/audio"
	"github.com/sapfsound/sapf/internal/object"
	"github.com/sapfsound/sapf/internal/serr"
)

// Rate carries the audio context a running program executes under:
// sample rate and block-scheduling granularity, consulted by generators
// like xline that need to convert a duration in seconds to a sample
// count.
type Rate struct {
	SampleRate float64
	BlockSize  int
}

// Thread is one SAPF execution context: its data stack, its mutable
// workspace (global name bindings), and the Rate it runs under. A REPL
// keeps one long-lived Thread across lines so top-level definitions
// persist.
type Thread struct {
	Stack     []object.V
	Workspace *object.GForm
	Builtins  map[string]object.V
	Rate      Rate
	Driver    *audio.Driver

	// callDepth guards against runaway recursion from a user program
	// with no base case, mirroring the original's explicit stack_overflow
	// error kind.
	callDepth int
}

const maxCallDepth = 4096

// New returns a Thread with an empty stack, a fresh workspace layered
// over builtins, and the given audio rate context. The thread owns one
// audio.Driver for the lifetime of the process, the way the teacher's
// interpreter owns one connection pool rather than dialing per call.
func New(rate Rate) *Thread {
	t := &Thread{
		Workspace: object.NewGForm(),
		Builtins:  make(map[string]object.V),
		Rate:      rate,
		Driver:    audio.NewDriver(rate.SampleRate, rate.BlockSize),
	}
	RegisterBuiltins(t)
	return t
}

// Push appends v to the top of the data stack.
func (t *Thread) Push(v object.V) {
	v.Retain()
	t.Stack = append(t.Stack, v)
}

// Pop removes and returns the top of the data stack.
func (t *Thread) Pop() (object.V, error) {
	if len(t.Stack) == 0 {
		return object.V{}, serr.New(serr.StackUnderflow, "pop", "stack is empty")
	}
	v := t.Stack[len(t.Stack)-1]
	t.Stack = t.Stack[:len(t.Stack)-1]
	return v, nil
}

// PopN removes and returns the top n values in push order (oldest of
// the n first), i.e. the natural left-to-right argument order for a
// primitive declared to take n operands.
func (t *Thread) PopN(n int) ([]object.V, error) {
	if len(t.Stack) < n {
		return nil, serr.Newf(serr.StackUnderflow, "pop", "need %d values, have %d", n, len(t.Stack))
	}
	out := make([]object.V, n)
	copy(out, t.Stack[len(t.Stack)-n:])
	t.Stack = t.Stack[:len(t.Stack)-n]
	return out, nil
}

// Lookup resolves name: workspace first (so a user redefinition shadows
// a builtin of the same name), then the fixed builtin table.
func (t *Thread) Lookup(name string) (object.V, bool) {
	if v, ok := t.Workspace.Get(name); ok {
		return v, true
	}
	if v, ok := t.Builtins[name]; ok {
		return v, true
	}
	return object.V{}, false
}

// Define binds name in the workspace, publishing a new GForm snapshot —
// this is what lets a live audio callback keep using the workspace
// version it captured even while the REPL thread defines new names.
func (t *Thread) Define(name string, v object.V) {
	t.Workspace = t.Workspace.With(name, v)
}

// WriteStack prints the current data stack (top last), for the REPL.
func (t *Thread) WriteStack(w io.Writer, depth, length int) {
	for i, v := range t.Stack {
		if i > 0 {
			io.WriteString(w, " ")
		}
		v.Print(w, depth, length)
	}
}
