// Package pipeline centralizes the lex -> compile -> execute sequence
// used by prelude/file loading, as a small ordered
// stage list — the same shape as the teacher's generic Pipeline/
// Processor pair, specialized to SAPF's single PipelineContext shape.
package pipeline

import (
	"github.com/sapfsound/sapf/internal/compiler"
	"github.com/sapfsound/sapf/internal/vm"
)

// PipelineContext carries one source unit (a REPL line or a line from a
// loaded file) through compilation and execution, accumulating
// diagnostics rather than aborting after the first error — a loaded
// source file keeps processing its remaining lines the same way the
// teacher's LSP pipeline needs both parse and semantic errors from a
// single pass.
type PipelineContext struct {
	Source      string
	Line        int
	Chunk       *compiler.Chunk
	Err         error
	Diagnostics []string
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline, continuing on errors so later stages can
// still collect their own diagnostics.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

// CompileStage compiles ctx.Source into ctx.Chunk.
type CompileStage struct{}

func (CompileStage) Process(ctx *PipelineContext) *PipelineContext {
	chunk, err := compiler.Compile(ctx.Source)
	if err != nil {
		ctx.Err = err
		ctx.Diagnostics = append(ctx.Diagnostics, "compile: "+err.Error())
		return ctx
	}
	ctx.Chunk = chunk
	return ctx
}

// ExecStage runs ctx.Chunk against Thread, skipping if an earlier stage
// already failed.
type ExecStage struct {
	Thread *vm.Thread
}

func (s ExecStage) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Err != nil || ctx.Chunk == nil {
		return ctx
	}
	if err := s.Thread.Run(ctx.Chunk); err != nil {
		ctx.Err = err
		ctx.Diagnostics = append(ctx.Diagnostics, "exec: "+err.Error())
	}
	return ctx
}

// LoadSource runs every line of src through compile+exec in order,
// collecting (not aborting on) per-line errors, for loading a prelude
// file via SAPF_PRELUDE.
func LoadSource(th *vm.Thread, lines []string) []*PipelineContext {
	p := New(CompileStage{}, ExecStage{Thread: th})
	results := make([]*PipelineContext, len(lines))
	for i, line := range lines {
		results[i] = p.Run(&PipelineContext{Source: line, Line: i + 1})
	}
	return results
}
