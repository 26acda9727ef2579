// Package compiler turns a token stream into Chunk bytecode for
// internal/vm to execute: a flat byte-code array plus a constants pool
// and per-instruction line/column tables, in the teacher's
// Crafting-Interpreters-style bytecode idiom (internal/vm/chunk.go).
package compiler

import "github.com/sapfsound/sapf/internal/object"

// Chunk is a unit of compiled code: one per top-level REPL line and one
// per lambda literal, exactly as the teacher's Chunk/CompiledFunction
// split models top-level code vs. function bodies.
type Chunk struct {
	Code      []byte
	Constants []object.V
	Lines     []int
	Columns   []int
}

// Write appends one opcode/operand byte, recording its source position.
func (c *Chunk) Write(b byte, line, col int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	c.Columns = append(c.Columns, col)
}

// AddConstant interns v into the constants pool and returns its index.
func (c *Chunk) AddConstant(v object.V) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// WriteUint16 appends a two-byte big-endian operand (jump offsets and
// constant indices beyond 256 entries).
func (c *Chunk) WriteUint16(n int, line, col int) {
	c.Write(byte(n>>8), line, col)
	c.Write(byte(n), line, col)
}

// ReadUint16 decodes a two-byte big-endian operand starting at ip.
func (c *Chunk) ReadUint16(ip int) int {
	return int(c.Code[ip])<<8 | int(c.Code[ip+1])
}
