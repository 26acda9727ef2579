// Package genlib implements SAPF's concrete built-in generators: the
// arithmetic/geometric series family, ramp generators, list-shape
// operators (cyc, reverse, cat, pack/unpack), reduce/scan folds, and a
// noise source used as an ambient test signal. Each generator is
// grounded on the corresponding C++ Gen subclass in the original
// implementation's StreamOps.cpp.
package genlib

import "github.com/sapfsound/sapf/internal/object"

// byzSource produces an unbounded arithmetic series: start, start+step,
// start+2*step, ... It never ends (spec's "indefinite" Gen case).
type byzSource struct {
	next float64
	step float64
}

func (s *byzSource) FillZ(buf []float64, n int) ([]float64, bool) {
	for i := 0; i < n; i++ {
		buf = append(buf, s.next)
		s.next += s.step
	}
	return buf, false
}

// Byz returns an unbounded arithmetic-series signal: start, start+step, ...
func Byz(start, step float64) *object.ZGen {
	return object.NewZGen(&byzSource{next: start, step: step})
}

// nbyzSource produces exactly n terms of an arithmetic series, then ends.
// Grounded on the original NByz::pull, which requests exactly
// min(remaining, blockSize) items per call rather than a full block
// followed by a post hoc shrink.
type nbyzSource struct {
	next      float64
	step      float64
	remaining int
}

func (s *nbyzSource) FillZ(buf []float64, n int) ([]float64, bool) {
	if s.remaining <= 0 {
		return buf, true
	}
	take := n
	if take > s.remaining {
		take = s.remaining
	}
	for i := 0; i < take; i++ {
		buf = append(buf, s.next)
		s.next += s.step
	}
	s.remaining -= take
	return buf, s.remaining <= 0
}

// NByz returns exactly n terms of an arithmetic series starting at start
// with increment step. Stack-call convention (see internal/vm/builtins.go): the
// primitive pops step, then start, then n, matching the original's
// nbyz_() argument order — "10 1 1 nbyz" yields n=10, start=1, step=1:
// the integers 1..10.
func NByz(n int, start, step float64) *object.ZGen {
	return object.NewZGen(&nbyzSource{next: start, step: step, remaining: n})
}

// growzSource produces an unbounded geometric series: start, start*grow,
// start*grow^2, ...
type growzSource struct {
	next float64
	grow float64
}

func (s *growzSource) FillZ(buf []float64, n int) ([]float64, bool) {
	for i := 0; i < n; i++ {
		buf = append(buf, s.next)
		s.next *= s.grow
	}
	return buf, false
}

// Growz returns an unbounded geometric-series signal.
func Growz(start, grow float64) *object.ZGen {
	return object.NewZGen(&growzSource{next: start, grow: grow})
}

type ngrowzSource struct {
	next      float64
	grow      float64
	remaining int
}

func (s *ngrowzSource) FillZ(buf []float64, n int) ([]float64, bool) {
	if s.remaining <= 0 {
		return buf, true
	}
	take := n
	if take > s.remaining {
		take = s.remaining
	}
	for i := 0; i < take; i++ {
		buf = append(buf, s.next)
		s.next *= s.grow
	}
	s.remaining -= take
	return buf, s.remaining <= 0
}

// NGrowz returns exactly n terms of a geometric series starting at start
// with ratio grow. Same pop order convention as NByz: step(grow), start, n.
func NGrowz(n int, start, grow float64) *object.ZGen {
	return object.NewZGen(&ngrowzSource{next: start, grow: grow, remaining: n})
}
