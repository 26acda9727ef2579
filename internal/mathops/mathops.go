// Package mathops lowers SAPF's arithmetic and comparison operators onto
// scalars, lists, and mixed scalar/list operands via package automap,
// and implements the reduce/scan streaming fold protocol described by
// the original BinaryOp::reduce/scan.
package mathops

import (
	"math"

	"github.com/sapfsound/sapf/internal/automap"
	"github.com/sapfsound/sapf/internal/object"
	"github.com/sapfsound/sapf/internal/serr"
)

// BinaryFn is a named binary scalar operator.
type BinaryFn func(a, b float64) float64

// UnaryFn is a named unary scalar operator.
type UnaryFn func(a float64) float64

var binaryOps = map[string]BinaryFn{
	"+":   func(a, b float64) float64 { return a + b },
	"-":   func(a, b float64) float64 { return a - b },
	"*":   func(a, b float64) float64 { return a * b },
	"/":   func(a, b float64) float64 { return a / b },
	"mod": math.Mod,
	"pow": math.Pow,
	"min": math.Min,
	"max": math.Max,
	"==":  boolOp(func(a, b float64) bool { return a == b }),
	"!=":  boolOp(func(a, b float64) bool { return a != b }),
	"<":   boolOp(func(a, b float64) bool { return a < b }),
	"<=":  boolOp(func(a, b float64) bool { return a <= b }),
	">":   boolOp(func(a, b float64) bool { return a > b }),
	">=":  boolOp(func(a, b float64) bool { return a >= b }),
}

var unaryOps = map[string]UnaryFn{
	"neg":   func(a float64) float64 { return -a },
	"abs":   math.Abs,
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"log":   math.Log,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"recip": func(a float64) float64 { return 1 / a },
}

func boolOp(pred func(a, b float64) bool) BinaryFn {
	return func(a, b float64) float64 {
		if pred(a, b) {
			return 1
		}
		return 0
	}
}

// Binary applies the named binary operator to a and b, automapping over
// any list-shaped operand.
func Binary(name string, a, b object.V) (object.V, error) {
	fn, ok := binaryOps[name]
	if !ok {
		return object.V{}, serr.New(serr.UndefinedOperation, name, "no such binary operator")
	}
	return automap.Apply(func(xs []float64) float64 { return fn(xs[0], xs[1]) }, []object.V{a, b})
}

// Unary applies the named unary operator to a, automapping if a is
// list-shaped.
func Unary(name string, a object.V) (object.V, error) {
	fn, ok := unaryOps[name]
	if !ok {
		return object.V{}, serr.New(serr.UndefinedOperation, name, "no such unary operator")
	}
	return automap.Apply(func(xs []float64) float64 { return fn(xs[0]) }, []object.V{a})
}

// HasBinary reports whether name names a known binary operator.
func HasBinary(name string) bool { _, ok := binaryOps[name]; return ok }

// HasUnary reports whether name names a known unary operator.
func HasUnary(name string) bool { _, ok := unaryOps[name]; return ok }
