// Package serr implements SAPF's closed error-kind taxonomy.
package serr

import "fmt"

// Kind is one of the closed set of error kinds a SAPF operation can raise.
type Kind int

const (
	Halt Kind = iota
	Failed
	Indefinite
	WrongType
	OutOfRange
	Syntax
	Internal
	WrongState
	NotFound
	StackUnderflow
	StackOverflow
	InconsistentInheritance
	UndefinedOperation
	UserQuit
)

func (k Kind) String() string {
	switch k {
	case Halt:
		return "halt"
	case Failed:
		return "failed"
	case Indefinite:
		return "indefinite"
	case WrongType:
		return "wrong_type"
	case OutOfRange:
		return "out_of_range"
	case Syntax:
		return "syntax"
	case Internal:
		return "internal"
	case WrongState:
		return "wrong_state"
	case NotFound:
		return "not_found"
	case StackUnderflow:
		return "stack_underflow"
	case StackOverflow:
		return "stack_overflow"
	case InconsistentInheritance:
		return "inconsistent_inheritance"
	case UndefinedOperation:
		return "undefined_operation"
	case UserQuit:
		return "user_quit"
	default:
		return "unknown"
	}
}

// Error is a SAPF diagnostic: a kind, the offending operator or primitive
// name, and a free-form reason. Formats as "kind: op arg - why", leaving
// out empty parts, with any wrapped error appended in parentheses.
type Error struct {
	Kind Kind
	Op   string
	Arg  string
	Why  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Op != "" {
		s += ": " + e.Op
	}
	if e.Arg != "" {
		s += " " + e.Arg
	}
	if e.Why != "" {
		s += " - " + e.Why
	}
	if e.Err != nil {
		s += fmt.Sprintf(" (%v)", e.Err)
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error for the given kind.
func New(kind Kind, op, why string) *Error {
	return &Error{Kind: kind, Op: op, Why: why}
}

// Newf builds an *Error with a formatted reason.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Why: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying error to a new SAPF error of the given kind.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	se, ok := err.(*Error)
	return ok && se.Kind == kind
}
