// Package jerrors defines the error kinds the JAS engine raises and the
// backtrace machinery the evaluator attaches to them on the way out.
package jerrors

import "fmt"

// Kind identifies which of the engine's error categories a Error belongs to.
type Kind int

const (
	// SyntaxErrorKind marks a translation-time failure: unknown specifier,
	// malformed operator arity, invalid variable name, missing required key.
	SyntaxErrorKind Kind = iota
	// EvaluationErrorKind marks a run-time failure with no specific operand:
	// unknown variable, cyclic reference, out-of-range index.
	EvaluationErrorKind
	// TypeErrorKind marks an operator or function applied to the wrong
	// category of value.
	TypeErrorKind
	// InvalidArgumentKind marks a module function called with the wrong
	// argument shape.
	InvalidArgumentKind
	// OutOfRangeKind marks a strict dict/list lookup for a missing key or
	// index.
	OutOfRangeKind
	// FunctionNotFoundKind marks dispatch to a name no module, context, or
	// macro claims.
	FunctionNotFoundKind
)

func (k Kind) String() string {
	switch k {
	case SyntaxErrorKind:
		return "syntax-error"
	case EvaluationErrorKind:
		return "evaluation-error"
	case TypeErrorKind:
		return "type-error"
	case InvalidArgumentKind:
		return "invalid-argument"
	case OutOfRangeKind:
		return "out-of-range"
	case FunctionNotFoundKind:
		return "function-not-found"
	default:
		return "unknown-error"
	}
}

// Error is the single error hierarchy every engine failure propagates
// through, per spec.md §7: one kind, one message payload.
type Error struct {
	Kind    Kind
	Message string
	// Wrapped, when set, is the lower-level error this one wraps (e.g. a
	// JSON decode error surfaced as a SyntaxError).
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Syntax builds a SyntaxErrorKind error.
func Syntax(format string, args ...any) *Error { return newf(SyntaxErrorKind, format, args...) }

// Evaluation builds an EvaluationErrorKind error.
func Evaluation(format string, args ...any) *Error {
	return newf(EvaluationErrorKind, format, args...)
}

// Type builds a TypeErrorKind error.
func Type(format string, args ...any) *Error { return newf(TypeErrorKind, format, args...) }

// InvalidArgument builds an InvalidArgumentKind error.
func InvalidArgument(format string, args ...any) *Error {
	return newf(InvalidArgumentKind, format, args...)
}

// OutOfRange builds an OutOfRangeKind error.
func OutOfRange(format string, args ...any) *Error { return newf(OutOfRangeKind, format, args...) }

// FunctionNotFound builds a FunctionNotFoundKind error.
func FunctionNotFound(format string, args ...any) *Error {
	return newf(FunctionNotFoundKind, format, args...)
}

// Is reports whether err carries the given Kind, unwrapping StackUnwind
// wrappers along the way.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		if su, ok := err.(*StackUnwind); ok {
			err = su.Cause
			continue
		}
		return false
	}
	return false
}
